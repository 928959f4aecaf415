/*
Copyright © 2023 the Swath authors.
This file is part of Swath.

Swath is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Swath is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Swath.  If not, see <http://www.gnu.org/licenses/>.
*/

package swath

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// A KeyKind identifies which of the address grammar's forms a parsed
// key matched.
type KeyKind int

const (
	// KindVariable addresses a variable by its slash-delimited path,
	// e.g. "group/subgroup/var".
	KindVariable KeyKind = iota
	// KindGlobalAttr addresses a root-level attribute, e.g.
	// "/attr/platform_short_name".
	KindGlobalAttr
	// KindVariableAttr addresses an attribute of a variable, e.g.
	// "group/var/attr/units".
	KindVariableAttr
	// KindShape addresses the dimension sizes of a variable, e.g.
	// "group/var/shape". Deprecated form, still honored.
	KindShape
)

// Key is an address parsed into one of the four grammar forms.
type Key struct {
	Kind KeyKind
	Var  string // variable path; empty for root attributes
	Attr string // attribute name; empty unless Kind is an attribute form
}

const (
	attrMarker  = "/attr/"
	shapeSuffix = "/shape"
	dtypeSuffix = "/dtype"
)

// ParseKey parses a flat string address into a tagged Key.
//
// The grammar is checked in precedence order: an address containing
// "/attr/" is an attribute lookup, split on the first occurrence of the
// marker (so "var/attr/shape" addresses attribute "shape" of "var",
// never a shape query); otherwise an address ending in "/shape" is a
// shape query; otherwise the whole address is a variable path. A
// root-level attribute is addressed by an empty variable part, i.e. the
// address starts with "/attr/".
//
// Attribute names containing the literal substring "/attr/" are not
// supported.
func ParseKey(address string) (Key, error) {
	if address == "" {
		return Key{}, &MalformedAddressError{Address: address, Reason: "empty address"}
	}
	if i := strings.Index(address, attrMarker); i >= 0 {
		varPart := address[:i]
		attrName := address[i+len(attrMarker):]
		if attrName == "" {
			return Key{}, &MalformedAddressError{Address: address, Reason: "missing attribute name"}
		}
		if varPart == "" {
			return Key{Kind: KindGlobalAttr, Attr: attrName}, nil
		}
		return Key{Kind: KindVariableAttr, Var: varPart, Attr: attrName}, nil
	}
	if strings.HasSuffix(address, shapeSuffix) {
		varPart := strings.TrimSuffix(address, shapeSuffix)
		if varPart == "" {
			return Key{}, &MalformedAddressError{Address: address, Reason: "missing variable path"}
		}
		return Key{Kind: KindShape, Var: varPart}, nil
	}
	if strings.HasSuffix(address, dtypeSuffix) {
		// The var/dtype form was retired: it never returned anything
		// useful, and element types are erased by the array model.
		return Key{}, &MalformedAddressError{Address: address,
			Reason: "the var/dtype address form is no longer supported"}
	}
	return Key{Kind: KindVariable, Var: address}, nil
}

// Resolver translates flat string addresses into values inside a
// Container. It holds a non-owning reference to the container and
// performs no I/O of its own; each resolution is a pure function of
// (container, address).
type Resolver struct {
	c Container

	// Log receives deprecation and read-failure notices. It defaults to
	// logrus.StandardLogger().
	Log logrus.FieldLogger

	ioOnce sync.Once
}

// NewResolver creates a Resolver over the given container. The
// container's lifetime is owned by the caller; the resolver must not
// outlive it.
func NewResolver(c Container) *Resolver {
	return &Resolver{c: c, Log: logrus.StandardLogger()}
}

// Resolve resolves an address into exactly one of: a global attribute
// value, a variable's attribute value, a variable's dimension sizes
// ([]int), or the variable itself (*Variable).
//
// Missing variables are reported as *VariableNotFoundError and missing
// attributes as *AttributeNotFoundError. Underlying read failures
// propagate as *ContainerIOError.
func (r *Resolver) Resolve(address string) (interface{}, error) {
	key, err := ParseKey(address)
	if err != nil {
		return nil, err
	}
	switch key.Kind {
	case KindGlobalAttr:
		val, err := r.c.GlobalAttribute(key.Attr)
		if err != nil {
			return nil, r.noteIO(err)
		}
		return val, nil
	case KindVariableAttr:
		val, err := r.c.VariableAttribute(key.Var, key.Attr)
		if err != nil {
			return nil, r.noteIO(err)
		}
		return val, nil
	case KindShape:
		r.Log.Warnf("swath: deprecated use of %q: address the variable and call Shape instead", address)
		v, err := r.c.Variable(key.Var)
		if err != nil {
			return nil, r.noteIO(err)
		}
		return v.Shape(), nil
	default:
		v, err := r.c.Variable(key.Var)
		if err != nil {
			return nil, r.noteIO(err)
		}
		return v, nil
	}
}

// Contains reports whether the address names an existing variable path.
// It never returns an error: attribute and shape addresses, malformed
// addresses, and missing paths all answer false.
func (r *Resolver) Contains(address string) bool {
	key, err := ParseKey(address)
	if err != nil || key.Kind != KindVariable {
		return false
	}
	return r.c.Has(key.Var)
}

// ResolveOrDefault resolves the address, substituting def if the
// variable path does not exist. Missing attributes are still errors;
// only missing variables are defaulted.
func (r *Resolver) ResolveOrDefault(address string, def interface{}) (interface{}, error) {
	val, err := r.Resolve(address)
	var nf *VariableNotFoundError
	if errors.As(err, &nf) {
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// noteIO logs the first container read failure seen by this resolver.
func (r *Resolver) noteIO(err error) error {
	var ioErr *ContainerIOError
	if errors.As(err, &ioErr) {
		r.ioOnce.Do(func() {
			r.Log.WithError(ioErr.Err).Errorf("swath: container read failed at %q; file may be corrupted", ioErr.Path)
		})
	}
	return err
}
