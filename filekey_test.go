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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		address string
		want    Key
		wantErr bool
	}{
		{address: "var_name", want: Key{Kind: KindVariable, Var: "var_name"}},
		{address: "group/subgroup/var_name", want: Key{Kind: KindVariable, Var: "group/subgroup/var_name"}},
		{address: "/attr/platform_short_name", want: Key{Kind: KindGlobalAttr, Attr: "platform_short_name"}},
		{address: "group/var/attr/units", want: Key{Kind: KindVariableAttr, Var: "group/var", Attr: "units"}},
		{address: "group/var/shape", want: Key{Kind: KindShape, Var: "group/var"}},
		// An address containing /attr/ takes precedence over one
		// ending in /shape.
		{address: "var/attr/shape", want: Key{Kind: KindVariableAttr, Var: "var", Attr: "shape"}},
		// The split happens on the first occurrence of /attr/ only.
		{address: "a/attr/b", want: Key{Kind: KindVariableAttr, Var: "a", Attr: "b"}},
		{address: "a/attr/b/attr/c", want: Key{Kind: KindVariableAttr, Var: "a", Attr: "b/attr/c"}},
		// A non-empty prefix before /attr/ is a variable path even if
		// it contains further slashes.
		{address: "g1/g2/var/attr/x", want: Key{Kind: KindVariableAttr, Var: "g1/g2/var", Attr: "x"}},
		{address: "", wantErr: true},
		{address: "/attr/", wantErr: true},
		{address: "/shape", wantErr: true},
		{address: "var/dtype", wantErr: true},
	}
	for _, test := range tests {
		got, err := ParseKey(test.address)
		if test.wantErr {
			var malformed *MalformedAddressError
			if !errors.As(err, &malformed) {
				t.Errorf("ParseKey(%q): expected MalformedAddressError, got %v", test.address, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKey(%q): %v", test.address, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseKey(%q) = %+v; want %+v", test.address, got, test.want)
		}
	}
}

// testContainer builds an in-memory container mimicking the content of
// a small grouped product file.
func testContainer() *MemContainer {
	c := NewMemContainer()
	c.GlobalAttrs["platform_short_name"] = "PRISMA"
	c.GlobalAttrs["orbit_number"] = []int32{12345}

	sst := sparse.ZerosDense(2, 3)
	for i := range sst.Elements {
		sst.Elements[i] = float64(i)
	}
	c.AddVariable("group/sst", &Variable{
		Name: "group/sst",
		Dims: []string{"y", "x"},
		Data: sst,
		Attrs: map[string]interface{}{
			"units":        "K",
			"scale_factor": 0.01,
		},
	})
	c.AddVariable("a", &Variable{
		Name:  "a",
		Dims:  []string{"x"},
		Data:  sparse.ZerosDense(4),
		Attrs: map[string]interface{}{"b": "value of b"},
	})
	return c
}

func TestResolveVariable(t *testing.T) {
	c := testContainer()
	r := NewResolver(c)

	val, err := r.Resolve("group/sst")
	if err != nil {
		t.Fatal(err)
	}
	v, ok := val.(*Variable)
	if !ok {
		t.Fatalf("expected *Variable, got %T", val)
	}
	direct, err := c.Variable("group/sst")
	if err != nil {
		t.Fatal(err)
	}
	if v != direct {
		t.Error("resolved variable is not the container's variable")
	}
	if !reflect.DeepEqual(v.Attrs, direct.Attrs) {
		t.Errorf("attrs = %v; want %v", v.Attrs, direct.Attrs)
	}

	if _, err := r.Resolve("missing/path"); err == nil {
		t.Error("expected an error for a missing variable")
	} else {
		var nf *VariableNotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("expected VariableNotFoundError, got %v", err)
		}
	}
}

func TestResolveGlobalAttr(t *testing.T) {
	r := NewResolver(testContainer())

	val, err := r.Resolve("/attr/platform_short_name")
	if err != nil {
		t.Fatal(err)
	}
	if val != "PRISMA" {
		t.Errorf("got %v; want PRISMA", val)
	}

	_, err = r.Resolve("/attr/no_such_attr")
	var nf *AttributeNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected AttributeNotFoundError, got %v", err)
	}
}

func TestResolveVariableAttr(t *testing.T) {
	c := testContainer()
	r := NewResolver(c)

	val, err := r.Resolve("group/sst/attr/units")
	if err != nil {
		t.Fatal(err)
	}
	direct, err := c.VariableAttribute("group/sst", "units")
	if err != nil {
		t.Fatal(err)
	}
	if val != direct {
		t.Errorf("got %v; want %v", val, direct)
	}

	// Attribute of a missing variable.
	_, err = r.Resolve("missing/attr/units")
	var nf *VariableNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected VariableNotFoundError, got %v", err)
	}

	// Missing attribute of an existing variable.
	_, err = r.Resolve("group/sst/attr/no_such_attr")
	var af *AttributeNotFoundError
	if !errors.As(err, &af) {
		t.Errorf("expected AttributeNotFoundError, got %v", err)
	}
}

func TestResolveShape(t *testing.T) {
	r := NewResolver(testContainer())

	val, err := r.Resolve("group/sst/shape")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(val, []int{2, 3}) {
		t.Errorf("got %v; want [2 3]", val)
	}
}

func TestResolvePrecedence(t *testing.T) {
	// "a/attr/b" must be parsed as attribute "b" of variable "a", never
	// as variable path "a/attr/b".
	r := NewResolver(testContainer())
	val, err := r.Resolve("a/attr/b")
	if err != nil {
		t.Fatal(err)
	}
	if val != "value of b" {
		t.Errorf("got %v; want value of b", val)
	}
}

func TestContains(t *testing.T) {
	r := NewResolver(testContainer())
	tests := []struct {
		address string
		want    bool
	}{
		{"group/sst", true},
		{"a", true},
		{"missing/path", false},
		{"/attr/platform_short_name", false},
		{"", false},
	}
	for _, test := range tests {
		if got := r.Contains(test.address); got != test.want {
			t.Errorf("Contains(%q) = %v; want %v", test.address, got, test.want)
		}
	}
}

func TestResolveOrDefault(t *testing.T) {
	r := NewResolver(testContainer())

	val, err := r.ResolveOrDefault("missing/path", "fallback")
	if err != nil {
		t.Fatal(err)
	}
	if val != "fallback" {
		t.Errorf("got %v; want fallback", val)
	}

	val, err = r.ResolveOrDefault("/attr/platform_short_name", "fallback")
	if err != nil {
		t.Fatal(err)
	}
	if val != "PRISMA" {
		t.Errorf("got %v; want PRISMA", val)
	}

	// A missing attribute is never defaulted.
	if _, err := r.ResolveOrDefault("group/sst/attr/no_such_attr", "fallback"); err == nil {
		t.Error("expected an error for a missing attribute")
	}
}

// brokenContainer fails every variable read, as a container over a
// corrupted file would.
type brokenContainer struct {
	*MemContainer
}

func (c *brokenContainer) Variable(varPath string) (*Variable, error) {
	return nil, &ContainerIOError{Path: varPath, Err: errors.New("checksum mismatch")}
}

func TestResolveContainerIOError(t *testing.T) {
	r := NewResolver(&brokenContainer{testContainer()})
	logger, hook := logtest.NewNullLogger()
	r.Log = logger

	_, err := r.Resolve("group/sst")
	var ioErr *ContainerIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected ContainerIOError, got %v", err)
	}
	if ioErr.Path != "group/sst" {
		t.Errorf("path = %q; want group/sst", ioErr.Path)
	}

	// Read failures are never defaulted.
	if _, err := r.ResolveOrDefault("group/sst", "fallback"); !errors.As(err, &ioErr) {
		t.Errorf("ResolveOrDefault returned %v; want a ContainerIOError", err)
	}

	// The failure is logged once per resolver, not once per access.
	if _, err := r.Resolve("a"); err == nil {
		t.Fatal("expected an error from the broken container")
	}
	var logged []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			logged = append(logged, e)
		}
	}
	if len(logged) != 1 {
		t.Errorf("read failure logged %d times; want 1", len(logged))
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver(testContainer())
	for _, address := range []string{"group/sst", "/attr/platform_short_name", "group/sst/attr/units", "group/sst/shape"} {
		first, err1 := r.Resolve(address)
		second, err2 := r.Resolve(address)
		if err1 != nil || err2 != nil {
			t.Fatalf("Resolve(%q): %v, %v", address, err1, err2)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Resolve(%q) is not idempotent: %v != %v", address, first, second)
		}
	}
}
