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

// Package swath provides access to satellite-instrument swath data files
// (NetCDF and HDF5 based) as labeled, attribute-rich multidimensional
// arrays, addressed by flat string keys.
package swath

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Container is a hierarchical store of named variables and attributes
// backing a scientific data file. Variable paths are slash-delimited
// (e.g. "group/subgroup/var"). Implementations must be read-only;
// lifetime of the underlying file is owned by the caller.
type Container interface {
	// Has reports whether a variable exists at the given path.
	// It never returns an error.
	Has(varPath string) bool

	// Variable returns the variable at the given path, or a
	// *VariableNotFoundError if no such path exists.
	Variable(varPath string) (*Variable, error)

	// GlobalAttribute returns the root-level attribute with the given
	// name, or an *AttributeNotFoundError if it is absent.
	GlobalAttribute(name string) (interface{}, error)

	// VariableAttribute returns the named attribute of the variable at
	// varPath. It returns a *VariableNotFoundError if the variable path
	// does not exist, or an *AttributeNotFoundError if the variable
	// exists but lacks the attribute.
	VariableAttribute(varPath, name string) (interface{}, error)
}

// Variable is a labeled multidimensional array together with its
// attribute mapping. Data holds the array values; Dims holds the
// dimension name for each axis of Data, in order.
type Variable struct {
	Name  string
	Dims  []string
	Data  *sparse.DenseArray
	Attrs map[string]interface{}

	// Coords optionally maps dimension names to coordinate variables,
	// such as the center wavelength of each spectral band.
	Coords map[string]*Variable
}

// Shape returns the ordered dimension sizes of the variable.
func (v *Variable) Shape() []int {
	return v.Data.Shape
}

// View returns a copy of v that shares the underlying data array but
// owns its dimension names, attributes, and coordinate map, so the view
// can be relabeled and annotated without changing the original.
func (v *Variable) View() *Variable {
	out := &Variable{
		Name:  v.Name,
		Dims:  append([]string(nil), v.Dims...),
		Data:  v.Data,
		Attrs: make(map[string]interface{}, len(v.Attrs)),
	}
	for k, a := range v.Attrs {
		out.Attrs[k] = a
	}
	if v.Coords != nil {
		out.Coords = make(map[string]*Variable, len(v.Coords))
		for k, c := range v.Coords {
			out.Coords[k] = c
		}
	}
	return out
}

// RenameDims renames the dimensions of v according to the given
// old-name to new-name mapping. Dimensions not present in the mapping
// are left unchanged.
func (v *Variable) RenameDims(names map[string]string) {
	for i, d := range v.Dims {
		if n, ok := names[d]; ok {
			v.Dims[i] = n
		}
	}
}

// Transpose returns a copy of v with its axes reordered to match the
// given dimension order, which must be a permutation of v.Dims.
// Attributes and coordinates are shared with v, not copied.
func (v *Variable) Transpose(order ...string) (*Variable, error) {
	if len(order) != len(v.Dims) {
		return nil, fmt.Errorf("swath: transposing %s: got %d dimensions but variable has %d",
			v.Name, len(order), len(v.Dims))
	}
	// perm[i] is the axis of v that becomes axis i of the result.
	perm := make([]int, len(order))
	for i, name := range order {
		perm[i] = -1
		for j, d := range v.Dims {
			if d == name {
				perm[i] = j
				break
			}
		}
		if perm[i] < 0 {
			return nil, fmt.Errorf("swath: transposing %s: no dimension %q", v.Name, name)
		}
	}
	shape := make([]int, len(perm))
	for i, j := range perm {
		shape[i] = v.Data.Shape[j]
	}
	out := sparse.ZerosDense(shape...)
	index := make([]int, len(perm))
	for i, val := range v.Data.Elements {
		idx := v.Data.IndexNd(i)
		for j, k := range perm {
			index[j] = idx[k]
		}
		out.Elements[out.Index1d(index...)] = val
	}
	dims := make([]string, len(order))
	copy(dims, order)
	return &Variable{
		Name:   v.Name,
		Dims:   dims,
		Data:   out,
		Attrs:  v.Attrs,
		Coords: v.Coords,
	}, nil
}
