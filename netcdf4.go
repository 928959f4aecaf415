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
	"fmt"
	"reflect"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
)

// NC4Container is a Container backed by a NetCDF4 or HDF5 file, with
// nested groups addressed by slash-delimited variable paths.
type NC4Container struct {
	root api.Group
}

// OpenNetCDF opens a NetCDF (classic or NetCDF4/HDF5) file as a
// Container. The caller must Close the returned container when done.
func OpenNetCDF(filename string) (*NC4Container, error) {
	g, err := netcdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("swath: opening %s: %v", filename, err)
	}
	return &NC4Container{root: g}, nil
}

// Close closes the underlying file.
func (c *NC4Container) Close() {
	c.root.Close()
}

// varGetter walks the group hierarchy to the variable at varPath.
func (c *NC4Container) varGetter(varPath string) (api.VarGetter, error) {
	segs := strings.Split(strings.Trim(varPath, "/"), "/")
	name := segs[len(segs)-1]
	if name == "" {
		return nil, &VariableNotFoundError{Path: varPath}
	}
	g := c.root
	for _, s := range segs[:len(segs)-1] {
		sub, err := g.GetGroup(s)
		if g != c.root {
			g.Close()
		}
		if err != nil {
			return nil, &VariableNotFoundError{Path: varPath}
		}
		g = sub
	}
	vg, err := g.GetVarGetter(name)
	if g != c.root {
		g.Close()
	}
	if err != nil {
		return nil, &VariableNotFoundError{Path: varPath}
	}
	return vg, nil
}

// Has reports whether a variable exists at the given path.
func (c *NC4Container) Has(varPath string) bool {
	_, err := c.varGetter(varPath)
	return err == nil
}

// Variable reads the variable at the given path in full.
func (c *NC4Container) Variable(varPath string) (*Variable, error) {
	vg, err := c.varGetter(varPath)
	if err != nil {
		return nil, err
	}
	values, err := vg.Values()
	if err != nil {
		return nil, &ContainerIOError{Path: varPath, Err: err}
	}
	shape := make([]int, len(vg.Shape()))
	for i, n := range vg.Shape() {
		shape[i] = int(n)
	}
	data := sparse.ZerosDense(shape...)
	elems := data.Elements[:0]
	if err := appendFloats(&elems, reflect.ValueOf(values)); err != nil {
		return nil, fmt.Errorf("swath: reading variable %s: %v", varPath, err)
	}
	if len(elems) != len(data.Elements) {
		return nil, fmt.Errorf("swath: reading variable %s: shape is %v but got %d values",
			varPath, shape, len(elems))
	}
	return &Variable{
		Name:  varPath,
		Dims:  vg.Dimensions(),
		Data:  data,
		Attrs: attrMap(vg.Attributes()),
	}, nil
}

// GlobalAttribute returns the named root-level attribute.
func (c *NC4Container) GlobalAttribute(name string) (interface{}, error) {
	val, has := c.root.Attributes().Get(name)
	if !has {
		return nil, &AttributeNotFoundError{Name: name}
	}
	return val, nil
}

// VariableAttribute returns the named attribute of the variable at
// varPath.
func (c *NC4Container) VariableAttribute(varPath, name string) (interface{}, error) {
	vg, err := c.varGetter(varPath)
	if err != nil {
		return nil, err
	}
	val, has := vg.Attributes().Get(name)
	if !has {
		return nil, &AttributeNotFoundError{Var: varPath, Name: name}
	}
	return val, nil
}

// GlobalAttributeNames lists the root-level attribute names in file
// order.
func (c *NC4Container) GlobalAttributeNames() []string {
	am := c.root.Attributes()
	if am == nil {
		return nil
	}
	return am.Keys()
}

// VariableNames lists the root-level variable names, and the names of
// the root's subgroups with a trailing slash.
func (c *NC4Container) VariableNames() []string {
	names := c.root.ListVariables()
	for _, g := range c.root.ListSubgroups() {
		names = append(names, g+"/")
	}
	return names
}

func attrMap(am api.AttributeMap) map[string]interface{} {
	attrs := make(map[string]interface{})
	if am == nil {
		return attrs
	}
	for _, k := range am.Keys() {
		if v, has := am.Get(k); has {
			attrs[k] = v
		}
	}
	return attrs
}

// appendFloats appends the values of a possibly-nested slice to *out in
// row-major order, converting elements to float64. NetCDF4 readers
// represent an n-dimensional variable as n nested slices.
func appendFloats(out *[]float64, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := appendFloats(out, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Float32, reflect.Float64:
		*out = append(*out, v.Float())
		return nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		*out = append(*out, float64(v.Int()))
		return nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		*out = append(*out, float64(v.Uint()))
		return nil
	case reflect.Interface:
		return appendFloats(out, v.Elem())
	default:
		return fmt.Errorf("unsupported element type %s", v.Kind())
	}
}
