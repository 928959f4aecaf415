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

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// CDFContainer is a Container backed by a classic-format NetCDF (CDF)
// file. Classic files have a flat namespace, so variable paths never
// contain slashes.
type CDFContainer struct {
	f *cdf.File
}

// OpenCDF creates a Container from a classic-format NetCDF file.
func OpenCDF(rw cdf.ReaderWriterAt) (*CDFContainer, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("swath: opening CDF file: %v", err)
	}
	return &CDFContainer{f: f}, nil
}

// Has reports whether the file defines a variable with the given name.
func (c *CDFContainer) Has(varPath string) bool {
	if varPath == "" {
		return false
	}
	return c.f.Header.Lengths(varPath) != nil
}

// Variable reads the named variable in full and returns it with its
// attributes.
func (c *CDFContainer) Variable(varPath string) (*Variable, error) {
	if !c.Has(varPath) {
		return nil, &VariableNotFoundError{Path: varPath}
	}
	dims := c.f.Header.Lengths(varPath)
	r := c.f.Reader(varPath, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, &ContainerIOError{Path: varPath, Err: err}
	}
	data := sparse.ZerosDense(dims...)
	if err := fillDense(data, buf); err != nil {
		return nil, fmt.Errorf("swath: reading variable %s: %v", varPath, err)
	}
	attrs := make(map[string]interface{})
	for _, a := range c.f.Header.Attributes(varPath) {
		attrs[a] = c.f.Header.GetAttribute(varPath, a)
	}
	return &Variable{
		Name:  varPath,
		Dims:  c.f.Header.Dimensions(varPath),
		Data:  data,
		Attrs: attrs,
	}, nil
}

// GlobalAttribute returns the named global attribute.
func (c *CDFContainer) GlobalAttribute(name string) (interface{}, error) {
	val := c.f.Header.GetAttribute("", name)
	if val == nil {
		return nil, &AttributeNotFoundError{Name: name}
	}
	return val, nil
}

// VariableAttribute returns the named attribute of the named variable.
func (c *CDFContainer) VariableAttribute(varPath, name string) (interface{}, error) {
	if !c.Has(varPath) {
		return nil, &VariableNotFoundError{Path: varPath}
	}
	val := c.f.Header.GetAttribute(varPath, name)
	if val == nil {
		return nil, &AttributeNotFoundError{Var: varPath, Name: name}
	}
	return val, nil
}

// fillDense copies a NetCDF read buffer into a dense array, converting
// the file's element type to float64.
func fillDense(data *sparse.DenseArray, buf interface{}) error {
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []float64:
		copy(data.Elements, b)
	case []int32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	default:
		return fmt.Errorf("unsupported element type %T", buf)
	}
	return nil
}
