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

// MemContainer is an in-memory Container. It is mainly useful for
// testing file handlers against synthesized file content without real
// files on disk.
type MemContainer struct {
	Vars        map[string]*Variable
	GlobalAttrs map[string]interface{}
}

// NewMemContainer creates an empty in-memory container.
func NewMemContainer() *MemContainer {
	return &MemContainer{
		Vars:        make(map[string]*Variable),
		GlobalAttrs: make(map[string]interface{}),
	}
}

// AddVariable adds v to the container under path.
func (c *MemContainer) AddVariable(path string, v *Variable) {
	c.Vars[path] = v
}

// Has reports whether a variable exists at the given path.
func (c *MemContainer) Has(varPath string) bool {
	_, ok := c.Vars[varPath]
	return ok
}

// Variable returns the variable at the given path.
func (c *MemContainer) Variable(varPath string) (*Variable, error) {
	v, ok := c.Vars[varPath]
	if !ok {
		return nil, &VariableNotFoundError{Path: varPath}
	}
	return v, nil
}

// GlobalAttribute returns the named root-level attribute.
func (c *MemContainer) GlobalAttribute(name string) (interface{}, error) {
	val, ok := c.GlobalAttrs[name]
	if !ok {
		return nil, &AttributeNotFoundError{Name: name}
	}
	return val, nil
}

// VariableAttribute returns the named attribute of the variable at
// varPath.
func (c *MemContainer) VariableAttribute(varPath, name string) (interface{}, error) {
	v, ok := c.Vars[varPath]
	if !ok {
		return nil, &VariableNotFoundError{Path: varPath}
	}
	val, ok := v.Attrs[name]
	if !ok {
		return nil, &AttributeNotFoundError{Var: varPath, Name: name}
	}
	return val, nil
}
