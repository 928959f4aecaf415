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

import "fmt"

// VariableNotFoundError indicates that a variable path does not exist
// in a container.
type VariableNotFoundError struct {
	Path string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("swath: variable %q not found", e.Path)
}

// AttributeNotFoundError indicates that an attribute does not exist on
// its target. Var is empty for root-level (global) attributes.
type AttributeNotFoundError struct {
	Var  string
	Name string
}

func (e *AttributeNotFoundError) Error() string {
	if e.Var == "" {
		return fmt.Sprintf("swath: global attribute %q not found", e.Name)
	}
	return fmt.Sprintf("swath: attribute %q not found on variable %q", e.Name, e.Var)
}

// MalformedAddressError indicates an address that cannot be parsed,
// such as an empty string or a bare "/attr/" marker with no attribute
// name.
type MalformedAddressError struct {
	Address string
	Reason  string
}

func (e *MalformedAddressError) Error() string {
	return fmt.Sprintf("swath: malformed address %q: %s", e.Address, e.Reason)
}

// ContainerIOError wraps a read failure in the underlying file, such as
// an unreadable or corrupted variable. It is fatal to the current read
// operation; retrying is never correct.
type ContainerIOError struct {
	Path string
	Err  error
}

func (e *ContainerIOError) Error() string {
	return fmt.Sprintf("swath: reading %q: %v", e.Path, e.Err)
}

func (e *ContainerIOError) Unwrap() error { return e.Err }
