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

package swathutil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// GetStringMapString returns a map of strings from the given
// configuration variable, which may come from a configuration file, an
// environment variable, or a JSON-encoded command-line flag.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch t := i.(type) {
	case map[string]string:
		return t, nil
	case map[string]interface{}:
		return cast.ToStringMapString(t), nil
	case string:
		d := json.NewDecoder(bytes.NewBuffer([]byte(t)))
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("swath: decoding configuration variable %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("swath: invalid type for configuration variable %s: %#v", varName, i)
	}
}
