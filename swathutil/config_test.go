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
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func TestGetStringMapString(t *testing.T) {
	want := map[string]string{"vnir": "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube"}

	tests := []struct {
		name  string
		value interface{}
		err   bool
	}{
		{name: "map", value: map[string]string{"vnir": "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube"}},
		{name: "interfaceMap", value: map[string]interface{}{"vnir": "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube"}},
		{name: "json", value: `{"vnir": "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube"}`},
		{name: "badJSON", value: `{"vnir": `, err: true},
		{name: "badType", value: 12, err: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := viper.New()
			cfg.Set("fileKeys", test.value)
			m, err := GetStringMapString("fileKeys", cfg)
			if test.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(m, want) {
				t.Errorf("map = %v; want %v", m, want)
			}
		})
	}
}
