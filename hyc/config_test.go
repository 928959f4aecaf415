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

package hyc

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	const doc = `
[datasets.vnir]
file_key = "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube"
calibration = "radiance"
units = "W m-2 sr-1 um-1"

[datasets.cloud_mask]
file_key = "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/Cloud_Mask"
standard_name = "cloud_mask"
`
	c, err := LoadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]DatasetInfo{
		"vnir": {
			FileKey:     "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube",
			Calibration: CalibrationRadiance,
			Units:       "W m-2 sr-1 um-1",
		},
		"cloud_mask": {
			FileKey:      "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/Cloud_Mask",
			StandardName: "cloud_mask",
		},
	}
	if !reflect.DeepEqual(c.Datasets, want) {
		t.Errorf("datasets = %+v; want %+v", c.Datasets, want)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Datasets == nil {
		t.Error("empty configuration should still have a dataset map")
	}
}

func TestLoadConfigError(t *testing.T) {
	if _, err := LoadConfig(strings.NewReader("datasets = !")); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	for _, name := range []string{"vnir", "swir", "latitude", "longitude"} {
		info, ok := c.Datasets[name]
		if !ok {
			t.Errorf("no default dataset %q", name)
			continue
		}
		if info.FileKey == "" {
			t.Errorf("dataset %q has no file key", name)
		}
	}
	if cal := c.Datasets["vnir"].Calibration; cal != CalibrationRadiance {
		t.Errorf("vnir calibration = %q; want %q", cal, CalibrationRadiance)
	}
}
