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
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// DatasetInfo describes how a dataset is read from the file.
type DatasetInfo struct {
	// FileKey is the address of the dataset inside the file; when empty
	// the dataset name is used directly.
	FileKey string `toml:"file_key"`
	// Calibration is the requested calibration level ("counts" or
	// "radiance"); empty means counts.
	Calibration string `toml:"calibration"`
	// Units is written to the dataset's "units" attribute.
	Units string `toml:"units"`
	// StandardName is an optional CF standard name.
	StandardName string `toml:"standard_name"`
}

// Config maps dataset names to their reading instructions.
type Config struct {
	Datasets map[string]DatasetInfo `toml:"datasets"`
}

// LoadConfig reads a TOML dataset configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	var c Config
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("hyc: reading dataset configuration: %v", err)
	}
	if c.Datasets == nil {
		c.Datasets = make(map[string]DatasetInfo)
	}
	return &c, nil
}

// DefaultConfig returns the dataset configuration for the standard
// PRISMA HCO product layout.
func DefaultConfig() *Config {
	return &Config{Datasets: map[string]DatasetInfo{
		"vnir": {
			FileKey:     "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/VNIR_Cube",
			Calibration: CalibrationRadiance,
			Units:       "W m-2 sr-1 um-1",
		},
		"swir": {
			FileKey:     "HDFEOS/SWATHS/PRS_L1_HCO/Data Fields/SWIR_Cube",
			Calibration: CalibrationRadiance,
			Units:       "W m-2 sr-1 um-1",
		},
		"latitude": {
			FileKey: "HDFEOS/SWATHS/PRS_L1_HCO/Geolocation Fields/Latitude_VNIR",
			Units:   "degrees_north",
		},
		"longitude": {
			FileKey: "HDFEOS/SWATHS/PRS_L1_HCO/Geolocation Fields/Longitude_VNIR",
			Units:   "degrees_east",
		},
	}}
}
