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

	"github.com/zxdawn/swath"
)

// Calibration levels for the detector cubes.
const (
	CalibrationCounts   = "counts"
	CalibrationRadiance = "radiance"
)

// Calibrate converts the raw digital numbers of the named detector cube
// to the calibration level requested by info. For radiance, the vendor
// formula is DN/ScaleFactor - Offset, with the constants taken from the
// file's global attributes.
func (h *Handler) Calibrate(v *swath.Variable, name string, info DatasetInfo) (*swath.Variable, error) {
	switch info.Calibration {
	case CalibrationCounts, "":
		// Original DN values.
	case CalibrationRadiance:
		var suffix string
		switch name {
		case "vnir":
			suffix = "Vnir"
		case "swir":
			suffix = "Swir"
		default:
			return nil, fmt.Errorf("hyc: no calibration constants for dataset %s", name)
		}
		scale, err := h.attrScalar("/attr/ScaleFactor_" + suffix)
		if err != nil {
			return nil, err
		}
		offset, err := h.attrScalar("/attr/Offset_" + suffix)
		if err != nil {
			return nil, err
		}
		out := v.Data.Copy()
		for i, dn := range v.Data.Elements {
			out.Elements[i] = dn/scale - offset
		}
		v = &swath.Variable{
			Name:   v.Name,
			Dims:   v.Dims,
			Data:   out,
			Attrs:  v.Attrs,
			Coords: v.Coords,
		}
	default:
		return nil, fmt.Errorf("hyc: unknown calibration %q for dataset %s", info.Calibration, name)
	}
	if info.Units != "" {
		attrs := make(map[string]interface{}, len(v.Attrs)+1)
		for k, av := range v.Attrs {
			attrs[k] = av
		}
		attrs["units"] = info.Units
		v.Attrs = attrs
	}
	return v, nil
}

// attrScalar resolves a global attribute holding a single number.
func (h *Handler) attrScalar(address string) (float64, error) {
	arr, err := h.attrArray(address)
	if err != nil {
		return 0, err
	}
	if len(arr.Elements) != 1 {
		return 0, fmt.Errorf("hyc: attribute %s: expected a scalar, got %d values", address, len(arr.Elements))
	}
	return arr.Elements[0], nil
}
