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

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// SwathDefinition describes the geolocation of a non-gridded swath as
// matching arrays of longitudes and latitudes, one pair per pixel.
type SwathDefinition struct {
	Name string
	Lons *sparse.DenseArray
	Lats *sparse.DenseArray
}

// NewSwathDefinition creates a swath definition from longitude and
// latitude variables, which must have the same shape.
func NewSwathDefinition(name string, lons, lats *Variable) (*SwathDefinition, error) {
	if !reflect.DeepEqual(lons.Shape(), lats.Shape()) {
		return nil, fmt.Errorf("swath: swath definition %s: longitude shape %v does not match latitude shape %v",
			name, lons.Shape(), lats.Shape())
	}
	return &SwathDefinition{Name: name, Lons: lons.Data, Lats: lats.Data}, nil
}

// Bounds returns the spatial extent of the swath in degrees.
func (s *SwathDefinition) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for i, lon := range s.Lons.Elements {
		b.Extend(geom.NewBoundsPoint(geom.Point{X: lon, Y: s.Lats.Elements[i]}))
	}
	return b
}

// Polygon returns the bounding quadrilateral of the swath as a closed
// ring.
func (s *SwathDefinition) Polygon() geom.Polygon {
	b := s.Bounds()
	return geom.Polygon{{
		geom.Point{X: b.Min.X, Y: b.Min.Y}, // W, S
		geom.Point{X: b.Max.X, Y: b.Min.Y}, // E, S
		geom.Point{X: b.Max.X, Y: b.Max.Y}, // E, N
		geom.Point{X: b.Min.X, Y: b.Max.Y}, // W, N
		geom.Point{X: b.Min.X, Y: b.Min.Y}, // W, S
	}}
}

// Points returns the pixel locations in row-major order.
func (s *SwathDefinition) Points() []geom.Point {
	pts := make([]geom.Point, len(s.Lons.Elements))
	for i, lon := range s.Lons.Elements {
		pts[i] = geom.Point{X: lon, Y: s.Lats.Elements[i]}
	}
	return pts
}
