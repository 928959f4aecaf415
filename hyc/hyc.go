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

// Package hyc reads PRISMA HYC L1 hyperspectral HDF5 files.
package hyc

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zxdawn/swath"

	"github.com/ctessum/sparse"
)

const (
	// Sensor is the instrument name used in dataset metadata.
	Sensor = "hyc"
	// Platform is the satellite name used in dataset metadata.
	Platform = "PRISMA"

	timeLayout = "2006-01-02T15:04:05.000000"

	geolocationGroup = "HDFEOS/SWATHS/PRS_L1_HCO/Geolocation Fields"
)

// Handler reads datasets from a single PRISMA HYC L1 file. Create one
// with Open, or with NewHandler when the container is already open.
type Handler struct {
	// Filename is the path of the file as given to Open, which may be a
	// zip archive containing the .he5 product.
	Filename string

	// Log defaults to logrus.StandardLogger().
	Log logrus.FieldLogger

	res    *swath.Resolver
	closer func() error
	tmpDir string

	bands map[string]*swath.Variable
	meta  map[string]interface{}
	area  *swath.SwathDefinition
}

// Open opens a PRISMA HYC L1 file. Zipped products ("*.zip") are
// extracted to a temporary directory which is removed again by Close.
func Open(filename string) (*Handler, error) {
	path := filename
	var tmpDir string
	if strings.HasSuffix(filename, ".zip") {
		var err error
		tmpDir, path, err = unzip(filename)
		if err != nil {
			return nil, err
		}
	}
	c, err := swath.OpenNetCDF(path)
	if err != nil {
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
		return nil, err
	}
	h, err := NewHandler(c, filename)
	if err != nil {
		c.Close()
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
		return nil, err
	}
	h.closer = func() error { c.Close(); return nil }
	h.tmpDir = tmpDir
	return h, nil
}

// NewHandler creates a Handler over an already-open container. The
// container's lifetime remains owned by the caller.
func NewHandler(c swath.Container, filename string) (*Handler, error) {
	h := &Handler{
		Filename: filename,
		Log:      logrus.StandardLogger(),
		res:      swath.NewResolver(c),
	}
	if err := h.loadBands(); err != nil {
		return nil, err
	}
	return h, nil
}

// Close releases the underlying file and removes the temporary
// extraction directory, if any. It is safe to call on every exit path.
func (h *Handler) Close() error {
	if h.closer != nil {
		h.closer()
		h.closer = nil
	}
	if h.tmpDir != "" {
		dir := h.tmpDir
		h.tmpDir = ""
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("hyc: removing extraction directory: %v", err)
		}
	}
	return nil
}

// StartTime returns the time of the first observation.
func (h *Handler) StartTime() (time.Time, error) {
	return h.timeAttr("/attr/Product_StartTime")
}

// EndTime returns the time of the final observation.
func (h *Handler) EndTime() (time.Time, error) {
	return h.timeAttr("/attr/Product_StopTime")
}

func (h *Handler) timeAttr(address string) (time.Time, error) {
	val, err := h.res.Resolve(address)
	if err != nil {
		return time.Time{}, err
	}
	s, ok := val.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("hyc: attribute %s: expected a string, got %T", address, val)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("hyc: parsing %s: %v", address, err)
	}
	return t, nil
}

// Metadata returns metadata common to all datasets in the file.
func (h *Handler) Metadata() (map[string]interface{}, error) {
	if h.meta == nil {
		sza, err := h.res.Resolve("/attr/Sun_zenith_angle")
		if err != nil {
			return nil, err
		}
		saa, err := h.res.Resolve("/attr/Sun_azimuth_angle")
		if err != nil {
			return nil, err
		}
		h.meta = map[string]interface{}{
			"sza":           sza,
			"saa":           saa,
			"filename":      h.Filename,
			"sensor":        Sensor,
			"platform_name": Platform,
		}
	}
	return h.meta, nil
}

// Band returns the named spectral band coordinate ("bands_vnir" or
// "bands_swir"), with the full width at half maximum as a coordinate.
func (h *Handler) Band(name string) (*swath.Variable, bool) {
	b, ok := h.bands[name]
	return b, ok
}

// loadBands reads the center wavelengths, which are the band dimension
// coordinates for the detector cubes, and their FWHM ancillary values.
func (h *Handler) loadBands() error {
	h.bands = make(map[string]*swath.Variable)
	for det, suffix := range map[string]string{"vnir": "Vnir", "swir": "Swir"} {
		cw, err := h.attrArray("/attr/List_Cw_" + suffix)
		if err != nil {
			return err
		}
		fw, err := h.attrArray("/attr/List_Fwhm_" + suffix)
		if err != nil {
			return err
		}
		dim := "bands_" + det
		fwhm := &swath.Variable{
			Name: "fwhm_" + det,
			Dims: []string{dim},
			Data: fw,
			Attrs: map[string]interface{}{
				"units":         "nm",
				"standard_name": "full width at half maximum",
			},
		}
		h.bands[dim] = &swath.Variable{
			Name:   dim,
			Dims:   []string{dim},
			Data:   cw,
			Attrs:  map[string]interface{}{"units": "nm"},
			Coords: map[string]*swath.Variable{fwhm.Name: fwhm},
		}
	}
	return nil
}

// attrArray resolves a global attribute holding a numeric array.
func (h *Handler) attrArray(address string) (*sparse.DenseArray, error) {
	val, err := h.res.Resolve(address)
	if err != nil {
		return nil, err
	}
	return toDense(val)
}

// Area returns the swath geolocation, from the VNIR coordinates.
// Coregistered cubes are spatially coregistered to the VNIR channel, so
// a single area serves all of them.
func (h *Handler) Area() (*swath.SwathDefinition, error) {
	if h.area != nil {
		return h.area, nil
	}
	lons, err := h.geoField("Longitude_VNIR")
	if err != nil {
		return nil, err
	}
	lats, err := h.geoField("Latitude_VNIR")
	if err != nil {
		return nil, err
	}
	start, err := h.StartTime()
	if err != nil {
		return nil, err
	}
	name := Sensor + "_" + start.Format(timeLayout)
	h.area, err = swath.NewSwathDefinition(name, lons, lats)
	return h.area, err
}

// geoField reads a geolocation field and orients it (y, x).
func (h *Handler) geoField(name string) (*swath.Variable, error) {
	val, err := h.res.Resolve(geolocationGroup + "/" + name)
	if err != nil {
		return nil, err
	}
	v := val.(*swath.Variable).View()
	if len(v.Dims) != 2 {
		return nil, fmt.Errorf("hyc: geolocation field %s: expected 2 dimensions, got %d", name, len(v.Dims))
	}
	v.RenameDims(map[string]string{v.Dims[0]: "x", v.Dims[1]: "y"})
	return v.Transpose("y", "x")
}

// Dataset loads, orients, and calibrates the dataset described by info,
// attaching the swath area, file metadata, and band coordinates.
func (h *Handler) Dataset(name string, info DatasetInfo) (*swath.Variable, error) {
	fileKey := info.FileKey
	if fileKey == "" {
		fileKey = name
	}
	val, err := h.res.Resolve(fileKey)
	if err != nil {
		return nil, err
	}
	v, ok := val.(*swath.Variable)
	if !ok {
		return nil, fmt.Errorf("hyc: dataset %s: key %q is not a variable", name, fileKey)
	}
	// The container owns the resolved variable; relabel a view of it.
	v = v.View()

	switch len(v.Dims) {
	case 3:
		// nHypAcrossPixel, nBands, nHypAlongPixel
		bandDim := "bands_" + name
		v.RenameDims(map[string]string{v.Dims[0]: "x", v.Dims[1]: bandDim, v.Dims[2]: "y"})
		if v, err = v.Transpose(bandDim, "y", "x"); err != nil {
			return nil, err
		}
	case 2:
		// nHypAcrossPixel, nHypAlongPixel
		v.RenameDims(map[string]string{v.Dims[0]: "x", v.Dims[1]: "y"})
		if v, err = v.Transpose("y", "x"); err != nil {
			return nil, err
		}
	}

	if name == "vnir" || name == "swir" {
		if v, err = h.Calibrate(v, name, info); err != nil {
			return nil, err
		}
	}

	area, err := h.Area()
	if err != nil {
		return nil, err
	}
	meta, err := h.Metadata()
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]interface{}, len(v.Attrs)+len(meta)+1)
	for k, av := range v.Attrs {
		attrs[k] = av
	}
	for k, mv := range meta {
		attrs[k] = mv
	}
	attrs["area"] = area
	if info.StandardName != "" {
		attrs["standard_name"] = info.StandardName
	}
	v.Attrs = attrs

	for _, d := range v.Dims {
		if band, ok := h.bands[d]; ok {
			if v.Coords == nil {
				v.Coords = make(map[string]*swath.Variable)
			}
			v.Coords[d] = band
		}
	}
	return v, nil
}

// toDense converts a scalar or numeric slice attribute value to a
// one-dimensional dense array.
func toDense(val interface{}) (*sparse.DenseArray, error) {
	switch t := val.(type) {
	case []float64:
		out := sparse.ZerosDense(len(t))
		copy(out.Elements, t)
		return out, nil
	case []float32:
		out := sparse.ZerosDense(len(t))
		for i, v := range t {
			out.Elements[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := sparse.ZerosDense(len(t))
		for i, v := range t {
			out.Elements[i] = float64(v)
		}
		return out, nil
	case float64:
		out := sparse.ZerosDense(1)
		out.Elements[0] = t
		return out, nil
	case float32:
		out := sparse.ZerosDense(1)
		out.Elements[0] = float64(t)
		return out, nil
	default:
		return nil, fmt.Errorf("hyc: unsupported attribute value type %T", val)
	}
}
