package charts

import (
	"math"

	"github.com/paulmach/orb"
)

// Layer names with special meaning in S-57 cells. DSID carries dataset
// metadata, M_COVR carries the coverage extent; neither becomes a feature
// table.
const (
	MetadataLayer = "DSID"
	CoverageLayer = "M_COVR"
)

// Metadata identifies one version of a chart cell, from the DSID record.
type Metadata struct {
	Edition          *int
	UpdateNumber     int
	CompilationScale int
}

// Feature is one decoded geographic object. Geometry is nil when the source
// record carried none; rows for such features are still written, with a null
// projected geometry.
type Feature struct {
	FID        int64
	Geometry   orb.Geometry
	Properties map[string]interface{}
}

// Layer groups the features of one chart-standard feature class.
type Layer struct {
	Name     string
	Features []Feature
}

// Chart is one fully decoded chart cell.
type Chart struct {
	Name     string
	Metadata Metadata
	Layers   []Layer
}

// Decoder is the boundary to the native chart-format decoder. Decode is a
// long-running, blocking call; the orchestrator runs it off its scheduling
// path.
type Decoder interface {
	Decode(path string) (*Chart, error)
}

// CoverageGeometries returns the geometries of the chart's coverage layer,
// restricted to CATCOV=1 (coverage available). Empty when the cell has no
// usable M_COVR features and the convex-hull fallback applies.
func (c *Chart) CoverageGeometries() []orb.Geometry {
	var geoms []orb.Geometry
	for _, layer := range c.Layers {
		if layer.Name != CoverageLayer {
			continue
		}
		for _, f := range layer.Features {
			if f.Geometry == nil {
				continue
			}
			if catcov, ok := IntProp(f.Properties, "CATCOV"); ok && catcov != 1 {
				continue
			}
			geoms = append(geoms, f.Geometry)
		}
	}
	return geoms
}

// FeatureLayers returns the layers that become backing tables, skipping the
// metadata and coverage layers.
func (c *Chart) FeatureLayers() []Layer {
	var out []Layer
	for _, layer := range c.Layers {
		if layer.Name == MetadataLayer || layer.Name == CoverageLayer {
			continue
		}
		out = append(out, layer)
	}
	return out
}

// Scamin extracts the optional per-feature minimum-scale attribute.
func (f *Feature) Scamin() *float64 {
	v, ok := FloatProp(f.Properties, "SCAMIN")
	if !ok || v <= 0 {
		return nil
	}
	return &v
}

// FloatProp reads a numeric property, accepting the int and float forms
// GeoJSON decoding produces.
func FloatProp(props map[string]interface{}, name string) (float64, bool) {
	switch v := props[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// IntProp reads an integral property. Floats with a fractional part do not
// qualify.
func IntProp(props map[string]interface{}, name string) (int, bool) {
	switch v := props[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

// StringProp reads a string property.
func StringProp(props map[string]interface{}, name string) (string, bool) {
	if v, ok := props[name].(string); ok {
		return v, true
	}
	return "", false
}
