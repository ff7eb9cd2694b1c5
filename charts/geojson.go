package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// GeoJSONDecoder reads a chart directory of pre-decoded GeoJSON layer files,
// one FeatureCollection per feature class, named <LAYER>.json. The DSID
// collection holds one feature whose EDTN/UPDN/DSPM_CSCL properties carry
// the cell metadata.
type GeoJSONDecoder struct{}

func (GeoJSONDecoder) Decode(path string) (*Chart, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read chart directory: %w", err)
	}

	chart := &Chart{Name: EncNameFromPath(path)}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".json" || ext == ".geojson" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}

		layerName := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
		layer := Layer{Name: layerName}
		for i, gf := range fc.Features {
			f := Feature{
				FID:        featureID(gf, i),
				Geometry:   gf.Geometry,
				Properties: gf.Properties,
			}
			layer.Features = append(layer.Features, f)
		}

		if layerName == MetadataLayer {
			chart.Metadata = metadataFromLayer(layer)
			continue
		}
		chart.Layers = append(chart.Layers, layer)
	}

	return chart, nil
}

func metadataFromLayer(layer Layer) Metadata {
	var md Metadata
	if len(layer.Features) == 0 {
		return md
	}
	props := layer.Features[0].Properties
	if v, ok := IntProp(props, "EDTN"); ok {
		md.Edition = &v
	}
	if v, ok := IntProp(props, "UPDN"); ok {
		md.UpdateNumber = v
	}
	if v, ok := IntProp(props, "DSPM_CSCL"); ok {
		md.CompilationScale = v
	}
	return md
}

func featureID(gf *geojson.Feature, index int) int64 {
	switch id := gf.ID.(type) {
	case float64:
		return int64(id)
	case int64:
		return id
	case int:
		return int64(id)
	}
	if v, ok := FloatProp(gf.Properties, "FID"); ok {
		return int64(v)
	}
	return int64(index)
}

// EncNameFromPath extracts the chart cell name from a directory or file
// path: the base name up to the first dot.
func EncNameFromPath(path string) string {
	base := filepath.Base(filepath.Clean(path))
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "unknown"
	}
	return base
}
