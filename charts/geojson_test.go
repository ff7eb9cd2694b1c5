package charts

import (
	"os"
	"path/filepath"
	"testing"
)

const dsidJSON = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "geometry": null,
    "properties": {"EDTN": 12, "UPDN": 3, "DSPM_CSCL": 50000}
  }]
}`

const depareJSON = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "id": 7,
    "geometry": {"type": "Polygon", "coordinates": [[[-80,25],[-79,25],[-79,26],[-80,26],[-80,25]]]},
    "properties": {"DRVAL1": 0, "DRVAL2": 3, "SCAMIN": 45000}
  }]
}`

func writeChartDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "US5FL11M")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string]string{
		"DSID.json":   dsidJSON,
		"DEPARE.json": depareJSON,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestGeoJSONDecoder(t *testing.T) {
	dir := writeChartDir(t)

	chart, err := GeoJSONDecoder{}.Decode(dir)
	if err != nil {
		t.Fatal(err)
	}

	if chart.Name != "US5FL11M" {
		t.Errorf("name = %q, want US5FL11M", chart.Name)
	}
	if chart.Metadata.Edition == nil || *chart.Metadata.Edition != 12 {
		t.Errorf("edition = %v, want 12", chart.Metadata.Edition)
	}
	if chart.Metadata.UpdateNumber != 3 {
		t.Errorf("update = %d, want 3", chart.Metadata.UpdateNumber)
	}
	if chart.Metadata.CompilationScale != 50000 {
		t.Errorf("scale = %d, want 50000", chart.Metadata.CompilationScale)
	}

	if len(chart.Layers) != 1 || chart.Layers[0].Name != "DEPARE" {
		t.Fatalf("layers = %+v, want one DEPARE layer", chart.Layers)
	}
	f := chart.Layers[0].Features[0]
	if f.FID != 7 {
		t.Errorf("fid = %d, want 7", f.FID)
	}
	if f.Geometry == nil {
		t.Error("geometry missing")
	}
	if sc := f.Scamin(); sc == nil || *sc != 45000 {
		t.Errorf("scamin = %v, want 45000", sc)
	}
}

func TestDecodeMissingDirectory(t *testing.T) {
	if _, err := (GeoJSONDecoder{}).Decode("/nonexistent/US0XX00X"); err == nil {
		t.Fatal("expected error for missing chart directory")
	}
}

func TestEncNameFromPath(t *testing.T) {
	cases := map[string]string{
		"/data/enc/US5FL11M":     "US5FL11M",
		"/data/enc/US5FL11M.000": "US5FL11M",
		"US5FL11M":               "US5FL11M",
	}
	for in, want := range cases {
		if got := EncNameFromPath(in); got != want {
			t.Errorf("EncNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindChartDirs(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"US2EC03M", "US5FL11M"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := FindChartDirs(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 {
		t.Fatalf("dirs = %v, want 2 entries", dirs)
	}
	if filepath.Base(dirs[0]) != "US2EC03M" || filepath.Base(dirs[1]) != "US5FL11M" {
		t.Errorf("dirs = %v, want sorted chart names", dirs)
	}
}

func TestChartFeatureLayersSkipSpecialLayers(t *testing.T) {
	chart := &Chart{
		Layers: []Layer{
			{Name: "DEPARE"},
			{Name: CoverageLayer},
			{Name: "LIGHTS"},
		},
	}
	layers := chart.FeatureLayers()
	if len(layers) != 2 || layers[0].Name != "DEPARE" || layers[1].Name != "LIGHTS" {
		t.Errorf("feature layers = %+v", layers)
	}
}
