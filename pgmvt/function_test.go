package pgmvt

import (
	"strings"
	"testing"
)

func TestMVTFunctionSQL(t *testing.T) {
	sql := MVTFunctionSQL(depare)

	for _, want := range []string{
		"CREATE OR REPLACE FUNCTION depare_mvt(z integer, x integer, y integer",
		"ST_TileEnvelope(z, x, y)",
		"ST_AsMVT(tile, 'depare', 4096, 'geom')",
		"d.geom && tile_env_4326",
		"d.geom_3857 IS NOT NULL",
		"d.min_zoom <= z",
		"(d.max_zoom IS NULL OR d.max_zoom <= z)",
		"ORDER BY d.compilation_scale DESC",
		"d.drval1",
		"d.drval2",
		"STABLE PARALLEL SAFE",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("function SQL missing %q:\n%s", want, sql)
		}
	}
}

// The generated select must never reproject stored rows or rerun the scale
// formula; all of that is precomputed. The only transform allowed is the
// tile envelope's.
func TestMVTFunctionNoQueryTimeDerivation(t *testing.T) {
	sql := MVTFunctionSQL(soundg)

	if strings.Contains(sql, "ST_Transform(d.") {
		t.Error("query-time reprojection of row geometry")
	}
	for _, forbidden := range []string{"LN(", "LOG(", "CEIL("} {
		if strings.Contains(sql, forbidden) {
			t.Errorf("query-time scale arithmetic %q in:\n%s", forbidden, sql)
		}
	}
	if strings.Count(sql, "ST_Transform(") != 1 {
		t.Errorf("expected exactly one envelope transform:\n%s", sql)
	}
}

func TestUnifiedMVTFunctionSQL(t *testing.T) {
	sql := UnifiedMVTFunctionSQL(BuiltinLayers())

	if !strings.Contains(sql, "CREATE OR REPLACE FUNCTION enc_mvt(z integer, x integer, y integer") {
		t.Fatalf("missing enc_mvt signature:\n%s", sql)
	}
	for _, table := range []string{"depare", "lndare", "lights", "soundg"} {
		if !strings.Contains(sql, table+"_mvt(z, x, y)") {
			t.Errorf("enc_mvt does not span layer %s:\n%s", table, sql)
		}
	}
	if !strings.Contains(sql, "mvt := mvt || part") {
		t.Errorf("enc_mvt must concatenate layer tiles:\n%s", sql)
	}
}

// Tile predicate behavior at the zoom boundary: a 1:50,000 chart maps to
// min_zoom 12, so its rows match at z=12 and not at z=11.
func TestTilePredicateZoomWindow(t *testing.T) {
	minZoom, err := MinZoom(50000)
	if err != nil {
		t.Fatal(err)
	}
	if minZoom != 12 {
		t.Fatalf("MinZoom(50000) = %d, want 12", minZoom)
	}

	matches := func(z int, maxZoom *int) bool {
		if minZoom > z {
			return false
		}
		return maxZoom == nil || *maxZoom <= z
	}

	if matches(11, nil) {
		t.Error("row visible at z=11, below its min_zoom")
	}
	if !matches(12, nil) {
		t.Error("row hidden at z=12, its min_zoom")
	}
}
