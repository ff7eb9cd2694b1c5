package pgmvt

import (
	"fmt"
	"strings"
)

// Generated tile functions are the read-side contract: the external tile
// server calls {table}_mvt(z,x,y) or enc_mvt(z,x,y) and gets encoded MVT
// bytes back. The selects only compare precomputed columns — no
// reprojection of stored geometry and no scale arithmetic happens at query
// time; the single ST_Transform converts the tile envelope, not row data.

// MVTFunctionSQL emits the per-layer materialization function.
//
// A row qualifies for zoom z when its raw bounding box intersects the tile
// envelope in 4326, min_zoom <= z, max_zoom (when set) <= z, and the
// projected geometry exists. SCAMIN is a display floor: the feature shows
// from the zoom where the display scale reaches SCAMIN, so the max_zoom
// comparison keeps the <= direction.
func MVTFunctionSQL(d *LayerDef) string {
	var layerCols strings.Builder
	for _, col := range d.Columns {
		fmt.Fprintf(&layerCols, ",\n            d.%s", col.Column)
	}

	return fmt.Sprintf(`CREATE OR REPLACE FUNCTION %[1]s_mvt(z integer, x integer, y integer, query_params json DEFAULT '{}'::json)
RETURNS bytea
AS $$
DECLARE
    mvt bytea;
    tile_env geometry;
    tile_env_4326 geometry;
BEGIN
    tile_env := ST_TileEnvelope(z, x, y);
    tile_env_4326 := ST_Transform(tile_env, 4326);

    SELECT INTO mvt ST_AsMVT(tile, '%[1]s', 4096, 'geom')
    FROM (
        SELECT
            ST_AsMVTGeom(
                d.geom_3857,
                tile_env,
                4096,
                64,
                true
            ) AS geom,
            d.id,
            d.enc_name,
            d.objl%[2]s,
            d.ac AS "AC",
            d.lc AS "LC",
            d.sy AS "SY",
            d.scamin,
            d.sordat,
            d.attributes
        FROM %[1]s d
        WHERE
            d.geom && tile_env_4326
            AND d.geom_3857 IS NOT NULL
            AND d.min_zoom <= z
            AND (d.max_zoom IS NULL OR d.max_zoom <= z)
        ORDER BY d.compilation_scale DESC
    ) AS tile
    WHERE geom IS NOT NULL;

    RETURN mvt;
END;
$$ LANGUAGE plpgsql STABLE PARALLEL SAFE;`, d.Table, layerCols.String())
}

// UnifiedMVTFunctionSQL emits enc_mvt(z,x,y), which concatenates every
// registered layer's encoded tile into one multi-layer tile. An MVT is a
// sequence of layer messages, so concatenation of the per-layer results is
// a valid tile. Regenerated whenever a new layer registers.
func UnifiedMVTFunctionSQL(defs []*LayerDef) string {
	var body strings.Builder
	for _, d := range defs {
		fmt.Fprintf(&body, `    part := %s_mvt(z, x, y);
    IF part IS NOT NULL THEN
        mvt := mvt || part;
    END IF;
`, d.Table)
	}

	return fmt.Sprintf(`CREATE OR REPLACE FUNCTION enc_mvt(z integer, x integer, y integer, query_params json DEFAULT '{}'::json)
RETURNS bytea
AS $$
DECLARE
    mvt bytea := ''::bytea;
    part bytea;
BEGIN
%sRETURN mvt;
END;
$$ LANGUAGE plpgsql STABLE PARALLEL SAFE;`, body.String())
}
