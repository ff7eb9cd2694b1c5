package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coastwise/enctiler/charts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CoverageGeoJSON resolves a chart's coverage polygon from its coverage
// layer: one geometry directly, several unioned into a GeometryCollection.
// Nil means no coverage feature exists and the convex-hull fallback over
// the chart's written rows applies.
func CoverageGeoJSON(chart *charts.Chart) (*string, error) {
	geoms := chart.CoverageGeometries()
	if len(geoms) == 0 {
		return nil, nil
	}

	var g orb.Geometry
	if len(geoms) == 1 {
		g = geoms[0]
	} else {
		g = orb.Collection(geoms)
	}

	data, err := json.Marshal(geojson.NewGeometry(g))
	if err != nil {
		return nil, fmt.Errorf("encode coverage geometry: %w", err)
	}
	s := string(data)
	return &s, nil
}

// FallbackCoverageSQL updates a chart's placeholder coverage with the
// convex hull of its features, checking each layer table in turn. Runs
// inside the chart's transaction so readers never observe the placeholder
// of a committed chart that has geometries. Takes one enc_name bind
// parameter, repeated per subquery plus the WHERE clause.
func FallbackCoverageSQL(tables []string) string {
	subqueries := make([]string, 0, len(tables)+1)
	for _, t := range tables {
		subqueries = append(subqueries,
			fmt.Sprintf("(SELECT ST_ConvexHull(ST_Collect(geom)) FROM %s WHERE enc_name = ?)", t))
	}
	subqueries = append(subqueries, "coverage")

	return fmt.Sprintf(
		"UPDATE enc_catalog SET coverage = COALESCE(%s) WHERE enc_name = ? AND ST_Equals(coverage, ST_SetSRID(ST_MakePoint(0, 0), 4326))",
		strings.Join(subqueries, ", "))
}
