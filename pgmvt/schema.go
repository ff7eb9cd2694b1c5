package pgmvt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coastwise/enctiler/charts"
	"github.com/coastwise/enctiler/style"
)

// ColType is the semantic type of a layer-specific attribute column.
type ColType int

const (
	ColFloat ColType = iota
	ColInt
	ColText
)

func (t ColType) SQLType() string {
	switch t {
	case ColFloat:
		return "NUMERIC"
	case ColInt:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// ColumnDef binds one decoded attribute to one typed column.
type ColumnDef struct {
	Field  string // decoded attribute name, e.g. "DRVAL1"
	Column string // column name, e.g. "drval1"
	Type   ColType
}

// LayerDef describes one feature layer's backing table: its fixed
// layer-specific columns, optional import-time style function, and the
// style layers it renders as. The column set is frozen at first
// registration; later charts contributing the same layer must conform.
type LayerDef struct {
	Name    string // feature class name, e.g. "DEPARE"
	Table   string
	Columns []ColumnDef
	StyleFn func(props map[string]interface{}) style.Props
	Specs   []style.LayerSpec
}

// Columns common to every layer table, preceding the layer-specific set.
var commonFields = map[string]bool{
	"SCAMIN": true,
	"OBJL":   true,
	"SORDAT": true,
	"SORIND": true,
	"FID":    true,
}

// CreateTableSQL emits idempotent DDL for the layer's backing table. Beyond
// the layer-specific attributes every table carries the raw geometry, the
// precomputed web-mercator geometry, and the precomputed zoom window.
func (d *LayerDef) CreateTableSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", d.Table)
	b.WriteString("    id SERIAL PRIMARY KEY,\n")
	b.WriteString("    enc_name TEXT NOT NULL,\n")
	b.WriteString("    feature_fid BIGINT NOT NULL,\n")
	b.WriteString("    edition INTEGER,\n")
	b.WriteString("    update_number INTEGER DEFAULT 0,\n")
	b.WriteString("    compilation_scale INTEGER NOT NULL,\n")
	b.WriteString("    scamin NUMERIC,\n")
	b.WriteString("    objl INTEGER,\n")
	for _, col := range d.Columns {
		fmt.Fprintf(&b, "    %s %s,\n", col.Column, col.Type.SQLType())
	}
	b.WriteString("    ac TEXT,\n")
	b.WriteString("    lc TEXT,\n")
	b.WriteString("    sy TEXT,\n")
	b.WriteString("    sordat TEXT,\n")
	b.WriteString("    sorind TEXT,\n")
	b.WriteString("    attributes JSONB,\n")
	b.WriteString("    geom GEOMETRY(GEOMETRY, 4326),\n")
	b.WriteString("    geom_3857 GEOMETRY(GEOMETRY, 3857),\n")
	b.WriteString("    min_zoom SMALLINT NOT NULL,\n")
	b.WriteString("    max_zoom SMALLINT,\n")
	b.WriteString("    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,\n")
	fmt.Fprintf(&b, "    CONSTRAINT %s_unique_feature UNIQUE (enc_name, feature_fid)\n", d.Table)
	b.WriteString(");")
	return b.String()
}

// CreateIndexesSQL emits the standard index set: spatial indexes on both
// geometries, partial range indexes on the zoom window, plus the lookup
// indexes the importer and catalog queries rely on.
func (d *LayerDef) CreateIndexesSQL() []string {
	return []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_geom_idx ON %[1]s USING GIST(geom);", d.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_geom_3857_idx ON %[1]s USING GIST(geom_3857);", d.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_min_zoom_idx ON %[1]s(min_zoom) WHERE min_zoom IS NOT NULL;", d.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_max_zoom_idx ON %[1]s(max_zoom) WHERE max_zoom IS NOT NULL;", d.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_scamin_idx ON %[1]s(scamin) WHERE scamin IS NOT NULL;", d.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_enc_name_idx ON %[1]s(enc_name);", d.Table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_compilation_scale_idx ON %[1]s(compilation_scale);", d.Table),
	}
}

// UpsertSQL builds the insert-or-update statement keyed by the natural
// feature identity (enc_name, feature_fid). The raw geometry arrives as
// GeoJSON; the projected geometry is derived in the same statement so a row
// with an invalid or absent geometry keeps a NULL geom_3857 and drops out
// of tile queries without breaking the chart.
func (d *LayerDef) UpsertSQL() string {
	cols := []string{
		"enc_name", "feature_fid", "edition", "update_number",
		"compilation_scale", "scamin", "objl",
	}
	for _, col := range d.Columns {
		cols = append(cols, col.Column)
	}
	cols = append(cols, "ac", "lc", "sy", "sordat", "sorind", "attributes", "min_zoom", "max_zoom", "geom", "geom_3857")

	var sel strings.Builder
	// one placeholder per scalar column; geometry columns derive from g.geom
	for i := 0; i < len(cols)-2; i++ {
		if i > 0 {
			sel.WriteString(", ")
		}
		switch cols[i] {
		case "attributes":
			sel.WriteString("?::jsonb")
		default:
			sel.WriteString("?")
		}
	}
	sel.WriteString(", g.geom")
	sel.WriteString(", CASE WHEN g.geom IS NOT NULL AND ST_IsValid(g.geom) THEN ST_Transform(g.geom, 3857) END")

	var updates []string
	for _, col := range cols[2:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s)\nSELECT %s\nFROM (SELECT ST_Force2D(ST_SetSRID(ST_GeomFromGeoJSON(?::text), 4326)) AS geom) AS g\nON CONFLICT (enc_name, feature_fid) DO UPDATE SET %s",
		d.Table,
		strings.Join(cols, ", "),
		sel.String(),
		strings.Join(updates, ", "),
	)
}

// UpsertRow carries one feature's precomputed values in upsert order.
type UpsertRow struct {
	EncName      string
	FID          int64
	Edition      *int
	UpdateNumber *int
	Scale        int
	Scamin       *float64
	Objl         *int
	Values       []interface{}
	Style        style.Props
	Sordat       *string
	Sorind       *string
	Attributes   *string
	MinZoom      int
	MaxZoom      *int
	GeomGeoJSON  *string
}

// UpsertArgs orders a row's values to match UpsertSQL's placeholders.
func (d *LayerDef) UpsertArgs(row UpsertRow) []interface{} {
	args := []interface{}{
		row.EncName, row.FID, row.Edition, row.UpdateNumber,
		row.Scale, row.Scamin, row.Objl,
	}
	args = append(args, row.Values...)
	args = append(args,
		nullableToken(row.Style.AC), nullableToken(row.Style.LC), nullableToken(row.Style.SY),
		row.Sordat, row.Sorind, row.Attributes,
		row.MinZoom, row.MaxZoom, row.GeomGeoJSON,
	)
	return args
}

func nullableToken(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ValuesFor extracts the layer-specific column values from a decoded
// property map, in column order. Missing or mistyped attributes become
// NULLs.
func (d *LayerDef) ValuesFor(props map[string]interface{}) []interface{} {
	values := make([]interface{}, 0, len(d.Columns))
	for _, col := range d.Columns {
		switch col.Type {
		case ColFloat:
			if v, ok := charts.FloatProp(props, col.Field); ok {
				values = append(values, v)
				continue
			}
		case ColInt:
			if v, ok := charts.IntProp(props, col.Field); ok {
				values = append(values, v)
				continue
			}
		case ColText:
			if v, ok := charts.StringProp(props, col.Field); ok {
				values = append(values, v)
				continue
			}
		}
		values = append(values, nil)
	}
	return values
}

// ExtraAttributes returns the properties not mapped to typed columns or the
// common fields, for the JSONB catch-all.
func (d *LayerDef) ExtraAttributes(props map[string]interface{}) map[string]interface{} {
	mapped := make(map[string]bool, len(d.Columns))
	for _, col := range d.Columns {
		mapped[col.Field] = true
	}
	var extra map[string]interface{}
	for name, v := range props {
		if mapped[name] || commonFields[strings.ToUpper(name)] {
			continue
		}
		if extra == nil {
			extra = make(map[string]interface{})
		}
		extra[name] = v
	}
	return extra
}

// ShapeFromProperties infers an ordered attribute shape from the first
// occurrence of a layer that has no built-in definition. Only scalar
// attributes become columns; everything else stays in the JSONB catch-all.
// Ordering is alphabetical so independent first-encounters of the same
// layer infer the same shape.
func ShapeFromProperties(props map[string]interface{}) []ColumnDef {
	names := make([]string, 0, len(props))
	for name := range props {
		if commonFields[strings.ToUpper(name)] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var cols []ColumnDef
	for _, name := range names {
		var t ColType
		switch props[name].(type) {
		case string:
			t = ColText
		case float64:
			if _, ok := charts.IntProp(props, name); ok {
				t = ColInt
			} else {
				t = ColFloat
			}
		case int, int64:
			t = ColInt
		default:
			continue
		}
		cols = append(cols, ColumnDef{Field: name, Column: SanitizeIdent(name), Type: t})
	}
	return cols
}

// DynamicLayer builds a definition for a layer first seen in decoded data.
func DynamicLayer(name string, props map[string]interface{}) *LayerDef {
	return &LayerDef{
		Name:    strings.ToUpper(name),
		Table:   SanitizeIdent(name),
		Columns: ShapeFromProperties(props),
	}
}

// SanitizeIdent lowercases a decoded name into a safe SQL identifier.
func SanitizeIdent(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := b.String()
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "l_" + s
	}
	return s
}
