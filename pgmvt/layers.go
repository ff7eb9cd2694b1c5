package pgmvt

import (
	"github.com/coastwise/enctiler/charts"
	"github.com/coastwise/enctiler/style"
)

// Built-in layer definitions for the chart feature classes with dedicated
// typed columns and import-time styling. Layers outside this set get a
// dynamically inferred shape on first encounter.

func depareStyle(props map[string]interface{}) style.Props {
	drval1, ok1 := charts.FloatProp(props, "DRVAL1")
	drval2, ok2 := charts.FloatProp(props, "DRVAL2")

	ac := "DEPDW"
	switch {
	case ok1 && ok2 && drval1 < 0 && drval2 <= 0:
		ac = "DEPIT"
	case ok1 && drval1 <= 3:
		ac = "DEPVS"
	case ok1 && drval1 <= 6:
		ac = "DEPMS"
	case ok1 && drval1 <= 9:
		ac = "DEPMD"
	}
	return style.Props{AC: ac, LC: "CHGRD"}
}

func lndareStyle(map[string]interface{}) style.Props {
	return style.Props{AC: "LANDA", LC: "CSTLN", SY: "LNDARE01"}
}

func lightsStyle(props map[string]interface{}) style.Props {
	colours := style.ParseColours(props)
	catlit, _ := charts.IntProp(props, "CATLIT")

	var first style.Colour
	if len(colours) > 0 {
		first = colours[0]
	}

	sy := "LITDEF11"
	switch {
	case catlit == 8 && first == style.Red:
		sy = "LIGHTS81"
	case catlit == 8:
		sy = "LIGHTS82"
	case first == style.Red:
		sy = "LIGHTS11"
	case first == style.Green:
		sy = "LIGHTS12"
	case first == style.Yellow:
		sy = "LIGHTS13"
	}
	return style.Props{SY: sy}
}

func soundgStyle(props map[string]interface{}) style.Props {
	depth, ok := charts.FloatProp(props, "DEPTH")
	if !ok {
		return style.Props{}
	}
	// Shallow soundings read black, deep ones gray.
	if depth < 9 {
		return style.Props{AC: "SNDG2"}
	}
	return style.Props{AC: "SNDG1"}
}

var depare = &LayerDef{
	Name:  "DEPARE",
	Table: "depare",
	Columns: []ColumnDef{
		{Field: "DRVAL1", Column: "drval1", Type: ColFloat},
		{Field: "DRVAL2", Column: "drval2", Type: ColFloat},
	},
	StyleFn: depareStyle,
	Specs: []style.LayerSpec{
		{IDSuffix: "fill", Type: style.Fill, Colors: []string{"DEPIT", "DEPVS", "DEPMS", "DEPMD", "DEPDW"}},
		{IDSuffix: "line", Type: style.Line, Colors: []string{"CHGRD"}, LineWidth: 0.5},
	},
}

var lndare = &LayerDef{
	Name:  "LNDARE",
	Table: "lndare",
	Columns: []ColumnDef{
		{Field: "OBJNAM", Column: "objnam", Type: ColText},
		{Field: "CONDTN", Column: "condtn", Type: ColInt},
		{Field: "NATSUR", Column: "natsur", Type: ColInt},
		{Field: "NATQUA", Column: "natqua", Type: ColInt},
	},
	StyleFn: lndareStyle,
	Specs: []style.LayerSpec{
		{IDSuffix: "fill", Type: style.Fill, Colors: []string{"LANDA"}},
		{IDSuffix: "line", Type: style.Line, Colors: []string{"CSTLN"}, LineWidth: 2.0},
		{IDSuffix: "icon", Type: style.Icon},
	},
}

var lights = &LayerDef{
	Name:  "LIGHTS",
	Table: "lights",
	Columns: []ColumnDef{
		{Field: "CATLIT", Column: "catlit", Type: ColInt},
		{Field: "COLOUR", Column: "colour", Type: ColInt},
		{Field: "LITCHR", Column: "litchr", Type: ColInt},
		{Field: "SIGPER", Column: "sigper", Type: ColFloat},
		{Field: "VALNMR", Column: "valnmr", Type: ColFloat},
		{Field: "HEIGHT", Column: "height", Type: ColFloat},
		{Field: "OBJNAM", Column: "objnam", Type: ColText},
	},
	StyleFn: lightsStyle,
	Specs: []style.LayerSpec{
		{IDSuffix: "icon", Type: style.Icon},
	},
}

var soundg = &LayerDef{
	Name:  "SOUNDG",
	Table: "soundg",
	Columns: []ColumnDef{
		{Field: "DEPTH", Column: "depth", Type: ColFloat},
		{Field: "TECSOU", Column: "tecsou", Type: ColInt},
		{Field: "QUASOU", Column: "quasou", Type: ColInt},
		{Field: "STATUS", Column: "status", Type: ColInt},
	},
	StyleFn: soundgStyle,
	Specs: []style.LayerSpec{
		{
			IDSuffix:      "text",
			Type:          style.Text,
			Colors:        []string{"SNDG1", "SNDG2"},
			TextField:     "depth",
			TextSize:      16,
			TextAnchor:    "top",
			TextOffset:    [2]float64{0, 0.5},
			TextHaloWidth: 2.5,
			TextHaloColor: "#FFFFFF",
			AreaColorText: true,
		},
	},
}

// BuiltinLayers returns the layer definitions registered at startup.
func BuiltinLayers() []*LayerDef {
	return []*LayerDef{depare, lndare, lights, soundg}
}

// LayerStyles adapts layer definitions for the style generator.
func LayerStyles(defs []*LayerDef) []style.LayerStyle {
	out := make([]style.LayerStyle, 0, len(defs))
	for _, d := range defs {
		if len(d.Specs) == 0 {
			continue
		}
		out = append(out, style.LayerStyle{Table: d.Table, Specs: d.Specs})
	}
	return out
}
