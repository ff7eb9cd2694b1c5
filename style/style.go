package style

import (
	"encoding/json"
	"fmt"
)

// Props are the style tokens precomputed per feature row at import time:
// area color, line color, and point symbol. Empty strings mean no token.
type Props struct {
	AC string
	LC string
	SY string
}

// LayerType is the Mapbox GL layer kind a LayerSpec renders as.
type LayerType int

const (
	Fill LayerType = iota
	Line
	Icon
	Text
)

// LayerSpec declares one Mapbox GL style layer for a feature table.
type LayerSpec struct {
	IDSuffix      string
	Type          LayerType
	Colors        []string
	LineWidth     float64
	TextField     string
	TextSize      float64
	TextHaloWidth float64
	TextHaloColor string
	TextAnchor    string
	TextOffset    [2]float64
	AreaColorText bool
}

// LayerStyle pairs a feature table with its style layer specs. The pgmvt
// layer definitions produce these for the style generator.
type LayerStyle struct {
	Table string
	Specs []LayerSpec
}

// buildCaseExpression emits a Mapbox GL case expression mapping a token
// property (AC or LC) to theme hex colors, transparent when unmatched.
func buildCaseExpression(prop string, tokens []string, colors map[string]string) []interface{} {
	expr := []interface{}{"case"}
	for _, token := range tokens {
		hex, ok := colors[token]
		if !ok {
			continue
		}
		expr = append(expr, []interface{}{"==", []interface{}{"get", prop}, token}, hex)
	}
	expr = append(expr, "rgba(0,0,0,0)")
	return expr
}

// GenerateStyleJSON renders a Mapbox GL style document over the generated
// tile functions for one theme.
func GenerateStyleJSON(layers []LayerStyle, theme string, tileSourceURL string) ([]byte, error) {
	colors, err := ColorMap(theme)
	if err != nil {
		return nil, err
	}

	var styleLayers []map[string]interface{}
	for _, ls := range layers {
		for _, spec := range ls.Specs {
			layer := map[string]interface{}{
				"id":           fmt.Sprintf("%s_%s", ls.Table, spec.IDSuffix),
				"source":       "enc",
				"source-layer": ls.Table,
			}

			switch spec.Type {
			case Fill:
				layer["type"] = "fill"
				layer["paint"] = map[string]interface{}{
					"fill-color": buildCaseExpression("AC", spec.Colors, colors),
				}
			case Line:
				layer["type"] = "line"
				paint := map[string]interface{}{
					"line-color": buildCaseExpression("LC", spec.Colors, colors),
				}
				if spec.LineWidth > 0 {
					paint["line-width"] = spec.LineWidth
				}
				layer["paint"] = paint
			case Icon:
				layer["type"] = "symbol"
				layer["layout"] = map[string]interface{}{
					"icon-image": []interface{}{"get", "SY"},
				}
			case Text:
				layer["type"] = "symbol"
				layout := map[string]interface{}{
					"text-field": []interface{}{"to-string", []interface{}{"get", spec.TextField}},
					"text-font":  []interface{}{"Roboto Bold"},
				}
				if spec.TextSize > 0 {
					layout["text-size"] = spec.TextSize
				}
				if spec.TextAnchor != "" {
					layout["text-anchor"] = spec.TextAnchor
				}
				if spec.TextOffset != [2]float64{} {
					layout["text-offset"] = []float64{spec.TextOffset[0], spec.TextOffset[1]}
				}
				layer["layout"] = layout

				paint := map[string]interface{}{}
				if spec.AreaColorText {
					paint["text-color"] = buildCaseExpression("AC", spec.Colors, colors)
				} else {
					paint["text-color"] = "#000000"
				}
				if spec.TextHaloWidth > 0 {
					paint["text-halo-width"] = spec.TextHaloWidth
				}
				if spec.TextHaloColor != "" {
					paint["text-halo-color"] = spec.TextHaloColor
				}
				layer["paint"] = paint
			}

			styleLayers = append(styleLayers, layer)
		}
	}

	doc := map[string]interface{}{
		"version": 8,
		"name":    fmt.Sprintf("ENC %s", theme),
		"sources": map[string]interface{}{
			"enc": map[string]interface{}{
				"type":  "vector",
				"tiles": []string{fmt.Sprintf("%s/enc/{z}/{x}/{y}", tileSourceURL)},
			},
		},
		"glyphs": fmt.Sprintf("%s/fonts/{fontstack}/{range}.pbf", tileSourceURL),
		"sprite": fmt.Sprintf("%s/sprites/%s", tileSourceURL, theme),
		"layers": styleLayers,
	}

	return json.MarshalIndent(doc, "", "  ")
}
