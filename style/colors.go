package style

import (
	"fmt"
	"sort"
	"strconv"
)

// Colour is an S-57 COLOUR attribute value. The integer values match the
// S-57 attribute catalogue exactly.
type Colour int

const (
	White   Colour = 1
	Black   Colour = 2
	Red     Colour = 3
	Green   Colour = 4
	Blue    Colour = 5
	Yellow  Colour = 6
	Grey    Colour = 7
	Brown   Colour = 8
	Amber   Colour = 9
	Violet  Colour = 10
	Orange  Colour = 11
	Magenta Colour = 12
	Pink    Colour = 13
)

func colourFromInt(v int) (Colour, bool) {
	if v >= 1 && v <= 13 {
		return Colour(v), true
	}
	return 0, false
}

// ParseColours reads the COLOUR attribute from a decoded property map.
// COLOUR can appear as an integer, a float (JSON numbers), a string, or a
// list of any of those (sector lights carry several colors).
func ParseColours(props map[string]interface{}) []Colour {
	raw, ok := props["COLOUR"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []interface{}:
		var out []Colour
		for _, elem := range v {
			if c, ok := parseColourValue(elem); ok {
				out = append(out, c)
			}
		}
		return out
	default:
		if c, ok := parseColourValue(v); ok {
			return []Colour{c}
		}
	}
	return nil
}

func parseColourValue(v interface{}) (Colour, bool) {
	switch val := v.(type) {
	case int:
		return colourFromInt(val)
	case int64:
		return colourFromInt(int(val))
	case float64:
		return colourFromInt(int(val))
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return colourFromInt(i)
		}
	}
	return 0, false
}

// ThemeNames are the supported display themes, in S-52 terms the day,
// dusk and night color tables.
var ThemeNames = []string{"day", "dusk", "night"}

// themes maps color tokens to hex values per theme. Tokens follow the S-52
// color token names the layer style functions emit.
var themes = map[string]map[string]string{
	"day": {
		"DEPIT": "#A9D18A",
		"DEPVS": "#77C3DC",
		"DEPMS": "#A6DBEF",
		"DEPMD": "#D4EAF5",
		"DEPDW": "#FFFFFF",
		"CHGRD": "#808080",
		"LANDA": "#E8D8A9",
		"CSTLN": "#5B5B5B",
		"SNDG1": "#768C97",
		"SNDG2": "#000000",
	},
	"dusk": {
		"DEPIT": "#4E6B3A",
		"DEPVS": "#2F5D6E",
		"DEPMS": "#3D6B80",
		"DEPMD": "#4A7588",
		"DEPDW": "#30383D",
		"CHGRD": "#6B6B6B",
		"LANDA": "#6E6248",
		"CSTLN": "#9A9A9A",
		"SNDG1": "#8FA3AC",
		"SNDG2": "#C8C8C8",
	},
	"night": {
		"DEPIT": "#22301A",
		"DEPVS": "#12252C",
		"DEPMS": "#182E38",
		"DEPMD": "#1D333C",
		"DEPDW": "#0A0E10",
		"CHGRD": "#3C3C3C",
		"LANDA": "#2E2920",
		"CSTLN": "#545454",
		"SNDG1": "#5F7077",
		"SNDG2": "#8A8A8A",
	},
}

// ColorMap returns the token table for a theme.
func ColorMap(theme string) (map[string]string, error) {
	m, ok := themes[theme]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (want one of day, dusk, night)", theme)
	}
	return m, nil
}

// Tokens lists the known color tokens of a theme in stable order.
func Tokens(theme string) []string {
	m := themes[theme]
	tokens := make([]string, 0, len(m))
	for t := range m {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}
