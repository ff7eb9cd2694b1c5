package style

import "testing"

func TestParseColoursForms(t *testing.T) {
	cases := []struct {
		name  string
		props map[string]interface{}
		want  []Colour
	}{
		{"int", map[string]interface{}{"COLOUR": 3}, []Colour{Red}},
		{"float", map[string]interface{}{"COLOUR": float64(4)}, []Colour{Green}},
		{"string", map[string]interface{}{"COLOUR": "6"}, []Colour{Yellow}},
		{"list", map[string]interface{}{"COLOUR": []interface{}{float64(1), float64(3)}}, []Colour{White, Red}},
		{"string list", map[string]interface{}{"COLOUR": []interface{}{"4", "6"}}, []Colour{Green, Yellow}},
		{"missing", map[string]interface{}{}, nil},
		{"out of range", map[string]interface{}{"COLOUR": 99}, nil},
	}
	for _, c := range cases {
		got := ParseColours(c.props)
		if len(got) != len(c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: got %v, want %v", c.name, got, c.want)
			}
		}
	}
}

func TestColorMapThemes(t *testing.T) {
	for _, theme := range ThemeNames {
		m, err := ColorMap(theme)
		if err != nil {
			t.Fatalf("ColorMap(%s): %v", theme, err)
		}
		for _, token := range []string{"DEPDW", "LANDA", "CSTLN"} {
			if m[token] == "" {
				t.Errorf("theme %s missing token %s", theme, token)
			}
		}
	}
	if _, err := ColorMap("midnight"); err == nil {
		t.Error("unknown theme should error")
	}
}
