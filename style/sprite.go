package style

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateThemedSprites recolors the source SVG symbols for each theme and
// writes them under outDir/<theme>/. Source SVGs are authored in day-table
// colors; dusk and night variants substitute the matching theme hex for
// every day hex that maps to a known token.
func GenerateThemedSprites(svgDir, outDir string) error {
	entries, err := os.ReadDir(svgDir)
	if err != nil {
		return fmt.Errorf("read sprite source directory: %w", err)
	}

	day := themes["day"]

	for _, theme := range ThemeNames {
		target, err := ColorMap(theme)
		if err != nil {
			return err
		}
		themeDir := filepath.Join(outDir, theme)
		if err := os.MkdirAll(themeDir, 0o755); err != nil {
			return err
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".svg") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(svgDir, entry.Name()))
			if err != nil {
				return err
			}
			svg := string(data)
			if theme != "day" {
				for token, dayHex := range day {
					if themeHex, ok := target[token]; ok {
						svg = strings.ReplaceAll(svg, dayHex, themeHex)
						svg = strings.ReplaceAll(svg, strings.ToLower(dayHex), themeHex)
					}
				}
			}
			if err := os.WriteFile(filepath.Join(themeDir, entry.Name()), []byte(svg), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}
