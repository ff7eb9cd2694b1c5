package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/coastwise/enctiler/charts"
	"github.com/coastwise/enctiler/config"
	"github.com/coastwise/enctiler/importer"
	"github.com/coastwise/enctiler/models"
	"github.com/coastwise/enctiler/pgmvt"
	"github.com/coastwise/enctiler/style"
)

func main() {
	inputDir := flag.String("input-dir", "", "root directory containing one subdirectory per chart")
	forceReimport := flag.Bool("force-reimport", false, "reimport charts even if already present with same edition/update")
	parallel := flag.Int("parallel-enc", config.MainConfig.ParallelENC, "number of charts to process in parallel")
	maxConns := flag.Int("max-connections", config.MainConfig.MaxConns, "maximum database connections in the pool")
	minConns := flag.Int("min-connections", config.MainConfig.MinConns, "minimum idle database connections to keep warm")
	styleOutput := flag.String("style-output", "", "write Mapbox GL style JSON to this path and exit")
	spritesOutput := flag.String("sprites-output", "", "generate themed sprite SVGs into this directory and exit")
	spritesSource := flag.String("sprites-source", "sprites/svg", "source directory of day-colored SVG symbols")
	theme := flag.String("theme", "day", "color theme: day, dusk or night")
	tileSourceURL := flag.String("tile-source-url", "http://localhost:3000", "vector tile source URL for style JSON")
	flag.Parse()

	// Sprite generation needs no store.
	if *spritesOutput != "" {
		if err := style.GenerateThemedSprites(*spritesSource, *spritesOutput); err != nil {
			log.Fatalf("Failed to generate sprites: %v", err)
		}
		log.Printf("Generated themed sprites in %s", *spritesOutput)
		return
	}

	// Style JSON generation needs no store either.
	if *styleOutput != "" {
		data, err := style.GenerateStyleJSON(pgmvt.LayerStyles(pgmvt.BuiltinLayers()), *theme, *tileSourceURL)
		if err != nil {
			log.Fatalf("Failed to generate style: %v", err)
		}
		if err := os.WriteFile(*styleOutput, data, 0o644); err != nil {
			log.Fatalf("Failed to write style JSON: %v", err)
		}
		log.Printf("Wrote %s style JSON to %s", *theme, *styleOutput)
		return
	}

	if *inputDir == "" {
		log.Fatal("-input-dir is required for import mode")
	}

	config.MainConfig.ParallelENC = *parallel
	config.MainConfig.MaxConns = *maxConns
	config.MainConfig.MinConns = *minConns

	log.Printf("Input directory: %s", *inputDir)
	log.Printf("Database pool: max=%d, min=%d", *maxConns, *minConns)

	db, err := models.InitDB(config.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer models.Close(db)

	if err := models.EnsureCatalogSchema(db); err != nil {
		log.Fatalf("Failed to ensure catalog schema: %v", err)
	}

	registry := pgmvt.NewLayerRegistry(db)
	if err := registry.EnsureBuiltins(); err != nil {
		log.Fatalf("Failed to ensure layer schemas: %v", err)
	}

	imp := &importer.Importer{
		DB:       db,
		Decoder:  charts.GeoJSONDecoder{},
		Registry: registry,
		Opts: importer.Options{
			InputDir:       *inputDir,
			ForceReimport:  *forceReimport,
			Parallel:       *parallel,
			AcquireTimeout: config.MainConfig.AcquireTimeoutDuration(),
		},
	}

	report, err := imp.Run(context.Background())
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	// Per-chart failures are reported but do not change the exit code.
	log.Println(report.Summary())
}
