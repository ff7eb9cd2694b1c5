package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/coastwise/enctiler/charts"
	"github.com/coastwise/enctiler/models"
	"github.com/coastwise/enctiler/pgmvt"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"
)

// Options configure one ingestion batch.
type Options struct {
	InputDir       string
	ForceReimport  bool
	Parallel       int
	AcquireTimeout time.Duration
}

// Importer drives the batch: it enumerates chart directories, applies the
// catalog skip/force decision, and schedules bounded-parallel per-chart
// jobs. Each job runs in exactly one transaction; failures stay contained
// to their chart.
type Importer struct {
	DB       *gorm.DB
	Decoder  charts.Decoder
	Registry *pgmvt.LayerRegistry
	Opts     Options
}

// Run processes every chart under Opts.InputDir and returns the aggregated
// report. The returned error covers batch-level problems only (unreadable
// input directory); per-chart failures live in the report.
func (imp *Importer) Run(ctx context.Context) (*Report, error) {
	dirs, err := charts.FindChartDirs(imp.Opts.InputDir)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d chart directories, processing with parallelism=%d", len(dirs), imp.Opts.Parallel)

	results := forEachBounded(ctx, imp.Opts.Parallel, dirs, imp.processChart)
	report := &Report{Results: results}
	return report, nil
}

// processChart is one chart unit of work: decode, decide, and import inside
// a single transaction.
func (imp *Importer) processChart(ctx context.Context, dir string) ChartResult {
	res := ChartResult{Chart: charts.EncNameFromPath(dir)}

	chart, err := imp.Decoder.Decode(dir)
	if err != nil {
		res.Err = fmt.Errorf("decode: %w", err)
		return res
	}
	res.Chart = chart.Name

	imported, err := models.IsImported(imp.DB, chart.Name, chart.Metadata.Edition, &chart.Metadata.UpdateNumber)
	if err != nil {
		// Treat an unreadable catalog as not-imported; the upserts keep a
		// redundant import harmless.
		log.Printf("Failed to check catalog for %s: %v", chart.Name, err)
	}
	res.Action = models.Decide(imported, imp.Opts.ForceReimport)
	if res.Action == models.ActionSkip {
		log.Printf("Skipping %s - already imported with same edition/update", chart.Name)
		return res
	}

	minZoom, err := pgmvt.MinZoom(chart.Metadata.CompilationScale)
	if err != nil {
		res.Err = err
		return res
	}

	// Schema for every layer this chart contributes must exist before its
	// transaction writes rows. Idempotent DDL, outside the transaction so
	// racing first-users of a layer cannot deadlock on it.
	layers := chart.FeatureLayers()
	defs := make([]*pgmvt.LayerDef, len(layers))
	for i, layer := range layers {
		var firstProps map[string]interface{}
		if len(layer.Features) > 0 {
			firstProps = layer.Features[0].Properties
		}
		defs[i], err = imp.Registry.Ensure(layer.Name, firstProps)
		if err != nil {
			res.Err = err
			return res
		}
	}

	// Bounded wait for a pool slot; failing here beats blocking a worker
	// indefinitely when the pool is exhausted.
	if err := models.AcquireConn(ctx, imp.DB, imp.Opts.AcquireTimeout); err != nil {
		res.Err = err
		return res
	}

	coverage, err := CoverageGeoJSON(chart)
	if err != nil {
		res.Err = err
		return res
	}

	count := 0
	geomCount := 0
	err = imp.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace, never accumulate: purge this chart's rows from every
		// known layer table so a reimport leaves no stale features behind.
		for _, def := range imp.Registry.Registered() {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE enc_name = ?", def.Table), chart.Name).Error; err != nil {
				return fmt.Errorf("purge %s: %w", def.Table, err)
			}
		}

		for i, layer := range layers {
			n, g, err := imp.upsertLayer(tx, defs[i], chart, layer, minZoom)
			if err != nil {
				return err
			}
			count += n
			geomCount += g
		}

		if err := models.RegisterCatalog(tx, chart.Name, chart.Metadata.CompilationScale,
			chart.Metadata.Edition, &chart.Metadata.UpdateNumber, coverage); err != nil {
			return fmt.Errorf("register catalog: %w", err)
		}

		if coverage == nil && geomCount > 0 {
			tables := make([]string, len(defs))
			args := make([]interface{}, 0, len(defs)+1)
			for i, def := range defs {
				tables[i] = def.Table
				args = append(args, chart.Name)
			}
			args = append(args, chart.Name)
			if err := tx.Exec(FallbackCoverageSQL(tables), args...).Error; err != nil {
				return fmt.Errorf("coverage fallback: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		res.Err = err
		return res
	}

	if coverage == nil && geomCount == 0 {
		log.Printf("Warning: %s has no geometries at all; catalog coverage left degraded", chart.Name)
	}

	res.Features = count
	log.Printf("Completed %s: %d features (%s)", chart.Name, count, res.Action)
	return res
}

// upsertLayer writes one decoded layer's features, precomputing the zoom
// window and projecting the geometry in the upsert itself. Returns the row
// count and how many rows carried a geometry.
func (imp *Importer) upsertLayer(tx *gorm.DB, def *pgmvt.LayerDef, chart *charts.Chart, layer charts.Layer, minZoom int) (int, int, error) {
	sql := def.UpsertSQL()
	count := 0
	geomCount := 0

	for _, f := range layer.Features {
		row := pgmvt.UpsertRow{
			EncName:      chart.Name,
			FID:          f.FID,
			Edition:      chart.Metadata.Edition,
			UpdateNumber: &chart.Metadata.UpdateNumber,
			Scale:        chart.Metadata.CompilationScale,
			Scamin:       f.Scamin(),
			Values:       def.ValuesFor(f.Properties),
			MinZoom:      minZoom,
		}

		if objl, ok := charts.IntProp(f.Properties, "OBJL"); ok {
			row.Objl = &objl
		}
		if s, ok := charts.StringProp(f.Properties, "SORDAT"); ok {
			row.Sordat = &s
		}
		if s, ok := charts.StringProp(f.Properties, "SORIND"); ok {
			row.Sorind = &s
		}

		if row.Scamin != nil {
			if z, err := pgmvt.MaxZoom(*row.Scamin); err == nil {
				row.MaxZoom = &z
			}
		}

		if def.StyleFn != nil {
			row.Style = def.StyleFn(f.Properties)
		}

		if extra := def.ExtraAttributes(f.Properties); extra != nil {
			data, err := json.Marshal(extra)
			if err != nil {
				return count, geomCount, fmt.Errorf("%s feature %d attributes: %w", def.Name, f.FID, err)
			}
			s := string(data)
			row.Attributes = &s
		}

		if f.Geometry != nil {
			data, err := json.Marshal(geojson.NewGeometry(f.Geometry))
			if err != nil {
				return count, geomCount, fmt.Errorf("%s feature %d geometry: %w", def.Name, f.FID, err)
			}
			s := string(data)
			row.GeomGeoJSON = &s
			geomCount++
		}

		if err := tx.Exec(sql, def.UpsertArgs(row)...).Error; err != nil {
			return count, geomCount, fmt.Errorf("upsert %s feature %d: %w", def.Name, f.FID, err)
		}
		count++
	}

	if count > 0 {
		log.Printf("%s: %d features written for %s", def.Name, count, chart.Name)
	}
	return count, geomCount, nil
}
