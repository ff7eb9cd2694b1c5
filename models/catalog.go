package models

import (
	"fmt"

	"gorm.io/gorm"
)

// EncCatalog is the durable record of which chart versions have been
// imported. Its presence with a matching edition/update number is the commit
// witness for idempotent re-runs. The coverage column is spatial and only
// ever touched through raw SQL, so it is not mapped here.
type EncCatalog struct {
	EncName          string `gorm:"column:enc_name;primaryKey"`
	CompilationScale int    `gorm:"column:compilation_scale"`
	Edition          *int   `gorm:"column:edition"`
	UpdateNumber     *int   `gorm:"column:update_number"`
}

func (EncCatalog) TableName() string {
	return "enc_catalog"
}

const catalogTableSQL = `CREATE TABLE IF NOT EXISTS enc_catalog (
    enc_name TEXT PRIMARY KEY,
    compilation_scale INTEGER NOT NULL,
    edition INTEGER,
    update_number INTEGER,
    coverage GEOMETRY(GEOMETRY, 4326) NOT NULL
);`

var catalogIndexSQL = []string{
	"CREATE INDEX IF NOT EXISTS enc_catalog_coverage_idx ON enc_catalog USING GIST(coverage);",
	"CREATE INDEX IF NOT EXISTS enc_catalog_compilation_scale_idx ON enc_catalog(compilation_scale);",
}

// EnsureCatalogSchema creates the catalog table and its indexes. All DDL is
// idempotent so concurrent or repeated runs are safe.
func EnsureCatalogSchema(db *gorm.DB) error {
	if err := db.Exec(catalogTableSQL).Error; err != nil {
		return fmt.Errorf("create enc_catalog: %w", err)
	}
	for _, sql := range catalogIndexSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("create enc_catalog index: %w", err)
		}
	}
	return nil
}

// IsImported reports whether this exact chart version is already durably
// imported. NULL editions/update numbers compare as equal so charts without
// edition metadata still dedupe.
func IsImported(db *gorm.DB, encName string, edition *int, updateNumber *int) (bool, error) {
	var count int64
	err := db.Raw(`SELECT COUNT(*) FROM enc_catalog
		WHERE enc_name = ?
		AND edition IS NOT DISTINCT FROM ?
		AND update_number IS NOT DISTINCT FROM ?`,
		encName, edition, updateNumber).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RegisterCatalog inserts or replaces the catalog record for a chart. Must
// run inside the chart's transaction, after all feature writes, so catalog
// presence reliably witnesses a committed import. A nil coverageGeoJSON
// writes a placeholder point at (0,0) to be replaced by the convex-hull
// fallback.
func RegisterCatalog(tx *gorm.DB, encName string, scale int, edition *int, updateNumber *int, coverageGeoJSON *string) error {
	if coverageGeoJSON != nil {
		return tx.Exec(`INSERT INTO enc_catalog (enc_name, compilation_scale, edition, update_number, coverage)
			VALUES (?, ?, ?, ?, ST_SetSRID(ST_GeomFromGeoJSON(?::text), 4326))
			ON CONFLICT (enc_name) DO UPDATE SET
				compilation_scale = EXCLUDED.compilation_scale,
				edition = EXCLUDED.edition,
				update_number = EXCLUDED.update_number,
				coverage = EXCLUDED.coverage`,
			encName, scale, edition, updateNumber, *coverageGeoJSON).Error
	}
	return tx.Exec(`INSERT INTO enc_catalog (enc_name, compilation_scale, edition, update_number, coverage)
		VALUES (?, ?, ?, ?, ST_SetSRID(ST_MakePoint(0, 0), 4326))
		ON CONFLICT (enc_name) DO UPDATE SET
			compilation_scale = EXCLUDED.compilation_scale,
			edition = EXCLUDED.edition,
			update_number = EXCLUDED.update_number`,
		encName, scale, edition, updateNumber).Error
}

// Action is the orchestrator's three-way import decision, computed once per
// chart instead of branching through the job body.
type Action int

const (
	ActionSkip Action = iota
	ActionImport
	ActionForceReimport
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionImport:
		return "import"
	case ActionForceReimport:
		return "force-reimport"
	}
	return "unknown"
}

// Decide picks the import action for a chart. Force always reprocesses and
// overwrites regardless of catalog state.
func Decide(imported bool, force bool) Action {
	switch {
	case force:
		return ActionForceReimport
	case imported:
		return ActionSkip
	default:
		return ActionImport
	}
}
