package pgmvt

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// LayerRegistry maps layer names to their definitions and guarantees each
// backing table, index set, and tile function exists before the first row
// is written. Ensure is idempotent and safe when chart jobs race to first
// use of the same layer: the in-process mutex serializes workers sharing
// this registry, and all emitted DDL is create-if-absent so concurrent
// processes cannot fail or double-create either.
type LayerRegistry struct {
	mu      sync.Mutex
	db      *gorm.DB
	layers  map[string]*LayerDef
	ensured map[string]bool
}

func NewLayerRegistry(db *gorm.DB) *LayerRegistry {
	r := &LayerRegistry{
		db:      db,
		layers:  make(map[string]*LayerDef),
		ensured: make(map[string]bool),
	}
	for _, def := range BuiltinLayers() {
		r.layers[def.Name] = def
	}
	return r
}

// EnsureBuiltins creates schema for every built-in layer up front, so the
// generated enc_mvt function covers the standard chart layers even before
// any chart references them.
func (r *LayerRegistry) EnsureBuiltins() error {
	for _, def := range BuiltinLayers() {
		if _, err := r.Ensure(def.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// Ensure returns the definition for a layer, creating its schema on first
// use. Unknown layers get a shape inferred from the given first-feature
// properties; the shape is fixed from then on.
func (r *LayerRegistry) Ensure(layerName string, firstProps map[string]interface{}) (*LayerDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.layers[layerName]
	if !ok {
		def = DynamicLayer(layerName, firstProps)
		r.layers[layerName] = def
		log.Printf("Registered dynamic layer %s with %d typed columns", def.Name, len(def.Columns))
	}

	if r.ensured[def.Name] {
		return def, nil
	}

	if err := r.createSchema(def); err != nil {
		return nil, fmt.Errorf("ensure schema for layer %s: %w", def.Name, err)
	}
	r.ensured[def.Name] = true

	if err := r.db.Exec(UnifiedMVTFunctionSQL(r.registeredLocked())).Error; err != nil {
		return nil, fmt.Errorf("regenerate enc_mvt: %w", err)
	}
	return def, nil
}

func (r *LayerRegistry) createSchema(def *LayerDef) error {
	if err := r.db.Exec(def.CreateTableSQL()).Error; err != nil {
		// Another process may have won the creation race between our
		// IF NOT EXISTS check and the catalog insert; absorb it.
		if !r.tableExists(def.Table) {
			return err
		}
	}
	for _, sql := range def.CreateIndexesSQL() {
		if err := r.db.Exec(sql).Error; err != nil {
			return err
		}
	}
	if err := r.db.Exec(MVTFunctionSQL(def)).Error; err != nil {
		return err
	}
	log.Printf("Ensured schema for table %s", def.Table)
	return nil
}

func (r *LayerRegistry) tableExists(table string) bool {
	var count int64
	r.db.Raw(`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?`, table).Scan(&count)
	return count > 0
}

// Registered returns the ensured layer definitions sorted by table name.
func (r *LayerRegistry) Registered() []*LayerDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registeredLocked()
}

func (r *LayerRegistry) registeredLocked() []*LayerDef {
	defs := make([]*LayerDef, 0, len(r.ensured))
	for name := range r.ensured {
		defs = append(defs, r.layers[name])
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Table < defs[j].Table })
	return defs
}

// Lookup returns a registered definition without creating schema.
func (r *LayerRegistry) Lookup(layerName string) (*LayerDef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.layers[layerName]
	return def, ok
}
