// Package engine is the façade tying together binary catalog loading,
// variant resolution, class instantiation, and price calculation behind a
// small set of manufacturer/family-scoped operations. Database handles,
// family lists and variant rules are held in LRU caches; per-manufacturer
// configs and catalogs are cached in plain maps for the engine's lifetime.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"ofmlcore/internal/catalog"
	"ofmlcore/internal/clsast"
	"ofmlcore/internal/clsscan"
	"ofmlcore/internal/config"
	"ofmlcore/internal/core"
	"ofmlcore/internal/ebase"
	"ofmlcore/internal/price"
	"ofmlcore/internal/property"
	"ofmlcore/internal/variant"
)

const (
	catalogFileName = "catalog.edb"
	configFileName  = "engine.toml"
	priceDirName    = "price"

	defaultDBCacheSize     = 64
	defaultFamilyCacheSize = 32
	defaultRuleCacheSize   = 32
)

// LoadedConfiguration is a fully resolved product configuration: the
// property assignment, its canonical variant code, and the resolved
// condition-token set it maps to, ready for FormatConfiguration or
// CalculatePrice.
type LoadedConfiguration struct {
	ManufacturerKey string
	FamilyKey       string
	Assignment      map[string]core.Value
	VariantCode     string
	Resolved        variant.Resolved
}

// Engine is the stateful façade. It is safe for concurrent use; every cache
// it owns is internally synchronized.
type Engine struct {
	root string
	log  *zap.Logger

	dbCache     *lru.Cache[string, *ebase.Database]
	familyCache *lru.Cache[string, []FamilyInfo]
	ruleCache   *lru.Cache[string, variantRules]
	catalogs    *catalog.Loader

	mu          sync.Mutex
	configCache map[string]config.Config
}

// New returns an Engine rooted at dataRoot, the directory containing one
// subdirectory per manufacturer key.
func New(dataRoot string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dbCache, err := lru.New[string, *ebase.Database](defaultDBCacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: building database cache: %w", err)
	}
	familyCache, err := lru.New[string, []FamilyInfo](defaultFamilyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: building family cache: %w", err)
	}
	ruleCache, err := lru.New[string, variantRules](defaultRuleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: building rule cache: %w", err)
	}
	return &Engine{
		root:        dataRoot,
		log:         log,
		dbCache:     dbCache,
		familyCache: familyCache,
		ruleCache:   ruleCache,
		catalogs:    catalog.NewLoader(log),
		configCache: make(map[string]config.Config),
	}, nil
}

// manufacturerDB returns the cached, lazily opened catalog database for
// manufacturerKey.
func (e *Engine) manufacturerDB(manufacturerKey string) (*ebase.Database, error) {
	path := filepath.Join(e.root, manufacturerKey, catalogFileName)
	return e.openCached(path)
}

func (e *Engine) openCached(path string) (*ebase.Database, error) {
	if db, ok := e.dbCache.Get(path); ok {
		return db, nil
	}
	db, err := ebase.Open(path, e.log)
	if err != nil {
		return nil, err
	}
	e.dbCache.Add(path, db)
	return db, nil
}

func (e *Engine) manufacturerConfig(manufacturerKey string) config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cfg, ok := e.configCache[manufacturerKey]; ok {
		return cfg
	}
	path := filepath.Join(e.root, manufacturerKey, configFileName)
	cfg, err := config.Load(path)
	if err != nil {
		e.log.Debug("engine: no usable manufacturer config, using defaults",
			zap.String("manufacturer", manufacturerKey), zap.Error(err))
		cfg = config.Config{DefaultLanguage: "en"}
	}
	e.configCache[manufacturerKey] = cfg
	return cfg
}

func (e *Engine) manufacturerRules(manufacturerKey string) (variantRules, error) {
	if rules, ok := e.ruleCache.Get(manufacturerKey); ok {
		return rules, nil
	}
	db, err := e.manufacturerDB(manufacturerKey)
	if err != nil {
		return variantRules{}, &EngineError{Op: "load rules", ManufacturerKey: manufacturerKey, Cause: err}
	}
	rules := loadVariantRules(db, e.log)
	e.ruleCache.Add(manufacturerKey, rules)
	return rules, nil
}

// ListFamilies returns every pricable family known for manufacturerKey.
func (e *Engine) ListFamilies(manufacturerKey string) ([]FamilyInfo, error) {
	if families, ok := e.familyCache.Get(manufacturerKey); ok {
		return families, nil
	}
	db, err := e.manufacturerDB(manufacturerKey)
	if err != nil {
		return nil, &EngineError{Op: "list families", ManufacturerKey: manufacturerKey, Cause: err}
	}
	cfg := e.manufacturerConfig(manufacturerKey)
	entries, err := e.catalogs.Load(manufacturerKey, db, cfg.DefaultLanguage)
	if err != nil {
		return nil, &EngineError{Op: "list families", ManufacturerKey: manufacturerKey, Cause: err}
	}
	families := familiesFromCatalog(entries)
	e.familyCache.Add(manufacturerKey, families)
	return families, nil
}

// GetFamily returns one family by key.
func (e *Engine) GetFamily(manufacturerKey, familyKey string) (FamilyInfo, error) {
	families, err := e.ListFamilies(manufacturerKey)
	if err != nil {
		return FamilyInfo{}, err
	}
	f, ok := findFamily(families, familyKey)
	if !ok {
		return FamilyInfo{}, &EngineError{Op: "get family", ManufacturerKey: manufacturerKey, FamilyKey: familyKey, Cause: &UnknownFamilyError{FamilyKey: familyKey}}
	}
	return f, nil
}

// PropertiesForFamily loads the class implementation for familyKey's base
// article, scans its declarative setupProperty calls, and returns a fresh
// property.Manager with every definition registered but no values set.
// implementationBody is the externally-parsed expression tree for the base
// article's class implementation (see clsast); this façade never parses CLS
// source itself.
func (e *Engine) PropertiesForFamily(manufacturerKey, familyKey string, implementationBody []clsast.Node) (*property.Manager, error) {
	if _, err := e.GetFamily(manufacturerKey, familyKey); err != nil {
		return nil, err
	}
	defs, errs := clsscan.Scan(implementationBody)
	for _, scanErr := range errs {
		e.log.Warn("engine: malformed property registration skipped",
			zap.String("manufacturer", manufacturerKey), zap.String("family", familyKey), zap.Error(scanErr))
	}
	manager := property.NewManager()
	for _, def := range defs {
		manager.Register(def)
	}
	return manager, nil
}

// PropertiesForFamilyWithSelections is PropertiesForFamily followed by
// applying current as the initial value set, in registration order, so
// later validation errors are reported against a manager that already
// reflects every value that did validate.
func (e *Engine) PropertiesForFamilyWithSelections(manufacturerKey, familyKey string, implementationBody []clsast.Node, current map[string]core.Value) (*property.Manager, []error) {
	manager, err := e.PropertiesForFamily(manufacturerKey, familyKey, implementationBody)
	if err != nil {
		return nil, []error{err}
	}
	var errs []error
	for _, name := range manager.Names() {
		if v, ok := current[name]; ok {
			if err := manager.Set(name, v); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return manager, errs
}

// CreateConfiguration resolves assignment's variant code and condition-token
// set for familyKey. It does not check the values against any property
// definition; PropertiesForFamilyWithSelections (or LoadConfiguration) is
// where values are validated.
func (e *Engine) CreateConfiguration(manufacturerKey, familyKey string, assignment map[string]core.Value) (LoadedConfiguration, error) {
	if _, err := e.GetFamily(manufacturerKey, familyKey); err != nil {
		return LoadedConfiguration{}, err
	}
	rules, err := e.manufacturerRules(manufacturerKey)
	if err != nil {
		return LoadedConfiguration{}, err
	}
	resolved := variant.Resolve(assignment, rules.ConditionMapping, rules.RelationRules)
	return LoadedConfiguration{
		ManufacturerKey: manufacturerKey,
		FamilyKey:       familyKey,
		Assignment:      assignment,
		VariantCode:     variant.Code(assignment),
		Resolved:        resolved,
	}, nil
}

// CalculatePrice runs the full price computation for a loaded configuration
// as of asOf, searching every price file under the manufacturer's price
// directory.
func (e *Engine) CalculatePrice(cfg LoadedConfiguration, asOf time.Time) (price.Result, error) {
	family, err := e.GetFamily(cfg.ManufacturerKey, cfg.FamilyKey)
	if err != nil {
		return price.Result{}, err
	}
	files, err := e.priceFiles(cfg.ManufacturerKey)
	if err != nil {
		return price.Result{}, &EngineError{Op: "calculate price", ManufacturerKey: cfg.ManufacturerKey, FamilyKey: cfg.FamilyKey, Cause: err}
	}
	rules, err := e.manufacturerRules(cfg.ManufacturerKey)
	if err != nil {
		return price.Result{}, err
	}
	manufacturerCfg := e.manufacturerConfig(cfg.ManufacturerKey)

	var rounding *price.RoundingRule
	if manufacturerCfg.RoundingStep != nil {
		rounding = &price.RoundingRule{Step: *manufacturerCfg.RoundingStep}
	}

	result, err := price.Calculate(
		family.PriceFamily(cfg.ManufacturerKey),
		files,
		cfg.Assignment,
		cfg.VariantCode,
		cfg.Resolved,
		rules.TaxSchemes,
		rounding,
		asOf,
	)
	if err != nil {
		return price.Result{}, &EngineError{Op: "calculate price", ManufacturerKey: cfg.ManufacturerKey, FamilyKey: cfg.FamilyKey, Cause: err}
	}
	return result, nil
}

// LoadConfiguration is the composition of PropertiesForFamilyWithSelections
// and CreateConfiguration. Only values accepted by the scanned definitions
// reach the configuration: values rejected by Set, and names with no
// definition, are dropped without an error.
func (e *Engine) LoadConfiguration(ctx context.Context, manufacturerKey, familyKey string, implementationBody []clsast.Node, assignment map[string]core.Value) (LoadedConfiguration, error) {
	select {
	case <-ctx.Done():
		return LoadedConfiguration{}, ctx.Err()
	default:
	}
	manager, errs := e.PropertiesForFamilyWithSelections(manufacturerKey, familyKey, implementationBody, assignment)
	if manager == nil {
		return LoadedConfiguration{}, errs[0]
	}
	accepted := make(map[string]core.Value, len(assignment))
	for _, name := range manager.Names() {
		if v, ok := manager.Get(name); ok {
			accepted[name] = v
		}
	}
	return e.CreateConfiguration(manufacturerKey, familyKey, accepted)
}
