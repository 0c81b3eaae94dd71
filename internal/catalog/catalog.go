// Package catalog loads a manufacturer's article list, short/long
// description text pools, and article-to-implementation-class mapping from
// the well-known EBASE tables, producing a flat, filtered, cached list of
// catalog entries.
package catalog

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"ofmlcore/internal/core"
	"ofmlcore/internal/ebase"
)

// KindCode identifies what role a catalog entry plays. Only KindProduct
// entries participate in family-level pricing; accessories and spare parts
// are catalog-visible but never priced through the family path.
type KindCode uint8

const (
	KindProduct KindCode = iota
	KindAccessory
	KindSparePart
)

// IsPriceable reports whether entries of this kind can be resolved to a
// pricable family. Supplements the distilled spec, which names "kind code"
// in the data model but never specifies its use.
func (k KindCode) IsPriceable() bool { return k == KindProduct }

// Entry is one catalog article, augmented with its resolved description and
// optional implementation-class mapping.
type Entry struct {
	ArticleID      string
	Kind           KindCode
	ManufacturerKey string
	SeriesKey      string
	ShortText      string
	LongText       string
	ClassName      string // "" if unmapped
}

// well-known table names, per the table-name contract (§6.3). These are
// configuration constants of the core and must not be renamed at runtime.
const (
	TableArticles       = "artikel"
	TableShortTexts     = "kurztext"
	TableLongTexts      = "langtext"
	TableClassAssign    = "klassenzuordnung"
)

// Loader loads and caches catalog entries per manufacturer key.
type Loader struct {
	log *zap.Logger

	mu    sync.Mutex
	cache map[string][]Entry
}

// NewLoader returns a Loader that logs soft-fail decisions through log.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log, cache: make(map[string][]Entry)}
}

// Load returns the cached catalog for manufacturerKey if present, otherwise
// loads it from db and caches the result for the loader's lifetime.
func (l *Loader) Load(manufacturerKey string, db *ebase.Database, language string) ([]Entry, error) {
	l.mu.Lock()
	if cached, ok := l.cache[manufacturerKey]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	entries, err := l.loadFresh(manufacturerKey, db, language)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[manufacturerKey] = entries
	l.mu.Unlock()
	return entries, nil
}

func (l *Loader) loadFresh(manufacturerKey string, db *ebase.Database, language string) ([]Entry, error) {
	articles, err := db.ReadRecords(TableArticles, -1)
	if err != nil {
		return nil, err
	}

	shortTexts := indexTexts(db, TableShortTexts, language, l.log)
	longTexts := indexTexts(db, TableLongTexts, language, l.log)
	classAssignments := indexClassAssignments(db, l.log)

	var out []Entry
	for _, rec := range articles {
		id := stringField(rec, "id")
		if id == "" || strings.HasPrefix(id, "@") {
			continue
		}
		series := stringField(rec, "series")
		if containsControlChar(series) {
			continue
		}

		entry := Entry{
			ArticleID:       id,
			Kind:            kindFromCode(stringField(rec, "kind")),
			ManufacturerKey: manufacturerKey,
			SeriesKey:       series,
			ShortText:       shortTexts[stringField(rec, "short_text_id")],
			LongText:        longTexts[stringField(rec, "long_text_id")],
			ClassName:       classAssignments[id],
		}
		out = append(out, entry)
	}
	return out, nil
}

func indexTexts(db *ebase.Database, table, language string, log *zap.Logger) map[string]string {
	result := make(map[string]string)
	if !db.HasTable(table) {
		return result
	}
	records, err := db.ReadRecords(table, -1)
	if err != nil {
		log.Warn("catalog: failed to read text table", zap.String("table", table), zap.Error(err))
		return result
	}

	fallback := make(map[string]string)
	for _, rec := range records {
		id := stringField(rec, "id")
		lang := stringField(rec, "language")
		text := stringField(rec, "text")
		if id == "" {
			continue
		}
		if _, ok := fallback[id]; !ok {
			fallback[id] = text
		}
		if lang == language {
			result[id] = text
		}
	}
	// Fall back to the first available language for any id not resolved
	// in the caller's requested language.
	for id, text := range fallback {
		if _, ok := result[id]; !ok {
			result[id] = text
		}
	}
	return result
}

func indexClassAssignments(db *ebase.Database, log *zap.Logger) map[string]string {
	result := make(map[string]string)
	if !db.HasTable(TableClassAssign) {
		return result
	}
	records, err := db.ReadRecords(TableClassAssign, -1)
	if err != nil {
		log.Warn("catalog: failed to read class assignment table", zap.Error(err))
		return result
	}
	for _, rec := range records {
		id := stringField(rec, "article_id")
		class := stringField(rec, "class_name")
		if id != "" {
			result[id] = class
		}
	}
	return result
}

func stringField(rec ebase.Record, name string) string {
	v, ok := rec[name]
	if !ok {
		return ""
	}
	if v.Kind() == core.KindString {
		return v.AsString()
	}
	return v.String()
}

func kindFromCode(code string) KindCode {
	switch strings.ToUpper(code) {
	case "ACCESSORY", "ACC":
		return KindAccessory
	case "SPARE", "SPAREPART":
		return KindSparePart
	default:
		return KindProduct
	}
}

func containsControlChar(s string) bool {
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	return false
}
