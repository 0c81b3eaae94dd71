package engine

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ofmlcore/internal/core"
	"ofmlcore/internal/ebase"
	"ofmlcore/internal/price"
)

const tablePriceEntries = "preiseintraege"

// priceFiles opens every *.edb file under the manufacturer's price
// directory and decodes its price-entry table into a price.File, in
// lexicographic path order so Search's "directory order, first hit wins"
// behavior is deterministic across runs.
func (e *Engine) priceFiles(manufacturerKey string) ([]*price.File, error) {
	dir := filepath.Join(e.root, manufacturerKey, priceDirName)
	matches, err := filepath.Glob(filepath.Join(dir, "*.edb"))
	if err != nil {
		return nil, fmt.Errorf("engine: globbing price directory %s: %w", dir, err)
	}
	sort.Strings(matches)

	files := make([]*price.File, 0, len(matches))
	for _, path := range matches {
		db, err := e.openCached(path)
		if err != nil {
			e.log.Warn("engine: skipping unreadable price file", zap.String("path", path), zap.Error(err))
			continue
		}
		pf, err := decodePriceFile(path, db)
		if err != nil {
			e.log.Warn("engine: skipping malformed price file", zap.String("path", path), zap.Error(err))
			continue
		}
		files = append(files, pf)
	}
	return files, nil
}

func decodePriceFile(path string, db *ebase.Database) (*price.File, error) {
	if !db.HasTable(tablePriceEntries) {
		return &price.File{Path: path}, nil
	}
	records, err := db.ReadRecords(tablePriceEntries, -1)
	if err != nil {
		return nil, err
	}

	pf := &price.File{Path: path, CatalogArticles: make(map[string]bool)}
	for _, rec := range records {
		entry, ok := decodePriceEntry(rec)
		if !ok {
			continue
		}
		pf.Entries = append(pf.Entries, entry)
		pf.CatalogArticles[entry.ArticleID] = true
	}
	return pf, nil
}

func decodePriceEntry(rec ebase.Record) (price.Entry, bool) {
	articleID := stringOf(rec, "article_id")
	if articleID == "" {
		return price.Entry{}, false
	}

	level, ok := levelFromCode(stringOf(rec, "level"))
	if !ok {
		return price.Entry{}, false
	}

	amount, ok := floatField(rec, "amount")
	if !ok {
		return price.Entry{}, false
	}

	return price.Entry{
		ArticleID:      articleID,
		Level:          level,
		ConditionToken: stringOf(rec, "condition_token"),
		Currency:       stringOf(rec, "currency"),
		Amount:         decimal.NewFromFloat(amount).Abs(),
		ValidFrom:      timeField(rec, "valid_from"),
		ValidTo:        timeField(rec, "valid_to"),
		TextID:         stringOf(rec, "text_id"),
		IsFixedAmount:  boolField(rec, "is_fixed_amount", true),
		GroupKey1:      stringOf(rec, "group_key1"),
		GroupKey2:      stringOf(rec, "group_key2"),
	}, true
}

func levelFromCode(code string) (price.Level, bool) {
	switch code {
	case "BASE", "":
		return price.LevelBase, true
	case "SURCHARGE":
		return price.LevelSurcharge, true
	case "DISCOUNT":
		return price.LevelDiscount, true
	default:
		return 0, false
	}
}

func floatField(rec ebase.Record, name string) (float64, bool) {
	v, ok := rec[name]
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func boolField(rec ebase.Record, name string, def bool) bool {
	v, ok := rec[name]
	if !ok {
		return def
	}
	if v.Kind() == core.KindBool {
		return v.AsBool()
	}
	if i, ok := v.AsInt(); ok {
		return i != 0
	}
	return def
}

func timeField(rec ebase.Record, name string) time.Time {
	v, ok := rec[name]
	if !ok {
		return time.Time{}
	}
	i, ok := v.AsInt()
	if !ok || i == 0 {
		return time.Time{}
	}
	return time.Unix(i, 0).UTC()
}
