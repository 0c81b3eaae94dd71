package engine

import (
	"sort"

	"ofmlcore/internal/catalog"
	"ofmlcore/internal/price"
)

// FamilyInfo is one pricable family as exposed by list-families/get-family:
// a catalog series collapsed to a base article plus its siblings.
type FamilyInfo struct {
	Key         string // the series key, used as the family key in subsequent calls
	BaseArticle string
	Siblings    []string
	Label       string // the base article's short text, if any
}

// PriceFamily converts a FamilyInfo into the price package's Family shape.
func (f FamilyInfo) PriceFamily(manufacturerKey string) price.Family {
	return price.Family{
		ManufacturerKey: manufacturerKey,
		BaseArticle:     f.BaseArticle,
		Siblings:        f.Siblings,
	}
}

// familiesFromCatalog groups a manufacturer's priceable catalog entries by
// series key into families. Within a series, the lexicographically lowest
// article id becomes the base article, matching the deterministic ordering
// already used for variant codes and condition tokens elsewhere in this
// module. A series with no explicit key (empty SeriesKey) is treated as a
// singleton family keyed by its own article id.
func familiesFromCatalog(entries []catalog.Entry) []FamilyInfo {
	bySeries := make(map[string][]catalog.Entry)
	for _, e := range entries {
		if !e.Kind.IsPriceable() {
			continue
		}
		key := e.SeriesKey
		if key == "" {
			key = e.ArticleID
		}
		bySeries[key] = append(bySeries[key], e)
	}

	out := make([]FamilyInfo, 0, len(bySeries))
	for key, members := range bySeries {
		sort.Slice(members, func(i, j int) bool { return members[i].ArticleID < members[j].ArticleID })
		siblings := make([]string, 0, len(members)-1)
		for _, m := range members[1:] {
			siblings = append(siblings, m.ArticleID)
		}
		out = append(out, FamilyInfo{
			Key:         key,
			BaseArticle: members[0].ArticleID,
			Siblings:    siblings,
			Label:       members[0].ShortText,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func findFamily(families []FamilyInfo, key string) (FamilyInfo, bool) {
	for _, f := range families {
		if f.Key == key {
			return f, true
		}
	}
	return FamilyInfo{}, false
}
