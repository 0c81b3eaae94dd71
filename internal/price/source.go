package price

// File is one candidate price file's decoded content, as consulted by the
// three-pass search. Implementations typically wrap one manufacturer price
// table loaded from an EBASE file; a parse failure on a candidate demotes it
// to "not considered" by the caller before Search ever sees it.
type File struct {
	Path    string
	Entries []Entry
	// CatalogArticles is the set of article identifiers this file's
	// companion catalog mentions, used by pass 3 ("catalog mentions at
	// least one family article").
	CatalogArticles map[string]bool
}

// BaseEntries returns every base-level entry for article in this file.
func (f *File) BaseEntries(article string) []Entry {
	return f.entriesFor(article, LevelBase)
}

// SurchargeEntries returns every surcharge-level entry for article.
func (f *File) SurchargeEntries(article string) []Entry {
	return f.entriesFor(article, LevelSurcharge)
}

// DiscountEntries returns every discount-level entry for article.
func (f *File) DiscountEntries(article string) []Entry {
	return f.entriesFor(article, LevelDiscount)
}

func (f *File) entriesFor(article string, level Level) []Entry {
	var out []Entry
	for _, e := range f.Entries {
		if e.ArticleID == article && e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MentionsArticle reports whether this file's companion catalog mentions
// article, per pass 3's requirement.
func (f *File) MentionsArticle(article string) bool {
	return f.CatalogArticles[article]
}

// HasAnyBaseEntry reports whether this file contains a base-level entry for
// any of the given articles.
func (f *File) HasAnyBaseEntry(articles []string) (string, bool) {
	for _, a := range articles {
		if len(f.BaseEntries(a)) > 0 {
			return a, true
		}
	}
	return "", false
}

// SearchResult names which file and which article within the family the
// three-pass search selected, and whether it landed in the surcharge-only
// (pass 3) mode.
type SearchResult struct {
	File          *File
	MatchedArticle string
	SurchargeOnly bool
}

// Search runs the three-pass file search described in §4.H: exact base,
// sibling base, surcharge-only. Files are considered in the order given
// (directory order); first hit wins within a pass, passes are tried in
// order, and there is no cross-file merging.
func Search(family Family, files []*File) (SearchResult, error) {
	// Pass 1: exact base.
	for _, f := range files {
		if len(f.BaseEntries(family.BaseArticle)) > 0 {
			return SearchResult{File: f, MatchedArticle: family.BaseArticle}, nil
		}
	}

	// Pass 2: sibling base.
	for _, f := range files {
		if article, ok := f.HasAnyBaseEntry(family.Siblings); ok {
			return SearchResult{File: f, MatchedArticle: article}, nil
		}
	}

	// Pass 3: surcharge-only.
	articles := family.AllArticles()
	for _, f := range files {
		if _, ok := f.HasAnyBaseEntry(articles); ok {
			continue // disqualified: this file has a base entry for the family elsewhere, pass 1/2 would have used it
		}
		mentioned := false
		for _, a := range articles {
			if f.MentionsArticle(a) {
				mentioned = true
				break
			}
		}
		if !mentioned {
			continue
		}
		for _, a := range articles {
			if len(f.SurchargeEntries(a)) > 0 {
				return SearchResult{File: f, MatchedArticle: a, SurchargeOnly: true}, nil
			}
		}
	}

	return SearchResult{}, ErrNoPrice
}
