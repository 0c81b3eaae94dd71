package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofmlcore/internal/catalog"
)

func TestFamiliesFromCatalogGroupsBySeries(t *testing.T) {
	entries := []catalog.Entry{
		{ArticleID: "B100", Kind: catalog.KindProduct, SeriesKey: "SER1", ShortText: "Chair Base"},
		{ArticleID: "B050", Kind: catalog.KindProduct, SeriesKey: "SER1"},
		{ArticleID: "ACC1", Kind: catalog.KindAccessory, SeriesKey: "SER1"},
		{ArticleID: "B200", Kind: catalog.KindProduct, SeriesKey: "SER2"},
	}

	families := familiesFromCatalog(entries)
	require.Len(t, families, 2)

	ser1, ok := findFamily(families, "SER1")
	require.True(t, ok)
	assert.Equal(t, "B050", ser1.BaseArticle) // lexicographically lowest wins
	assert.Equal(t, []string{"B100"}, ser1.Siblings)

	ser2, ok := findFamily(families, "SER2")
	require.True(t, ok)
	assert.Equal(t, "B200", ser2.BaseArticle)
	assert.Empty(t, ser2.Siblings)
}

func TestFamiliesFromCatalogSkipsNonPriceableKinds(t *testing.T) {
	entries := []catalog.Entry{
		{ArticleID: "ACC1", Kind: catalog.KindAccessory, SeriesKey: "SER1"},
		{ArticleID: "SP1", Kind: catalog.KindSparePart, SeriesKey: "SER1"},
	}
	families := familiesFromCatalog(entries)
	assert.Empty(t, families)
}

func TestFamiliesFromCatalogSingletonWhenSeriesKeyEmpty(t *testing.T) {
	entries := []catalog.Entry{
		{ArticleID: "STANDALONE", Kind: catalog.KindProduct},
	}
	families := familiesFromCatalog(entries)
	require.Len(t, families, 1)
	assert.Equal(t, "STANDALONE", families[0].Key)
	assert.Equal(t, "STANDALONE", families[0].BaseArticle)
}
