package db

import (
	"encoding/json"
	"testing"

	"github.com/rbhz/jp-vocabulary/app/clients/jisho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}

func getEntry(slug string) DictionaryEntry {
	return DictionaryEntry{
		Slug:       slug,
		IsCommon:   ptrBool(true),
		JLPTLevels: []string{"jlpt-n5"},
		Forms: []Form{
			{Word: ptrStr("犬"), Reading: ptrStr("いぬ")},
			{Reading: ptrStr("イヌ")},
		},
		Senses: []Sense{
			{EnglishDefinitions: []string{"dog", "canine"}, PartsOfSpeech: []string{"Noun"}, Links: []Link{}},
			{
				EnglishDefinitions: []string{"Inu"},
				PartsOfSpeech:      []string{"Wikipedia definition"},
				Links:              []Link{{Text: "English Wikipedia", URL: "http://en.wikipedia.org/wiki/Inu"}},
			},
		},
	}
}

func TestNewDictionaryEntry(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		word := jisho.Word{
			Slug:     "犬-1",
			IsCommon: ptrBool(true),
			JLPT:     []string{"jlpt-n5"},
			Japanese: []jisho.Japanese{
				{Word: ptrStr("犬"), Reading: ptrStr("いぬ")},
				{Reading: ptrStr("イヌ")},
			},
			Senses: []jisho.Sense{
				{EnglishDefinitions: []string{"dog", "canine"}, PartsOfSpeech: []string{"Noun"}, Links: []jisho.Link{}},
				{
					EnglishDefinitions: []string{"Inu"},
					PartsOfSpeech:      []string{"Wikipedia definition"},
					Links:              []jisho.Link{{Text: "English Wikipedia", URL: "http://en.wikipedia.org/wiki/Inu"}},
				},
			},
		}
		assert.Equal(t, getEntry("犬-1"), NewDictionaryEntry(word))
	})
	t.Run("absent optionals", func(t *testing.T) {
		var word jisho.Word
		require.NoError(t, json.Unmarshal([]byte(`{"slug": "x", "senses": [{"english_definitions": ["x"], "parts_of_speech": []}]}`), &word))
		entry := NewDictionaryEntry(word)
		assert.Equal(t, "x", entry.Slug)
		assert.Nil(t, entry.IsCommon)
		assert.Nil(t, entry.JLPTLevels)
		assert.Nil(t, entry.Forms)
		require.Len(t, entry.Senses, 1)
		assert.Nil(t, entry.Senses[0].Links)
	})
}

func TestPrimarySelection(t *testing.T) {
	t.Run("first form and sense", func(t *testing.T) {
		entry := getEntry("犬-1")
		assert.Equal(t, "犬", entry.Headword())
		assert.Equal(t, "いぬ", entry.Reading())
		assert.Equal(t, "dog", entry.Gloss())
		sense, ok := entry.PrimarySense()
		assert.True(t, ok)
		assert.Equal(t, []string{"Noun"}, sense.PartsOfSpeech)
	})
	t.Run("kana only form", func(t *testing.T) {
		entry := DictionaryEntry{Slug: "いぬ", Forms: []Form{{Reading: ptrStr("いぬ")}}}
		assert.Equal(t, "いぬ", entry.Headword())
		assert.Equal(t, "いぬ", entry.Reading())
	})
	t.Run("empty", func(t *testing.T) {
		entry := DictionaryEntry{Slug: "59a4c1b0"}
		assert.Equal(t, "59a4c1b0", entry.Headword())
		assert.Equal(t, "", entry.Reading())
		assert.Equal(t, "—", entry.Gloss())
		_, ok := entry.PrimarySense()
		assert.False(t, ok)
	})
}

func TestSameWord(t *testing.T) {
	a := getEntry("犬-1")
	b := DictionaryEntry{Slug: "犬-1"}
	assert.True(t, a.SameWord(b))
	assert.False(t, a.SameWord(DictionaryEntry{Slug: "犬"}))
}

func TestCollectionsRoundTrip(t *testing.T) {
	collections := []Collection{
		{ID: GenerateID(), Title: "JLPT N5", Words: []DictionaryEntry{getEntry("犬-1"), {Slug: "猫"}}},
		{ID: GenerateID(), Title: "empty", Words: []DictionaryEntry{}},
	}
	data, err := json.Marshal(collections)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"englishDefinitions"`)
	assert.Contains(t, string(data), `"jlptLevels"`)
	assert.NotContains(t, string(data), `english_definitions`)

	var decoded []Collection
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, collections, decoded)
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	assert.Len(t, id, 22)
	assert.NotEqual(t, id, GenerateID())
}

func TestSlugKey(t *testing.T) {
	assert.Len(t, SlugKey("犬-1"), 16)
	assert.Equal(t, SlugKey("犬-1"), SlugKey("犬-1"))
	assert.NotEqual(t, SlugKey("犬-1"), SlugKey("犬"))
}
