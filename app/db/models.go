package db

import "github.com/rbhz/jp-vocabulary/app/clients/jisho"

const noGloss = "—"

// DictionaryEntry holds data for a single dictionary word
type DictionaryEntry struct {
	Slug       string   `json:"slug"`
	IsCommon   *bool    `json:"isCommon"`
	JLPTLevels []string `json:"jlptLevels"`
	Forms      []Form   `json:"forms"`
	Senses     []Sense  `json:"senses"`
}

// Form is a written rendering of an entry with its reading
type Form struct {
	Word    *string `json:"word"`
	Reading *string `json:"reading"`
}

// Sense is a single meaning of an entry
type Sense struct {
	EnglishDefinitions []string `json:"englishDefinitions"`
	PartsOfSpeech      []string `json:"partsOfSpeech"`
	Links              []Link   `json:"links"`
}

type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Collection is a user named list of saved entries
type Collection struct {
	ID    string            `json:"id"`
	Title string            `json:"title"`
	Words []DictionaryEntry `json:"words"`
}

// SameWord reports whether both entries describe the same word
func (e DictionaryEntry) SameWord(other DictionaryEntry) bool {
	return e.Slug == other.Slug
}

// PrimaryForm returns the first form with absent values replaced:
// word falls back to the slug, reading to an empty string
func (e DictionaryEntry) PrimaryForm() (word string, reading string) {
	word = e.Slug
	if len(e.Forms) == 0 {
		return word, ""
	}
	if f := e.Forms[0]; f.Word != nil && *f.Word != "" {
		word = *f.Word
	}
	if f := e.Forms[0]; f.Reading != nil {
		reading = *f.Reading
	}
	return word, reading
}

// Headword is the primary written form
func (e DictionaryEntry) Headword() string {
	word, _ := e.PrimaryForm()
	return word
}

// Reading is the primary reading, empty when unknown
func (e DictionaryEntry) Reading() string {
	_, reading := e.PrimaryForm()
	return reading
}

// PrimarySense returns the first sense
func (e DictionaryEntry) PrimarySense() (Sense, bool) {
	if len(e.Senses) == 0 {
		return Sense{}, false
	}
	return e.Senses[0], true
}

// Gloss returns the first english definition of the primary sense
func (e DictionaryEntry) Gloss() string {
	sense, ok := e.PrimarySense()
	if !ok || len(sense.EnglishDefinitions) == 0 {
		return noGloss
	}
	return sense.EnglishDefinitions[0]
}

// Contains reports whether collection already has the word
func (c Collection) Contains(slug string) bool {
	return c.indexOf(slug) >= 0
}

func (c Collection) indexOf(slug string) int {
	for idx, w := range c.Words {
		if w.Slug == slug {
			return idx
		}
	}
	return -1
}

// NewDictionaryEntry creates dictionary entry from jisho API word
func NewDictionaryEntry(word jisho.Word) DictionaryEntry {
	entry := DictionaryEntry{
		Slug:       word.Slug,
		IsCommon:   word.IsCommon,
		JLPTLevels: word.JLPT,
	}
	if word.Japanese != nil {
		entry.Forms = make([]Form, 0, len(word.Japanese))
		for _, j := range word.Japanese {
			entry.Forms = append(entry.Forms, Form{Word: j.Word, Reading: j.Reading})
		}
	}
	if word.Senses != nil {
		entry.Senses = make([]Sense, 0, len(word.Senses))
		for _, s := range word.Senses {
			sense := Sense{
				EnglishDefinitions: s.EnglishDefinitions,
				PartsOfSpeech:      s.PartsOfSpeech,
			}
			if s.Links != nil {
				sense.Links = make([]Link, 0, len(s.Links))
				for _, l := range s.Links {
					sense.Links = append(sense.Links, Link{Text: l.Text, URL: l.URL})
				}
			}
			entry.Senses = append(entry.Senses, sense)
		}
	}
	return entry
}

// NewDictionaryEntries converts search results preserving order
func NewDictionaryEntries(words []jisho.Word) []DictionaryEntry {
	entries := make([]DictionaryEntry, 0, len(words))
	for _, w := range words {
		entries = append(entries, NewDictionaryEntry(w))
	}
	return entries
}
