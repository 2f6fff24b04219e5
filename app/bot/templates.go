package bot

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rbhz/jp-vocabulary/app/db"
)

const entryTemplate = `<b>{{ html .Entry.Headword }}</b>
{{- with .Entry.Reading }} 【{{ html . }}】{{ end }}
{{- if .Common }} <i>common</i>{{ end }}
{{- range $i, $s := .Entry.Senses }}
{{ inc $i }}. {{ html (join $s.EnglishDefinitions "; ") }}
{{- with $s.PartsOfSpeech }} <i>({{ html (join . ", ") }})</i>{{ end }}
{{- with $s.Links }}{{ with index . 0 }} <a href="{{ html .URL }}">{{ html (or .Text .URL) }}</a>{{ end }}{{ end }}
{{- end }}
{{- with .Entry.JLPTLevels }}
<u>JLPT</u>: {{ html (join . ", ") }}
{{- end }}
`

const collectionTemplate = `<b>{{ html .Collection.Title }}</b>
{{- range $i, $w := .Words }}
{{ add $.Offset $i }}. {{ html $w.Headword }}{{ with $w.Reading }} 【{{ html . }}】{{ end }} - {{ html (truncate $w.Gloss) }}
{{- else }}
No words yet. Search for a word and press "Save".
{{- end }}
{{- if gt .Pages 1 }}
<i>Page {{ inc .Page }}/{{ .Pages }}</i>
{{- end }}
`

// wordsPerPage keeps collection message and its keyboard within telegram limits
// (4096 characters, 100 buttons)
const wordsPerPage = 20

const maxGlossLength = 80

var templates = template.Must(template.New("entry").Funcs(template.FuncMap{
	"inc":      func(i int) int { return i + 1 },
	"add":      func(offset, i int) int { return offset + i + 1 },
	"join":     strings.Join,
	"truncate": truncate,
}).Parse(entryTemplate))

func init() {
	template.Must(templates.New("collection").Parse(collectionTemplate))
}

func execute(name string, data map[string]interface{}) (string, error) {
	buf := &bytes.Buffer{}
	if err := templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.String(), nil
}

// GetEntryMessageText returns text for dictionary entry message
func GetEntryMessageText(entry db.DictionaryEntry) (string, error) {
	common := entry.IsCommon != nil && *entry.IsCommon
	return execute("entry", map[string]interface{}{"Entry": entry, "Common": common})
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxGlossLength {
		return s
	}
	return string(runes[:maxGlossLength-1]) + "…"
}

// collectionPage returns bounds of words on page, page is clamped to existing pages
func collectionPage(collection db.Collection, page int) (start int, end int, pages int, current int) {
	pages = (len(collection.Words) + wordsPerPage - 1) / wordsPerPage
	if pages == 0 {
		pages = 1
	}
	current = page
	if current >= pages {
		current = pages - 1
	}
	if current < 0 {
		current = 0
	}
	start = current * wordsPerPage
	end = start + wordsPerPage
	if end > len(collection.Words) {
		end = len(collection.Words)
	}
	return start, end, pages, current
}

// GetCollectionMessageText returns text for a page of collection words
func GetCollectionMessageText(collection db.Collection, page int) (string, error) {
	start, end, pages, current := collectionPage(collection, page)
	return execute("collection", map[string]interface{}{
		"Collection": collection,
		"Words":      collection.Words[start:end],
		"Offset":     start,
		"Page":       current,
		"Pages":      pages,
	})
}
