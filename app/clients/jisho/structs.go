package jisho

// SearchResponse holds jisho.org words search response
type SearchResponse struct {
	Meta struct {
		Status int `json:"status"`
	} `json:"meta"`
	Data []Word `json:"data"`
}

// Word is a single dictionary entry as returned by the API
type Word struct {
	Slug     string     `json:"slug"`
	IsCommon *bool      `json:"is_common"`
	JLPT     []string   `json:"jlpt"`
	Japanese []Japanese `json:"japanese"`
	Senses   []Sense    `json:"senses"`
}

// Japanese is a written form with its reading
type Japanese struct {
	Word    *string `json:"word"`
	Reading *string `json:"reading"`
}

type Sense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
	Links              []Link   `json:"links"`
}

type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}
