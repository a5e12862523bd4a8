package moviedb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SearchResponse represents the response from /movie/search
type SearchResponse struct {
	Docs  []MovieDoc `json:"docs"`
	Total *int       `json:"total"`
	Limit int        `json:"limit"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}

// MovieDoc is a movie as returned by both the search and detail endpoints.
// Detail-only fields are empty in search results.
type MovieDoc struct {
	ID               FlexID   `json:"id"`
	Name             string   `json:"name"`
	AlternativeName  string   `json:"alternativeName"`
	EnName           string   `json:"enName"`
	Year             int      `json:"year"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	MovieLength      int      `json:"movieLength"`
	Poster           *Image   `json:"poster"`
	Rating           *Rating  `json:"rating"`
	Premiere         *Dates   `json:"premiere"`
	Genres           []Named  `json:"genres"`
	Persons          []Person `json:"persons"`
}

// Image is a poster/backdrop reference
type Image struct {
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

// Rating holds per-source ratings; absent sources are null
type Rating struct {
	KP   *float64 `json:"kp"`
	IMDb *float64 `json:"imdb"`
}

// Dates holds premiere dates as ISO-8601 strings
type Dates struct {
	World  string `json:"world"`
	Russia string `json:"russia"`
}

// Named is a {name} object (genres, countries)
type Named struct {
	Name string `json:"name"`
}

// Person is a cast/crew entry
type Person struct {
	ID           FlexID `json:"id"`
	Name         string `json:"name"`
	EnName       string `json:"enName"`
	Profession   string `json:"profession"`
	EnProfession string `json:"enProfession"`
}

// FlexID accepts identifiers encoded as JSON numbers or strings
type FlexID string

// UnmarshalJSON implements json.Unmarshaler
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", data)
	}
	*id = FlexID(n.String())
	return nil
}
