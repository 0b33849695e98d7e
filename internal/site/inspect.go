package site

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata summarizes a generated page
type Metadata struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Links    int       `json:"links"`
}

// Section is a top-level content region of the page
type Section struct {
	ID      string `json:"id,omitempty"`
	Heading string `json:"heading,omitempty"`
}

// Inspect parses generated HTML and reports its title and sections.
// The title falls back to the first h1 when <title> is missing.
func Inspect(html string) (*Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &InspectError{Message: "failed to parse HTML", Cause: err}
	}

	meta := &Metadata{
		Title:    collapse(doc.Find("title").First().Text()),
		Sections: make([]Section, 0),
	}
	if meta.Title == "" {
		meta.Title = collapse(doc.Find("h1").First().Text())
	}

	doc.Find("section").Each(func(_ int, s *goquery.Selection) {
		// nested sections belong to their parent
		if s.ParentsFiltered("section").Length() > 0 {
			return
		}
		id, _ := s.Attr("id")
		heading := collapse(s.Find("h1, h2, h3").First().Text())
		if id == "" && heading == "" {
			return
		}
		meta.Sections = append(meta.Sections, Section{ID: id, Heading: heading})
	})

	meta.Links = doc.Find("a[href]").Length()
	return meta, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
