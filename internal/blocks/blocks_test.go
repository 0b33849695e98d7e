package blocks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_RoundTrip(t *testing.T) {
	contents := []string{
		"A",
		"<!DOCTYPE html>\n<html lang=\"en\">\n<body><h1>Jane Doe</h1></body>\n</html>",
		"body {\n  display: grid;\n}\n\n.card { margin: 0 }",
		"document.querySelectorAll('a').forEach(a => a.addEventListener('click', e => {}));",
		"line with -- dashes -- inside",
		"a\r\nb",
		"p {\r\n  margin: 0;\r\n}",
		"",
	}

	for _, tag := range []string{TagHTML, TagCSS, TagJS, "custom.tag"} {
		for _, content := range contents {
			assert.Equal(t, content, Extract(Wrap(tag, content), tag), "tag %q", tag)
		}
	}
}

func TestExtract_MissingMarkersReturnsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		tag  string
	}{
		{"empty input", "", TagHTML},
		{"no markers", "Here is your website! <html></html>", TagHTML},
		{"only opening marker", "--html--\n<html></html>", TagHTML},
		{"markers on same line", "--html--<html></html>--html--", TagHTML},
		{"other tag only", Wrap(TagCSS, "body{}"), TagHTML},
		{"markdown fences instead", "```html\n<html></html>\n```", TagHTML},
		{"empty tag", Wrap(TagHTML, "x"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, "", Extract(tt.raw, tt.tag))
			})
		})
	}
}

func TestExtract_NonGreedyAcrossTags(t *testing.T) {
	raw := "--html--\nA\n--html--\n--css--\nB\n--css--"

	assert.Equal(t, "A", Extract(raw, TagHTML))
	assert.Equal(t, "B", Extract(raw, TagCSS))
	assert.Equal(t, "", Extract(raw, TagJS))
}

func TestExtract_FirstOccurrenceWins(t *testing.T) {
	raw := Wrap(TagHTML, "first") + "\n\n" + Wrap(TagHTML, "second")

	assert.Equal(t, "first", Extract(raw, TagHTML))
}

func TestExtract_TrimsSurroundingWhitespace(t *testing.T) {
	raw := "Sure! Here is the code.\n\n--css--\n\n   body { color: red; }  \n\n--css--\nEnjoy."

	assert.Equal(t, "body { color: red; }", Extract(raw, TagCSS))
}

func TestExtract_CRLFLineEndings(t *testing.T) {
	raw := "--js--\r\nconsole.log('hi');\r\n--js--\r\n"

	assert.Equal(t, "console.log('hi');", Extract(raw, TagJS))
}

func TestExtract_CRLFInsideContentIsPreserved(t *testing.T) {
	raw := "--css--\r\nbody {\r\n  color: red;\r\n}\r\n--css--"

	assert.Equal(t, "body {\r\n  color: red;\r\n}", Extract(raw, TagCSS))
}

func TestExtract_EmptyTag(t *testing.T) {
	assert.Equal(t, "x", Extract("----\nx\n----", ""))
	assert.Equal(t, "", Extract("no markers here", ""))
}

func TestExtract_TagIsLiteral(t *testing.T) {
	// regex metacharacters in the tag must not widen the match
	assert.Equal(t, "", Extract("--jsx--\nx\n--jsx--", "j.x"))
	assert.Equal(t, "x", Extract("--j.x--\nx\n--j.x--", "j.x"))
}

func TestExtractAll(t *testing.T) {
	raw := "intro\n" + Wrap(TagHTML, "<p>hi</p>") + "\n" + Wrap(TagJS, "run()")

	got := ExtractAll(raw, TagHTML, TagCSS, TagJS)

	assert.Equal(t, map[string]string{
		TagHTML: "<p>hi</p>",
		TagCSS:  "",
		TagJS:   "run()",
	}, got)
}

func TestExtract_ConcurrentUse(t *testing.T) {
	raw := Wrap(TagHTML, "A") + "\n" + Wrap(TagCSS, "B")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "A", Extract(raw, TagHTML))
			assert.Equal(t, "B", Extract(raw, TagCSS))
		}()
	}
	wg.Wait()
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "--html--", Marker(TagHTML))
	assert.Equal(t, "--css--\nbody{}\n--css--", Wrap(TagCSS, "body{}"))
}
