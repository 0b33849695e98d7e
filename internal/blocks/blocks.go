// Package blocks extracts tagged regions from free-form model replies.
//
// A region is wrapped by a marker line of the form --tag-- before and after
// the content:
//
//	--html--
//	<!DOCTYPE html>
//	--html--
package blocks

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Tags used for the generated website source
const (
	TagHTML = "html"
	TagCSS  = "css"
	TagJS   = "js"
)

var (
	patternsMu sync.RWMutex
	patterns   = map[string]*regexp.Regexp{}
)

// Marker returns the marker line for a tag.
func Marker(tag string) string {
	return fmt.Sprintf("--%s--", tag)
}

// Wrap surrounds content with the opening and closing marker for tag.
func Wrap(tag, content string) string {
	m := Marker(tag)
	return m + "\n" + content + "\n" + m
}

// Extract returns the trimmed content of the first tag region in raw.
// It returns "" when no well-formed marker pair exists; absence is not an error.
// The content match is lazy, so a region never extends past its own closing marker.
// CRLF is accepted at the marker boundaries only; the content is returned as
// written. An empty tag matches the bare "----" marker.
func Extract(raw, tag string) string {
	match := pattern(tag).FindStringSubmatch(raw)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// ExtractAll runs Extract for each tag.
func ExtractAll(raw string, tags ...string) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		out[tag] = Extract(raw, tag)
	}
	return out
}

func pattern(tag string) *regexp.Regexp {
	patternsMu.RLock()
	re, ok := patterns[tag]
	patternsMu.RUnlock()
	if ok {
		return re
	}

	m := regexp.QuoteMeta(Marker(tag))
	re = regexp.MustCompile(`(?s)` + m + `\r?\n(.*?)\r?\n` + m)

	patternsMu.Lock()
	patterns[tag] = re
	patternsMu.Unlock()
	return re
}
