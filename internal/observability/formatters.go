// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/portfolio-builder/internal/site"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxLinesToShow caps free-text previews
	maxLinesToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, marking the cut with "..."
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// preview returns the first non-blank lines of text and how many were left out
func preview(text string, limit int) ([]string, int) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) <= limit {
		return lines, 0
	}
	return lines[:limit], len(lines) - limit
}

func (p *Printer) printText(title, header, text string) {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")

	lines, more := preview(text, maxLinesToShow)
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if more > 0 {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", more))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeText outputs a short preview of the extracted résumé text.
func (p *Printer) PrintResumeText(text string) {
	if text == "" {
		return
	}
	header := fmt.Sprintf("Characters: %d   Words: %d", utf8.RuneCountInString(text), len(strings.Fields(text)))
	p.printText("EXTRACTED RESUME TEXT", header, text)
}

// PrintAnalysis outputs the beginning of the model's résumé analysis.
func (p *Printer) PrintAnalysis(analysis string) {
	if analysis == "" {
		return
	}
	header := fmt.Sprintf("Characters: %d", utf8.RuneCountInString(analysis))
	p.printText("RESUME ANALYSIS", header, analysis)
}

// PrintBundle outputs the size of each generated code block.
func (p *Printer) PrintBundle(bundle *site.Bundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	for _, f := range []struct {
		name    string
		content string
	}{
		{site.IndexFile, bundle.HTML},
		{site.StyleFile, bundle.CSS},
		{site.ScriptFile, bundle.JS},
	} {
		if f.content == "" {
			sb.WriteString(fmt.Sprintf("%-12s (empty)\n", f.name))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-12s %6d bytes  %4d lines\n", f.name, len(f.content), strings.Count(f.content, "\n")+1))
	}

	p.printBox("GENERATED CODE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMetadata outputs the title and sections found in the generated page.
func (p *Printer) PrintMetadata(meta *site.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	title := meta.Title
	if title == "" {
		title = "(none)"
	}
	sb.WriteString(fmt.Sprintf("Title:    %s\n", title))
	sb.WriteString(fmt.Sprintf("Links:    %d\n", meta.Links))

	if len(meta.Sections) > 0 {
		sb.WriteString("\nSections:\n")
		count := min(len(meta.Sections), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := meta.Sections[i]
			switch {
			case s.ID != "" && s.Heading != "":
				sb.WriteString(fmt.Sprintf("  • %s (#%s)\n", s.Heading, s.ID))
			case s.ID != "":
				sb.WriteString(fmt.Sprintf("  • #%s\n", s.ID))
			default:
				sb.WriteString(fmt.Sprintf("  • %s\n", s.Heading))
			}
		}
		if len(meta.Sections) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(meta.Sections)-maxItemsToShow))
		}
	}

	p.printBox("PAGE STRUCTURE", strings.TrimSuffix(sb.String(), "\n"))
}

// BatchRow is one line of a batch summary
type BatchRow struct {
	File     string
	OutDir   string
	Duration time.Duration
	Err      error
}

// PrintBatchSummary outputs the outcome of every file in a batch run.
func (p *Printer) PrintBatchSummary(rows []BatchRow) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, row := range rows {
		if row.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s\n  %v\n", row.File, row.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s (%s)\n  → %s\n", row.File, row.Duration.Round(time.Millisecond), row.OutDir))
	}
	sb.WriteString(fmt.Sprintf("\n%d succeeded, %d failed", len(rows)-failed, failed))

	p.printBox("BATCH SUMMARY", sb.String())
}
