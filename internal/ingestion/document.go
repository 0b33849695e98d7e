package ingestion

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Extract converts an uploaded document into résumé text.
// formatHint is a MIME type or format name; fileName is only consulted when
// the hint is empty or generic.
func Extract(data []byte, formatHint, fileName string) (string, error) {
	format, err := DetectFormat(formatHint, fileName, data)
	if err != nil {
		return "", err
	}
	return ExtractFormat(data, format)
}

// ExtractFormat extracts text from data already known to be in the given format.
func ExtractFormat(data []byte, format Format) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Format: format, Message: "document is empty"}
	}

	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return "", &UnsupportedFormatError{Hint: string(format)}
	}
}

// extractPDF concatenates page text in document order with no separator.
func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: FormatPDF, Message: "malformed pdf", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "failed to open pdf", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{
				Format:  FormatPDF,
				Message: fmt.Sprintf("failed to read page %d", i),
				Cause:   err,
			}
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}

// extractDOCX joins body paragraphs with a single newline.
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to open docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	paragraphs, err := bodyParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to parse document.xml", Cause: err}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// skipped holds elements whose subtree contributes no paragraph text:
// tables, paragraph properties (tab stop definitions), equations and drawing
// content such as text boxes and their VML fallback.
var skipped = map[string]bool{
	"tbl":              true,
	"pPr":              true,
	"AlternateContent": true,
	"drawing":          true,
	"pict":             true,
	"txbxContent":      true,
	"oMath":            true,
	"oMathPara":        true,
}

// bodyParagraphs walks WordprocessingML and returns the text of each
// top-level paragraph. Only run-level text, tabs and breaks count.
func bodyParagraphs(documentXML string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
		runDepth   int
		skipDepth  int
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 || skipped[t.Name.Local] {
				skipDepth++
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "r":
				runDepth++
			case "t":
				inText = inPara && runDepth > 0
			case "tab":
				if inPara && runDepth > 0 {
					current.WriteString("\t")
				}
			case "br", "cr":
				if inPara && runDepth > 0 {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			switch t.Name.Local {
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
					inPara = false
				}
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
