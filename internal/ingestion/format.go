package ingestion

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies a supported résumé document format
type Format string

const (
	// FormatPDF is a Portable Document Format file
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word processing document
	FormatDOCX Format = "docx"
)

// MIME types accepted as format hints
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
)

// ParseFormat resolves a format hint into a Format.
// The hint may be a MIME type or a bare format name. When the hint is empty
// the file extension is used instead.
func ParseFormat(hint, fileName string) (Format, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(hint, ";")[0]))

	switch clean {
	case MimePDF, "pdf", ".pdf":
		return FormatPDF, nil
	case MimeDOCX, "docx", ".docx":
		return FormatDOCX, nil
	case "", "application/octet-stream":
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return FormatPDF, nil
		case ".docx":
			return FormatDOCX, nil
		}
	}

	return "", &UnsupportedFormatError{Hint: displayHint(hint, fileName)}
}

// DetectFormat is ParseFormat with content sniffing for uploads that arrive as
// application/zip. A zip holding word/document.xml is treated as DOCX.
func DetectFormat(hint, fileName string, data []byte) (Format, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(hint, ";")[0]))
	if clean == mimeZip || clean == "application/x-zip-compressed" {
		if isWordArchive(data) {
			return FormatDOCX, nil
		}
		return "", &UnsupportedFormatError{Hint: hint}
	}
	return ParseFormat(hint, fileName)
}

func isWordArchive(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

func displayHint(hint, fileName string) string {
	if strings.TrimSpace(hint) != "" {
		return hint
	}
	if ext := filepath.Ext(fileName); ext != "" {
		return ext
	}
	return ""
}
