// Package parser turns source documents into material the knowledge
// pipeline can consume: free text from .txt and .pdf files, and
// structured fact rows from .xlsx fact sheets.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Fact is one structured assertion from a fact sheet: subject, relation
// verb, optional anchor, object. Fact rows bypass the annotation service
// and are asserted directly.
type Fact struct {
	Subject  string
	Relation string
	Anchor   string
	Object   string
}

// Text extracts the plain text of a document. Supported formats: txt,
// pdf.
func Text(ctx context.Context, path string) (string, error) {
	switch ext(path) {
	case "txt", "text", "md":
		return parseText(path)
	case "pdf":
		return parsePDF(ctx, path)
	default:
		return "", fmt.Errorf("unsupported text format %q", ext(path))
	}
}

// Facts reads structured fact rows from a spreadsheet. Supported
// formats: xlsx.
func Facts(ctx context.Context, path string) ([]Fact, error) {
	switch ext(path) {
	case "xlsx", "xls":
		return parseXLSX(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported fact-sheet format %q", ext(path))
	}
}

// IsFactSheet reports whether the path looks like a structured fact
// sheet rather than free text.
func IsFactSheet(path string) bool {
	switch ext(path) {
	case "xlsx", "xls":
		return true
	}
	return false
}

func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
