/*
 * @module service/evidence/extract
 * @description Text extraction from uploaded evidence files. Plain text is
 *              read directly; PDF content is pulled through pdfcpu and the
 *              literal strings of the content streams are recovered. Other
 *              formats yield no text and rely on manual review.
 * @architecture Layered - service support
 * @rules Extraction is best-effort; failures surface as empty text plus an
 *        error, never as a crash of the upload path
 * @dependencies github.com/pdfcpu/pdfcpu/pkg/api
 */

package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const maxExtractedChars = 200_000

// ExtractText returns the textual content of a stored file based on its type.
func ExtractText(path, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "txt", "md", "csv":
		return extractPlainText(path)
	case "pdf":
		return extractPDFText(path)
	default:
		// docx, xlsx, images: no extractor wired; manual review applies.
		return "", nil
	}
}

func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("file %s is not valid utf-8 text", filepath.Base(path))
	}
	return clip(text), nil
}

// extractPDFText extracts page content streams into a scratch directory and
// recovers the literal text strings from the operators.
func extractPDFText(path string) (string, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return "", fmt.Errorf("invalid pdf: %w", err)
	}

	tmp, err := os.MkdirTemp("", "evidence-extract-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmp)

	if err := api.ExtractContentFile(path, tmp, nil, nil); err != nil {
		return "", fmt.Errorf("extract pdf content: %w", err)
	}

	var b strings.Builder
	entries, err := os.ReadDir(tmp)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmp, entry.Name()))
		if err != nil {
			continue
		}
		b.WriteString(literalStrings(string(data)))
		b.WriteString("\n")
	}
	return clip(b.String()), nil
}

// literalStrings pulls the parenthesized string operands out of a PDF content
// stream. Escaped parentheses are honored; everything else is skipped.
func literalStrings(stream string) string {
	var b strings.Builder
	depth := 0
	escaped := false
	for _, r := range stream {
		switch {
		case escaped:
			if depth > 0 {
				b.WriteRune(r)
			}
			escaped = false
		case r == '\\':
			escaped = true
		case r == '(':
			if depth > 0 {
				b.WriteRune(r)
			}
			depth++
		case r == ')':
			depth--
			if depth > 0 {
				b.WriteRune(r)
			} else if depth == 0 {
				b.WriteRune(' ')
			}
			if depth < 0 {
				depth = 0
			}
		default:
			if depth > 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func clip(text string) string {
	if len(text) > maxExtractedChars {
		return text[:maxExtractedChars]
	}
	return text
}
