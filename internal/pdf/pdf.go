// Package pdf prints markdown reports to A4 PDF files.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// PathFor returns the PDF path next to a markdown file.
func PathFor(markdownPath string) string {
	return strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".pdf"
}

// Render writes markdown content to pdfPath in portrait A4.
func Render(content []byte, pdfPath string) error {
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return fmt.Errorf("renderer.Process(%s) > %w", pdfPath, err)
	}
	return nil
}

// ConvertMarkdownToPDF converts a .md file to a PDF beside it and returns the absolute PDF path.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if filepath.Ext(markdownPath) != ".md" {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := PathFor(markdownPath)
	if err := Render(content, pdfPath); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
