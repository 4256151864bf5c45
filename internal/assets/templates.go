// Package assets renders the species list report from an embedded or user-supplied template.
package assets

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const speciesReportTemplateName = "species-report.md.go.tmpl"

//go:embed templates/species-report.md.go.tmpl
var fallbackSpeciesReportTemplate string

// ParseSpeciesReportTemplate parses templatePath, or the embedded template when the path is empty or unusable.
func ParseSpeciesReportTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, speciesReportTemplateName, fallbackSpeciesReportTemplate)
}

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a template, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
