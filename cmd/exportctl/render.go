package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"export-readiness/internal/domain"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (table|yaml|json)", format)
	}
}

type previewCriterion struct {
	Criterion string `json:"criterion" yaml:"criterion"`
	Label     string `json:"label" yaml:"label"`
	Option    string `json:"option" yaml:"option"`
	Points    int    `json:"points" yaml:"points"`
}

type previewDoc struct {
	CompanyID  string             `json:"company_id" yaml:"company_id"`
	TotalScore int                `json:"total_score" yaml:"total_score"`
	Category   string             `json:"category" yaml:"category"`
	Color      string             `json:"color" yaml:"color"`
	Criteria   []previewCriterion `json:"criteria" yaml:"criteria"`
}

// buildPreviewDoc ordena los criterios como el catálogo.
func buildPreviewDoc(companyID string, result domain.Classification) previewDoc {
	doc := previewDoc{
		CompanyID:  companyID,
		TotalScore: result.Total,
		Category:   string(result.Category),
		Color:      result.Category.Color(),
	}
	for _, c := range domain.Criteria() {
		cs := result.Scores[c.ID]
		doc.Criteria = append(doc.Criteria, previewCriterion{
			Criterion: string(c.ID),
			Label:     c.Label,
			Option:    cs.Option,
			Points:    cs.Points,
		})
	}
	return doc
}

func renderPreview(w io.Writer, companyID string, result domain.Classification, format string) error {
	doc := buildPreviewDoc(companyID, result)
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		_, err := io.WriteString(w, renderTable(doc))
		return err
	default:
		return validateFormat(format)
	}
}

func renderTable(doc previewDoc) string {
	labelWidth := 0
	for _, c := range doc.Criteria {
		if len([]rune(c.Label)) > labelWidth {
			labelWidth = len([]rune(c.Label))
		}
	}

	header := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	badge := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(doc.Color))

	var b strings.Builder
	b.WriteString(header.Render("Empresa " + doc.CompanyID))
	b.WriteString("\n\n")
	for _, c := range doc.Criteria {
		label := c.Label + strings.Repeat(" ", labelWidth-len([]rune(c.Label)))
		fmt.Fprintf(&b, "  %s  %d/%d  %s\n", label, c.Points, domain.MaxCriterionPoints, dim.Render(c.Option))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total: %d  Categoría: %s\n", doc.TotalScore, badge.Render(doc.Category))
	return b.String()
}
