package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumetwin/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry holds the default formatters used by the CLI.
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ResumeAnalysis", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeAnalysis", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "SkillGap", &SkillGapTextFormatter{})
	registry.RegisterFormatter("markdown", "SkillGap", &SkillGapMarkdownFormatter{})
	registry.RegisterFormatter("text", "GrowthPath", &GrowthPathTextFormatter{})
	registry.RegisterFormatter("markdown", "GrowthPath", &GrowthPathMarkdownFormatter{})
	registry.RegisterFormatter("text", "RolesResponse", &RolesTextFormatter{})
	registry.RegisterFormatter("markdown", "RolesResponse", &RolesTextFormatter{bullet: "- "})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ResumeAnalysis:
		return "ResumeAnalysis"
	case types.SkillGap:
		return "SkillGap"
	case types.GrowthPath:
		return "GrowthPath"
	case types.RolesResponse:
		return "RolesResponse"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// AnalysisTextFormatter prints an ATS result and career twins as plain text
type AnalysisTextFormatter struct{}

func (f *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeAnalysis)
	if !ok {
		return "", fmt.Errorf("expected ResumeAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS RESULT ===\n")
	fmt.Fprintf(&output, "Score: %d/100\n", result.ATSResult.Score)
	fmt.Fprintf(&output, "Keywords found: %s\n", joinOrNone(result.ATSResult.KeywordsFound))
	fmt.Fprintf(&output, "Images: %d\n\n", result.Profile.ImageCount)

	if len(result.ATSResult.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		for _, s := range result.ATSResult.Suggestions {
			fmt.Fprintf(&output, "  - %s\n", s)
		}
		output.WriteString("\n")
	}

	output.WriteString("=== CAREER TWINS ===\n")
	if len(result.CareerTwins) == 0 {
		output.WriteString("No career twins share at least two skills.\n")
	}
	for _, twin := range result.CareerTwins {
		fmt.Fprintf(&output, "%s, %s at %s (%d shared skills)\n", twin.Name, twin.Role, twin.Company, twin.MatchScore)
	}

	return output.String(), nil
}

func (f *AnalysisTextFormatter) SupportedType() string {
	return "ResumeAnalysis"
}

// AnalysisMarkdownFormatter renders an ATS result and career twins as markdown
type AnalysisMarkdownFormatter struct{}

func (f *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeAnalysis)
	if !ok {
		return "", fmt.Errorf("expected ResumeAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Resume Report\n\n")
	fmt.Fprintf(&output, "**Score:** %d/100\n\n", result.ATSResult.Score)
	fmt.Fprintf(&output, "**Keywords found:** %s\n\n", joinOrNone(result.ATSResult.KeywordsFound))

	if len(result.ATSResult.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for _, s := range result.ATSResult.Suggestions {
			fmt.Fprintf(&output, "- %s\n", s)
		}
		output.WriteString("\n")
	}

	output.WriteString("## Career Twins\n\n")
	if len(result.CareerTwins) == 0 {
		output.WriteString("_No matches._\n")
		return output.String(), nil
	}
	output.WriteString("| Name | Role | Company | Shared skills |\n")
	output.WriteString("|------|------|---------|---------------|\n")
	for _, twin := range result.CareerTwins {
		fmt.Fprintf(&output, "| %s | %s | %s | %d |\n", twin.Name, twin.Role, twin.Company, twin.MatchScore)
	}

	return output.String(), nil
}

func (f *AnalysisMarkdownFormatter) SupportedType() string {
	return "ResumeAnalysis"
}

// SkillGapTextFormatter handles text formatting for skill gaps
type SkillGapTextFormatter struct{}

func (f *SkillGapTextFormatter) Format(data any) (string, error) {
	gap, ok := data.(types.SkillGap)
	if !ok {
		return "", fmt.Errorf("expected SkillGap, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== SKILL GAP: %s ===\n", gap.JobRole)
	fmt.Fprintf(&output, "Matched:   %s\n", joinOrNone(gap.MatchedSkills))
	fmt.Fprintf(&output, "Suggested: %s\n", joinOrNone(gap.SuggestedSkills))
	return output.String(), nil
}

func (f *SkillGapTextFormatter) SupportedType() string {
	return "SkillGap"
}

// SkillGapMarkdownFormatter handles markdown formatting for skill gaps
type SkillGapMarkdownFormatter struct{}

func (f *SkillGapMarkdownFormatter) Format(data any) (string, error) {
	gap, ok := data.(types.SkillGap)
	if !ok {
		return "", fmt.Errorf("expected SkillGap, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Skill Gap: %s\n\n", gap.JobRole)
	output.WriteString("## Matched\n\n")
	writeChecklist(&output, gap.MatchedSkills, true)
	output.WriteString("\n## Suggested\n\n")
	writeChecklist(&output, gap.SuggestedSkills, false)
	return output.String(), nil
}

func (f *SkillGapMarkdownFormatter) SupportedType() string {
	return "SkillGap"
}

// GrowthPathTextFormatter handles text formatting for growth paths
type GrowthPathTextFormatter struct{}

func (f *GrowthPathTextFormatter) Format(data any) (string, error) {
	growth, ok := data.(types.GrowthPath)
	if !ok {
		return "", fmt.Errorf("expected GrowthPath, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== CAREER PATH: %s ===\n", growth.CareerPath)
	fmt.Fprintf(&output, "Already have: %s\n", joinOrNone(growth.MatchedSkills))
	fmt.Fprintf(&output, "Learn next:   %s\n", joinOrNone(growth.MissingSkills))
	return output.String(), nil
}

func (f *GrowthPathTextFormatter) SupportedType() string {
	return "GrowthPath"
}

// GrowthPathMarkdownFormatter handles markdown formatting for growth paths
type GrowthPathMarkdownFormatter struct{}

func (f *GrowthPathMarkdownFormatter) Format(data any) (string, error) {
	growth, ok := data.(types.GrowthPath)
	if !ok {
		return "", fmt.Errorf("expected GrowthPath, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Career Path: %s\n\n", growth.CareerPath)
	writeChecklist(&output, growth.MatchedSkills, true)
	writeChecklist(&output, growth.MissingSkills, false)
	return output.String(), nil
}

func (f *GrowthPathMarkdownFormatter) SupportedType() string {
	return "GrowthPath"
}

// RolesTextFormatter prints one role per line
type RolesTextFormatter struct {
	bullet string
}

func (f *RolesTextFormatter) Format(data any) (string, error) {
	roles, ok := data.(types.RolesResponse)
	if !ok {
		return "", fmt.Errorf("expected RolesResponse, got %T", data)
	}

	var output strings.Builder
	for _, role := range roles.Roles {
		output.WriteString(f.bullet + role + "\n")
	}
	return output.String(), nil
}

func (f *RolesTextFormatter) SupportedType() string {
	return "RolesResponse"
}

func writeChecklist(b *strings.Builder, items []string, done bool) {
	mark := " "
	if done {
		mark = "x"
	}
	for _, item := range items {
		fmt.Fprintf(b, "- [%s] %s\n", mark, item)
	}
}
