package report

import (
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/readiness/internal/checks"
)

const (
	unsupportedFormatTemplateConstant = "unsupported report format %q (supported: %s)"
	renderErrorTemplateConstant       = "failed to render %s report: %w"
	markdownTemplateNameConstant      = "templates/report.md.tmpl"
	htmlTemplateNameConstant          = "templates/report.html.tmpl"
	jsonIndentConstant                = "  "
	yamlIndentConstant                = 2
	timestampLayoutConstant           = time.RFC3339
)

// Format names a report rendering.
type Format string

// Supported formats.
const (
	FormatJSON     Format = Format("json")
	FormatYAML     Format = Format("yaml")
	FormatMarkdown Format = Format("markdown")
	FormatHTML     Format = Format("html")
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var templateFunctions = map[string]any{
	"percent": func(value float64) string {
		return fmt.Sprintf("%.1f%%", value)
	},
	"timestamp": func(value time.Time) string {
		return value.Format(timestampLayoutConstant)
	},
	"status": func(status checks.Status) string {
		return strings.ToUpper(string(status))
	},
	"escapeCell": func(value string) string {
		return strings.ReplaceAll(strings.ReplaceAll(value, "|", "\\|"), "\n", " ")
	},
}

var (
	markdownTemplate = texttemplate.Must(texttemplate.New("report.md.tmpl").Funcs(texttemplate.FuncMap(templateFunctions)).ParseFS(templateFiles, markdownTemplateNameConstant))
	htmlTemplate     = htmltemplate.Must(htmltemplate.New("report.html.tmpl").Funcs(htmltemplate.FuncMap(templateFunctions)).ParseFS(templateFiles, htmlTemplateNameConstant))
)

// SupportedFormats lists the formats accepted by ParseFormat.
func SupportedFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}
}

// ParseFormat normalizes a user-supplied format name; "md" and "yml" are accepted aliases.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	}
	for _, format := range SupportedFormats() {
		if string(format) == normalized {
			return format, nil
		}
	}
	supported := make([]string, 0, len(SupportedFormats()))
	for _, format := range SupportedFormats() {
		supported = append(supported, string(format))
	}
	return "", fmt.Errorf(unsupportedFormatTemplateConstant, value, strings.Join(supported, ", "))
}

// Extension returns the file extension used when writing the format to disk.
func (format Format) Extension() string {
	switch format {
	case FormatMarkdown:
		return "md"
	default:
		return string(format)
	}
}

// Renderer writes a report in a specific format.
type Renderer interface {
	Format() Format
	Render(writer io.Writer, report Report) error
}

// RendererFor returns the renderer for the format.
func RendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatYAML:
		return yamlRenderer{}, nil
	case FormatMarkdown:
		return markdownRenderer{}, nil
	case FormatHTML:
		return htmlRenderer{}, nil
	default:
		_, parseError := ParseFormat(string(format))
		return nil, parseError
	}
}

type jsonRenderer struct{}

func (jsonRenderer) Format() Format {
	return FormatJSON
}

func (jsonRenderer) Render(writer io.Writer, report Report) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndentConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatJSON, encodeError)
	}
	return nil
}

type yamlRenderer struct{}

func (yamlRenderer) Format() Format {
	return FormatYAML
}

func (yamlRenderer) Render(writer io.Writer, report Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatYAML, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatYAML, closeError)
	}
	return nil
}

type markdownRenderer struct{}

func (markdownRenderer) Format() Format {
	return FormatMarkdown
}

func (markdownRenderer) Render(writer io.Writer, report Report) error {
	if executeError := markdownTemplate.Execute(writer, report); executeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatMarkdown, executeError)
	}
	return nil
}

type htmlRenderer struct{}

func (htmlRenderer) Format() Format {
	return FormatHTML
}

func (htmlRenderer) Render(writer io.Writer, report Report) error {
	if executeError := htmlTemplate.Execute(writer, report); executeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatHTML, executeError)
	}
	return nil
}
