package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"sigs.k8s.io/yaml"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatWide     Format = "wide"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTemplate Format = "template"
)

// ParseFormat splits values such as "template={{.count}}" into the format and
// its argument.
func ParseFormat(value string) (Format, string, error) {
	name, arg, _ := strings.Cut(value, "=")
	switch f := Format(name); f {
	case FormatTable, FormatWide, FormatJSON, FormatYAML:
		if arg != "" {
			return "", "", fmt.Errorf("output format %s takes no argument", f)
		}
		return f, "", nil
	case FormatTemplate:
		if arg == "" {
			return "", "", errors.New("template output requires a template, e.g. -o template='{{.count}}'")
		}
		return f, arg, nil
	default:
		return "", "", fmt.Errorf("unknown output format: %s", name)
	}
}

// Tabular reports whether the format needs a per-type table writer.
func (f Format) Tabular() bool {
	return f == FormatTable || f == FormatWide
}

// WriteObject renders obj in one of the structured formats. Field names
// follow the JSON tags of obj in every format.
func WriteObject(w io.Writer, format Format, obj any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatTable, FormatWide:
		return fmt.Errorf("%s format requires a specific formatter", format)
	case FormatTemplate:
		return errors.New("template format requires a template")
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteTemplate executes text against obj with the sprig function map. The
// object is passed as its JSON form so templates address wire field names.
func WriteTemplate(w io.Writer, text string, obj any) error {
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return nil
}
