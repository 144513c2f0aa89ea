// Package output renders query results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data in table format
	FormatTable Format = "table"
)

// maxCellWidth truncates long list cells in tables.
const maxCellWidth = 60

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unsupported format %q (want table, json or yaml)", s)
	}
	return f, nil
}

// Writer handles serialization of query results to various formats.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: format, output: output}
}

// NewFileWriter writes to path, or to stdout when path is blank. The caller
// must Close the returned Writer.
func NewFileWriter(format Format, path string) (*Writer, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewWriter(format, os.Stdout), nil
	}

	file, err := os.Create(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", trimmed, err)
	}
	return &Writer{format: format, output: file, closer: file}, nil
}

// Close releases the output file, if the Writer owns one.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Serialize outputs v in the configured format.
func (w *Writer) Serialize(v any) error {
	switch w.format {
	case FormatJSON:
		return w.serializeJSON(v)
	case FormatYAML:
		return w.serializeYAML(v)
	case FormatTable:
		return w.serializeTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeJSON(v any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(v any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

// serializeTable prints a slice of structs as one row per element and
// anything else as FIELD/VALUE pairs.
func (w *Writer) serializeTable(v any) error {
	val := indirect(reflect.ValueOf(v))
	if val.IsValid() && val.Kind() == reflect.Slice && indirectType(val.Type().Elem()).Kind() == reflect.Struct {
		return w.rows(val)
	}

	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(v), "")
	if len(flat) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, cell(flat[key]))
	}
	return tw.Flush()
}

func (w *Writer) rows(val reflect.Value) error {
	if val.Len() == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	typ := indirectType(val.Type().Elem())
	var columns []int
	var headers []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := columnName(field)
		if !field.IsExported() || name == "" {
			continue
		}
		columns = append(columns, i)
		headers = append(headers, strings.ToUpper(name))
	}

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for i := 0; i < val.Len(); i++ {
		row := indirect(val.Index(i))
		cells := make([]string, len(columns))
		for c, idx := range columns {
			if row.IsValid() {
				cells[c] = cell(row.Field(idx).Interface())
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// columnName uses the json tag name so headers match the JSON output.
func columnName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return field.Name
}

func cell(v any) string {
	val := indirect(reflect.ValueOf(v))
	if !val.IsValid() {
		return "-"
	}
	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, val.Len())
		for i := range parts {
			parts[i] = cell(val.Index(i).Interface())
		}
		return truncate(strings.Join(parts, "; "))
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.4g", val.Float())
	default:
		return truncate(fmt.Sprintf("%v", val.Interface()))
	}
}

func truncate(s string) string {
	if len([]rune(s)) <= maxCellWidth {
		return s
	}
	return string([]rune(s)[:maxCellWidth-3]) + "..."
}

func indirect(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func flattenValue(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			name := columnName(field)
			if !field.IsExported() || name == "" {
				continue
			}
			flattenValue(out, val.Field(i), joinKey(prefix, name))
		}
	case reflect.Map:
		for _, mapKey := range val.MapKeys() {
			key := joinKey(prefix, fmt.Sprintf("%v", mapKey.Interface()))
			flattenValue(out, val.MapIndex(mapKey), key)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			key := joinKey(prefix, fmt.Sprintf("[%d]", i))
			flattenValue(out, val.Index(i), key)
		}
	default:
		if prefix == "" {
			prefix = "value"
		}
		out[prefix] = val.Interface()
	}
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}
