package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"
)

// Tabler is implemented by results that know how to lay themselves out as
// a table. Anything else falls back to YAML in table mode.
type Tabler interface {
	Table() *Table
}

// TableFormatter formats data as an aligned plain-text table.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table.
// Supports: *Table, Tabler, and slices of structs.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch v := data.(type) {
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Tabler:
		return v.Table().RenderWithOptions(w, f.NoHeaders)
	}

	table, err := sliceToTable(reflect.ValueOf(data))
	if err != nil {
		return (&YAMLFormatter{}).Format(w, data)
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

// sliceToTable builds one row per struct element. Headers come from the
// json tag; fields tagged table:"-" are skipped.
func sliceToTable(v reflect.Value) (*Table, error) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unsupported element type: %s", elemType.Kind())
	}

	table := &Table{}
	var fields []int
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		if !field.IsExported() || field.Tag.Get("table") == "-" {
			continue
		}
		table.Headers = append(table.Headers, strings.ToUpper(columnName(field)))
		fields = append(fields, i)
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		row := make([]string, 0, len(fields))
		for _, idx := range fields {
			row = append(row, formatValue(elem.Field(idx)))
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func columnName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// formatValue formats a reflect.Value for display.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return "-"
	}
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}

	switch x := v.Interface().(type) {
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Format("2006-01-02 15:04:05")
	case time.Duration:
		return x.Round(time.Millisecond).String()
	case fmt.Stringer:
		return x.String()
	}

	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
		return v.String()
	case reflect.Bool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, formatValue(v.Index(i)))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
