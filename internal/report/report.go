// Package report renders decoded instances as Markdown tables, one table per kind,
// and optionally as a standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dnswlt/metamap/internal/instance"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Columns that every table starts with.
const (
	ColumnGUID = "guid"
	ColumnType = "type"
)

type row struct {
	guid     string
	typeName string
	values   map[string]string
}

type section struct {
	kind string
	rows []row
}

// Report collects rows per kind. The zero value is not usable, use New.
type Report struct {
	title string
	// Property columns per kind. Kinds without an entry show all properties of their rows.
	columns  map[string][]string
	sections map[string]*section
}

// New returns an empty report. columns optionally restricts the property columns shown per kind.
func New(title string, columns map[string][]string) *Report {
	return &Report{
		title:    title,
		columns:  columns,
		sections: make(map[string]*section),
	}
}

// Add adds a row for the instance with the given GUID and type to the table of kind.
func (r *Report) Add(kind, guid, typeName string, props *instance.Properties) {
	s, ok := r.sections[kind]
	if !ok {
		s = &section{kind: kind}
		r.sections[kind] = s
	}
	values := make(map[string]string)
	if props != nil {
		for k, v := range props.Values {
			values[k] = FormatValue(v)
		}
	}
	s.rows = append(s.rows, row{guid: guid, typeName: typeName, values: values})
}

// Len returns the total number of rows.
func (r *Report) Len() int {
	n := 0
	for _, s := range r.sections {
		n += len(s.rows)
	}
	return n
}

func (r *Report) columnsOf(s *section) []string {
	if cols, ok := r.columns[s.kind]; ok {
		return cols
	}
	names := make(map[string]bool)
	for _, row := range s.rows {
		for k := range row.values {
			names[k] = true
		}
	}
	cols := slices.Sorted(maps.Keys(names))
	// qualifiedName identifies the instance, so it goes first.
	if i := slices.Index(cols, "qualifiedName"); i > 0 {
		cols = append([]string{"qualifiedName"}, slices.Delete(cols, i, i+1)...)
	}
	return cols
}

// FormatValue returns a short, single-line representation of v.
func FormatValue(v instance.PropertyValue) string {
	switch x := v.(type) {
	case instance.EnumValue:
		return x.String()
	case instance.MapValue:
		if x.Properties == nil {
			return ""
		}
		keys := slices.Sorted(maps.Keys(x.Properties.Values))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + FormatValue(x.Properties.Values[k])
		}
		return strings.Join(parts, ", ")
	case instance.ArrayValue:
		parts := make([]string, len(x.Values))
		for i, e := range x.Values {
			parts[i] = FormatValue(e)
		}
		return strings.Join(parts, ", ")
	case instance.PrimitiveValue:
		if t, ok := x.Value.(time.Time); ok {
			return t.Format(time.RFC3339)
		}
		return fmt.Sprint(x.Value)
	}
	return ""
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func writeRow(w io.Writer, cells []string) error {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = cellEscaper.Replace(c)
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
	return err
}

// Markdown writes the report as a Markdown document with one table per kind.
// Kinds are sorted by name, rows by GUID.
func (r *Report) Markdown(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s\n", r.title); err != nil {
		return err
	}
	for _, kind := range slices.Sorted(maps.Keys(r.sections)) {
		s := r.sections[kind]
		if _, err := fmt.Fprintf(w, "\n## %s (%d)\n\n", kind, len(s.rows)); err != nil {
			return err
		}
		cols := r.columnsOf(s)
		header := append([]string{ColumnGUID, ColumnType}, cols...)
		if err := writeRow(w, header); err != nil {
			return err
		}
		sep := make([]string, len(header))
		for i := range sep {
			sep[i] = "---"
		}
		if err := writeRow(w, sep); err != nil {
			return err
		}
		rows := slices.SortedFunc(slices.Values(s.rows), func(a, b row) int {
			return strings.Compare(a.guid, b.guid)
		})
		for _, row := range rows {
			cells := []string{row.guid, row.typeName}
			for _, c := range cols {
				cells = append(cells, row.values[c])
			}
			if err := writeRow(w, cells); err != nil {
				return err
			}
		}
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 2px 6px; text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML writes the report as a standalone HTML page.
func (r *Report) HTML(w io.Writer) error {
	var md bytes.Buffer
	if err := r.Markdown(&md); err != nil {
		return err
	}
	gm := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := gm.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to process markdown: %v", err)
	}
	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: r.title,
		Body:  template.HTML(body.String()),
	})
}
