package formatting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cmdbmcp/internal/capability"
	pkgstrings "cmdbmcp/pkg/strings"
)

// maxValueLen bounds a single cell in key/value output.
const maxValueLen = 100

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatCapabilities renders one row per capability.
func (f *TableFormatter) FormatCapabilities(descs []*capability.Descriptor) error {
	if len(descs) == 0 {
		return f.emptyMessage("No capabilities registered")
	}

	t := f.createTable()
	t.AppendHeader(f.header("KIND", "NAME", "URI", "ARGS", "REMOTE", "DESCRIPTION"))

	for _, s := range Summarize(descs) {
		remote := ""
		if s.Remote {
			remote = f.paint(text.FgHiYellow, "yes")
		}
		t.AppendRow(table.Row{
			s.Kind,
			f.paint(text.FgHiCyan, s.Name),
			s.URI,
			formatArgs(s.Args),
			remote,
			pkgstrings.TruncateDescription(s.Description, pkgstrings.DefaultDescriptionMaxLen),
		})
	}

	t.Render()
	return nil
}

// FormatResult renders objects as key/value rows and lists as numbered lines.
func (f *TableFormatter) FormatResult(data interface{}) error {
	switch d := data.(type) {
	case map[string]interface{}:
		return f.formatObject(d)
	case []interface{}:
		return f.formatArray(d)
	case string:
		_, err := fmt.Fprintln(f.options.writer(), d)
		return err
	default:
		_, err := fmt.Fprintln(f.options.writer(), PrettyJSON(d))
		return err
	}
}

func (f *TableFormatter) formatObject(data map[string]interface{}) error {
	if len(data) == 0 {
		return f.emptyMessage("Empty result")
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t := f.createTable()
	t.AppendHeader(f.header("KEY", "VALUE"))
	for _, key := range keys {
		t.AppendRow(table.Row{
			f.paint(text.FgHiCyan, key),
			pkgstrings.TruncateDescription(cellValue(data[key]), maxValueLen),
		})
	}

	t.Render()
	return nil
}

func (f *TableFormatter) formatArray(data []interface{}) error {
	if len(data) == 0 {
		return f.emptyMessage("No items found")
	}

	w := f.options.writer()
	for i, item := range data {
		fmt.Fprintf(w, "  %d. %s\n", i+1, pkgstrings.TruncateDescription(cellValue(item), maxValueLen))
	}
	_, err := fmt.Fprintf(w, "\n%s %d items\n", f.paint(text.FgHiBlue, "Total:"), len(data))
	return err
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.writer())
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, name := range names {
		row[i] = f.paint(text.FgHiCyan, name)
	}
	return row
}

func (f *TableFormatter) paint(color text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return color.Sprint(s)
}

func (f *TableFormatter) emptyMessage(message string) error {
	_, err := fmt.Fprintln(f.options.writer(), f.paint(text.FgYellow, message))
	return err
}

func formatArgs(args []ArgSummary) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		part := a.Name + ":" + a.Type
		if a.Required {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// cellValue renders nested values as compact JSON and scalars with %v.
func cellValue(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return strings.Join(strings.Fields(PrettyJSON(v)), " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
