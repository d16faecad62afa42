package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cmdbmcp/internal/capability"
)

// JSONFormatter writes indented JSON.
type JSONFormatter struct {
	options Options
}

// FormatCapabilities writes the capability summaries as a JSON array.
func (f *JSONFormatter) FormatCapabilities(descs []*capability.Descriptor) error {
	_, err := fmt.Fprintln(f.options.writer(), PrettyJSON(Summarize(descs)))
	return err
}

// FormatResult writes data as JSON.
func (f *JSONFormatter) FormatResult(data interface{}) error {
	_, err := fmt.Fprintln(f.options.writer(), PrettyJSON(data))
	return err
}

// PrettyJSON renders v as two-space indented JSON without HTML escaping, so
// upstream URLs and query strings print as received. Values that cannot be
// encoded fall back to %v.
func PrettyJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
