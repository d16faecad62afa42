package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"cmdbmcp/internal/capability"
)

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct {
	options Options
}

// FormatCapabilities writes the capability summaries as a YAML sequence.
func (f *YAMLFormatter) FormatCapabilities(descs []*capability.Descriptor) error {
	return f.write(Summarize(descs))
}

// FormatResult writes data as YAML.
func (f *YAMLFormatter) FormatResult(data interface{}) error {
	return f.write(data)
}

func (f *YAMLFormatter) write(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = f.options.writer().Write(out)
	return err
}
