package cmd

import (
	"path"
	"strings"

	"github.com/spf13/cobra"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
	"cmdbmcp/internal/formatting"
)

var (
	listKind         string
	listOutputFormat string
	listFilter       string
	listDescription  string
	listConfigPath   string
	listDebug        bool
)

// listFilterOptions contains filter criteria for capability listings.
type listFilterOptions struct {
	// Pattern is a wildcard pattern matched against names (* and ? supported)
	Pattern string
	// Description is a case-insensitive substring matched against descriptions
	Description string
}

func (o listFilterOptions) isEmpty() bool {
	return o.Pattern == "" && o.Description == ""
}

// matchesWildcard checks if a name matches a wildcard pattern.
func matchesWildcard(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	matched, err := path.Match(pattern, name)
	if err != nil {
		return false
	}
	return matched
}

// matchesDescription checks if a description contains the given substring (case-insensitive)
func matchesDescription(description, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(filter))
}

func filterDescriptors(descs []*capability.Descriptor, opts listFilterOptions) []*capability.Descriptor {
	if opts.isEmpty() {
		return descs
	}
	var filtered []*capability.Descriptor
	for _, d := range descs {
		if matchesWildcard(d.Name, opts.Pattern) && matchesDescription(d.Description, opts.Description) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools, resources and prompts",
	Long: `List the capabilities the server registers at startup.

Examples:
  cmdbmcp list
  cmdbmcp list --kind tools
  cmdbmcp list --kind resource --output json
  cmdbmcp list --filter "*domain*"
  cmdbmcp list --description city`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(listKind, true)
	if err != nil {
		return err
	}

	formatter, err := formatting.New(formatting.Options{
		Format: formatting.OutputFormat(listOutputFormat),
		Writer: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	application, err := openLocal(listConfigPath, listDebug)
	if err != nil {
		return err
	}
	defer application.Close()

	registry := application.Services().Registry
	var descs []*capability.Descriptor
	if kind != "" {
		descs = registry.List(kind)
	} else {
		for _, k := range api.Kinds {
			descs = append(descs, registry.List(k)...)
		}
	}

	descs = filterDescriptors(descs, listFilterOptions{
		Pattern:     listFilter,
		Description: listDescription,
	})
	return formatter.FormatCapabilities(descs)
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listKind, "kind", "k", "", "Only list one kind: tool(s), resource(s) or prompt(s)")
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Wildcard pattern on names (* and ? supported)")
	listCmd.Flags().StringVar(&listDescription, "description", "", "Case-insensitive substring on descriptions")
	listCmd.Flags().StringVar(&listConfigPath, "config-path", "", "Configuration directory containing config.yaml (default ~/.config/cmdbmcp)")
	listCmd.Flags().BoolVar(&listDebug, "debug", false, "Enable debug logging")

	_ = listCmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"tools", "resources", "prompts"}, cobra.ShellCompDirectiveNoFileComp
	})
}
