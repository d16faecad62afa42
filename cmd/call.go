package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/formatting"
	"cmdbmcp/internal/server"
	"cmdbmcp/internal/upstream"
)

var (
	callArgs         []string
	callOutputFormat string
	callConfigPath   string
	callDebug        bool
)

// remoteError is a failure reported by the server for a single invocation.
type remoteError struct {
	Kind    api.ErrorKind
	Message string
}

func (e *remoteError) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// callCmd invokes one capability through an in-process MCP client.
var callCmd = &cobra.Command{
	Use:   "call <kind> <name|uri>",
	Short: "Invoke a tool, read a resource or render a prompt",
	Long: `Invoke a single capability through the same MCP server that serve runs,
connected in-process. Resources are addressed by URI.

Examples:
  cmdbmcp call tool echo --arg message=hello
  cmdbmcp call tool repeat --arg message=hi --arg times=3
  cmdbmcp call tool exist_cmdb_domain_list --arg product_id=12 -o json
  cmdbmcp call resource "cities://Lisbon/profile"
  cmdbmcp call resource "cmdb://product-lines?rows=5"
  cmdbmcp call prompt itinerary_brief --arg city=Tokyo`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return []string{"tool", "resource", "prompt"}, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0], false)
	if err != nil {
		return err
	}
	arguments, err := parseCallArgs(callArgs)
	if err != nil {
		return err
	}

	formatter, err := formatting.New(formatting.Options{
		Format: formatting.OutputFormat(callOutputFormat),
		Writer: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	application, err := openLocal(callConfigPath, callDebug)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := connectInProcess(ctx, application.Services().Server)
	if err != nil {
		return err
	}
	defer c.Close()

	result, err := invoke(ctx, c, kind, args[1], arguments)
	if err != nil {
		return err
	}
	return formatter.FormatResult(result)
}

// parseCallArgs turns repeated key=value flags into an argument map.
// Values stay strings; the server coerces them to the declared types.
func parseCallArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg '%s': expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

func connectInProcess(ctx context.Context, srv *server.Server) (*client.Client, error) {
	c, err := client.NewInProcessClient(srv.MCPServer())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start in-process client: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "cmdbmcp-cli", Version: GetVersion()}
	if _, err := c.Initialize(ctx, req); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}
	return c, nil
}

func invoke(ctx context.Context, c *client.Client, kind api.Kind, name string, arguments map[string]string) (interface{}, error) {
	switch kind {
	case api.KindTool:
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		toolArgs := make(map[string]interface{}, len(arguments))
		for k, v := range arguments {
			toolArgs[k] = v
		}
		req.Params.Arguments = toolArgs

		result, err := c.CallTool(ctx, req)
		if err != nil {
			return nil, protocolFailure(err)
		}
		if result.IsError {
			return nil, toolFailure(result)
		}
		if result.StructuredContent != nil {
			return result.StructuredContent, nil
		}
		return joinText(result.Content), nil

	case api.KindResource:
		req := mcp.ReadResourceRequest{}
		req.Params.URI = name
		result, err := c.ReadResource(ctx, req)
		if err != nil {
			return nil, protocolFailure(err)
		}
		return resourceValue(result.Contents), nil

	case api.KindPrompt:
		req := mcp.GetPromptRequest{}
		req.Params.Name = name
		req.Params.Arguments = arguments
		result, err := c.GetPrompt(ctx, req)
		if err != nil {
			return nil, protocolFailure(err)
		}
		return promptValue(result), nil

	default:
		return nil, fmt.Errorf("unknown capability kind '%s'", kind)
	}
}

// toolFailure recovers the error kind from the structured error payload.
func toolFailure(result *mcp.CallToolResult) error {
	var payload server.ErrorPayload
	if data, err := json.Marshal(result.StructuredContent); err == nil {
		_ = json.Unmarshal(data, &payload)
	}
	if payload.Error.Kind != "" {
		return &remoteError{Kind: payload.Error.Kind, Message: payload.Error.Message}
	}
	return &remoteError{Message: joinText(result.Content)}
}

// protocolFailure extracts the "<kind>: " prefix the server puts on JSON-RPC errors.
func protocolFailure(err error) error {
	msg := err.Error()
	for _, kind := range []api.ErrorKind{
		api.KindConfiguration, api.KindValidation, api.KindUpstreamHTTP,
		api.KindUpstreamTransport, api.KindNotFound, api.KindCancelled,
	} {
		prefix := string(kind) + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return &remoteError{Kind: kind, Message: msg[i+len(prefix):]}
		}
	}
	return err
}

func joinText(contents []mcp.Content) string {
	var parts []string
	for _, content := range contents {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// resourceValue decodes JSON resource bodies so they format as data.
func resourceValue(contents []mcp.ResourceContents) interface{} {
	values := make([]interface{}, 0, len(contents))
	for _, content := range contents {
		tc, ok := content.(mcp.TextResourceContents)
		if !ok {
			continue
		}
		if decoded, err := upstream.Decode([]byte(tc.Text)); err == nil && strings.Contains(tc.MIMEType, "json") {
			values = append(values, decoded)
			continue
		}
		values = append(values, tc.Text)
	}
	if len(values) == 1 {
		return values[0]
	}
	return values
}

func promptValue(result *mcp.GetPromptResult) api.PromptResult {
	out := api.PromptResult{Description: result.Description}
	for _, msg := range result.Messages {
		text := ""
		if tc, ok := msg.Content.(mcp.TextContent); ok {
			text = tc.Text
		}
		out.Messages = append(out.Messages, api.PromptMessage{Role: string(msg.Role), Text: text})
	}
	return out
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringArrayVarP(&callArgs, "arg", "a", nil, "Argument as key=value (repeatable)")
	callCmd.Flags().StringVarP(&callOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	callCmd.Flags().StringVar(&callConfigPath, "config-path", "", "Configuration directory containing config.yaml (default ~/.config/cmdbmcp)")
	callCmd.Flags().BoolVar(&callDebug, "debug", false, "Enable debug logging")
}
