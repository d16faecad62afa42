package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
	"cmdbmcp/pkg/logging"
)

// bind registers every descriptor of the registry with the MCP server.
func (s *Server) bind() error {
	for _, d := range s.registry.List("") {
		var err error
		switch d.Kind {
		case api.KindTool:
			err = s.bindTool(d)
		case api.KindResource:
			s.bindResource(d)
		case api.KindPrompt:
			s.bindPrompt(d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) bindTool(d *capability.Descriptor) error {
	schema, err := capability.SchemaJSON(d.Args)
	if err != nil {
		return fmt.Errorf("failed to build input schema for tool '%s': %w", d.Name, err)
	}

	name := d.Name
	tool := mcp.NewToolWithRawSchema(name, d.Description, schema)
	s.mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notifier := newNotifier(ctx, s.mcpServer, name)
		result, err := s.registry.Dispatch(ctx, api.KindTool, name, req.GetArguments(), notifier)
		if err != nil {
			logging.Debug("Server", "Tool %s failed: %v", name, err)
			return toolError(err), nil
		}
		return toolResult(result), nil
	})
	return nil
}

func (s *Server) bindResource(d *capability.Descriptor) {
	name, mimeType := d.Name, d.MIMEType

	handler := func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := req.Params.URI
		notifier := newNotifier(ctx, s.mcpServer, name)
		result, err := s.registry.ReadResource(ctx, uri, notifier)
		if err != nil {
			logging.Debug("Server", "Resource %s failed: %v", uri, err)
			return nil, protocolError(err)
		}

		text, err := encode(result)
		if err != nil {
			return nil, protocolError(err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: mimeType, Text: text},
		}, nil
	}

	if d.IsTemplate() {
		template := mcp.NewResourceTemplate(d.URI, name,
			mcp.WithTemplateDescription(d.Description),
			mcp.WithTemplateMIMEType(mimeType),
		)
		s.mcpServer.AddResourceTemplate(template, handler)
		return
	}

	resource := mcp.NewResource(d.URI, name,
		mcp.WithResourceDescription(d.Description),
		mcp.WithMIMEType(mimeType),
	)
	s.mcpServer.AddResource(resource, handler)
}

func (s *Server) bindPrompt(d *capability.Descriptor) {
	name := d.Name

	opts := []mcp.PromptOption{mcp.WithPromptDescription(d.Description)}
	for _, arg := range d.Args {
		argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(arg.Description)}
		if arg.Required {
			argOpts = append(argOpts, mcp.RequiredArgument())
		}
		opts = append(opts, mcp.WithArgument(arg.Name, argOpts...))
	}

	s.mcpServer.AddPrompt(mcp.NewPrompt(name, opts...), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := make(map[string]interface{}, len(req.Params.Arguments))
		for k, v := range req.Params.Arguments {
			args[k] = v
		}

		notifier := newNotifier(ctx, s.mcpServer, name)
		result, err := s.registry.Dispatch(ctx, api.KindPrompt, name, args, notifier)
		if err != nil {
			logging.Debug("Server", "Prompt %s failed: %v", name, err)
			return nil, protocolError(err)
		}
		return promptResult(result)
	})
}

// ErrorPayload is the structured content of a failed tool call.
type ErrorPayload struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail names the error kind and carries its message.
type ErrorDetail struct {
	Kind    api.ErrorKind `json:"kind"`
	Message string        `json:"message"`
}

func toolError(err error) *mcp.CallToolResult {
	kind := api.KindOf(err)
	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(fmt.Sprintf("%s: %v", kind, err))},
		StructuredContent: ErrorPayload{Error: ErrorDetail{Kind: kind, Message: err.Error()}},
		IsError:           true,
	}
}

func toolResult(result interface{}) *mcp.CallToolResult {
	if text, ok := result.(string); ok {
		return mcp.NewToolResultText(text)
	}
	text, err := encode(result)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultStructured(result, text)
}

func promptResult(result interface{}) (*mcp.GetPromptResult, error) {
	var prompt api.PromptResult
	switch v := result.(type) {
	case api.PromptResult:
		prompt = v
	case string:
		prompt = api.PromptResult{Messages: []api.PromptMessage{{Role: string(mcp.RoleUser), Text: v}}}
	default:
		return nil, protocolError(fmt.Errorf("prompt returned unsupported type %T", result))
	}

	messages := make([]mcp.PromptMessage, 0, len(prompt.Messages))
	for _, m := range prompt.Messages {
		messages = append(messages, mcp.NewPromptMessage(mcp.Role(m.Role), mcp.NewTextContent(m.Text)))
	}
	return mcp.NewGetPromptResult(prompt.Description, messages), nil
}

// protocolError prefixes err with its kind so it survives the trip through
// a JSON-RPC error message.
func protocolError(err error) error {
	return fmt.Errorf("%s: %w", api.KindOf(err), err)
}

func encode(v interface{}) (string, error) {
	if text, ok := v.(string); ok {
		return text, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}
