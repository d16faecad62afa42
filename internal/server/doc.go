// Package server exposes a sealed capability registry over the Model Context
// Protocol using github.com/mark3labs/mcp-go.
//
// Every registered descriptor becomes an MCP tool, resource, resource
// template or prompt. Invocations are forwarded to capability.Registry, and
// failures are mapped onto the protocol:
//
//   - tool failures become results with isError set, a "<kind>: <message>"
//     text block and structured content {"error": {"kind", "message"}}
//   - resource and prompt failures become JSON-RPC errors whose message is
//     prefixed with the error kind
//
// Per-invocation notifier messages are delivered to the calling session as
// notifications/message and mirrored to the process log.
//
// # Transports
//
// The server speaks stdio (default), sse or streamable-http, selected by
// config.ServerConfig.Transport. Serve blocks until its context is cancelled.
package server
