package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cmdbmcp/internal/capability"
	"cmdbmcp/pkg/logging"
)

// sessionNotifier sends notifier messages to the MCP session found in ctx.
// Delivery failures never reach the invocation.
type sessionNotifier struct {
	ctx    context.Context
	srv    *server.MCPServer
	logger string
}

func newNotifier(ctx context.Context, srv *server.MCPServer, logger string) capability.Notifier {
	return capability.MultiNotifier{
		capability.LogNotifier{Subsystem: "Capability"},
		&sessionNotifier{ctx: ctx, srv: srv, logger: logger},
	}
}

func (n *sessionNotifier) send(level mcp.LoggingLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	notification := mcp.NewLoggingMessageNotification(level, n.logger, msg)
	if err := n.srv.SendLogMessageToClient(n.ctx, notification); err != nil {
		logging.Debug("Server", "Dropped %s notification from %s: %v", level, n.logger, err)
	}
}

func (n *sessionNotifier) Debug(format string, args ...interface{}) {
	n.send(mcp.LoggingLevelDebug, format, args...)
}

func (n *sessionNotifier) Info(format string, args ...interface{}) {
	n.send(mcp.LoggingLevelInfo, format, args...)
}

func (n *sessionNotifier) Warn(format string, args ...interface{}) {
	n.send(mcp.LoggingLevelWarning, format, args...)
}

func (n *sessionNotifier) Error(format string, args ...interface{}) {
	n.send(mcp.LoggingLevelError, format, args...)
}
