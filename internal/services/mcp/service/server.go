package service

import (
	"fmt"
	"io"

	"github.com/louisbranch/dicenotation/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Dice Notation MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

type mcpRegistrationModule struct {
	name     string
	register func(mcpRegistrationTarget) error
}

const (
	mcpRollToolsModuleName    = "roll-tools"
	mcpHistoryToolsModuleName = "history-tools"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.RollDiceInput, domain.RollDiceResult](),
	newMCPToolRegistrar[domain.ParseDiceInput, domain.ParseDiceResult](),
	newMCPToolRegistrar[domain.RollHistoryInput, domain.RollHistoryResult](),
	newMCPToolRegistrar[domain.RollReplayInput, domain.RollDiceResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(roller domain.Roller) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpRollToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerRollTools(registrar, roller)
			},
		},
		{
			name: mcpHistoryToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerHistoryTools(registrar, roller)
			},
		},
	}
}

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP server address. Defaults to localhost:8081 for HTTP transport.
	// Roller serves every tool call.
	Roller domain.Roller
	// Closer is released when the server stops, typically the history store.
	Closer io.Closer
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	closer    io.Closer
}

// New creates an MCP server whose tools call roller. closer, when non-nil,
// is closed once the server stops serving.
func New(roller domain.Roller, closer io.Closer) (*Server, error) {
	if roller == nil {
		return nil, fmt.Errorf("roller is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	for _, module := range newMCPRegistrationModules(roller) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return &Server{mcpServer: mcpServer, closer: closer}, nil
}
