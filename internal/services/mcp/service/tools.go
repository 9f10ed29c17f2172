package service

import (
	"fmt"

	"github.com/louisbranch/dicenotation/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
}

func registerRollTools(registrar mcpRegistrationTarget, roller domain.Roller) error {
	if err := registerTool(registrar, domain.RollDiceTool(), domain.RollDiceHandler(roller)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.ParseDiceTool(), domain.ParseDiceHandler(roller)); err != nil {
		return err
	}
	return nil
}

func registerHistoryTools(registrar mcpRegistrationTarget, roller domain.Roller) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.RollHistoryTool(), handler: domain.RollHistoryHandler(roller)},
		{tool: domain.RollReplayTool(), handler: domain.RollReplayHandler(roller)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}
