package mcptools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Attach registers tools on an MCP server. Execution failures come
// back as error results, never as protocol errors, so the client
// always sees a structured payload.
func Attach(server *mcp.Server, tools []*Tool, log zerolog.Logger) {
	for _, tool := range tools {
		server.AddTool(&tool.Tool, makeHandler(tool, log))
	}
}

func makeHandler(tool *Tool, log zerolog.Logger) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return toCallResult(ErrorResultf(tool.Name, "invalid arguments: %v", err)), nil
		}
		log.Debug().Str("tool", tool.Name).Msg("Executing tool call")
		res, err := tool.Execute(ctx, input)
		if err != nil {
			log.Warn().Err(err).Str("tool", tool.Name).Msg("Tool execution failed")
			return toCallResult(ErrorResult(tool.Name, err.Error())), nil
		}
		if res.IsError() {
			log.Debug().Str("tool", tool.Name).Str("error", res.Error).Msg("Tool returned error result")
		}
		return toCallResult(res), nil
	}
}

// decodeArguments normalizes the wire arguments into a plain map.
func decodeArguments(args any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return map[string]any{}, nil
	}
	var input map[string]any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}
	return input, nil
}

func toCallResult(res *Result) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Text()}},
		IsError: res.IsError(),
	}
}
