// Package tools exposes the inline-task transform as an MCP tool surface
// (spec §6's "bundler interface", reframed for editor/agent callers that
// want to transform a single in-memory buffer without shelling out to the
// CLI) — grounded on the teacher's internal/tools package shape.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nau-media/qrlcapture/internal/config"
	"github.com/nau-media/qrlcapture/internal/transform"
)

// Server wraps the MCP server with the transform tool handler.
type Server struct {
	mcp *mcp.Server
	cfg *config.Config
}

// NewServer creates a new MCP server with transform_file registered.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	srv := &Server{
		cfg: cfg,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "qrlcapture-mcp",
				Version: "0.1.0",
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "transform_file",
		Description: "Apply the useInlineTask capture transform to a single in-memory source buffer. Returns the rewritten code and a source map, or an unedited result if the file needed no changes (wrong extension, hook identifier absent, or a vendor path).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"code": {
					"type": "string",
					"description": "The source file's full text"
				},
				"id": {
					"type": "string",
					"description": "The file's path, used to detect its extension and vendor-directory membership (e.g. 'src/components/Widget.tsx')"
				}
			},
			"required": ["code", "id"]
		}`),
	}, s.handleTransformFile)
}

func (s *Server) handleTransformFile(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgsFromRaw(req.Params.Arguments)
	if err != nil {
		return errResult(err.Error()), nil
	}

	code := getStringArg(args, "code")
	id := getStringArg(args, "id")
	if id == "" {
		return errResult("id is required"), nil
	}

	out, err := transform.TransformWithReserved(code, id, s.cfg.ReservedNames())
	if err != nil {
		return errResult(fmt.Sprintf("transform: %v", err)), nil
	}
	if out.Code == "" {
		return jsonResult(map[string]any{
			"edited": false,
			"id":     id,
		}), nil
	}

	mapJSON, err := out.Map.JSON()
	if err != nil {
		return errResult(fmt.Sprintf("encode source map: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"edited": true,
		"id":     id,
		"code":   out.Code,
		"map":    json.RawMessage(mapJSON),
	}), nil
}

// jsonResult marshals data to JSON and returns it as a tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgsFromRaw unmarshals a tool call's raw JSON arguments into a map.
func parseArgsFromRaw(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
