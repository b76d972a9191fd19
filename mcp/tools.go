package mcp

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/umcp/umcp/bridge/client"
)

var validate = validator.New()

func InitTools(bridge *client.Client) []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(ForceEditorUpdate(bridge)))
	tools = append(tools, newServerTool(GetEditorState(bridge)))
	tools = append(tools, newServerTool(GetBridgeStatus(bridge)))

	return tools
}

// ForceEditorUpdate forces the editor out of play mode and refreshes its
// caches. The response reports the branch taken and the run mode observed
// before any transition; the refresh itself may still be in flight when
// the tool returns.
func ForceEditorUpdate(bridge *client.Client) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"force_editor_update",
			mcp.WithDescription("Force the editor out of play mode and refresh its asset index, scene and windows"),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			resp, err := bridge.ForceUpdate()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			b, err := json.Marshal(resp)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(b)), nil
		}
}

// GetEditorState returns the current editor snapshot.
func GetEditorState(bridge *client.Client) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_editor_state",
			mcp.WithDescription("Get the editor's run mode, active scene, asset generation and tracked clients"),
			mcp.WithBoolean("include_clients", mcp.Description("Whether to include tracked client statuses")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				IncludeClients bool `json:"include_clients" validate:"omitempty"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			snap, err := bridge.FetchState()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if !args.IncludeClients {
				snap.Clients = nil
			}

			b, err := json.Marshal(snap)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(b)), nil
		}
}

// GetBridgeStatus reports whether the bridge is reachable.
func GetBridgeStatus(bridge *client.Client) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"get_bridge_status",
			mcp.WithDescription("Check connectivity to the editor bridge"),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type BridgeStatus struct {
				Reachable bool   `json:"reachable"`
				Error     string `json:"error,omitempty"`
			}

			st := BridgeStatus{Reachable: true}
			if err := bridge.Ping(); err != nil {
				st.Reachable = false
				st.Error = err.Error()
			}

			b, err := json.Marshal(st)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(b)), nil
		}
}
