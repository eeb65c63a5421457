package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/discovery"
	"github.com/homefix/homefix/photo"
)

// analysisView is the JSON representation returned by analyze_image.
type analysisView struct {
	Problem     string `json:"problem"`
	Location    string `json:"location"`
	UserMessage string `json:"user_message,omitempty"`
	Solution    string `json:"solution"`
	Image       string `json:"image,omitempty"`
}

// serverView is the JSON representation returned by server_info and
// discover.
type serverView struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	Reported  string `json:"reported_base_url,omitempty"`
	Found     *bool  `json:"found,omitempty"`
	Error     string `json:"error,omitempty"`
}

func jsonResult(v any) (*gomcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return gomcp.NewToolResultError("failed to marshal result: " + err.Error()), nil
	}
	return gomcp.NewToolResultText(string(data)), nil
}

// handleChat forwards one message to the assistant.
func handleChat(backend Backend) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		message := strings.TrimSpace(req.GetString("message", ""))
		if message == "" {
			return gomcp.NewToolResultError("missing required parameter: message"), nil
		}
		Log("tool call: chat (%d chars)", len(message))

		reply, err := backend.Chat(ctx, message)
		if err != nil {
			Log("chat error: %v", err)
			return gomcp.NewToolResultError("chat failed: " + err.Error()), nil
		}
		return gomcp.NewToolResultText(reply), nil
	}
}

// handleRecommend returns the recommendation groups as JSON.
func handleRecommend(backend Backend) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		problem := strings.TrimSpace(req.GetString("problem", ""))
		location := strings.TrimSpace(req.GetString("location", ""))
		if problem == "" {
			return gomcp.NewToolResultError("missing required parameter: problem"), nil
		}
		Log("tool call: recommend (location=%q)", location)

		resp, err := backend.Recommend(ctx, problem, location)
		if err != nil {
			Log("recommend error: %v", err)
			return gomcp.NewToolResultError("recommend failed: " + err.Error()), nil
		}
		if resp == nil || len(resp.Groups) == 0 {
			return gomcp.NewToolResultText("No recommendations for this problem."), nil
		}

		Log("recommend: returning %d groups", len(resp.Groups))
		return jsonResult(resp.Groups)
	}
}

// handleAnalyzeImage prepares the image the same way the terminal UI does
// and uploads it.
func handleAnalyzeImage(backend Backend) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		path := req.GetString("path", "")
		data := req.GetString("image_base64", "")
		note := strings.TrimSpace(req.GetString("note", ""))
		Log("tool call: analyze_image (path=%q, inline=%t, note=%t)", path, data != "", note != "")

		enc, err := loadImage(path, data)
		if err != nil {
			return gomcp.NewToolResultError(photo.ImageErrorMessage + " " + err.Error()), nil
		}

		var resp *api.AnalyzeResponse
		if note == "" {
			resp, err = backend.Analyze(ctx, enc.Base64)
		} else {
			resp, err = backend.AnalyzeWithText(ctx, enc.Base64, note)
		}
		if err != nil {
			Log("analyze_image error: %v", err)
			return gomcp.NewToolResultError(photo.UploadErrorMessage + " " + err.Error()), nil
		}

		res := photo.Result{
			Problem:     resp.Problem,
			Location:    resp.Location,
			UserMessage: resp.UserMessage,
			Solution:    resp.Solution,
		}
		if res.UserMessage == "" {
			res.UserMessage = note
		}
		d := res.Display()
		return jsonResult(analysisView{
			Problem:     d.Problem,
			Location:    d.Location,
			UserMessage: res.UserMessage,
			Solution:    d.Solution,
			Image:       enc.Path,
		})
	}
}

func loadImage(path, data string) (*photo.Encoded, error) {
	if strings.TrimSpace(path) != "" {
		return photo.Load(photo.ExpandPath(path))
	}
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, errors.New("either path or image_base64 is required")
	}
	// Accept data URLs as well as bare base64.
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	return photo.Encode(bytes.NewReader(raw))
}

// handleServerInfo reports the address in use and asks it for its info.
func handleServerInfo(backend Backend, resolver Resolver) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		Log("tool call: server_info")
		view := serverView{BaseURL: resolver.BaseURL()}
		info, err := backend.ServerInfo(ctx)
		if err != nil {
			view.Error = err.Error()
		} else {
			view.Reachable = true
			view.Reported = info.BaseURL
		}
		return jsonResult(view)
	}
}

// handleDiscover runs one detection pass.
func handleDiscover(resolver Resolver) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		Log("tool call: discover")
		url, found, err := resolver.Detect(ctx)
		if errors.Is(err, discovery.ErrDetectionInProgress) {
			return gomcp.NewToolResultText("Detection is already running; try again shortly."), nil
		}
		if err != nil {
			return gomcp.NewToolResultError("discovery failed: " + err.Error()), nil
		}
		Log("discover: found=%t url=%s", found, url)
		return jsonResult(serverView{BaseURL: url, Reachable: found, Found: &found})
	}
}
