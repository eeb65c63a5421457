package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gomcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/discovery"
	"github.com/homefix/homefix/photo"
)

// resultText extracts the text string from a CallToolResult.
// It assumes the result contains exactly one TextContent item.
func resultText(t *testing.T, result *gomcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := gomcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("result content[0] is not TextContent: %T", result.Content[0])
	}
	return tc.Text
}

type fakeBackend struct {
	reply    string
	reco     *api.RecommendResponse
	analysis *api.AnalyzeResponse
	info     *api.ServerInfo
	err      error

	lastMessage  string
	lastLocation string
	lastImage    string
}

func (f *fakeBackend) Chat(_ context.Context, message string) (string, error) {
	f.lastMessage = message
	return f.reply, f.err
}

func (f *fakeBackend) Recommend(_ context.Context, problem, location string) (*api.RecommendResponse, error) {
	f.lastMessage, f.lastLocation = problem, location
	return f.reco, f.err
}

func (f *fakeBackend) Analyze(ctx context.Context, img string) (*api.AnalyzeResponse, error) {
	return f.AnalyzeWithText(ctx, img, "")
}

func (f *fakeBackend) AnalyzeWithText(_ context.Context, img, message string) (*api.AnalyzeResponse, error) {
	f.lastImage, f.lastMessage = img, message
	return f.analysis, f.err
}

func (f *fakeBackend) ServerInfo(context.Context) (*api.ServerInfo, error) {
	return f.info, f.err
}

type fakeResolver struct {
	url   string
	found bool
	err   error
}

func (f *fakeResolver) BaseURL() string { return f.url }

func (f *fakeResolver) Detect(context.Context) (string, bool, error) {
	return f.url, f.found, f.err
}

func call(t *testing.T, handler func(context.Context, gomcp.CallToolRequest) (*gomcp.CallToolResult, error), args map[string]any) (*gomcp.CallToolResult, string) {
	t.Helper()
	req := gomcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return result, resultText(t, result)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHandleChat(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		backend  *fakeBackend
		wantErr  bool
		contains string
	}{
		{
			name:     "returns the reply",
			args:     map[string]any{"message": "  물이 새요 "},
			backend:  &fakeBackend{reply: "배관을 확인해 보세요."},
			contains: "배관을 확인해 보세요.",
		},
		{
			name:     "missing message",
			args:     map[string]any{},
			backend:  &fakeBackend{},
			wantErr:  true,
			contains: "missing required parameter: message",
		},
		{
			name:     "backend failure is a tool error",
			args:     map[string]any{"message": "hi"},
			backend:  &fakeBackend{err: errors.New("connection refused")},
			wantErr:  true,
			contains: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := call(t, handleChat(tt.backend), tt.args)
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v; text: %s", result.IsError, tt.wantErr, text)
			}
			if !strings.Contains(text, tt.contains) {
				t.Errorf("result text %q does not contain %q", text, tt.contains)
			}
		})
	}
}

func TestHandleChatTrimsMessage(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	call(t, handleChat(backend), map[string]any{"message": "  물이 새요 "})
	if backend.lastMessage != "물이 새요" {
		t.Errorf("message = %q, want trimmed", backend.lastMessage)
	}
}

func TestHandleRecommend(t *testing.T) {
	price := 8900.0
	backend := &fakeBackend{reco: &api.RecommendResponse{Groups: []api.RecoGroup{
		{Group: "실리콘", Required: true, Items: []api.RecoItem{{Title: "욕실용 실리콘", Price: &price}}},
	}}}

	result, text := call(t, handleRecommend(backend), map[string]any{"problem": "곰팡이", "location": "욕실"})
	if result.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	var groups []api.RecoGroup
	if err := json.Unmarshal([]byte(text), &groups); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	if len(groups) != 1 || groups[0].Group != "실리콘" || !groups[0].Required {
		t.Errorf("groups = %+v", groups)
	}
	if backend.lastLocation != "욕실" {
		t.Errorf("location = %q, want 욕실", backend.lastLocation)
	}

	_, text = call(t, handleRecommend(&fakeBackend{reco: &api.RecommendResponse{}}), map[string]any{"problem": "x"})
	if !strings.Contains(text, "No recommendations") {
		t.Errorf("empty groups text = %q", text)
	}

	result, _ = call(t, handleRecommend(&fakeBackend{}), map[string]any{"location": "욕실"})
	if !result.IsError {
		t.Error("missing problem should be a tool error")
	}
}

func TestHandleAnalyzeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ceiling.png")
	if err := os.WriteFile(path, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}
	inline := base64.StdEncoding.EncodeToString(pngBytes(t))

	tests := []struct {
		name      string
		args      map[string]any
		backend   *fakeBackend
		wantErr   bool
		wantNote  string
		checkView func(t *testing.T, v analysisView)
	}{
		{
			name:    "file path without note",
			args:    map[string]any{"path": path},
			backend: &fakeBackend{analysis: &api.AnalyzeResponse{Problem: "곰팡이", Location: "천장", Solution: "환기"}},
			checkView: func(t *testing.T, v analysisView) {
				if v.Problem != "곰팡이" || v.Location != "천장" || v.Solution != "환기" {
					t.Errorf("view = %+v", v)
				}
				if v.Image != path {
					t.Errorf("Image = %q, want %q", v.Image, path)
				}
			},
		},
		{
			name:     "inline data with note and empty fields",
			args:     map[string]any{"image_base64": "data:image/png;base64," + inline, "note": "검게 변했어요"},
			backend:  &fakeBackend{analysis: &api.AnalyzeResponse{Problem: "곰팡이"}},
			wantNote: "검게 변했어요",
			checkView: func(t *testing.T, v analysisView) {
				if v.Location != photo.Placeholder || v.Solution != photo.Placeholder {
					t.Errorf("blank fields should use the placeholder: %+v", v)
				}
				if v.UserMessage != "검게 변했어요" {
					t.Errorf("UserMessage = %q, want the note", v.UserMessage)
				}
			},
		},
		{
			name:    "no image",
			args:    map[string]any{},
			backend: &fakeBackend{},
			wantErr: true,
		},
		{
			name:    "not an image",
			args:    map[string]any{"image_base64": base64.StdEncoding.EncodeToString([]byte("hello"))},
			backend: &fakeBackend{},
			wantErr: true,
		},
		{
			name:    "upload failure",
			args:    map[string]any{"path": path},
			backend: &fakeBackend{err: errors.New("timeout")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := call(t, handleAnalyzeImage(tt.backend), tt.args)
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v; text: %s", result.IsError, tt.wantErr, text)
			}
			if tt.wantErr {
				return
			}
			if tt.backend.lastMessage != tt.wantNote {
				t.Errorf("note sent = %q, want %q", tt.backend.lastMessage, tt.wantNote)
			}
			raw, err := base64.StdEncoding.DecodeString(tt.backend.lastImage)
			if err != nil {
				t.Fatalf("uploaded image is not base64: %v", err)
			}
			if !bytes.HasPrefix(raw, []byte{0xFF, 0xD8}) {
				t.Error("uploaded image is not a JPEG")
			}
			var v analysisView
			if err := json.Unmarshal([]byte(text), &v); err != nil {
				t.Fatalf("failed to parse JSON response: %v", err)
			}
			tt.checkView(t, v)
		})
	}
}

func TestHandleServerInfo(t *testing.T) {
	resolver := &fakeResolver{url: "http://192.168.0.100:8000"}

	_, text := call(t, handleServerInfo(&fakeBackend{info: &api.ServerInfo{BaseURL: "http://10.0.0.5:8000"}}, resolver), nil)
	var v serverView
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	if !v.Reachable || v.BaseURL != resolver.url || v.Reported != "http://10.0.0.5:8000" {
		t.Errorf("view = %+v", v)
	}

	_, text = call(t, handleServerInfo(&fakeBackend{err: errors.New("refused")}, resolver), nil)
	v = serverView{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	if v.Reachable || v.Error == "" {
		t.Errorf("unreachable view = %+v", v)
	}
}

func TestHandleDiscover(t *testing.T) {
	_, text := call(t, handleDiscover(&fakeResolver{url: "http://10.0.0.2:8000", found: true}), nil)
	var v serverView
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	if v.Found == nil || !*v.Found || v.BaseURL != "http://10.0.0.2:8000" {
		t.Errorf("view = %+v", v)
	}

	_, text = call(t, handleDiscover(&fakeResolver{err: discovery.ErrDetectionInProgress}), nil)
	if !strings.Contains(text, "already running") {
		t.Errorf("in-progress text = %q", text)
	}

	result, _ := call(t, handleDiscover(&fakeResolver{err: errors.New("boom")}), nil)
	if !result.IsError {
		t.Error("detection error should be a tool error")
	}
}
