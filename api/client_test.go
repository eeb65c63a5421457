package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(StaticURL(srv.URL))
}

func TestChat(t *testing.T) {
	t.Run("posts message and returns response", func(t *testing.T) {
		var got ChatRequest
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(ChatResponse{Response: "식초와 베이킹소다를 사용하세요."})
		})

		reply, err := c.Chat(context.Background(), "  싱크대 물때 제거 방법  ")
		require.NoError(t, err)
		assert.Equal(t, "식초와 베이킹소다를 사용하세요.", reply)
		assert.Equal(t, "싱크대 물때 제거 방법", got.Message, "message should be trimmed")
	})

	t.Run("rejects empty message without a request", func(t *testing.T) {
		called := false
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

		_, err := c.Chat(context.Background(), "   ")
		require.Error(t, err)
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, ErrCodeInvalidRequest, apiErr.Code)
		assert.False(t, called)
	})

	t.Run("server error carries status and detail", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"model not loaded"}`))
		})

		_, err := c.Chat(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
		assert.Contains(t, err.Error(), "model not loaded")
		assert.False(t, IsConnectionError(err))
	})

	t.Run("unreachable server is a connection error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(StaticURL(url), WithTimeout(time.Second))
		_, err := c.Chat(context.Background(), "hello")
		require.Error(t, err)
		assert.True(t, IsConnectionError(err))
	})

	t.Run("invalid json is reported", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := c.Chat(context.Background(), "hello")
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, ErrCodeInvalidResponse, apiErr.Code)
	})
}

func TestRecommend(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend/", r.URL.Path)
		var req RecommendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "곰팡이", req.Problem)
		assert.Equal(t, "", req.Location)
		_, _ = w.Write([]byte(`{"groups":[{"group":"세제","required":true,"items":[
			{"title":"곰팡이 제거제","price":8900,"link":"https://shop.example/a","imageUrl":null,"rating":4.5,"ad":true},
			{"title":"솔","link":"https://shop.example/b"}
		]}]}`))
	})

	resp, err := c.Recommend(context.Background(), "곰팡이", "")
	require.NoError(t, err)
	require.Len(t, resp.Groups, 1)
	g := resp.Groups[0]
	assert.Equal(t, "세제", g.Group)
	assert.True(t, g.Required)
	require.Len(t, g.Items, 2)

	first := g.Items[0]
	require.NotNil(t, first.Price)
	assert.Equal(t, 8900.0, *first.Price)
	assert.Nil(t, first.ImageURL, "null should decode as unset")
	require.NotNil(t, first.Rating)
	assert.True(t, first.Ad)

	second := g.Items[1]
	assert.Nil(t, second.Price)
	assert.Nil(t, second.Rating)
	assert.False(t, second.Ad)
}

func TestAnalyze(t *testing.T) {
	t.Run("image only", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/analyze/", r.URL.Path)
			var req AnalyzeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "aGVsbG8=", req.ImageBase64)
			_ = json.NewEncoder(w).Encode(AnalyzeResponse{Problem: "곰팡이", Location: "욕실", Solution: "## 해결 방법"})
		})

		resp, err := c.Analyze(context.Background(), "aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "곰팡이", resp.Problem)
		assert.Equal(t, "욕실", resp.Location)
		assert.Equal(t, "## 해결 방법", resp.Solution)
	})

	t.Run("with text", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/analyze-with-text/", r.URL.Path)
			var req AnalyzeWithTextRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "천장에 생겼어요", req.Message)
			_ = json.NewEncoder(w).Encode(AnalyzeResponse{Problem: "곰팡이", Location: "천장", UserMessage: req.Message, Solution: "..."})
		})

		resp, err := c.AnalyzeWithText(context.Background(), "aGVsbG8=", "천장에 생겼어요")
		require.NoError(t, err)
		assert.Equal(t, "천장에 생겼어요", resp.UserMessage)
	})

	t.Run("empty image rejected", func(t *testing.T) {
		c := NewClient(StaticURL("http://127.0.0.1:1"))
		_, err := c.Analyze(context.Background(), "")
		assert.Error(t, err)
		_, err = c.AnalyzeWithText(context.Background(), "", "note")
		assert.Error(t, err)
	})
}

func TestServerInfo(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/server-info/", r.URL.Path)
		_, _ = w.Write([]byte(`{"base_url":"http://10.0.0.100:8000"}`))
	})

	info, err := c.ServerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.100:8000", info.BaseURL)
}

type switchingSource struct{ url string }

func (s *switchingSource) BaseURL() string { return s.url }

func TestClientFollowsBaseURLSource(t *testing.T) {
	hits := map[string]int{}
	handler := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits[name]++
			_ = json.NewEncoder(w).Encode(ChatResponse{Response: name})
		}
	}
	a := httptest.NewServer(handler("a"))
	defer a.Close()
	b := httptest.NewServer(handler("b"))
	defer b.Close()

	src := &switchingSource{url: a.URL + "/"}
	c := NewClient(src, WithHeader("X-Client", "homefix"))

	reply, err := c.Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "a", reply)

	src.url = b.URL
	reply, err = c.Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "b", reply)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, hits)
}
