package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServer(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())

	if s == nil {
		t.Fatal("expected non-nil server")
	}
	if s.mcp == nil {
		t.Fatal("expected non-nil mcp server")
	}
	if s.MCP() != s.mcp {
		t.Error("expected MCP() to return the internal mcp server")
	}
}

func TestServer_RegisterTool(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())

	tool := mcp.NewTool("echo", mcp.WithDescription("Echo tool"))
	handlerCalled := false
	s.RegisterTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		handlerCalled = true
		return mcp.NewToolResultText("pong"), nil
	})
	assert.False(t, handlerCalled, "handler should not be called during registration")

	raw := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &response))
	require.Len(t, response.Result.Tools, 1)
	assert.Equal(t, "echo", response.Result.Tools[0].Name)
}

func TestServer_NewStreamableHTTPServer(t *testing.T) {
	s := NewServer("test-server", "1.0.0", nil, zap.NewNop())

	if s.NewStreamableHTTPServer() == nil {
		t.Fatal("expected non-nil HTTP server")
	}
}

func TestServer_ServeStdio_RespondsToInitialize(t *testing.T) {
	s := NewServer("mcp-jumpserver", "0.1.0", nil, zap.NewNop())

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ServeStdio(ctx, inR, outW)
	}()

	go func() {
		_, _ = io.WriteString(inW, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`+"\n")
	}()

	lineCh := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(outR).ReadString('\n')
		lineCh <- line
	}()

	var line string
	select {
	case line = <-lineCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initialize response")
	}

	var response struct {
		ID     int `json:"id"`
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(line), &response))
	assert.Equal(t, 1, response.ID)
	assert.Equal(t, "mcp-jumpserver", response.Result.ServerInfo.Name)
	assert.Equal(t, "0.1.0", response.Result.ServerInfo.Version)

	cancel()
	_ = inW.Close()
	_ = outR.Close()

	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("ServeStdio did not return after cancellation")
	}
}
