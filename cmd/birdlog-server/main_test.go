package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/birdlog/internal/server"
	"github.com/at-ishikawa/birdlog/internal/testutil"
)

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "birdlog-server", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
	assert.NotNil(t, cmd.Flags().Lookup("debug"))
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("storage:\n  type: s3\n"), 0644))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", configPath})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loadConfig()")
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	tmpDir := t.TempDir()
	configPath := testutil.SetupTestConfig(t, tmpDir, testutil.Endpoints{})
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("server:\n  port: %d\n", port))...)
	require.NoError(t, os.WriteFile(configPath, content, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		cmd := newRootCommand()
		cmd.SetArgs([]string{"--config", configPath})
		done <- cmd.ExecuteContext(ctx)
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", strings.TrimPrefix(baseURL, "http://"))
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 10*time.Millisecond)

	client := server.NewLookupServiceClient(http.DefaultClient, baseURL)
	resp, err := client.LookupBird(ctx, connect.NewRequest(&server.LookupBirdRequest{Term: "knölsvan"}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.Found)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
