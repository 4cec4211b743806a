package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mintjams/go-nativeecma/engine"
	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newTestEngine(t *testing.T, machine types.Type) *engine.Engine {
	t.Helper()
	e, err := engine.New(
		engine.WithLogHandler(slog.NewTextHandler(io.Discard, nil)),
		engine.WithMachineType(machine),
	)
	require.NoError(t, err)
	require.NoError(t, e.Init("", 1))
	t.Cleanup(e.Shutdown)
	return e
}

func TestEvalCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lib.js")
	require.NoError(t, os.WriteFile(path, []byte("function greet(n) { return 'hi ' + n }"), 0o600))

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "expression", args: []string{"eval", "--pool-size", "1", "-e", "'x'+1"}, want: "x1\n"},
		{name: "no value", args: []string{"eval", "--pool-size", "1", "-e", "42"}, want: ""},
		{name: "file then expression", args: []string{"eval", "--pool-size", "1", path, "-e", "greet(who)", "--bind", "who=bob"}, want: "hi bob\n"},
		{name: "typed bindings", args: []string{"eval", "--pool-size", "1", "--bind", "n=41", "--bind", "s=\"41\"", "-e", "typeof n + (n + 1) + typeof s"}, want: "number42string\n"},
		{name: "starlark", args: []string{"eval", "--pool-size", "1", "--machine", "starlark", "--bind", "n=2", "-e", "_ = str(n * 21)"}, want: "42\n"},
		{name: "script error", args: []string{"eval", "--pool-size", "1", "-e", "throw new Error('boom')"}, wantErr: "boom"},
		{name: "bad binding", args: []string{"eval", "--bind", "novalue", "-e", "1"}, wantErr: "expected name=value"},
		{name: "bad machine", args: []string{"eval", "--machine", "cobol", "-e", "1"}, wantErr: "unknown machine type"},
		{name: "bad log level", args: []string{"eval", "--log-level", "loud", "-e", "1"}, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stdout, _, err := runCommand(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("NATIVEECMA_POOL_SIZE", "3")
	t.Setenv("NATIVEECMA_MACHINE", "star")
	t.Setenv("NATIVEECMA_LOG_LEVEL", "debug")
	t.Setenv("NATIVEECMA_VERIFY_CACHE", "false")

	cmd := newRootCommand(io.Discard, io.Discard)
	v := newViper()
	require.NoError(t, v.BindPFlags(cmd.PersistentFlags()))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PoolSize)
	assert.Equal(t, types.Starlark, cfg.Machine)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.VerifyCache)
}

func TestBindingValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, true, bindingValue("true"))
	assert.Equal(t, int64(7), bindingValue("7"))
	assert.Equal(t, 1.5, bindingValue("1.5"))
	assert.Equal(t, "7", bindingValue(`"7"`))
	assert.Equal(t, "NaN", bindingValue("NaN"))
	assert.Equal(t, "T", bindingValue("T"))
	assert.Equal(t, "a=b", bindingValue("a=b"))
}

func TestEvaluateHandler(t *testing.T) {
	t.Parallel()
	handler := evaluateHandler(newTestEngine(t, types.JavaScript), types.JavaScript, map[string]any{"who": "default", "suffix": "!"})

	tests := []struct {
		name      string
		in        EvaluateInput
		wantKind  string
		wantValue string
		wantError bool
	}{
		{name: "value", in: EvaluateInput{Fragments: []string{"'x'+1"}}, wantKind: "Value", wantValue: "x1"},
		{name: "no value", in: EvaluateInput{Fragments: []string{"42"}}, wantKind: "NoValue"},
		{name: "default bindings", in: EvaluateInput{Fragments: []string{"who + suffix"}}, wantKind: "Value", wantValue: "default!"},
		{
			name:      "bindings",
			in:        EvaluateInput{Fragments: []string{"who + items.length"}, Bindings: map[string]any{"who": "n", "items": []any{1.0, 2.0}}},
			wantKind:  "Value",
			wantValue: "n2",
		},
		{name: "error", in: EvaluateInput{Fragments: []string{"throw new Error('boom')"}}, wantKind: "Error", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, out, err := handler(context.Background(), nil, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantError, res.IsError)
			require.Len(t, res.Content, 1)
			text, ok := res.Content[0].(*mcp.TextContent)
			require.True(t, ok)
			if tt.wantError {
				assert.Contains(t, text.Text, "boom")
				return
			}
			assert.Equal(t, tt.wantValue, out.Value)
			assert.Equal(t, tt.wantValue, text.Text)
		})
	}
}

func TestServerSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := newServer(newTestEngine(t, types.JavaScript), types.JavaScript, nil)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, evaluateToolName, tools.Tools[0].Name)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      evaluateToolName,
		Arguments: map[string]any{"fragments": []string{"var a = 'o'", "a + 'k'"}},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "ok", text.Text)
}
