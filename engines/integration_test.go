package engines

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mintjams/go-nativeecma/engine"
	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/platform"
	"github.com/mintjams/go-nativeecma/platform/script"
	"github.com/mintjams/go-nativeecma/platform/script/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMachineBindingsIntegration runs equivalent scripts on every machine
// with the same bindings, fetched over HTTP and evaluated through a pool.
func TestMachineBindingsIntegration(t *testing.T) {
	t.Parallel()

	bindings := map[string]any{
		"name":    "Integration Test",
		"version": "1.0.0",
		"debug":   true,
		"timeout": 30,
		"tags":    []string{"test", "integration", "multi-engine"},
	}
	scripts := map[types.Type]string{
		types.JavaScript: `name + " " + version + " debug=" + debug + " timeout=" + timeout + " tags=" + tags.length + " first=" + tags[0]`,
		types.Starlark:   `_ = "%s %s debug=%s timeout=%d tags=%d first=%s" % (name, version, str(debug).lower(), timeout, len(tags), tags[0])`,
	}
	want := "Integration Test 1.0.0 debug=true timeout=30 tags=3 first=test"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		machine := types.Type(strings.TrimPrefix(r.URL.Path, "/"))
		source, ok := scripts[machine]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, source)
	}))
	t.Cleanup(server.Close)

	handler := slog.NewTextHandler(io.Discard, nil)

	for _, machine := range types.Types() {
		t.Run(machine.String(), func(t *testing.T) {
			t.Parallel()

			e, err := engine.New(engine.WithLogHandler(handler), engine.WithMachineType(machine))
			require.NoError(t, err)
			require.NoError(t, e.Init("", 2))
			t.Cleanup(e.Shutdown)

			l, err := loader.NewFromHTTP(fmt.Sprintf("%s/%s", server.URL, machine))
			require.NoError(t, err)
			registry, err := script.NewRegistry(script.WithLogHandler(handler), script.WithMachineType(machine))
			require.NoError(t, err)

			for range 3 {
				got, err := registry.Eval(e, machine.String(), l, bindings)
				require.NoError(t, err)
				assert.Equal(t, platform.Value(want), got)
			}

			var hits uint64
			for _, s := range e.Stats() {
				hits += s.CacheHits
			}
			assert.Positive(t, hits)
		})
	}
}

// TestMachineFailureIntegration checks that both machines report a failing
// fragment with its resource name and line.
func TestMachineFailureIntegration(t *testing.T) {
	t.Parallel()

	failing := map[types.Type][]string{
		types.JavaScript: {"var ok = 1", "\n\nthrow new Error('bad input')"},
		types.Starlark:   {"ok = 1", "\n\nfail('bad input')"},
	}

	for _, machine := range types.Types() {
		t.Run(machine.String(), func(t *testing.T) {
			t.Parallel()

			e, err := engine.New(
				engine.WithLogHandler(slog.NewTextHandler(io.Discard, nil)),
				engine.WithMachineType(machine),
			)
			require.NoError(t, err)
			require.NoError(t, e.Init("", 1))
			t.Cleanup(e.Shutdown)

			diag, failed := e.Evaluate(failing[machine]...).Diagnostic()
			require.True(t, failed)
			assert.True(t, strings.HasPrefix(diag, "<eval:1>:3:"), diag)
			assert.Contains(t, diag, "bad input")
		})
	}
}
