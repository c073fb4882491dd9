package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("trace")
	require.NoError(t, err)
	require.Equal(t, LevelTrace, lvl)

	lvl, err = ParseLevel("Warning")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestModuleFiltering(t *testing.T) {
	var buf bytes.Buffer
	prev := Root()
	defer SetDefault(prev)
	SetDefault(NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})))

	DisableModule(PvmStore)
	Trace(PvmStore, "hidden", "k", 1)
	require.Empty(t, buf.String())

	EnableModules("pvm_store, pvm_host")
	defer DisableModule(PvmStore)
	defer DisableModule(PvmHost)
	require.True(t, TraceEnabled(PvmStore))
	Trace(PvmStore, "visible", "k", 2)
	require.Contains(t, buf.String(), "visible")
	require.Contains(t, buf.String(), "module=pvm_store")

	buf.Reset()
	Info(PvmCLI, "always")
	require.Contains(t, buf.String(), "always")
}
