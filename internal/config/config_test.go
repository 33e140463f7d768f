package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "hey jarvis", cfg.WakeWord)
	require.Equal(t, 10*time.Second, cfg.ListenTimeout)
	require.True(t, cfg.CacheEnabled)
	require.True(t, cfg.OfflineFallback)
	require.True(t, cfg.SensitiveHotkeyOnly)
	require.Equal(t, 0.6, cfg.Threshold)
	require.Equal(t, 8, cfg.ContextWindow)
	require.Equal(t, "/tmp/jarvis.sock", cfg.SocketPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WAKE_WORD", "computer")
	t.Setenv("LISTEN_TIMEOUT", "30s")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("NLP_CONFIDENCE_THRESHOLD", "0.8")
	t.Setenv("CONTEXT_WINDOW", "5")
	t.Setenv("SENSITIVE_HOTKEY_ONLY", "false")

	cfg := Load()

	require.Equal(t, "computer", cfg.WakeWord)
	require.Equal(t, 30*time.Second, cfg.ListenTimeout)
	require.False(t, cfg.CacheEnabled)
	require.Equal(t, 0.8, cfg.Threshold)
	require.Equal(t, 5, cfg.ContextWindow)
	require.False(t, cfg.SensitiveHotkeyOnly)
}

func TestDurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("CONFIRM_WINDOW", "25")
	require.Equal(t, 25*time.Second, Load().ConfirmWindow)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("LISTEN_TIMEOUT", "soon")
	t.Setenv("CONTEXT_WINDOW", "many")
	t.Setenv("CACHE_ENABLED", "yep")

	cfg := Load()

	require.Equal(t, 10*time.Second, cfg.ListenTimeout)
	require.Equal(t, 8, cfg.ContextWindow)
	require.True(t, cfg.CacheEnabled)
}
