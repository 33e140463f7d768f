// Package config reads the daemon configuration from the environment. The
// .env file named by --config is loaded by main before this runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Activation
	WakeWord      string
	ListenTimeout time.Duration
	ConfirmWindow time.Duration
	QueueTriggers bool

	// AI
	Model           string
	RequestTimeout  time.Duration
	OfflineFallback bool
	Threshold       float64
	ContextDepth    int

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheEntries int

	// Policy
	SensitiveHotkeyOnly bool
	ContextWindow       int

	// Plumbing
	BusURL     string
	SocketPath string
	LocalTTS   bool
	ChimePath  string
}

func Load() Config {
	return Config{
		WakeWord:      getStr("WAKE_WORD", "hey jarvis"),
		ListenTimeout: getDur("LISTEN_TIMEOUT", 10*time.Second),
		ConfirmWindow: getDur("CONFIRM_WINDOW", 10*time.Second),
		QueueTriggers: getBool("QUEUE_TRIGGERS", false),

		Model:           getStr("OPENAI_MODEL", ""),
		RequestTimeout:  getDur("AI_REQUEST_TIMEOUT", 15*time.Second),
		OfflineFallback: getBool("OFFLINE_FALLBACK", true),
		Threshold:       getFloat("NLP_CONFIDENCE_THRESHOLD", 0.6),
		ContextDepth:    getInt("AI_CONTEXT_DEPTH", 4),

		CacheEnabled: getBool("CACHE_ENABLED", true),
		CacheTTL:     getDur("CACHE_TTL", time.Hour),
		CacheEntries: getInt("CACHE_MAX_ENTRIES", 512),

		SensitiveHotkeyOnly: getBool("SENSITIVE_HOTKEY_ONLY", true),
		ContextWindow:       getInt("CONTEXT_WINDOW", 8),

		BusURL:     getStr("BUS_URL", "ws://localhost:8092/ws"),
		SocketPath: getStr("SOCKET_PATH", "/tmp/jarvis.sock"),
		LocalTTS:   getBool("LOCAL_TTS", false),
		ChimePath:  getStr("CHIME_PATH", ""),
	}
}

func getStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(getStr(key, "")); err == nil {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(getStr(key, ""), 64); err == nil {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getStr(key, "")); err == nil {
		return v
	}
	return def
}

// getDur accepts Go duration strings ("90s", "1h") and bare seconds ("90").
func getDur(key string, def time.Duration) time.Duration {
	s := getStr(key, "")
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
