package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"jarvis/internal/assist"
	"jarvis/internal/bus"
	"jarvis/internal/command"
	"jarvis/internal/config"
	"jarvis/internal/ipc"
	"jarvis/internal/notify"
	"jarvis/internal/proxy"
	"jarvis/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	configPath := cli.StringP("config", "c", ".env", "Config env file path")
	daemonMode := cli.BoolP("daemon", "d", false, "Run headless: no activation earcon")
	testMode := cli.BoolP("test", "t", false, "Run self check and exit")
	verbose := cli.BoolP("verbose", "v", false, "Debug logging")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	proxyAddr := cli.StringP("proxy", "p", "", "SOCKS proxy address for API calls")
	cli.Parse()

	level := logLevelMap[*logLevel]
	if *verbose {
		level = log.LevelDebug
	}
	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: level,
	})))

	log.Info("Booting up")

	godotenv.Load(*configPath)
	cfg := config.Load()

	httpClient := http.DefaultClient
	if *proxyAddr != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	var completer assist.Completer
	var answerer assist.Answerer
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client := openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(httpClient),
		)
		ai := assist.NewOpenAI(client, cfg.Model)
		completer = ai
		answerer = ai
		log.Debug("Loaded AI client", "model", cfg.Model)
	} else {
		log.Warn("OPENAI_API_KEY not set, running offline only")
	}

	store := assist.NewContextStore(cfg.ContextWindow)
	cache := assist.NewResponseCache(cfg.CacheEntries)

	// Declared before the registry and the dial so the wake callback and the
	// stats closure can reach it; neither fires before the loop exists.
	var loop *assist.Loop

	buildRegistry := func(speaker assist.Speaker) (*assist.Registry, error) {
		return assist.NewRegistry(command.Registrations(command.Deps{
			HTTP:    httpClient,
			AI:      answerer,
			Speaker: speaker,
			Store:   store,
			Cache:   cache,
			Email: command.EmailConfig{
				Host:     os.Getenv("EMAIL_SMTP_HOST"),
				Port:     os.Getenv("EMAIL_SMTP_PORT"),
				Username: os.Getenv("EMAIL_USERNAME"),
				Password: os.Getenv("EMAIL_PASSWORD"),
			},
			Stats: func() (int, int) {
				if loop == nil {
					return 0, 0
				}
				return loop.Stats()
			},
		}))
	}

	if *testMode {
		registry, err := buildRegistry(tts.New())
		if err == nil {
			err = assist.SelfCheck(registry)
		}
		if err == nil {
			err = ipc.CheckSocket(cfg.SocketPath)
		}
		if err != nil {
			fmt.Println("self check failed:", err)
			os.Exit(1)
		}
		fmt.Println("self check passed")
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hub, err := bus.Dial(cfg.BusURL, cfg.WakeWord, func() {
		loop.Trigger(assist.TriggerWakeWord)
	})
	if err != nil {
		log.Error("Failed to connect to bus", "url", cfg.BusURL, "err", err)
		os.Exit(1)
	}
	defer hub.Close()

	var speaker assist.Speaker = hub
	if cfg.LocalTTS {
		speaker = tts.New()
	}

	registry, err := buildRegistry(speaker)
	if err != nil {
		log.Error("Failed to build handler registry", "err", err)
		os.Exit(1)
	}
	if err := assist.SelfCheck(registry); err != nil {
		log.Error("Self check failed", "err", err)
		os.Exit(1)
	}

	nlp := assist.NewNLPProcessor(assist.NLPConfig{
		Threshold:       cfg.Threshold,
		CacheEnabled:    cfg.CacheEnabled,
		CacheTTL:        cfg.CacheTTL,
		OfflineFallback: cfg.OfflineFallback,
		ContextDepth:    cfg.ContextDepth,
		RequestTimeout:  cfg.RequestTimeout,
	}, cache, completer)

	dispatcher := assist.NewDispatcher(registry, store, cfg.SensitiveHotkeyOnly)

	loop = assist.NewLoop(assist.LoopConfig{
		ListenTimeout: cfg.ListenTimeout,
		ConfirmWindow: cfg.ConfirmWindow,
		QueueTriggers: cfg.QueueTriggers,
	}, hub, speaker, nlp, dispatcher, store)

	if !*daemonMode && cfg.ChimePath != "" {
		loop.Chime = func() { notify.Chime(cfg.ChimePath) }
	}

	ctl, err := ipc.StartServer(cfg.SocketPath, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case ipc.CmdTrigger:
			loop.Trigger(assist.TriggerHotkey)
		case ipc.CmdConfirm:
			loop.Confirm()
		case ipc.CmdShutdown:
			log.Info("Shutdown requested")
			cancel()
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer ctl.Close()

	go hub.Listen(ctx)

	log.Info("Boot up - successful", "wake_word", cfg.WakeWord, "socket", cfg.SocketPath)
	loop.Run(ctx)

	processed, failed := loop.Stats()
	log.Info("Session over", "processed", processed, "failed", failed)
}
