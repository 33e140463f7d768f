package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"jarvis/internal/assist"
)

// SystemControl covers process and machine level actions.
type SystemControl struct {
	// run is swapped out in tests.
	run func(ctx context.Context, name string, args ...string) error
	// stats reports session pass counters, nil when the loop isn't wired yet.
	stats func() (processed, failed int)
}

func NewSystemControl(stats func() (processed, failed int)) *SystemControl {
	return &SystemControl{run: runCommand, stats: stats}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// appAliases maps spoken names to binaries.
var appAliases = map[string]string{
	"browser":  "firefox",
	"chrome":   "google-chrome",
	"code":     "code",
	"vs code":  "code",
	"files":    "nautilus",
	"terminal": "foot",
}

func resolveApp(name string) string {
	if bin, ok := appAliases[name]; ok {
		return bin
	}
	return strings.ReplaceAll(name, " ", "-")
}

func (s *SystemControl) OpenApp(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	app := in.Slots["app"]
	if app == "" {
		return assist.Result{Message: "Which application?"}, nil
	}

	bin := resolveApp(app)
	cmd := exec.Command(bin)
	if err := cmd.Start(); err != nil {
		return assist.Result{Message: fmt.Sprintf("I couldn't start %s.", app)}, nil
	}
	go cmd.Wait()

	return assist.Result{Success: true, Message: fmt.Sprintf("Opening %s.", app), SideEffects: true}, nil
}

func (s *SystemControl) CloseApp(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	app := in.Slots["app"]
	if app == "" {
		return assist.Result{Message: "Which application?"}, nil
	}

	if err := s.run(ctx, "pkill", "-f", resolveApp(app)); err != nil {
		return assist.Result{Message: fmt.Sprintf("%s doesn't seem to be running.", app)}, nil
	}
	return assist.Result{Success: true, Message: fmt.Sprintf("Closed %s.", app), SideEffects: true}, nil
}

func (s *SystemControl) SetVolume(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	level, err := strconv.Atoi(in.Slots["level"])
	if err != nil || level < 0 || level > 100 {
		return assist.Result{Message: "Volume must be between zero and one hundred."}, nil
	}

	if err := s.run(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", level)); err != nil {
		return assist.Result{}, fmt.Errorf("set volume: %w", err)
	}
	return assist.Result{Success: true, Message: fmt.Sprintf("Volume set to %d percent.", level), SideEffects: true}, nil
}

func (s *SystemControl) Shutdown(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	if err := s.run(ctx, "systemctl", "poweroff"); err != nil {
		return assist.Result{}, fmt.Errorf("poweroff: %w", err)
	}
	return assist.Result{Success: true, Message: "Shutting down. Goodbye.", SideEffects: true}, nil
}

func (s *SystemControl) Restart(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	if err := s.run(ctx, "systemctl", "reboot"); err != nil {
		return assist.Result{}, fmt.Errorf("reboot: %w", err)
	}
	return assist.Result{Success: true, Message: "Restarting now.", SideEffects: true}, nil
}

func (s *SystemControl) Info(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	host, _ := os.Hostname()
	msg := fmt.Sprintf("Running on %s, %s %s, %d CPUs.",
		host, runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	if s.stats != nil {
		processed, failed := s.stats()
		msg += fmt.Sprintf(" This session: %d commands, %d failed.", processed, failed)
	}
	return assist.Result{Success: true, Message: msg}, nil
}
