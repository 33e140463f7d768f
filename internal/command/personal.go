package command

import (
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"jarvis/internal/assist"
)

// Personal covers reminders, timers and session maintenance.
type Personal struct {
	speaker assist.Speaker
	store   *assist.ContextStore
	cache   *assist.ResponseCache
	// after is swapped out in tests.
	after func(d time.Duration, f func()) *time.Timer
}

func NewPersonal(speaker assist.Speaker, store *assist.ContextStore, cache *assist.ResponseCache) *Personal {
	return &Personal{speaker: speaker, store: store, cache: cache, after: time.AfterFunc}
}

func parseDuration(value, unit string) (time.Duration, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("bad value %q", value)
	}
	switch {
	case strings.HasPrefix(unit, "second"):
		return time.Duration(n) * time.Second, nil
	case strings.HasPrefix(unit, "minute"):
		return time.Duration(n) * time.Minute, nil
	case strings.HasPrefix(unit, "hour"):
		if n > 24 {
			return 0, fmt.Errorf("timer longer than a day")
		}
		return time.Duration(n) * time.Hour, nil
	default:
		return 0, fmt.Errorf("bad unit %q", unit)
	}
}

func (p *Personal) SetTimer(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	d, err := parseDuration(in.Slots["value"], in.Slots["unit"])
	if err != nil {
		return assist.Result{Message: "I didn't catch the duration."}, nil
	}

	p.after(d, func() {
		log.Info("Timer fired", "after", d)
		p.speaker.Speak("Your timer is up.")
	})
	return assist.Result{Success: true, Message: fmt.Sprintf("Timer set for %s %s.", in.Slots["value"], in.Slots["unit"])}, nil
}

func (p *Personal) SetReminder(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	message := in.Slots["message"]
	if message == "" {
		return assist.Result{Message: "What should I remind you about?"}, nil
	}

	value, unit := in.Slots["value"], in.Slots["unit"]
	if value == "" {
		value, unit = "30", "minutes"
	}
	d, err := parseDuration(value, unit)
	if err != nil {
		return assist.Result{Message: "I didn't catch when to remind you."}, nil
	}

	p.after(d, func() {
		log.Info("Reminder fired", "message", message)
		p.speaker.Speak("Reminder: " + message)
	})
	return assist.Result{Success: true, Message: fmt.Sprintf("I'll remind you to %s in %s %s.", message, value, unit)}, nil
}

// ResetContext clears the rolling context and the response cache, giving the
// session a clean slate.
func (p *Personal) ResetContext(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	if p.store != nil {
		p.store.Clear()
	}
	if p.cache != nil {
		p.cache.Clear()
	}
	return assist.Result{Success: true, Message: "Starting fresh."}, nil
}
