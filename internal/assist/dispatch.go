package assist

import (
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"time"
)

// Spoken feedback templates.
const (
	MsgNotUnderstood = "I didn't understand that. Could you rephrase?"
	MsgNotRecognized = "Command not recognized."
	MsgConfirmPrompt = "This command needs confirmation. Press the hotkey to proceed."
	MsgCancelled     = "Cancelled."
	MsgError         = "Sorry, I ran into an error."
)

// Registry is the immutable intent-to-handler table, built once at startup.
type Registry struct {
	handlers map[string]Registration
}

func NewRegistry(regs []Registration) (*Registry, error) {
	handlers := make(map[string]Registration, len(regs))
	for _, r := range regs {
		if r.Intent == "" || r.Handler == nil {
			return nil, fmt.Errorf("invalid registration: %q", r.Intent)
		}
		if _, dup := handlers[r.Intent]; dup {
			return nil, fmt.Errorf("duplicate handler for intent %q", r.Intent)
		}
		handlers[r.Intent] = r
	}
	return &Registry{handlers: handlers}, nil
}

func (r *Registry) Lookup(name string) (Registration, bool) {
	reg, ok := r.handlers[name]
	return reg, ok
}

func (r *Registry) Intents() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch is the outcome of routing one intent.
type Dispatch struct {
	Outcome Outcome
	Result  Result
}

// Dispatcher routes intents to handlers, enforces the sensitive-command
// confirmation policy and records every exchange into the context store.
type Dispatcher struct {
	registry *Registry
	store    *ContextStore
	// hotkeyOnly gates sensitive handlers behind an explicit hotkey
	// activation. Off only for trusted single-user setups.
	hotkeyOnly bool
}

func NewDispatcher(registry *Registry, store *ContextStore, hotkeyOnly bool) *Dispatcher {
	return &Dispatcher{registry: registry, store: store, hotkeyOnly: hotkeyOnly}
}

// Dispatch routes intent to its handler. Handler failures are converted into
// a failed Result here; nothing below this boundary reaches the event loop as
// an error.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent, trigger Trigger) Dispatch {
	disp := d.route(ctx, in, trigger)

	d.store.Append(ContextEntry{
		Transcript: in.Raw,
		IntentName: in.Name,
		Summary:    disp.Result.Message,
		At:         time.Now(),
	})

	log.Info("Dispatched",
		"intent", in.Name,
		"source", in.Source,
		"trigger", trigger,
		"outcome", disp.Outcome,
		"success", disp.Result.Success,
	)
	return disp
}

func (d *Dispatcher) route(ctx context.Context, in Intent, trigger Trigger) Dispatch {
	if in.Name == "" || in.Name == IntentUnknown {
		return Dispatch{OutcomeIntentUnresolved, Result{Message: MsgNotUnderstood}}
	}

	reg, ok := d.registry.Lookup(in.Name)
	if !ok {
		log.Warn("No handler", "intent", in.Name)
		return Dispatch{OutcomeHandlerNotFound, Result{Message: MsgNotRecognized}}
	}

	sensitive := reg.Sensitive || SensitiveText(in.Raw)
	if d.hotkeyOnly && sensitive && trigger != TriggerHotkey {
		return Dispatch{OutcomeNeedsConfirmation, Result{Message: MsgConfirmPrompt}}
	}

	res, err := d.invoke(ctx, reg.Handler, in)
	if err != nil {
		log.Error("Handler failed", "intent", in.Name, "err", err)
		return Dispatch{OutcomeHandlerFailed, Result{Success: false, Message: MsgError}}
	}
	return Dispatch{OutcomeOK, res}
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, in Intent) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Execute(ctx, in, d.store)
}
