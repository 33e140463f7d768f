package assist

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Trigger identifies how a pipeline pass was activated.
type Trigger int

const (
	TriggerWakeWord Trigger = iota
	TriggerHotkey
)

func (t Trigger) String() string {
	switch t {
	case TriggerHotkey:
		return "hotkey"
	default:
		return "wake_word"
	}
}

// Source tags which path produced an intent. Confidence values are not
// comparable across sources.
type Source string

const (
	SourceOffline Source = "offline"
	SourceAI      Source = "ai"
	SourceCached  Source = "cached"
)

// Transcript is a single utterance delivered by the speech input collaborator.
type Transcript struct {
	Text       string
	Confidence float64
	Heard      time.Time
}

// Intent is a classified command. Raw keeps the normalized transcript it was
// derived from so the dispatcher can record it.
type Intent struct {
	Name       string
	Slots      map[string]string
	Confidence float64
	Source     Source
	Raw        string
}

// IntentUnknown marks an utterance neither the offline matcher nor the AI
// path could resolve.
const IntentUnknown = "unknown"

// Result of a handler execution.
type Result struct {
	Success     bool
	Message     string
	SideEffects bool
}

// Outcome classifies how a dispatch ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeIntentUnresolved
	OutcomeHandlerNotFound
	OutcomeNeedsConfirmation
	OutcomeConfirmationTimeout
	OutcomeHandlerFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeIntentUnresolved:
		return "intent_unresolved"
	case OutcomeHandlerNotFound:
		return "handler_not_found"
	case OutcomeNeedsConfirmation:
		return "needs_confirmation"
	case OutcomeConfirmationTimeout:
		return "confirmation_timeout"
	case OutcomeHandlerFailed:
		return "handler_failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ContextEntry is one recorded exchange. Entries are append-only; nothing
// mutates them after insertion.
type ContextEntry struct {
	Transcript string
	IntentName string
	Summary    string
	At         time.Time
}

// ContextView is the read-only view of the context store handlers receive.
type ContextView interface {
	Recent(k int) []ContextEntry
}

// Handler executes one command category intent.
type Handler interface {
	Execute(ctx context.Context, intent Intent, view ContextView) (Result, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, intent Intent, view ContextView) (Result, error)

func (f HandlerFunc) Execute(ctx context.Context, intent Intent, view ContextView) (Result, error) {
	return f(ctx, intent, view)
}

// Registration binds an intent name to its handler and sensitivity policy.
// Sensitive handlers are never executed from an ambient wake-word activation.
type Registration struct {
	Intent    string
	Sensitive bool
	Handler   Handler
}

// ErrNoTranscript is returned by a Listener when no utterance arrived within
// the listening window.
var ErrNoTranscript = errors.New("no transcript within window")

// Listener is the speech input collaborator.
type Listener interface {
	AwaitTranscript(ctx context.Context, timeout time.Duration) (Transcript, error)
}

// Speaker is the speech output collaborator. Speak is fire-and-forget;
// implementations log failures and never block the pipeline on them.
type Speaker interface {
	Speak(text string)
}

// FailKind classifies AI collaborator failures.
type FailKind string

const (
	FailTimeout FailKind = "timeout"
	FailNetwork FailKind = "network"
	FailQuota   FailKind = "quota"
)

// CompleteError wraps an AI collaborator failure with its kind.
type CompleteError struct {
	Kind FailKind
	Err  error
}

func (e *CompleteError) Error() string {
	return fmt.Sprintf("ai service %s: %v", e.Kind, e.Err)
}

func (e *CompleteError) Unwrap() error { return e.Err }

// Completer is the AI service collaborator. Complete classifies an utterance
// given recent conversational context and returns the raw model reply.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []ContextEntry) (string, error)
}

// Answerer produces a spoken reply for an open question. Separate from
// Completer because classification and answering run under different prompts.
type Answerer interface {
	Answer(ctx context.Context, question string, history []ContextEntry) (string, error)
}
