package assist

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// State of the event loop, for logs and the self check.
type State int

const (
	StateIdle State = iota
	StateListening
	StateUnderstanding
	StateConfirming
	StateExecuting
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateUnderstanding:
		return "understanding"
	case StateConfirming:
		return "confirming"
	case StateExecuting:
		return "executing"
	default:
		return "idle"
	}
}

// LoopConfig tunes the event loop.
type LoopConfig struct {
	ListenTimeout time.Duration
	ConfirmWindow time.Duration
	// QueueTriggers buffers activations that arrive mid-pass instead of
	// dropping them.
	QueueTriggers bool
}

// Activation is one trigger event.
type Activation struct {
	Trigger Trigger
	At      time.Time
}

// Loop sequences listening, understanding and execution. One activation
// produces exactly one in-flight pass; the stores it owns are only ever
// touched from that pass, so they need no locking.
type Loop struct {
	cfg      LoopConfig
	listener Listener
	speaker  Speaker
	nlp      *NLPProcessor
	disp     *Dispatcher
	store    *ContextStore

	triggers chan Activation
	confirms chan struct{}

	// Chime, when set, is played as listening starts (activation earcon).
	Chime func()

	state     State
	processed int
	failed    int
}

func NewLoop(cfg LoopConfig, listener Listener, speaker Speaker, nlp *NLPProcessor, disp *Dispatcher, store *ContextStore) *Loop {
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = 10 * time.Second
	}
	if cfg.ConfirmWindow <= 0 {
		cfg.ConfirmWindow = 10 * time.Second
	}
	qsize := 1
	if cfg.QueueTriggers {
		qsize = 16
	}
	return &Loop{
		cfg:      cfg,
		listener: listener,
		speaker:  speaker,
		nlp:      nlp,
		disp:     disp,
		store:    store,
		triggers: make(chan Activation, qsize),
		confirms: make(chan struct{}, 1),
	}
}

// Trigger requests a pipeline pass. Returns false when the activation was
// dropped because a pass is already in flight and queueing is off.
func (l *Loop) Trigger(t Trigger) bool {
	select {
	case l.triggers <- Activation{Trigger: t, At: time.Now()}:
		return true
	default:
		log.Warn("Busy, dropping activation", "trigger", t)
		return false
	}
}

// Confirm delivers a hotkey confirmation for a pending sensitive command.
// A confirmation with nothing pending is discarded.
func (l *Loop) Confirm() {
	select {
	case l.confirms <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, executing one pass per activation.
// A failed pass never terminates the loop.
func (l *Loop) Run(ctx context.Context) error {
	log.Info("Event loop ready")
	for {
		l.state = StateIdle
		select {
		case <-ctx.Done():
			log.Info("Event loop stopping", "processed", l.processed, "failed", l.failed)
			return ctx.Err()
		case act := <-l.triggers:
			l.runPass(ctx, act)
		}
	}
}

func (l *Loop) runPass(ctx context.Context, act Activation) {
	pass := uuid.NewString()[:8]
	lg := log.With("pass", pass, "trigger", act.Trigger)

	defer func() {
		if r := recover(); r != nil {
			lg.Error("Pass panicked", "panic", r)
			l.failed++
			l.speaker.Speak(MsgError)
		}
	}()

	l.state = StateListening
	if l.Chime != nil {
		l.Chime()
	}
	lg.Info("Listening")

	deadline := time.Now().Add(l.cfg.ListenTimeout)
	var tr Transcript
	for {
		var err error
		tr, err = l.listener.AwaitTranscript(ctx, time.Until(deadline))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			// RecognitionTimeout: abandon the pass, back to waiting.
			lg.Warn("No transcript", "err", err)
			return
		}
		// Ambient speech buffered before this activation is not the
		// command; a pass only consumes utterances from its own window.
		if tr.Heard.Before(act.At) {
			lg.Debug("Discarding stale utterance", "text", tr.Text)
			continue
		}
		break
	}
	lg.Info("Heard", "text", tr.Text, "confidence", tr.Confidence)

	l.state = StateUnderstanding
	in := l.nlp.Classify(ctx, tr, l.store)
	lg.Info("Classified", "intent", in.Name, "source", in.Source, "confidence", in.Confidence)

	l.state = StateExecuting
	disp := l.disp.Dispatch(ctx, in, act.Trigger)

	if disp.Outcome == OutcomeNeedsConfirmation {
		disp = l.awaitConfirmation(ctx, in, lg)
	}

	l.processed++
	if disp.Outcome != OutcomeOK || !disp.Result.Success {
		l.failed++
	}
	if disp.Result.Message != "" {
		l.speaker.Speak(disp.Result.Message)
	}
}

// awaitConfirmation holds a sensitive command until a hotkey confirmation
// arrives, then re-dispatches it with hotkey provenance. The window is
// bounded; expiry cancels the pending command.
func (l *Loop) awaitConfirmation(ctx context.Context, in Intent, lg *log.Logger) Dispatch {
	l.state = StateConfirming
	l.speaker.Speak(MsgConfirmPrompt)

	// Drop any confirmation left over from an earlier pass.
	select {
	case <-l.confirms:
	default:
	}

	timer := time.NewTimer(l.cfg.ConfirmWindow)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Dispatch{OutcomeCancelled, Result{Message: MsgCancelled}}
	case <-timer.C:
		lg.Info("Confirmation window expired", "intent", in.Name)
		return Dispatch{OutcomeConfirmationTimeout, Result{Message: MsgCancelled}}
	case <-l.confirms:
		lg.Info("Confirmed", "intent", in.Name)
		l.state = StateExecuting
		return l.disp.Dispatch(ctx, in, TriggerHotkey)
	}
}

// Stats reports pass counters for the system info handler and shutdown log.
func (l *Loop) Stats() (processed, failed int) {
	return l.processed, l.failed
}
