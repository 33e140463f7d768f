package assist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedListener struct {
	ch chan Transcript
}

func newScriptedListener() *scriptedListener {
	return &scriptedListener{ch: make(chan Transcript, 4)}
}

func (l *scriptedListener) say(text string) {
	l.sayAt(text, time.Now())
}

func (l *scriptedListener) sayAt(text string, heard time.Time) {
	l.ch <- Transcript{Text: text, Confidence: 0.9, Heard: heard}
}

func (l *scriptedListener) AwaitTranscript(ctx context.Context, timeout time.Duration) (Transcript, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case tr := <-l.ch:
		return tr, nil
	case <-timer.C:
		return Transcript{}, ErrNoTranscript
	case <-ctx.Done():
		return Transcript{}, ctx.Err()
	}
}

type recordingSpeaker struct {
	ch chan string
}

func newRecordingSpeaker() *recordingSpeaker {
	return &recordingSpeaker{ch: make(chan string, 16)}
}

func (s *recordingSpeaker) Speak(text string) { s.ch <- text }

func (s *recordingSpeaker) next(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-s.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no spoken response")
		return ""
	}
}

type loopFixture struct {
	loop     *Loop
	listener *scriptedListener
	speaker  *recordingSpeaker
	store    *ContextStore
	cancel   context.CancelFunc
	done     chan struct{}
}

func startLoop(t *testing.T, cfg LoopConfig, regs []Registration) *loopFixture {
	t.Helper()

	registry, err := NewRegistry(regs)
	require.NoError(t, err)

	store := NewContextStore(8)
	listener := newScriptedListener()
	speaker := newRecordingSpeaker()
	nlp := NewNLPProcessor(NLPConfig{Threshold: 0.6, OfflineFallback: true}, nil, nil)
	disp := NewDispatcher(registry, store, true)

	loop := NewLoop(cfg, listener, speaker, nlp, disp, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	f := &loopFixture{loop: loop, listener: listener, speaker: speaker, store: store, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("loop did not stop")
		}
	})
	return f
}

func TestLoopOfflinePass(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "It's noon."}}
	f := startLoop(t, LoopConfig{ListenTimeout: time.Second}, []Registration{
		{Intent: IntentGetTime, Handler: h},
	})

	f.loop.Trigger(TriggerWakeWord)
	f.listener.say("what time is it")

	require.Equal(t, "It's noon.", f.speaker.next(t))
	require.Equal(t, 1, h.calls)

	processed, failed := f.loop.Stats()
	require.Equal(t, 1, processed)
	require.Zero(t, failed)
}

func TestLoopConfirmationFlow(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "Restarting now.", SideEffects: true}}
	f := startLoop(t, LoopConfig{ListenTimeout: time.Second, ConfirmWindow: 2 * time.Second}, []Registration{
		{Intent: IntentRestartSystem, Sensitive: true, Handler: h},
	})

	f.loop.Trigger(TriggerWakeWord)
	f.listener.say("restart computer")

	require.Equal(t, MsgConfirmPrompt, f.speaker.next(t))
	require.Zero(t, h.calls, "nothing executed before confirmation")

	f.loop.Confirm()

	require.Equal(t, "Restarting now.", f.speaker.next(t))
	require.Equal(t, 1, h.calls)
}

func TestLoopConfirmationTimeout(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, SideEffects: true}}
	f := startLoop(t, LoopConfig{ListenTimeout: time.Second, ConfirmWindow: 50 * time.Millisecond}, []Registration{
		{Intent: IntentRestartSystem, Sensitive: true, Handler: h},
	})

	f.loop.Trigger(TriggerWakeWord)
	f.listener.say("restart computer")

	require.Equal(t, MsgConfirmPrompt, f.speaker.next(t))
	require.Equal(t, MsgCancelled, f.speaker.next(t))
	require.Zero(t, h.calls, "expired confirmation cancels the command")
}

func TestLoopHotkeySkipsConfirmation(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "Restarting now.", SideEffects: true}}
	f := startLoop(t, LoopConfig{ListenTimeout: time.Second}, []Registration{
		{Intent: IntentRestartSystem, Sensitive: true, Handler: h},
	})

	f.loop.Trigger(TriggerHotkey)
	f.listener.say("restart computer")

	require.Equal(t, "Restarting now.", f.speaker.next(t))
	require.Equal(t, 1, h.calls)
}

func TestLoopRecognitionTimeoutAbandonsPass(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "It's noon."}}
	f := startLoop(t, LoopConfig{ListenTimeout: 30 * time.Millisecond}, []Registration{
		{Intent: IntentGetTime, Handler: h},
	})

	f.loop.Trigger(TriggerWakeWord)
	time.Sleep(100 * time.Millisecond)

	require.Zero(t, h.calls)
	require.Empty(t, f.speaker.ch, "a silent timeout speaks nothing")

	// The loop keeps serving after an abandoned pass.
	f.loop.Trigger(TriggerHotkey)
	f.listener.say("what time is it")
	require.Equal(t, "It's noon.", f.speaker.next(t))
}

func TestLoopDiscardsPreActivationSpeech(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "Restarting now.", SideEffects: true}}
	f := startLoop(t, LoopConfig{ListenTimeout: 100 * time.Millisecond}, []Registration{
		{Intent: IntentRestartSystem, Sensitive: true, Handler: h},
	})

	// Ambient speech buffered before the activation must never become the
	// command of the pass, even under a hotkey trigger.
	f.listener.sayAt("restart computer", time.Now().Add(-time.Minute))
	f.loop.Trigger(TriggerHotkey)
	time.Sleep(250 * time.Millisecond)

	require.Zero(t, h.calls)
	require.Empty(t, f.speaker.ch)

	f.loop.Trigger(TriggerHotkey)
	f.listener.say("restart computer")
	require.Equal(t, "Restarting now.", f.speaker.next(t))
	require.Equal(t, 1, h.calls)
}

func TestLoopUnresolvedSpeaksHelp(t *testing.T) {
	f := startLoop(t, LoopConfig{ListenTimeout: time.Second}, []Registration{
		{Intent: IntentGetTime, Handler: &countingHandler{}},
	})

	f.loop.Trigger(TriggerWakeWord)
	f.listener.say("blorple fizz")

	require.Equal(t, MsgNotUnderstood, f.speaker.next(t))

	processed, failed := f.loop.Stats()
	require.Equal(t, 1, processed)
	require.Equal(t, 1, failed)
}

func TestLoopDropsTriggerWhileBusy(t *testing.T) {
	// Loop not running: the latch holds exactly one pending activation.
	registry, err := NewRegistry(nil)
	require.NoError(t, err)
	store := NewContextStore(4)
	loop := NewLoop(LoopConfig{}, newScriptedListener(), newRecordingSpeaker(),
		NewNLPProcessor(NLPConfig{}, nil, nil), NewDispatcher(registry, store, true), store)

	require.True(t, loop.Trigger(TriggerWakeWord))
	require.False(t, loop.Trigger(TriggerWakeWord), "second activation dropped while one is pending")
}

func TestLoopQueueTriggers(t *testing.T) {
	registry, err := NewRegistry(nil)
	require.NoError(t, err)
	store := NewContextStore(4)
	loop := NewLoop(LoopConfig{QueueTriggers: true}, newScriptedListener(), newRecordingSpeaker(),
		NewNLPProcessor(NLPConfig{}, nil, nil), NewDispatcher(registry, store, true), store)

	require.True(t, loop.Trigger(TriggerWakeWord))
	require.True(t, loop.Trigger(TriggerWakeWord))
}
