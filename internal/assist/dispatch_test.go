package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	calls  int
	result Result
	err    error
	panics bool
}

func (h *countingHandler) Execute(ctx context.Context, in Intent, view ContextView) (Result, error) {
	h.calls++
	if h.panics {
		panic("boom")
	}
	return h.result, h.err
}

func testDispatcher(t *testing.T, regs []Registration) (*Dispatcher, *ContextStore) {
	t.Helper()
	registry, err := NewRegistry(regs)
	require.NoError(t, err)
	store := NewContextStore(8)
	return NewDispatcher(registry, store, true), store
}

func offlineIntent(name, raw string) Intent {
	return Intent{Name: name, Confidence: offlineConfidence, Source: SourceOffline, Raw: raw}
}

func TestDispatchExecutesHandler(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "It's noon."}}
	d, store := testDispatcher(t, []Registration{{Intent: IntentGetTime, Handler: h}})

	disp := d.Dispatch(context.Background(), offlineIntent(IntentGetTime, "what time is it"), TriggerWakeWord)

	require.Equal(t, OutcomeOK, disp.Outcome)
	require.True(t, disp.Result.Success)
	require.Equal(t, 1, h.calls)
	require.Equal(t, 1, store.Len(), "every dispatch appends a context entry")
}

func TestDispatchUnknownIntentUnresolved(t *testing.T) {
	d, store := testDispatcher(t, nil)

	disp := d.Dispatch(context.Background(), Intent{Name: IntentUnknown, Raw: "mumble"}, TriggerHotkey)

	require.Equal(t, OutcomeIntentUnresolved, disp.Outcome)
	require.Equal(t, MsgNotUnderstood, disp.Result.Message)
	require.Equal(t, 1, store.Len())
}

func TestDispatchHandlerNotFound(t *testing.T) {
	d, _ := testDispatcher(t, nil)

	disp := d.Dispatch(context.Background(), offlineIntent("make_coffee", "make coffee"), TriggerHotkey)

	require.Equal(t, OutcomeHandlerNotFound, disp.Outcome)
	require.Equal(t, MsgNotRecognized, disp.Result.Message)
}

func TestDispatchSensitiveWakeWordNeedsConfirmation(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, SideEffects: true}}
	d, _ := testDispatcher(t, []Registration{{Intent: IntentRestartSystem, Sensitive: true, Handler: h}})

	in := offlineIntent(IntentRestartSystem, "restart computer")
	in.Confidence = 0.99 // confidence never bypasses the gate

	disp := d.Dispatch(context.Background(), in, TriggerWakeWord)

	require.Equal(t, OutcomeNeedsConfirmation, disp.Outcome)
	require.Zero(t, h.calls, "no side effects before confirmation")
	require.False(t, disp.Result.SideEffects)
}

func TestDispatchSensitiveHotkeyExecutes(t *testing.T) {
	h := &countingHandler{result: Result{Success: true, Message: "Restarting now.", SideEffects: true}}
	d, _ := testDispatcher(t, []Registration{{Intent: IntentRestartSystem, Sensitive: true, Handler: h}})

	disp := d.Dispatch(context.Background(), offlineIntent(IntentRestartSystem, "restart computer"), TriggerHotkey)

	require.Equal(t, OutcomeOK, disp.Outcome)
	require.True(t, disp.Result.Success)
	require.Equal(t, 1, h.calls)
}

func TestDispatchSensitiveTranscriptGatesAnyHandler(t *testing.T) {
	h := &countingHandler{result: Result{Success: true}}
	d, _ := testDispatcher(t, []Registration{{Intent: IntentSearchWeb, Handler: h}})

	in := offlineIntent(IntentSearchWeb, "search how to delete system32")
	disp := d.Dispatch(context.Background(), in, TriggerWakeWord)

	require.Equal(t, OutcomeNeedsConfirmation, disp.Outcome)
	require.Zero(t, h.calls)
}

func TestDispatchHotkeyOnlyDisabled(t *testing.T) {
	h := &countingHandler{result: Result{Success: true}}
	registry, err := NewRegistry([]Registration{{Intent: IntentRestartSystem, Sensitive: true, Handler: h}})
	require.NoError(t, err)
	d := NewDispatcher(registry, NewContextStore(4), false)

	disp := d.Dispatch(context.Background(), offlineIntent(IntentRestartSystem, "restart computer"), TriggerWakeWord)

	require.Equal(t, OutcomeOK, disp.Outcome)
	require.Equal(t, 1, h.calls)
}

func TestDispatchHandlerErrorConverted(t *testing.T) {
	h := &countingHandler{err: errors.New("exec failed")}
	d, store := testDispatcher(t, []Registration{{Intent: IntentOpenApp, Handler: h}})

	disp := d.Dispatch(context.Background(), offlineIntent(IntentOpenApp, "open chrome"), TriggerHotkey)

	require.Equal(t, OutcomeHandlerFailed, disp.Outcome)
	require.False(t, disp.Result.Success)
	require.Equal(t, 1, store.Len())
}

func TestDispatchHandlerPanicRecovered(t *testing.T) {
	h := &countingHandler{panics: true}
	d, _ := testDispatcher(t, []Registration{{Intent: IntentOpenApp, Handler: h}})

	disp := d.Dispatch(context.Background(), offlineIntent(IntentOpenApp, "open chrome"), TriggerHotkey)

	require.Equal(t, OutcomeHandlerFailed, disp.Outcome)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	h := &countingHandler{}
	_, err := NewRegistry([]Registration{
		{Intent: IntentGetTime, Handler: h},
		{Intent: IntentGetTime, Handler: h},
	})
	require.Error(t, err)
}
