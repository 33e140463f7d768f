package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jarvis/internal/assist"
)

type silentSpeaker struct{ spoken []string }

func (s *silentSpeaker) Speak(text string) { s.spoken = append(s.spoken, text) }

func stubAfter(captured *time.Duration) func(time.Duration, func()) *time.Timer {
	return func(d time.Duration, f func()) *time.Timer {
		*captured = d
		return time.NewTimer(time.Hour) // never fires in tests
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("10", "minutes")
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, d)

	d, err = parseDuration("1", "hour")
	require.NoError(t, err)
	require.Equal(t, time.Hour, d)

	_, err = parseDuration("0", "minutes")
	require.Error(t, err)
	_, err = parseDuration("25", "hours")
	require.Error(t, err)
	_, err = parseDuration("ten", "minutes")
	require.Error(t, err)
}

func TestSetTimer(t *testing.T) {
	p := NewPersonal(&silentSpeaker{}, nil, nil)
	var captured time.Duration
	p.after = stubAfter(&captured)

	res, err := p.SetTimer(context.Background(), assist.Intent{
		Name:  assist.IntentSetTimer,
		Slots: map[string]string{"value": "5", "unit": "minutes"},
	}, nil)

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 5*time.Minute, captured)
}

func TestSetTimerBadDuration(t *testing.T) {
	p := NewPersonal(&silentSpeaker{}, nil, nil)

	res, err := p.SetTimer(context.Background(), assist.Intent{
		Name:  assist.IntentSetTimer,
		Slots: map[string]string{"value": "soon"},
	}, nil)

	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestSetReminderDefaultsDelay(t *testing.T) {
	p := NewPersonal(&silentSpeaker{}, nil, nil)
	var captured time.Duration
	p.after = stubAfter(&captured)

	res, err := p.SetReminder(context.Background(), assist.Intent{
		Name:  assist.IntentSetReminder,
		Slots: map[string]string{"message": "stretch"},
	}, nil)

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 30*time.Minute, captured)
}

func TestResetContextClearsStores(t *testing.T) {
	store := assist.NewContextStore(4)
	cache := assist.NewResponseCache(4)
	store.Append(assist.ContextEntry{Transcript: "hello"})
	cache.Put("q", "v", time.Hour)

	p := NewPersonal(&silentSpeaker{}, store, cache)
	res, err := p.ResetContext(context.Background(), assist.Intent{Name: assist.IntentResetContext}, nil)

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Zero(t, store.Len())
	require.Zero(t, cache.Len())
}
