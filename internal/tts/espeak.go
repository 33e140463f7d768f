// Package tts is the local fallback speaker for busless operation, shelling
// out to espeak-ng.
package tts

import (
	log "log/slog"
	"os/exec"
)

// Espeak implements assist.Speaker via the espeak-ng binary.
type Espeak struct {
	ExecPath string
	Voice    string
}

func New() *Espeak {
	return &Espeak{ExecPath: "espeak-ng", Voice: "en"}
}

// Speak is fire-and-forget: synthesis failures are logged and swallowed so a
// broken local TTS never stalls a pipeline pass.
func (e *Espeak) Speak(text string) {
	if text == "" {
		return
	}

	cmd := exec.Command(e.ExecPath, "-v", e.Voice, text)
	if err := cmd.Start(); err != nil {
		log.Error("espeak failed", "err", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Error("espeak failed", "err", err)
		}
	}()
}
