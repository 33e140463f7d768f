// Package notify plays the activation earcon.
package notify

import (
	log "log/slog"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

var initOnce sync.Once

// Chime plays the mp3 at path. A missing file or dead audio device must not
// break an activation, so everything here only logs.
func Chime(path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("No chime file", "path", path, "err", err)
		return
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		log.Warn("Failed to decode chime", "err", err)
		f.Close()
		return
	}
	defer streamer.Close()

	initOnce.Do(func() {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			log.Warn("Speaker init failed", "err", err)
		}
	})

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
}
