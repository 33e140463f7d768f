// Package bus connects the daemon to the speech hub over a websocket. The
// speech-to-text shard publishes transcript messages; spoken replies go back
// as speak messages. Wake-word detection happens here on inbound transcripts.
package bus

import (
	"context"
	"encoding/json"
	log "log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"jarvis/internal/assist"
)

type Message struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Kind       string  `json:"kind"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence,omitempty"`
}

const (
	KindTranscript = "transcript"
	KindSpeak      = "speak"

	shardName = "jarvis"
)

// Bus implements assist.Listener and assist.Speaker over one hub connection.
type Bus struct {
	conn     *websocket.Conn
	wakeWord string
	// onWake fires when an inbound transcript opens with the wake word.
	onWake func()

	transcripts chan assist.Transcript
	writeMu     sync.Mutex
}

func Dial(wsURL, wakeWord string, onWake func()) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", wsURL)
	return &Bus{
		conn:        conn,
		wakeWord:    strings.ToLower(strings.TrimSpace(wakeWord)),
		onWake:      onWake,
		transcripts: make(chan assist.Transcript, 4),
	}, nil
}

// Listen is the read pump. It blocks until the connection drops or ctx is
// cancelled; run it on its own goroutine.
func (b *Bus) Listen(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.conn.Close()
	}()

	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Error("Bus read failed", "err", err)
			}
			return
		}

		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			log.Warn("Undecodable bus message", "err", err)
			continue
		}
		if m.Kind != KindTranscript {
			continue
		}
		b.handleTranscript(m)
	}
}

func (b *Bus) handleTranscript(m Message) {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	rest, woke := b.stripWakeWord(text)
	// Wake fires before the push so a combined "hey jarvis <command>"
	// utterance is stamped inside its own activation window.
	if woke && b.onWake != nil {
		b.onWake()
	}
	if rest != "" {
		b.push(assist.Transcript{Text: rest, Confidence: m.Confidence, Heard: time.Now()})
	}
}

// stripWakeWord reports whether text opened with the wake word and returns
// the remainder. "hey jarvis restart" wakes and carries the command in one
// utterance; a bare "hey jarvis" wakes with the command to follow.
func (b *Bus) stripWakeWord(text string) (rest string, woke bool) {
	if b.wakeWord == "" {
		return text, false
	}
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, b.wakeWord) {
		return text, false
	}
	rest = strings.TrimLeft(text[len(b.wakeWord):], " ,.")
	return rest, true
}

func (b *Bus) push(tr assist.Transcript) {
	select {
	case b.transcripts <- tr:
	default:
		// Queue full: keep the freshest utterance.
		select {
		case <-b.transcripts:
		default:
		}
		b.transcripts <- tr
	}
}

// AwaitTranscript implements assist.Listener.
func (b *Bus) AwaitTranscript(ctx context.Context, timeout time.Duration) (assist.Transcript, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case tr := <-b.transcripts:
		return tr, nil
	case <-timer.C:
		return assist.Transcript{}, assist.ErrNoTranscript
	case <-ctx.Done():
		return assist.Transcript{}, ctx.Err()
	}
}

// Speak implements assist.Speaker. Failures are logged, never surfaced.
func (b *Bus) Speak(text string) {
	if text == "" {
		return
	}

	data, err := json.Marshal(Message{From: shardName, Kind: KindSpeak, Content: text})
	if err != nil {
		log.Error("Marshal speak message", "err", err)
		return
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Error("Bus write failed", "err", err)
	}
}

func (b *Bus) Close() error { return b.conn.Close() }
