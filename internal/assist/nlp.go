package assist

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

// NLPConfig tunes the classifier.
type NLPConfig struct {
	// Threshold below which an offline match escalates to the AI path.
	Threshold       float64
	CacheEnabled    bool
	CacheTTL        time.Duration
	OfflineFallback bool
	// ContextDepth is how many recent exchanges ground the AI call.
	ContextDepth   int
	RequestTimeout time.Duration
}

// NLPProcessor classifies transcripts into intents: fast offline rules first,
// AI escalation only when the rules have nothing confident, response cache in
// between. ai may be nil for offline-only operation.
type NLPProcessor struct {
	cfg   NLPConfig
	cache *ResponseCache
	ai    Completer
}

func NewNLPProcessor(cfg NLPConfig, cache *ResponseCache, ai Completer) *NLPProcessor {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.ContextDepth <= 0 {
		cfg.ContextDepth = 4
	}
	return &NLPProcessor{cfg: cfg, cache: cache, ai: ai}
}

// aiReply is the strict JSON schema the model is instructed to produce.
type aiReply struct {
	Intent     string            `json:"intent"`
	Slots      map[string]string `json:"slots"`
	Confidence float64           `json:"confidence"`
	Answer     string            `json:"answer,omitempty"`
}

// Classify resolves a transcript into an Intent. It never fails: transient AI
// errors degrade to the offline path or an unresolved intent, so a network
// drop can not take a pass down.
func (p *NLPProcessor) Classify(ctx context.Context, tr Transcript, store *ContextStore) Intent {
	text := Normalize(tr.Text)
	if text == "" {
		return unresolved(text)
	}

	if in, ok := MatchOffline(text); ok && in.Confidence >= p.cfg.Threshold {
		log.Debug("Offline match", "intent", in.Name)
		return in
	}

	if p.cfg.CacheEnabled && p.cache != nil {
		if raw, ok := p.cache.Get(text); ok {
			if in, err := decodeIntent(raw, text); err == nil {
				log.Debug("Cache hit", "intent", in.Name)
				in.Source = SourceCached
				return in
			}
			// Undecodable entries are useless, evict instead of re-failing
			// on every repeat until TTL expiry.
			p.cache.Delete(text)
		}
	}

	if p.ai != nil {
		cctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()

		var history []ContextEntry
		if store != nil {
			history = store.Recent(p.cfg.ContextDepth)
		}

		raw, err := p.ai.Complete(cctx, text, history)
		if err == nil {
			in, derr := decodeIntent(raw, text)
			if derr == nil {
				in.Source = SourceAI
				if p.cfg.CacheEnabled && p.cache != nil {
					p.cache.Put(text, raw, p.cfg.CacheTTL)
				}
				return in
			}
			log.Warn("Undecodable model reply", "err", derr)
		} else {
			log.Warn("AI classification failed", "err", err)
			if !p.cfg.OfflineFallback {
				return unresolved(text)
			}
		}
	}

	// Degraded path: best offline partial, else unresolved.
	if in, ok := MatchOffline(text); ok {
		return in
	}
	return unresolved(text)
}

func unresolved(text string) Intent {
	return Intent{
		Name:   IntentUnknown,
		Source: SourceOffline,
		Raw:    text,
	}
}

func decodeIntent(raw, text string) (Intent, error) {
	// Some models wrap JSON in a fenced block despite instructions.
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "{"); i > 0 {
		raw = raw[i:]
	}
	if i := strings.LastIndex(raw, "}"); i >= 0 {
		raw = raw[:i+1]
	}

	var rep aiReply
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return Intent{}, fmt.Errorf("unmarshal model reply: %w (raw: %s)", err, raw)
	}
	if rep.Intent == "" {
		rep.Intent = IntentUnknown
	}
	slots := rep.Slots
	if slots == nil {
		slots = map[string]string{}
	}
	if rep.Answer != "" {
		slots["answer"] = rep.Answer
	}
	return Intent{
		Name:       rep.Intent,
		Slots:      slots,
		Confidence: rep.Confidence,
		Raw:        text,
	}, nil
}
