package assist

import (
	"regexp"
	"strings"
)

// Canonical intent names, snake_case.
const (
	IntentOpenApp         = "open_app"
	IntentCloseApp        = "close_app"
	IntentSetVolume       = "set_volume"
	IntentShutdownSystem  = "shutdown_system"
	IntentRestartSystem   = "restart_system"
	IntentSystemInfo      = "get_system_info"
	IntentSearchWeb       = "search_web"
	IntentSearchYoutube   = "search_youtube"
	IntentSearchWikipedia = "search_wikipedia"
	IntentGetTime         = "get_time"
	IntentGetDate         = "get_date"
	IntentGetWeather      = "get_weather"
	IntentGetNews         = "get_news"
	IntentSendEmail       = "send_email"
	IntentPlayMusic       = "play_music"
	IntentPauseMusic      = "pause_resume_music"
	IntentSetReminder     = "set_reminder"
	IntentSetTimer        = "set_timer"
	IntentResetContext    = "reset_context"
	IntentGeneralQuery    = "general_query"
)

// template binds one regexp to an intent. Capture groups bind slots in order;
// an empty optional group leaves its slot unset.
type template struct {
	intent string
	re     *regexp.Regexp
	slots  []string
}

// Offline confidence is fixed: rule hits are either full matches or nothing,
// and the value is not comparable with model confidence anyway.
const offlineConfidence = 0.7

// templates is the ordered offline rule set. First full match wins, so the
// more specific forms (youtube, wikipedia) come before the generic web search.
var templates = []template{
	{IntentGetTime, regexp.MustCompile(`^(?:what(?:'s| is)? )?(?:the )?(?:current )?time(?: is it)?(?: now)?$`), nil},
	{IntentGetDate, regexp.MustCompile(`^(?:what(?:'s| is)? )?(?:the )?(?:current )?(?:date|day)(?: is it)?(?: today)?$`), nil},
	{IntentShutdownSystem, regexp.MustCompile(`^(?:shut ?down|power off|turn off)(?: the)?(?: computer| pc| system)?$`), nil},
	{IntentRestartSystem, regexp.MustCompile(`^(?:restart|reboot)(?: the)?(?: computer| pc| system)?$`), nil},
	{IntentSystemInfo, regexp.MustCompile(`^(?:get |show |tell me )?(?:the )?system (?:info|information|status)$`), nil},
	{IntentSetVolume, regexp.MustCompile(`^(?:set )?(?:the )?volume(?: to)? (\d+)(?: percent)?$`), []string{"level"}},
	{IntentResetContext, regexp.MustCompile(`^(?:reset|clear|forget)(?: the| our)? (?:context|conversation|history)$`), nil},
	{IntentGetWeather, regexp.MustCompile(`^(?:what(?:'s| is) )?(?:the )?weather(?: like)?(?: (?:in|for|at) (.+))?$`), []string{"place"}},
	{IntentGetNews, regexp.MustCompile(`^(?:what(?:'s| is) )?(?:the )?(?:latest )?(?:news|headlines)(?: (?:about|on) (.+))?$`), []string{"topic"}},
	{IntentSearchYoutube, regexp.MustCompile(`^(?:search |play |watch |find )?(.+?) on youtube$`), []string{"query"}},
	{IntentSearchWikipedia, regexp.MustCompile(`^(?:search |look up )?(.+?) on wikipedia$`), []string{"query"}},
	{IntentSearchWeb, regexp.MustCompile(`^(?:search(?: for)?|google|look up) (.+)$`), []string{"query"}},
	{IntentSendEmail, regexp.MustCompile(`^(?:send|write) (?:an )?email to (\S+)(?: saying (.+))?$`), []string{"recipient", "body"}},
	{IntentSetTimer, regexp.MustCompile(`^(?:set )?(?:a )?timer for (\d+) (minutes?|hours?|seconds?)$`), []string{"value", "unit"}},
	{IntentSetReminder, regexp.MustCompile(`^(?:set a reminder|remind me)(?: to)? (.+?)(?: in (\d+) (minutes?|hours?))?$`), []string{"message", "value", "unit"}},
	{IntentPauseMusic, regexp.MustCompile(`^(?:pause|resume|stop)(?: the)?(?: music| song| playback)?$`), nil},
	{IntentPlayMusic, regexp.MustCompile(`^(?:play|put on) (.+?)(?:, please)?$`), []string{"query"}},
	{IntentOpenApp, regexp.MustCompile(`^(?:open|launch|start|run) (.+?)(?: app| application)?$`), []string{"app"}},
	{IntentCloseApp, regexp.MustCompile(`^(?:close|quit|kill) (.+?)(?: app| application)?$`), []string{"app"}},
}

// sensitivePatterns flag transcripts that must never execute from an ambient
// wake-word activation regardless of the resolved intent.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(password|secret|token|credential)\b`),
	regexp.MustCompile(`\b(delete|remove|uninstall) .+`),
	regexp.MustCompile(`\b(format|erase|wipe) .+`),
	regexp.MustCompile(`\b(sudo|root|administrator)\b`),
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lowercases, trims, collapses whitespace and strips trailing
// punctuation so rule matching and cache keys are stable across utterances.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimRight(text, ".!?")
}

// MatchOffline runs the ordered rule set over a normalized transcript and
// returns the first full match as an offline-source intent.
func MatchOffline(text string) (Intent, bool) {
	for _, t := range templates {
		m := t.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		slots := make(map[string]string, len(t.slots))
		for i, name := range t.slots {
			if i+1 < len(m) && m[i+1] != "" {
				slots[name] = strings.TrimSpace(m[i+1])
			}
		}
		return Intent{
			Name:       t.intent,
			Slots:      slots,
			Confidence: offlineConfidence,
			Source:     SourceOffline,
			Raw:        text,
		}, true
	}
	return Intent{}, false
}

// SensitiveText reports whether a transcript trips the sensitive word list.
func SensitiveText(text string) bool {
	for _, re := range sensitivePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// PatternIntents returns the distinct intents the offline rule set can
// produce, in rule order. The self check uses it to verify handler coverage.
func PatternIntents() []string {
	seen := make(map[string]bool, len(templates))
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		if !seen[t.intent] {
			seen[t.intent] = true
			out = append(out, t.intent)
		}
	}
	return out
}
