// Package command holds the handler categories the dispatcher routes to:
// system control, web automation, information retrieval, communication,
// entertainment and personal assistant. Handlers are thin adapters around OS
// actions and HTTP services; the interesting logic lives in the pipeline.
package command

import (
	"net/http"

	"jarvis/internal/assist"
)

// Deps carries the collaborators handlers need. AI may be nil when running
// offline-only; Stats may be nil until the loop exists.
type Deps struct {
	HTTP    *http.Client
	AI      assist.Answerer
	Speaker assist.Speaker
	Store   *assist.ContextStore
	Cache   *assist.ResponseCache
	Email   EmailConfig
	Stats   func() (processed, failed int)
}

// Registrations is the static handler table, built once at startup. Sensitive
// commands (anything with side effects beyond information retrieval) are
// flagged here and gated behind hotkey confirmation by the dispatcher.
func Registrations(d Deps) []assist.Registration {
	sys := NewSystemControl(d.Stats)
	web := NewWebAutomation()
	info := NewInformation(d.HTTP, d.AI)
	comms := NewCommunication(d.Email)
	media := NewEntertainment()
	personal := NewPersonal(d.Speaker, d.Store, d.Cache)

	return []assist.Registration{
		{Intent: assist.IntentOpenApp, Handler: assist.HandlerFunc(sys.OpenApp)},
		{Intent: assist.IntentCloseApp, Handler: assist.HandlerFunc(sys.CloseApp)},
		{Intent: assist.IntentSetVolume, Handler: assist.HandlerFunc(sys.SetVolume)},
		{Intent: assist.IntentShutdownSystem, Sensitive: true, Handler: assist.HandlerFunc(sys.Shutdown)},
		{Intent: assist.IntentRestartSystem, Sensitive: true, Handler: assist.HandlerFunc(sys.Restart)},
		{Intent: assist.IntentSystemInfo, Handler: assist.HandlerFunc(sys.Info)},

		{Intent: assist.IntentSearchWeb, Handler: assist.HandlerFunc(web.SearchWeb)},
		{Intent: assist.IntentSearchYoutube, Handler: assist.HandlerFunc(web.SearchYoutube)},

		{Intent: assist.IntentGetTime, Handler: assist.HandlerFunc(info.Time)},
		{Intent: assist.IntentGetDate, Handler: assist.HandlerFunc(info.Date)},
		{Intent: assist.IntentGetWeather, Handler: assist.HandlerFunc(info.Weather)},
		{Intent: assist.IntentGetNews, Handler: assist.HandlerFunc(info.News)},
		{Intent: assist.IntentSearchWikipedia, Handler: assist.HandlerFunc(info.Wikipedia)},
		{Intent: assist.IntentGeneralQuery, Handler: assist.HandlerFunc(info.GeneralQuery)},

		{Intent: assist.IntentSendEmail, Sensitive: true, Handler: assist.HandlerFunc(comms.SendEmail)},

		{Intent: assist.IntentPlayMusic, Handler: assist.HandlerFunc(media.Play)},
		{Intent: assist.IntentPauseMusic, Handler: assist.HandlerFunc(media.PauseResume)},

		{Intent: assist.IntentSetReminder, Handler: assist.HandlerFunc(personal.SetReminder)},
		{Intent: assist.IntentSetTimer, Handler: assist.HandlerFunc(personal.SetTimer)},
		{Intent: assist.IntentResetContext, Handler: assist.HandlerFunc(personal.ResetContext)},
	}
}
