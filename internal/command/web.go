package command

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"

	"jarvis/internal/assist"
)

// WebAutomation opens searches in the desktop browser.
type WebAutomation struct {
	open func(url string) error
}

func NewWebAutomation() *WebAutomation {
	return &WebAutomation{open: openURL}
}

func openURL(u string) error {
	return exec.Command("xdg-open", u).Start()
}

func (w *WebAutomation) SearchWeb(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	query := in.Slots["query"]
	if query == "" {
		return assist.Result{Message: "What should I search for?"}, nil
	}

	u := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := w.open(u); err != nil {
		return assist.Result{}, fmt.Errorf("open browser: %w", err)
	}
	return assist.Result{Success: true, Message: fmt.Sprintf("Searching for %s.", query), SideEffects: true}, nil
}

func (w *WebAutomation) SearchYoutube(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	query := in.Slots["query"]
	if query == "" {
		return assist.Result{Message: "What should I look for on YouTube?"}, nil
	}

	u := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	if err := w.open(u); err != nil {
		return assist.Result{}, fmt.Errorf("open browser: %w", err)
	}
	return assist.Result{Success: true, Message: fmt.Sprintf("Searching YouTube for %s.", query), SideEffects: true}, nil
}
