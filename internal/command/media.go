package command

import (
	"context"
	"fmt"
	"net/url"

	"jarvis/internal/assist"
)

// Entertainment drives the desktop media player.
type Entertainment struct {
	run  func(ctx context.Context, name string, args ...string) error
	open func(url string) error
}

func NewEntertainment() *Entertainment {
	return &Entertainment{run: runCommand, open: openURL}
}

func (e *Entertainment) Play(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	query := in.Slots["query"]
	if query == "" {
		if err := e.run(ctx, "playerctl", "play"); err != nil {
			return assist.Result{Message: "Nothing to play."}, nil
		}
		return assist.Result{Success: true, Message: "Playing.", SideEffects: true}, nil
	}

	u := "https://open.spotify.com/search/" + url.PathEscape(query)
	if err := e.open(u); err != nil {
		return assist.Result{}, fmt.Errorf("open player: %w", err)
	}
	return assist.Result{Success: true, Message: fmt.Sprintf("Looking for %s.", query), SideEffects: true}, nil
}

func (e *Entertainment) PauseResume(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	if err := e.run(ctx, "playerctl", "play-pause"); err != nil {
		return assist.Result{Message: "No player is running."}, nil
	}
	return assist.Result{Success: true, Message: "Done.", SideEffects: true}, nil
}
