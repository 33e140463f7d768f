package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"jarvis/internal/assist"
)

// Information answers read-only queries: clock, weather, news, wikipedia and
// open questions via the AI collaborator.
type Information struct {
	client *http.Client
	ai     assist.Answerer
	now    func() time.Time
}

func NewInformation(client *http.Client, ai assist.Answerer) *Information {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Information{client: client, ai: ai, now: time.Now}
}

func (i *Information) Time(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	return assist.Result{
		Success: true,
		Message: i.now().Format("It's 3:04 PM."),
	}, nil
}

func (i *Information) Date(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	return assist.Result{
		Success: true,
		Message: i.now().Format("Today is Monday, January 2."),
	}, nil
}

func (i *Information) Weather(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	place := in.Slots["place"]
	u := "https://wttr.in/" + url.PathEscape(place) + "?format=3"

	body, err := i.get(ctx, u)
	if err != nil {
		return assist.Result{Message: "I couldn't reach the weather service."}, nil
	}
	return assist.Result{Success: true, Message: strings.TrimSpace(string(body))}, nil
}

func (i *Information) News(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	apiKey := os.Getenv("NEWS_API_KEY")
	if apiKey == "" {
		return assist.Result{Message: "The news service is not configured."}, nil
	}

	u := "https://newsapi.org/v2/top-headlines?pageSize=3&language=en&apiKey=" + url.QueryEscape(apiKey)
	if topic := in.Slots["topic"]; topic != "" {
		u += "&q=" + url.QueryEscape(topic)
	}

	body, err := i.get(ctx, u)
	if err != nil {
		return assist.Result{Message: "I couldn't reach the news service."}, nil
	}

	var resp struct {
		Articles []struct {
			Title string `json:"title"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Articles) == 0 {
		return assist.Result{Message: "No headlines right now."}, nil
	}

	titles := make([]string, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		titles = append(titles, a.Title)
	}
	return assist.Result{Success: true, Message: "Top headlines: " + strings.Join(titles, ". ")}, nil
}

func (i *Information) Wikipedia(ctx context.Context, in assist.Intent, _ assist.ContextView) (assist.Result, error) {
	query := in.Slots["query"]
	if query == "" {
		return assist.Result{Message: "What should I look up?"}, nil
	}

	title := strings.ReplaceAll(query, " ", "_")
	body, err := i.get(ctx, "https://en.wikipedia.org/api/rest_v1/page/summary/"+url.PathEscape(title))
	if err != nil {
		return assist.Result{Message: "I couldn't reach Wikipedia."}, nil
	}

	var resp struct {
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Extract == "" {
		return assist.Result{Message: fmt.Sprintf("I found nothing about %s.", query)}, nil
	}
	return assist.Result{Success: true, Message: firstSentences(resp.Extract, 2)}, nil
}

// GeneralQuery speaks the answer the classifier already produced, or asks the
// AI collaborator directly when it didn't.
func (i *Information) GeneralQuery(ctx context.Context, in assist.Intent, view assist.ContextView) (assist.Result, error) {
	if answer := in.Slots["answer"]; answer != "" {
		return assist.Result{Success: true, Message: answer}, nil
	}

	question := in.Slots["query"]
	if question == "" {
		question = in.Raw
	}
	if i.ai == nil || question == "" {
		return assist.Result{Message: "I can't answer that right now."}, nil
	}

	answer, err := i.ai.Answer(ctx, question, view.Recent(4))
	if err != nil {
		return assist.Result{Message: "I can't reach the assistant service right now."}, nil
	}
	return assist.Result{Success: true, Message: answer}, nil
}

func (i *Information) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

func firstSentences(text string, n int) string {
	count := 0
	for idx, r := range text {
		if r == '.' {
			count++
			if count == n {
				return text[:idx+1]
			}
		}
	}
	return text
}
