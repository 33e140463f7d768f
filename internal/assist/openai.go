package assist

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"
)

const classifierPrompt = `
You are JARVIS-NLU, the intent classifier for a voice command assistant.
Your ONLY job is to convert the user's utterance into minimal structured JSON.

GENERAL RULES:
1. Do NOT converse.
2. Do NOT add explanations.
3. Output ONLY JSON. No markdown.
4. Never invent slots you did not hear.

OUTPUT FORMAT:
{
  "intent": "<string>",
  "slots": { "<name>": "<value>" },
  "confidence": <float 0..1>,
  "answer": "<only for general_query: a short spoken answer>"
}

INTENTS (canonical, snake_case):
open_app, close_app, set_volume, shutdown_system, restart_system,
get_system_info, search_web, search_youtube, search_wikipedia, get_time,
get_date, get_weather, get_news, send_email, play_music, pause_resume_music,
set_reminder, set_timer, reset_context, general_query, unknown

SLOT SCHEMA:
- open_app/close_app: app
- set_volume: level (0-100 integer as string)
- search_*: query
- get_weather: place
- get_news: topic
- send_email: recipient, body
- play_music: query
- set_timer/set_reminder: value, unit, message

If the utterance is a question rather than a command, use "general_query",
put the question in slots.query and a short factual answer in "answer".
If the meaning is unclear, intent = "unknown". Be strict and minimal.
`

const answerPrompt = `You are Jarvis, a concise voice assistant. Answer in one
or two short spoken sentences. No markdown, no lists.`

// OpenAI adapts the OpenAI chat completion API to the Completer contract and
// also answers open questions for the information handler.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAI(client openai.Client, model string) *OpenAI {
	if model == "" {
		model = openai.ChatModelGPT5Nano
	}
	return &OpenAI{client: client, model: openai.ChatModel(model)}
}

// Complete classifies an utterance. Recent exchanges are replayed as
// conversation turns so the model can resolve follow-ups ("close it too").
func (o *OpenAI) Complete(ctx context.Context, prompt string, history []ContextEntry) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2*len(history)+2)
	msgs = append(msgs, openai.SystemMessage(classifierPrompt))
	for _, e := range history {
		msgs = append(msgs, openai.UserMessage(e.Transcript))
		if e.Summary != "" {
			msgs = append(msgs, openai.AssistantMessage(e.Summary))
		}
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	return o.complete(ctx, msgs)
}

// Answer produces a spoken reply for a general question.
func (o *OpenAI) Answer(ctx context.Context, question string, history []ContextEntry) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2*len(history)+2)
	msgs = append(msgs, openai.SystemMessage(answerPrompt))
	for _, e := range history {
		msgs = append(msgs, openai.UserMessage(e.Transcript))
		if e.Summary != "" {
			msgs = append(msgs, openai.AssistantMessage(e.Summary))
		}
	}
	msgs = append(msgs, openai.UserMessage(question))

	return o.complete(ctx, msgs)
}

func (o *OpenAI) complete(ctx context.Context, msgs []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    o.model,
	})
	if err != nil {
		return "", classifyFailure(err)
	}
	if len(resp.Choices) == 0 {
		return "", &CompleteError{Kind: FailNetwork, Err: fmt.Errorf("no choices in response")}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &CompleteError{Kind: FailNetwork, Err: fmt.Errorf("empty message content")}
	}
	return content, nil
}

func classifyFailure(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == 429 {
		return &CompleteError{Kind: FailQuota, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &CompleteError{Kind: FailTimeout, Err: err}
	}
	return &CompleteError{Kind: FailNetwork, Err: err}
}
