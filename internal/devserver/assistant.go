package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/storychat/storychat/internal/config"
)

// Assistant produces the tutor's reply to one student message as a series
// of text deltas pushed through emit.
type Assistant interface {
	Reply(ctx context.Context, lessonTitle string, history []Message, message string, emit func(delta string) error) error
}

// NewAssistant returns the OpenAI-backed tutor when a key is configured and
// the canned one otherwise.
func NewAssistant() Assistant {
	if key := config.GetOpenAIKey(); key != "" {
		log.Info().Str("model", config.GetOpenAIModel()).Msg("Assistant backed by OpenAI")
		return &OpenAIAssistant{client: openai.NewClient(key), model: config.GetOpenAIModel()}
	}
	log.Info().Msg("Assistant backed by canned replies")
	return NewCannedAssistant()
}

// OpenAIAssistant streams real completions, so dev runs exercise the same
// incremental delivery the production backend produces.
type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

func (a *OpenAIAssistant) Reply(ctx context.Context, lessonTitle string, history []Message, message string, emit func(string) error) error {
	messages := []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(
			"You are StoryBot, a patient tutor helping a student with the lesson %q. Keep replies short and ask guiding questions.",
			lessonTitle,
		),
	}}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role != "user" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	stream, err := a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("create completion stream: %w", err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("receive completion chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := emit(delta); err != nil {
				return err
			}
		}
	}
}

// CannedAssistant is a deterministic tutor for offline development: it
// echoes context back in a few word-by-word deltas.
type CannedAssistant struct{}

func NewCannedAssistant() *CannedAssistant {
	return &CannedAssistant{}
}

func (a *CannedAssistant) Reply(_ context.Context, lessonTitle string, history []Message, message string, emit func(string) error) error {
	reply := fmt.Sprintf(
		"Good question about %s! You said: %q. Let's think about it together - what do you already know?",
		lessonTitle, strings.TrimSpace(message),
	)
	if len(history) == 0 {
		reply = fmt.Sprintf("Welcome to %s! ", lessonTitle) + reply
	}

	words := strings.SplitAfter(reply, " ")
	for _, word := range words {
		if err := emit(word); err != nil {
			return err
		}
	}
	return nil
}
