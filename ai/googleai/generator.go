package googleai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/core"
)

// Generator implements ai.Generator using Gemini chat models.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

func newGenerator(client llms.Model) *Generator {
	return &Generator{
		client: client,
		logger: slog.Default().With("component", "googleai-generator"),
	}
}

// NewGenerator creates an answer generator on top of an existing chat model.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(client llms.Model) ai.Generator {
	return newGenerator(client)
}

// Complete generates an answer grounded in the supplied context block,
// replaying the conversation history before the new input.
func (g *Generator) Complete(ctx context.Context, contextBlock string, history []core.Turn, input string) (string, error) {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role: llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{
			llms.TextPart(buildAnswerPrompt(contextBlock)),
		},
	})

	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Speaker == core.SpeakerAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(turn.Text)},
		})
	}

	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(input)},
	})

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrTransient, err)
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", fmt.Errorf("%w: empty response from model", ai.ErrTransient)
	}

	return response.Choices[0].Content, nil
}
