package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/utils"
)

// QuestionGenerator produces multiple-choice questions for a topic.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerationRequest) ([]models.QuizQuestion, error)
}

// GenerationRequest describes the quiz to generate questions for.
type GenerationRequest struct {
	Subject       string
	Module        string
	ExamFormat    models.ExamFormat
	Difficulty    models.DifficultyLevel
	QuestionCount int
}

// OpenAIGenerator generates questions through the OpenAI chat API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger utils.Logger
}

// NewOpenAIGenerator builds a generator. An empty model falls back to
// gpt-4o-mini.
func NewOpenAIGenerator(apiKey, model string, logger utils.Logger) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (g *OpenAIGenerator) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]models.QuizQuestion, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	questions, err := parseQuestions(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(questions) > req.QuestionCount {
		questions = questions[:req.QuestionCount]
	}

	g.logger.Info("generated questions",
		"subject", req.Subject,
		"module", req.Module,
		"requested", req.QuestionCount,
		"received", len(questions))
	return questions, nil
}

const systemPrompt = "You are an expert exam question writer. " +
	"Respond with a JSON array only, no prose and no markdown fences."

func buildPrompt(req GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions for the %s exam.\n",
		req.QuestionCount, req.ExamFormat)
	fmt.Fprintf(&b, "Subject: %s\nTopic: %s\nDifficulty: %s\n\n",
		req.Subject, req.Module, req.Difficulty)
	b.WriteString(`Each array element must have the shape:
{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}
with exactly four options and the answer copied verbatim from the options.`)
	return b.String()
}

// parseQuestions decodes the model output, tolerating markdown code
// fences around the JSON array.
func parseQuestions(content string) ([]models.QuizQuestion, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("completion contained no questions")
	}
	for i, q := range questions {
		if q.Question == "" || len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d is malformed", i+1)
		}
		valid := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("question %d answer not among options", i+1)
		}
	}
	return questions, nil
}
