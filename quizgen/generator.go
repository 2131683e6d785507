// Package quizgen generates quizzes from an aggregated course corpus
// through an OpenAI chat model.
//
// generator.go implements the Generator molecule. It composes:
//   - Uses OpenAI client for quiz generation
//   - pdfprocessor: token estimation for request sizing
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"edukai_backend/pdfprocessor"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCorpus is returned when no corpus entries are provided.
var ErrEmptyCorpus = errors.New("quizgen: empty corpus provided")

// ErrEmptyResponse is returned when the AI returns an empty response.
var ErrEmptyResponse = errors.New("quizgen: AI returned empty response")

// ErrInvalidJSON is returned when the AI response doesn't contain a valid quiz payload.
var ErrInvalidJSON = errors.New("quizgen: AI response does not contain valid JSON")

// ChatClient is the OpenAI capability the generator needs.
// *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GeneratorConfig holds configuration for quiz generation.
type GeneratorConfig struct {
	// Model is the OpenAI model to use (e.g., "gpt-4", "gpt-3.5-turbo")
	Model string

	// QuestionCount is the number of questions to request
	QuestionCount int

	// MaxTokens is the maximum tokens for the response
	MaxTokens int

	// Temperature controls response randomness (0.0-1.0)
	Temperature float32

	// Language is the language quiz questions should be written in
	Language string
}

// DefaultGeneratorConfig returns sensible default configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Model:         "gpt-4",
		QuestionCount: 10,
		MaxTokens:     3000,
		Temperature:   0.4,
		Language:      "French",
	}
}

// Question is one multiple-choice quiz question.
type Question struct {
	// Prompt is the question text
	Prompt string `json:"question"`

	// Choices are the candidate answers
	Choices []string `json:"choices"`

	// AnswerIndex is the index of the correct choice
	AnswerIndex int `json:"answer_index"`

	// Explanation justifies the correct answer
	Explanation string `json:"explanation,omitempty"`
}

// Quiz is the generated quiz payload.
type Quiz struct {
	// Title summarizes the quiz topic
	Title string `json:"title"`

	// Questions are the generated questions
	Questions []Question `json:"questions"`
}

// Result contains the outcome of quiz generation.
type Result struct {
	// Quiz is the parsed quiz payload
	Quiz *Quiz

	// RawResponse is the raw AI response before JSON extraction
	RawResponse string

	// PromptTokens is the estimated prompt token count
	PromptTokens int

	// CompletionTokens is the estimated completion token count
	CompletionTokens int

	// EntriesSent is the number of corpus entries sent to the AI
	EntriesSent int
}

// Generator produces quizzes from corpus text.
type Generator struct {
	config GeneratorConfig
	client ChatClient
}

// NewGenerator creates a Generator with the given configuration and
// OpenAI client.
func NewGenerator(config GeneratorConfig, client ChatClient) (*Generator, error) {
	if client == nil {
		return nil, errors.New("quizgen: client cannot be nil")
	}
	if config.Model == "" {
		config.Model = "gpt-4"
	}
	if config.QuestionCount <= 0 {
		config.QuestionCount = 10
	}
	if config.Language == "" {
		config.Language = "French"
	}
	return &Generator{config: config, client: client}, nil
}

// Generate sends the corpus entries to the AI and parses the quiz from
// its response.
//
// Example:
//
//	client := openai.NewClient("api-key")
//	generator, _ := NewGenerator(DefaultGeneratorConfig(), client)
//	result, err := generator.Generate(ctx, manager.Corpus())
func (g *Generator) Generate(ctx context.Context, corpus []string) (*Result, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	messages := g.buildMessages(corpus)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Messages:    messages,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quizgen: generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	rawResponse := resp.Choices[0].Message.Content
	quiz, err := ExtractQuiz(rawResponse)
	if err != nil {
		return nil, err
	}

	promptTokens := 0
	for _, m := range messages {
		promptTokens += pdfprocessor.EstimateTokenCount(m.Content)
	}

	return &Result{
		Quiz:             quiz,
		RawResponse:      rawResponse,
		PromptTokens:     promptTokens,
		CompletionTokens: pdfprocessor.EstimateTokenCount(rawResponse),
		EntriesSent:      len(corpus),
	}, nil
}

// buildMessages constructs the OpenAI message array: a system prompt,
// one user message per corpus entry, and the final generation prompt.
func (g *Generator) buildMessages(corpus []string) []openai.ChatCompletionMessage {
	total := len(corpus)

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf("You will receive %d excerpts of course material. "+
				"Do not respond until you receive the final excerpt. "+
				"After the last excerpt, I will ask you to generate a quiz covering all of them.", total),
		},
	}

	for i, entry := range corpus {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("#--- excerpt %d of %d ---#\n%s\n#--- end of excerpt %d ---#", i+1, total, entry, i+1),
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: g.finalPrompt(),
	})
	return messages
}

// finalPrompt builds the prompt requesting the JSON quiz payload.
func (g *Generator) finalPrompt() string {
	return fmt.Sprintf(`You have now received all excerpts. Generate a quiz of %d multiple-choice questions in %s covering the material, in the following JSON format:
{"title": "...", "questions": [{"question": "...", "choices": ["...", "...", "...", "..."], "answer_index": 0, "explanation": "..."}]}

Each question must have exactly 4 choices and answer_index must be the 0-based index of the correct choice.
Respond ONLY with valid JSON as shown above.`, g.config.QuestionCount, g.config.Language)
}

// ExtractQuiz parses the quiz payload out of an AI response, tolerating
// prose around the JSON object.
func ExtractQuiz(rawResponse string) (*Quiz, error) {
	startIdx := strings.Index(rawResponse, "{")
	endIdx := strings.LastIndex(rawResponse, "}")
	if startIdx == -1 || endIdx == -1 || startIdx > endIdx {
		return nil, ErrInvalidJSON
	}

	var quiz Quiz
	if err := json.Unmarshal([]byte(rawResponse[startIdx:endIdx+1]), &quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in payload", ErrInvalidJSON)
	}

	for i, q := range quiz.Questions {
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
			return nil, fmt.Errorf("%w: question %d has answer_index %d out of range", ErrInvalidJSON, i+1, q.AnswerIndex)
		}
	}
	return &quiz, nil
}
