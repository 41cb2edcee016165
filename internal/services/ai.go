package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// AIService suggests categorized tasks from free text through an
// OpenAI-compatible chat completion endpoint.
type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// GeneratedTask is one suggestion. CategoryName is returned as the model
// wrote it; TaskService normalizes it.
type GeneratedTask struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	CategoryName string     `json:"category_name"`
}

type suggestionResponse struct {
	Tasks []GeneratedTask `json:"tasks"`
}

// NewAIService creates an AIService. An empty baseURL uses the public
// OpenAI endpoint.
func NewAIService(apiKey, baseURL string) *AIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
		now:    time.Now,
	}
}

const suggestionInstructions = `You turn notes into a to-do list. Every task belongs to exactly one category.

Reply with a JSON object of this shape and nothing else:
{"tasks": [{"title": "...", "description": "...", "due_date": "2025-10-28T23:59:59Z or null", "category_name": "..."}]}

Rules:
- title is short and starts with a verb
- category_name is a single word made of letters only, such as Work, Personal, Shopping, Health or Finance
- prefer one of those common categories; invent a new one only when none fits
- tasks that clearly share a theme share a category_name
- due_date is an RFC3339 timestamp in UTC when the text implies a deadline, otherwise null
- resolve relative dates ("tomorrow", "next Friday") against the current time
- return {"tasks": []} when the text contains no tasks`

func suggestionPrompt(text string, now time.Time) string {
	return fmt.Sprintf("Current time: %s\n\nNotes:\n%s", now.UTC().Format(time.RFC3339), text)
}

// GenerateTasksFromText asks the model for categorized task suggestions
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestionInstructions},
			{Role: openai.ChatMessageRoleUser, Content: suggestionPrompt(text, s.now())},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions decodes the model reply. Some compatible endpoints ignore
// the JSON response format and wrap the object in a markdown fence.
func parseSuggestions(content string) ([]GeneratedTask, error) {
	body := strings.TrimSpace(content)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(body, "```")
		body = strings.TrimSpace(body)
	}

	var parsed suggestionResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return parsed.Tasks, nil
}
