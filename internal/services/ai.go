package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yamadayuki/task-tracker-api/internal/constants"
	"github.com/yamadayuki/task-tracker-api/internal/models"
)

// AIService extracts task drafts from free text with OpenAI. Drafts are
// suggestions only; nothing is persisted by this service.
type AIService struct {
	client *openai.Client
}

// TaskDraft is a suggested task extracted from text.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTasks analyzes text and extracts task drafts using OpenAI GPT.
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of the extracted tasks in this shape:
[
  {
    "title": "short task title",
    "description": "detailed task description",
    "priority": "low, medium, or high",
    "dueDate": "deadline in ISO8601 format, e.g. 2026-08-28T23:59:59Z, or null if no deadline is mentioned"
  }
]

Rules:
- Return an empty array [] if the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") to concrete timestamps
- dueDate must be an ISO8601 string or null
- Return only the JSON, no surrounding prose`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return drafts, nil
}

// ErrAINotConfigured is returned when no OpenAI API key was provided.
var ErrAINotConfigured = errors.New("AI service is not configured")

// SuggestTasks validates and cleans up drafts generated by the AI
// service: blank titles are dropped, unrecognized priorities fall back to
// medium, and deadlines already long past are cleared.
func (s *TaskService) SuggestTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.aiService == nil {
		return nil, ErrAINotConfigured
	}

	drafts, err := s.aiService.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	if len(drafts) > constants.MaxAISuggestedTasks {
		drafts = drafts[:constants.MaxAISuggestedTasks]
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Title) == "" {
			continue
		}
		if !models.TaskPriority(draft.Priority).IsValid() {
			draft.Priority = string(models.TaskPriorityMedium)
		}
		if draft.DueDate != nil && draft.DueDate.Before(cutoff) {
			draft.DueDate = nil
		}
		valid = append(valid, draft)
	}

	return valid, nil
}
