package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/profbridge/profbridge-backend/internal/clients/genai"
	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

// Quiz is the structured output of GenerateQuiz.
type Quiz struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type StudyQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Summary struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Keywords  []string `json:"keywords"`
}

// AssistantService is the gateway to the generation service. It owns prompt
// construction, context truncation and output parsing; it persists nothing.
type AssistantService interface {
	Chat(ctx context.Context, documentText string, query string, history []*types.ChatEntry) (string, error)
	GenerateQuiz(ctx context.Context, documentText string, questionCount int, difficulty string, questionType string) (*Quiz, error)
	GenerateQuestions(ctx context.Context, documentText string, count int, questionType string) ([]StudyQuestion, error)
	SummarizeDocument(ctx context.Context, documentText string, summaryType string, length string) (*Summary, error)
	GenerateClassReport(ctx context.Context, class *types.Class) (string, error)
	GenerateFileReport(ctx context.Context, fileContent string) (string, error)
	ExtractImportData(ctx context.Context, fileContent string) (*types.ImportBatch, error)
}

type assistantService struct {
	log             *logger.Logger
	client          genai.Client
	maxContextChars int
}

// NewAssistantService accepts a nil client; every call then reports
// ErrServiceUnavailable instead of dialing.
func NewAssistantService(log *logger.Logger, client genai.Client, maxContextChars int) AssistantService {
	if maxContextChars <= 0 {
		maxContextChars = 30000
	}
	return &assistantService{
		log:             log.With("service", "AssistantService"),
		client:          client,
		maxContextChars: maxContextChars,
	}
}

const assistantSystemPrompt = "You are a helpful assistant for educators. Answer clearly and concisely."

func (as *assistantService) Chat(ctx context.Context, documentText string, query string, history []*types.ChatEntry) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", NewValidationError("query must not be empty")
	}

	var prompt strings.Builder
	if strings.TrimSpace(documentText) != "" {
		prompt.WriteString("Use the following document as context for the conversation.\n\nDocument:\n")
		prompt.WriteString(as.truncate(documentText))
		prompt.WriteString("\n\n")
	}
	for _, entry := range history {
		prompt.WriteString("User: ")
		prompt.WriteString(entry.Query)
		prompt.WriteString("\nAssistant: ")
		prompt.WriteString(entry.Response)
		prompt.WriteString("\n")
	}
	prompt.WriteString("User: ")
	prompt.WriteString(query)

	return as.generateText(ctx, assistantSystemPrompt, prompt.String(), 0.7)
}

func (as *assistantService) GenerateQuiz(ctx context.Context, documentText string, questionCount int, difficulty string, questionType string) (*Quiz, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, NewValidationError("document text must not be empty")
	}
	if questionCount <= 0 {
		questionCount = 5
	}
	if difficulty == "" {
		difficulty = "medium"
	}
	if questionType == "" {
		questionType = "multiple_choice"
	}

	prompt := fmt.Sprintf(`Create a quiz from the document below.

Requirements:
- %d questions of type %q at %s difficulty
- respond with a single JSON object: {"title": string, "description": string, "questions": [{"question": string, "options": [string], "correct_answer": string, "explanation": string}]}
- for non multiple-choice questions omit "options"

Document:
%s`, questionCount, questionType, difficulty, as.truncate(documentText))

	var quiz Quiz
	if err := as.generateJSONInto(ctx, assistantSystemPrompt, prompt, 0.3, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (as *assistantService) GenerateQuestions(ctx context.Context, documentText string, count int, questionType string) ([]StudyQuestion, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, NewValidationError("document text must not be empty")
	}
	if count <= 0 {
		count = 5
	}
	if questionType == "" {
		questionType = "open_ended"
	}

	prompt := fmt.Sprintf(`Write %d study questions of type %q from the document below, each with a model answer.

Respond with a single JSON object: {"questions": [{"question": string, "answer": string}]}

Document:
%s`, count, questionType, as.truncate(documentText))

	var wrapper struct {
		Questions []StudyQuestion `json:"questions"`
	}
	if err := as.generateJSONInto(ctx, assistantSystemPrompt, prompt, 0.5, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Questions, nil
}

func (as *assistantService) SummarizeDocument(ctx context.Context, documentText string, summaryType string, length string) (*Summary, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, NewValidationError("document text must not be empty")
	}
	if summaryType == "" {
		summaryType = "comprehensive"
	}
	if length == "" {
		length = "medium"
	}

	prompt := fmt.Sprintf(`Summarize the document below. Summary style: %s, length: %s.

Respond with a single JSON object: {"title": string, "summary": string, "key_points": [string], "keywords": [string]}

Document:
%s`, summaryType, length, as.truncate(documentText))

	var summary Summary
	if err := as.generateJSONInto(ctx, assistantSystemPrompt, prompt, 0.3, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (as *assistantService) GenerateClassReport(ctx context.Context, class *types.Class) (string, error) {
	if class == nil {
		return "", NewValidationError("class data required")
	}

	prompt := fmt.Sprintf(`Write a performance report in markdown for the class described below. Cover overall performance, per-assignment trends, students who may need support, and concrete suggestions for the educator.

%s`, as.truncate(formatClassData(class)))

	return as.generateText(ctx, assistantSystemPrompt, prompt, 0.7)
}

func (as *assistantService) GenerateFileReport(ctx context.Context, fileContent string) (string, error) {
	if strings.TrimSpace(fileContent) == "" {
		return "", NewValidationError("file content must not be empty")
	}

	prompt := fmt.Sprintf(`Write an analytical report in markdown about the educational data below. Point out patterns, outliers and actionable recommendations.

Data:
%s`, as.truncate(fileContent))

	return as.generateText(ctx, assistantSystemPrompt, prompt, 0.7)
}

func (as *assistantService) ExtractImportData(ctx context.Context, fileContent string) (*types.ImportBatch, error) {
	if strings.TrimSpace(fileContent) == "" {
		return nil, NewValidationError("file content must not be empty")
	}

	prompt := fmt.Sprintf(`Extract class roster data from the content below.

Respond with a single JSON object:
{"students": [{"name": string}], "assignments": [{"title": string, "description": string}], "grades": [{"student_name": string, "assignment_title": string, "grade": string}]}

Only include what the content actually states. Grades must be strings.

Content:
%s`, as.truncate(fileContent))

	var batch types.ImportBatch
	if err := as.generateJSONInto(ctx, assistantSystemPrompt, prompt, 0.3, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (as *assistantService) generateText(ctx context.Context, system string, prompt string, temperature float64) (string, error) {
	if as.client == nil {
		return "", ErrServiceUnavailable
	}
	out, err := as.client.GenerateText(ctx, system, prompt, genai.GenerationOptions{Temperature: temperature})
	if err != nil {
		return "", as.mapClientError(err)
	}
	return strings.TrimSpace(out), nil
}

func (as *assistantService) generateJSONInto(ctx context.Context, system string, prompt string, temperature float64, out interface{}) error {
	if as.client == nil {
		return ErrServiceUnavailable
	}
	raw, err := as.client.GenerateJSON(ctx, system, prompt, genai.GenerationOptions{Temperature: temperature})
	if err != nil {
		return as.mapClientError(err)
	}
	return decodeModelJSON(raw, out)
}

func (as *assistantService) mapClientError(err error) error {
	if errors.Is(err, genai.ErrBlocked) {
		return ErrSafetyBlocked
	}
	as.log.Warn("Generation call failed", "error", err)
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}

// truncate cuts text to the context budget on a word boundary, marking the
// cut with an ellipsis.
func (as *assistantService) truncate(text string) string {
	return truncateAtWord(text, as.maxContextChars)
}

func truncateAtWord(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	cut := text[:budget]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// decodeModelJSON runs the ordered recovery chain over a model response:
// the raw text as-is, then the first fenced code block, then the first
// brace- or bracket-delimited span. First candidate that unmarshals wins.
func decodeModelJSON(raw string, out interface{}) error {
	candidates := []string{strings.TrimSpace(raw)}
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if span := delimitedSpan(raw, '{', '}'); span != "" {
		candidates = append(candidates, span)
	}
	if span := delimitedSpan(raw, '[', ']'); span != "" {
		candidates = append(candidates, span)
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c), out); err == nil {
			return nil
		}
	}
	return &ParseError{Raw: truncateAtWord(raw, 500)}
}

func delimitedSpan(s string, open byte, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func formatClassData(class *types.Class) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Class: %s\n", class.Name)
	fmt.Fprintf(&out, "Students: %d, Assignments: %d\n\n", len(class.Students), len(class.Assignments))

	titles := make(map[string]string, len(class.Assignments))
	for _, a := range class.Assignments {
		titles[a.ID.String()] = a.Title
		fmt.Fprintf(&out, "Assignment: %s", a.Title)
		if a.Description != "" {
			fmt.Fprintf(&out, " — %s", a.Description)
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")

	for _, s := range class.Students {
		fmt.Fprintf(&out, "Student: %s\n", s.FullName)
		for _, g := range s.Grades {
			title := titles[g.AssignmentID.String()]
			if title == "" {
				title = g.AssignmentID.String()
			}
			fmt.Fprintf(&out, "  %s: %s\n", title, g.Grade)
		}
	}
	return out.String()
}
