package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/profbridge/profbridge-backend/internal/clients/genai"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type fakeGenAIClient struct {
	textOut  string
	jsonOut  string
	err      error
	lastUser string
	lastOpts genai.GenerationOptions
}

func (f *fakeGenAIClient) GenerateText(ctx context.Context, system string, user string, opts genai.GenerationOptions) (string, error) {
	f.lastUser = user
	f.lastOpts = opts
	return f.textOut, f.err
}

func (f *fakeGenAIClient) GenerateJSON(ctx context.Context, system string, user string, opts genai.GenerationOptions) (string, error) {
	f.lastUser = user
	f.lastOpts = opts
	return f.jsonOut, f.err
}

func TestDecodeModelJSONStrategies(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}
	cases := []struct {
		name string
		raw  string
	}{
		{"direct", `{"title":"Quiz"}`},
		{"fenced", "Here you go:\n```json\n{\"title\":\"Quiz\"}\n```\nEnjoy."},
		{"fenced without language", "```\n{\"title\":\"Quiz\"}\n```"},
		{"prose with braces", `Sure! The result is {"title":"Quiz"} as requested.`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out payload
			if err := decodeModelJSON(tc.raw, &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Title != "Quiz" {
				t.Errorf("title = %q, want Quiz", out.Title)
			}
		})
	}
}

func TestDecodeModelJSONFailure(t *testing.T) {
	var out struct{}
	err := decodeModelJSON("the model rambled with no json at all", &out)
	var pErr *ParseError
	if !errors.As(err, &pErr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pErr.Raw == "" {
		t.Error("ParseError.Raw should carry the raw response")
	}
}

func TestTruncateAtWord(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		budget int
		want   string
	}{
		{"within budget", "short text", 100, "short text"},
		{"cut at word boundary", "alpha beta gamma", 12, "alpha beta…"},
		{"no space before cut", "abcdefghij", 5, "abcde…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateAtWord(tc.in, tc.budget); got != tc.want {
				t.Errorf("truncateAtWord(%q, %d) = %q, want %q", tc.in, tc.budget, got, tc.want)
			}
		})
	}
}

func TestChatPromptBranchesOnContext(t *testing.T) {
	fake := &fakeGenAIClient{textOut: "answer"}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	if _, err := assistant.Chat(context.Background(), "", "What is algebra?", nil); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if strings.Contains(fake.lastUser, "Document:") {
		t.Errorf("empty-context prompt should not carry a document section: %q", fake.lastUser)
	}

	if _, err := assistant.Chat(context.Background(), "algebra is about symbols", "What is it?", nil); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(fake.lastUser, "Document:") || !strings.Contains(fake.lastUser, "algebra is about symbols") {
		t.Errorf("document prompt missing context: %q", fake.lastUser)
	}
	if fake.lastOpts.Temperature != 0.7 {
		t.Errorf("chat temperature = %v, want 0.7", fake.lastOpts.Temperature)
	}
}

func TestChatIncludesHistory(t *testing.T) {
	fake := &fakeGenAIClient{textOut: "answer"}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	history := []*types.ChatEntry{{Query: "first question", Response: "first answer"}}
	if _, err := assistant.Chat(context.Background(), "doc text", "next question", history); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(fake.lastUser, "first question") || !strings.Contains(fake.lastUser, "first answer") {
		t.Errorf("prompt missing history: %q", fake.lastUser)
	}
}

func TestChatTruncatesDocumentContext(t *testing.T) {
	fake := &fakeGenAIClient{textOut: "answer"}
	assistant := NewAssistantService(newTestLogger(t), fake, 50)

	long := strings.Repeat("word ", 100)
	if _, err := assistant.Chat(context.Background(), long, "q", nil); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(fake.lastUser, "…") {
		t.Errorf("long context should be truncated with ellipsis: %q", fake.lastUser)
	}
}

func TestAssistantUnavailableWithoutClient(t *testing.T) {
	assistant := NewAssistantService(newTestLogger(t), nil, 0)

	if _, err := assistant.Chat(context.Background(), "", "q", nil); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Chat err = %v, want ErrServiceUnavailable", err)
	}
	if _, err := assistant.GenerateQuiz(context.Background(), "text", 3, "", ""); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("GenerateQuiz err = %v, want ErrServiceUnavailable", err)
	}
	if _, err := assistant.GenerateFileReport(context.Background(), "data"); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("GenerateFileReport err = %v, want ErrServiceUnavailable", err)
	}
}

func TestAssistantMapsSafetyBlock(t *testing.T) {
	fake := &fakeGenAIClient{err: genai.ErrBlocked}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	if _, err := assistant.Chat(context.Background(), "", "q", nil); !errors.Is(err, ErrSafetyBlocked) {
		t.Errorf("err = %v, want ErrSafetyBlocked", err)
	}
}

func TestAssistantMapsTransportFailure(t *testing.T) {
	fake := &fakeGenAIClient{err: errors.New("connection refused")}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	if _, err := assistant.Chat(context.Background(), "", "q", nil); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestGenerateQuizParsesFencedJSON(t *testing.T) {
	fake := &fakeGenAIClient{jsonOut: "```json\n{\"title\":\"Algebra Quiz\",\"questions\":[{\"question\":\"2+2?\",\"correct_answer\":\"4\"}]}\n```"}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	quiz, err := assistant.GenerateQuiz(context.Background(), "doc", 1, "easy", "short_answer")
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if quiz.Title != "Algebra Quiz" || len(quiz.Questions) != 1 || quiz.Questions[0].CorrectAnswer != "4" {
		t.Errorf("quiz = %+v", quiz)
	}
	if fake.lastOpts.Temperature != 0.3 {
		t.Errorf("quiz temperature = %v, want 0.3", fake.lastOpts.Temperature)
	}
}

func TestExtractImportDataParsesBatch(t *testing.T) {
	fake := &fakeGenAIClient{jsonOut: `{"students":[{"name":"Alice"}],"assignments":[{"title":"HW1"}],"grades":[{"student_name":"Alice","assignment_title":"HW1","grade":"90"}]}`}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	batch, err := assistant.ExtractImportData(context.Background(), "messy roster text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(batch.Students) != 1 || batch.Students[0].Name != "Alice" {
		t.Errorf("students = %+v", batch.Students)
	}
	if len(batch.Grades) != 1 || batch.Grades[0].Grade != "90" {
		t.Errorf("grades = %+v", batch.Grades)
	}
}

func TestGenerateQuestionsParseFailure(t *testing.T) {
	fake := &fakeGenAIClient{jsonOut: "no json here"}
	assistant := NewAssistantService(newTestLogger(t), fake, 0)

	_, err := assistant.GenerateQuestions(context.Background(), "doc", 3, "")
	var pErr *ParseError
	if !errors.As(err, &pErr) {
		t.Errorf("err = %v, want *ParseError", err)
	}
}
