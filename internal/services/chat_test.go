package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/repos"
	"github.com/profbridge/profbridge-backend/internal/types"
)

// fakeAssistant records the context it was handed and replies with a canned
// answer.
type fakeAssistant struct {
	answer       string
	err          error
	lastDocument string
	lastQuery    string
	lastHistory  []*types.ChatEntry
}

func (f *fakeAssistant) Chat(ctx context.Context, documentText, query string, history []*types.ChatEntry) (string, error) {
	f.lastDocument = documentText
	f.lastQuery = query
	f.lastHistory = history
	return f.answer, f.err
}

func (f *fakeAssistant) GenerateQuiz(ctx context.Context, documentText string, questionCount int, difficulty, questionType string) (*Quiz, error) {
	return nil, f.err
}

func (f *fakeAssistant) GenerateQuestions(ctx context.Context, documentText string, count int, questionType string) ([]StudyQuestion, error) {
	return nil, f.err
}

func (f *fakeAssistant) SummarizeDocument(ctx context.Context, documentText, summaryType, length string) (*Summary, error) {
	return nil, f.err
}

func (f *fakeAssistant) GenerateClassReport(ctx context.Context, class *types.Class) (string, error) {
	return f.answer, f.err
}

func (f *fakeAssistant) GenerateFileReport(ctx context.Context, fileContent string) (string, error) {
	return f.answer, f.err
}

func (f *fakeAssistant) ExtractImportData(ctx context.Context, fileContent string) (*types.ImportBatch, error) {
	return nil, f.err
}

func newTestChat(t *testing.T, db *gorm.DB, assistant AssistantService) (ChatService, DocumentService) {
	t.Helper()
	log := newTestLogger(t)
	documentRepo := repos.NewDocumentRepo(db, log)
	chatEntryRepo := repos.NewChatEntryRepo(db, log)
	chat := NewChatService(db, log, documentRepo, chatEntryRepo, assistant)
	documents := NewDocumentService(db, log, documentRepo, chatEntryRepo, t.TempDir())
	return chat, documents
}

func TestChatWithDocumentPersistsExchange(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	fake := &fakeAssistant{answer: "chlorophyll absorbs light"}
	chat, documents := newTestChat(t, db, fake)
	ctx := context.Background()

	doc, err := documents.Upload(ctx, user.ID, "notes.txt", "text/plain", []byte("photosynthesis basics"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	answer, err := chat.Chat(ctx, user.ID, &doc.ID, "", nil, "how do plants eat light")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if answer != "chlorophyll absorbs light" {
		t.Errorf("answer = %q", answer)
	}
	if fake.lastDocument != "photosynthesis basics" {
		t.Errorf("assistant got document %q, want the stored extracted text", fake.lastDocument)
	}

	history, err := chat.History(ctx, user.ID, doc.ID, 0, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Query != "how do plants eat light" || history[0].Response != answer {
		t.Errorf("stored entry = %+v", history[0])
	}
}

func TestChatFeedsHistoryBack(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	fake := &fakeAssistant{answer: "ok"}
	chat, documents := newTestChat(t, db, fake)
	ctx := context.Background()

	doc, err := documents.Upload(ctx, user.ID, "notes.txt", "text/plain", []byte("topic"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := chat.Chat(ctx, user.ID, &doc.ID, "", nil, "first question"); err != nil {
		t.Fatalf("first chat: %v", err)
	}
	if _, err := chat.Chat(ctx, user.ID, &doc.ID, "", nil, "second question"); err != nil {
		t.Fatalf("second chat: %v", err)
	}
	if len(fake.lastHistory) != 1 {
		t.Fatalf("history passed on second turn = %d entries, want 1", len(fake.lastHistory))
	}
	if fake.lastHistory[0].Query != "first question" {
		t.Errorf("history entry = %+v", fake.lastHistory[0])
	}
}

func TestChatWithoutDocumentStoresNothing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	fake := &fakeAssistant{answer: "ok"}
	chat, _ := newTestChat(t, db, fake)

	answer, err := chat.Chat(context.Background(), user.ID, nil, "pasted text", nil, "question")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if answer != "ok" {
		t.Errorf("answer = %q", answer)
	}
	if fake.lastDocument != "pasted text" {
		t.Errorf("assistant got document %q, want the caller-supplied text", fake.lastDocument)
	}

	var count int64
	db.Model(&types.ChatEntry{}).Count(&count)
	if count != 0 {
		t.Errorf("chat entry rows = %d, want 0", count)
	}
}

func TestChatWithoutDocumentUsesCallerHistory(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	fake := &fakeAssistant{answer: "ok"}
	chat, _ := newTestChat(t, db, fake)

	history := []*types.ChatEntry{{Query: "earlier question", Response: "earlier answer"}}
	if _, err := chat.Chat(context.Background(), user.ID, nil, "pasted text", history, "followup"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if len(fake.lastHistory) != 1 || fake.lastHistory[0].Query != "earlier question" {
		t.Errorf("history passed through = %+v", fake.lastHistory)
	}
}

func TestChatAssistantFailureStoresNothing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	fake := &fakeAssistant{err: ErrServiceUnavailable}
	chat, documents := newTestChat(t, db, fake)
	ctx := context.Background()

	doc, err := documents.Upload(ctx, user.ID, "notes.txt", "text/plain", []byte("topic"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := chat.Chat(ctx, user.ID, &doc.ID, "", nil, "question"); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}

	var count int64
	db.Model(&types.ChatEntry{}).Count(&count)
	if count != 0 {
		t.Errorf("chat entry rows = %d, want 0", count)
	}
}

func TestChatForeignDocumentNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	fake := &fakeAssistant{answer: "ok"}
	chat, documents := newTestChat(t, db, fake)
	ctx := context.Background()

	doc, err := documents.Upload(ctx, owner.ID, "notes.txt", "text/plain", []byte("topic"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := chat.Chat(ctx, other.ID, &doc.ID, "", nil, "question"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Chat err = %v, want ErrNotFound", err)
	}
	if _, err := chat.History(ctx, other.ID, doc.ID, 0, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("History err = %v, want ErrNotFound", err)
	}

	missing := uuid.New()
	if _, err := chat.Chat(ctx, owner.ID, &missing, "", nil, "question"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing document err = %v, want ErrNotFound", err)
	}
}
