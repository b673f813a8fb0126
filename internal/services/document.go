package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/repos"
	"github.com/profbridge/profbridge-backend/internal/types"
)

// allowedUploadTypes is the upload MIME allow-list. Anything else is
// rejected before touching disk.
var allowedUploadTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

type DocumentService interface {
	Upload(ctx context.Context, userID uuid.UUID, fileName string, mimeType string, data []byte) (*types.Document, error)
	Get(ctx context.Context, userID uuid.UUID, documentID uuid.UUID) (*types.Document, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*types.Document, error)
	Delete(ctx context.Context, userID uuid.UUID, documentID uuid.UUID) (bool, error)
}

type documentService struct {
	db            *gorm.DB
	log           *logger.Logger
	documentRepo  repos.DocumentRepo
	chatEntryRepo repos.ChatEntryRepo
	uploadDir     string
}

func NewDocumentService(
	db *gorm.DB,
	log *logger.Logger,
	documentRepo repos.DocumentRepo,
	chatEntryRepo repos.ChatEntryRepo,
	uploadDir string,
) DocumentService {
	return &documentService{
		db:            db,
		log:           log.With("service", "DocumentService"),
		documentRepo:  documentRepo,
		chatEntryRepo: chatEntryRepo,
		uploadDir:     uploadDir,
	}
}

// Upload stores the file under a uuid name and attempts text extraction
// exactly once; an extraction failure degrades to empty text, it never fails
// the upload.
func (ds *documentService) Upload(ctx context.Context, userID uuid.UUID, fileName string, mimeType string, data []byte) (*types.Document, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if !allowedUploadTypes[mt] {
		return nil, NewValidationError("unsupported file type %q; allowed: pdf, doc, docx, txt", mimeType)
	}
	if len(data) == 0 {
		return nil, NewValidationError("uploaded file is empty")
	}

	if err := os.MkdirAll(ds.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
	storedPath := filepath.Join(ds.uploadDir, storedName)
	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	extracted, xErr := ExtractText(fileName, mt, data)
	if xErr != nil {
		ds.log.Warn("Text extraction failed, storing document without text", "file", fileName, "error", xErr)
		extracted = ""
	}

	now := time.Now()
	document := &types.Document{
		ID:            uuid.New(),
		UserID:        userID,
		FileName:      fileName,
		FilePath:      storedPath,
		FileType:      mt,
		FileSize:      int64(len(data)),
		ExtractedText: extracted,
		UploadedAt:    now,
	}
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := ds.documentRepo.Create(ctx, tx, []*types.Document{document}); cErr != nil {
			return fmt.Errorf("create document: %w", cErr)
		}
		return nil
	})
	if err != nil {
		if rmErr := os.Remove(storedPath); rmErr != nil {
			ds.log.Warn("Failed to remove orphaned upload", "path", storedPath, "error", rmErr)
		}
		return nil, err
	}
	return document, nil
}

func (ds *documentService) Get(ctx context.Context, userID uuid.UUID, documentID uuid.UUID) (*types.Document, error) {
	document, err := ds.documentRepo.GetByIDForUser(ctx, nil, documentID, userID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if document == nil {
		return nil, ErrNotFound
	}
	return document, nil
}

func (ds *documentService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*types.Document, error) {
	return ds.documentRepo.ListByUser(ctx, nil, userID, offset, limit)
}

// Delete removes the row, its chat entries and then the stored file. File
// removal is best effort; the returned bool reports whether it succeeded.
func (ds *documentService) Delete(ctx context.Context, userID uuid.UUID, documentID uuid.UUID) (bool, error) {
	document, err := ds.Get(ctx, userID, documentID)
	if err != nil {
		return false, err
	}

	err = ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := ds.chatEntryRepo.DeleteByDocumentIDs(ctx, tx, []uuid.UUID{document.ID}); dErr != nil {
			return fmt.Errorf("delete chat entries: %w", dErr)
		}
		if dErr := ds.documentRepo.DeleteByIDs(ctx, tx, []uuid.UUID{document.ID}); dErr != nil {
			return fmt.Errorf("delete document: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	fileDeleted := true
	if rmErr := os.Remove(document.FilePath); rmErr != nil {
		ds.log.Warn("Failed to delete stored file", "path", document.FilePath, "error", rmErr)
		fileDeleted = false
	}
	return fileDeleted, nil
}
