package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/http/response"
	"github.com/profbridge/profbridge-backend/internal/services"
)

type ImportHandler struct {
	classroomService services.ClassroomService
	importerService  services.ImporterService
	assistant        services.AssistantService
}

func NewImportHandler(
	classroomService services.ClassroomService,
	importerService services.ImporterService,
	assistant services.AssistantService,
) *ImportHandler {
	return &ImportHandler{
		classroomService: classroomService,
		importerService:  importerService,
		assistant:        assistant,
	}
}

// ImportData reconciles an uploaded spreadsheet into the class. The grid
// layout is parsed directly; when the sheet yields nothing usable the
// assistant extracts the roster from the flattened text instead.
func (ih *ImportHandler) ImportData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	classID, err := paramUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	name, data, err := readUpload(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" && ext != ".xls" && ext != ".csv" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("import expects an xlsx, xls or csv file"))
		return
	}

	batch, err := services.ParseTabular(name, data)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(batch.Students) == 0 && len(batch.Assignments) == 0 {
		text, fErr := services.FlattenTabular(name, data)
		if fErr != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", fErr)
			return
		}
		batch, err = ih.assistant.ExtractImportData(c.Request.Context(), text)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
	}

	result, err := ih.importerService.Reconcile(c.Request.Context(), userID, classID, batch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// FileReport turns an uploaded file into text and asks the assistant for an
// analytical report. The class must belong to the caller.
func (ih *ImportHandler) FileReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	classID, err := paramUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if _, err := ih.classroomService.GetClassDetails(c.Request.Context(), userID, classID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	name, data, err := readUpload(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var content string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xls":
		content, err = services.FlattenTabular(name, data)
	default:
		content, err = services.ExtractText(name, c.GetHeader("Content-Type"), data)
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if content == services.UnsupportedTypeText {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("file type not supported for reports"))
		return
	}

	report, err := ih.assistant.GenerateFileReport(c.Request.Context(), content)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}

func readUpload(c *gin.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fileHeader.Filename, data, nil
}
