// handlers_upload.go - Simulated notes uploader handlers
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/upload"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	uploadManager *upload.Manager
	policy        upload.Policy
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(uploadMgr *upload.Manager, policy upload.Policy) UploadHandler {
	return &UploadHandlerImpl{
		uploadManager: uploadMgr,
		policy:        policy,
	}
}

// acceptFilesRequest is a batch of descriptors from a drop or picker.
// Nothing is validated: every descriptor is accepted as reported.
type acceptFilesRequest struct {
	Files []models.FileDescriptor `json:"files"`
}

// fileListResponse is the list payload, JSON or msgpack.
type fileListResponse struct {
	Files []models.UploadedFile `json:"files" msgpack:"files"`
	Total int                   `json:"total" msgpack:"total"`
}

// HandleAcceptFiles accepts a JSON batch of file descriptors
func (h *UploadHandlerImpl) HandleAcceptFiles(c echo.Context) error {
	var req acceptFilesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	accepted := h.uploadManager.Accept(req.Files)
	return c.JSON(http.StatusAccepted, fileListResponse{Files: accepted, Total: len(accepted)})
}

// HandleAcceptForm accepts a multipart form of files. Each file part is
// counted and discarded, so only its name, size and type are used.
func (h *UploadHandlerImpl) HandleAcceptForm(c echo.Context) error {
	reader, err := c.Request().MultipartReader()
	if err != nil {
		return NewBadRequestError("expected multipart/form-data", err)
	}

	var batch []models.FileDescriptor
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return NewBadRequestError("malformed multipart body", err)
		}
		if part.FileName() == "" {
			part.Close()
			continue
		}
		n, err := io.Copy(io.Discard, part)
		part.Close()
		if err != nil {
			return NewBadRequestError("failed to read file part", err)
		}
		batch = append(batch, models.FileDescriptor{
			Name: part.FileName(),
			Size: n,
			Type: part.Header.Get(echo.HeaderContentType),
		})
	}

	accepted := h.uploadManager.Accept(batch)
	return c.JSON(http.StatusAccepted, fileListResponse{Files: accepted, Total: len(accepted)})
}

// HandleListFiles returns the visible list, filtered by search and category
func (h *UploadHandlerImpl) HandleListFiles(c echo.Context) error {
	files := h.uploadManager.List(filterFrom(c))
	return c.JSON(http.StatusOK, fileListResponse{Files: files, Total: len(files)})
}

// HandleListFilesMsgpack returns the filtered list encoded as msgpack
func (h *UploadHandlerImpl) HandleListFilesMsgpack(c echo.Context) error {
	files := h.uploadManager.List(filterFrom(c))
	return msgpackBlob(c, fileListResponse{Files: files, Total: len(files)})
}

// HandleUploadStats returns counts per status
func (h *UploadHandlerImpl) HandleUploadStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uploadManager.Stats())
}

// HandleCategories returns the category filter options and the picker policy
func (h *UploadHandlerImpl) HandleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories":  append([]string{"All"}, h.uploadManager.Categories()...),
		"accept":      h.policy.Accept(),
		"maxFileSize": h.policy.MaxSize,
		"enforced":    h.policy.Enforce,
	})
}

// HandleGetFile returns one record
func (h *UploadHandlerImpl) HandleGetFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	f, ok := h.uploadManager.Get(id)
	if !ok {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, f)
}

// HandleRemoveFile removes one record and stops its simulation
func (h *UploadHandlerImpl) HandleRemoveFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, ok := h.uploadManager.Remove(id); !ok {
		return NewNotFoundError("file", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func filterFrom(c echo.Context) upload.Filter {
	return upload.Filter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}
}
