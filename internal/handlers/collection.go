package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/imaging"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/services"
	"portfolio-content-api/internal/store"
)

const uploadField = "image"

// collectionText holds the client messages that differ between collections.
type collectionText struct {
	ListKey    string // key of the reorder list in PUT bodies
	Singular   string // "Image"
	Plural     string // "Images"
	Retrieved  string
	Added      string
	CreateSave string
}

// collection implements the endpoint logic shared by every collection.
type collection[R models.Record] struct {
	catalog     *services.Catalog[R]
	text        collectionText
	decodePatch func(body []byte) (func(R), error)
	logger      *slog.Logger
}

func (h *collection[R]) list(c *gin.Context) {
	records, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list failed", "error", err)
		c.JSON(http.StatusOK, models.Fail(models.CodeStorage, "Failed to load data"))
		return
	}
	if records == nil {
		records = []R{}
	}
	c.JSON(http.StatusOK, models.OK(h.text.Retrieved, records))
}

func (h *collection[R]) create(c *gin.Context, upload string, build func(string, services.Assets) R) {
	rec, err := h.catalog.Create(c.Request.Context(), upload, build)
	if err != nil {
		var derr *imaging.DerivativeError
		if errors.As(err, &derr) {
			h.logger.Warn("derivative generation failed", "error", err)
			c.JSON(http.StatusOK, models.Fail(models.CodeDerivative, derr.Message))
			return
		}
		h.logger.Error("create failed", "error", err)
		c.JSON(http.StatusOK, models.Fail(models.CodeStorage, h.text.CreateSave))
		return
	}
	c.JSON(http.StatusOK, models.OK(h.text.Added, rec))
}

func (h *collection[R]) mutate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("failed to read request body", "error", err)
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Invalid request body"))
		return
	}

	var req models.MutateRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Invalid request body"))
			return
		}
	}

	switch req.Action {
	case "":
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Action is required"))
	case models.ActionReorder:
		h.reorder(c, body)
	case models.ActionUpdate:
		h.update(c, req.ID, body)
	default:
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Invalid action"))
	}
}

func (h *collection[R]) reorder(c *gin.Context, body []byte) {
	ids, ok := models.ReorderIDs(body, h.text.ListKey)
	if !ok {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, h.text.Plural+" array is required for reordering"))
		return
	}

	err := h.catalog.Reorder(c.Request.Context(), ids)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.OK(h.text.Plural+" reordered successfully", nil))
	case errors.Is(err, store.ErrIncompleteReorder):
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, h.text.Plural+" array must list every item exactly once"))
	default:
		h.logger.Error("reorder failed", "error", err)
		c.JSON(http.StatusOK, models.Fail(models.CodeStorage, "Failed to save reordered data"))
	}
}

func (h *collection[R]) update(c *gin.Context, id string, body []byte) {
	if id == "" {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, h.text.Singular+" ID is required"))
		return
	}
	apply, err := h.decodePatch(body)
	if err != nil {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Invalid update fields"))
		return
	}

	_, err = h.catalog.Update(c.Request.Context(), id, apply)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.OK(h.text.Singular+" updated successfully", nil))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusOK, models.Fail(models.CodeNotFound, h.text.Singular+" not found"))
	default:
		h.logger.Error("update failed", "id", id, "error", err)
		c.JSON(http.StatusOK, models.Fail(models.CodeStorage, "Failed to save updated data"))
	}
}

func (h *collection[R]) remove(c *gin.Context) {
	var req models.DeleteRequest
	_ = c.ShouldBindJSON(&req)
	if req.ID == "" {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, h.text.Singular+" ID is required"))
		return
	}

	err := h.catalog.Delete(c.Request.Context(), req.ID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.OK(h.text.Singular+" deleted successfully", nil))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusOK, models.Fail(models.CodeNotFound, h.text.Singular+" not found"))
	default:
		h.logger.Error("delete failed", "id", req.ID, "error", err)
		c.JSON(http.StatusOK, models.Fail(models.CodeStorage, "Failed to save data after deletion"))
	}
}

// stageUpload copies the uploaded image to a temp file so it can be sniffed and
// decoded from disk. The returned cleanup removes the copy.
func stageUpload(c *gin.Context) (string, func(), error) {
	file, err := c.FormFile(uploadField)
	if err != nil {
		return "", func() {}, err
	}

	tmp, err := os.CreateTemp("", "portfolio-upload-*")
	if err != nil {
		return "", func() {}, err
	}
	path := tmp.Name()
	tmp.Close()
	cleanup := func() { _ = os.Remove(path) }

	if err := c.SaveUploadedFile(file, path); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return path, cleanup, nil
}

// optionalForm returns nil when the form field is absent.
func optionalForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func decodeJSONPatch[P any, R any](apply func(P) func(R)) func([]byte) (func(R), error) {
	return func(body []byte) (func(R), error) {
		var patch P
		if err := json.Unmarshal(body, &patch); err != nil {
			return nil, err
		}
		return apply(patch), nil
	}
}
