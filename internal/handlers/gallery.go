package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/services"
)

type GalleryHandler struct {
	collection[*models.GalleryImage]
	now func() time.Time
}

func NewGalleryHandler(catalog *services.Catalog[*models.GalleryImage], logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		collection: collection[*models.GalleryImage]{
			catalog: catalog,
			text: collectionText{
				ListKey:    "images",
				Singular:   "Image",
				Plural:     "Images",
				Retrieved:  "Gallery data retrieved",
				Added:      "Image added successfully",
				CreateSave: "Failed to save gallery data",
			},
			decodePatch: decodeJSONPatch(func(p models.GalleryImagePatch) func(*models.GalleryImage) { return p.Apply }),
			logger:      logger.With("handler", "gallery"),
		},
		now: time.Now,
	}
}

// List godoc
// @Summary     List gallery images
// @Description Returns every gallery image in stored order; clients sort by order.
// @Tags        gallery
// @Produce     json
// @Success     200 {object} models.Response{data=[]models.GalleryImage}
// @Router      /API/gallery [get]
func (h *GalleryHandler) List(c *gin.Context) { h.list(c) }

// Create godoc
// @Summary     Add a gallery image
// @Description Converts the upload into an original and a thumbnail WebP and inserts the image at the top.
// @Tags        gallery
// @Accept      multipart/form-data
// @Produce     json
// @Param       image      formData file   true  "Source image (JPEG, PNG, GIF or WebP)"
// @Param       title      formData string true  "Title"
// @Param       dimensions formData string false "Dimensions"
// @Param       medium     formData string false "Medium, defaults to Oil on Canvas"
// @Param       year       formData string false "Year, defaults to the current year"
// @Success     200 {object} models.Response{data=models.GalleryImage}
// @Failure     401 {object} models.Response
// @Router      /API/gallery [post]
func (h *GalleryHandler) Create(c *gin.Context) {
	upload, cleanup, err := stageUpload(c)
	if err != nil {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "No image file uploaded or upload error"))
		return
	}
	defer cleanup()

	in := services.GalleryInput{
		Title:      c.PostForm("title"),
		Dimensions: c.PostForm("dimensions"),
		Medium:     optionalForm(c, "medium"),
		Year:       optionalForm(c, "year"),
	}
	if msg := in.Validate(); msg != "" {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, msg))
		return
	}

	h.create(c, upload, in.Build(h.now()))
}

// Mutate godoc
// @Summary     Reorder or update gallery images
// @Description action=reorder takes images:[{id}], action=update takes id plus title, dimensions, medium or year.
// @Tags        gallery
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Failure     401 {object} models.Response
// @Router      /API/gallery [put]
func (h *GalleryHandler) Mutate(c *gin.Context) { h.mutate(c) }

// Delete godoc
// @Summary     Delete a gallery image
// @Tags        gallery
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Failure     401 {object} models.Response
// @Router      /API/gallery [delete]
func (h *GalleryHandler) Delete(c *gin.Context) { h.remove(c) }
