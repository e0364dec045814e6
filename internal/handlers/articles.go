package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/services"
)

type ArticlesHandler struct {
	collection[*models.Article]
	now func() time.Time
}

func NewArticlesHandler(catalog *services.Catalog[*models.Article], logger *slog.Logger) *ArticlesHandler {
	return &ArticlesHandler{
		collection: collection[*models.Article]{
			catalog: catalog,
			text: collectionText{
				ListKey:    "articles",
				Singular:   "Article",
				Plural:     "Articles",
				Retrieved:  "Articles data retrieved",
				Added:      "Article added successfully",
				CreateSave: "Failed to save articles data",
			},
			decodePatch: decodeJSONPatch(func(p models.ArticlePatch) func(*models.Article) { return p.Apply }),
			logger:      logger.With("handler", "articles"),
		},
		now: time.Now,
	}
}

// List godoc
// @Summary     List press and charity articles
// @Tags        articles
// @Produce     json
// @Success     200 {object} models.Response{data=[]models.Article}
// @Router      /API/articles [get]
func (h *ArticlesHandler) List(c *gin.Context) { h.list(c) }

// Create godoc
// @Summary     Add an article
// @Description The image is optional; a broken upload is ignored like a missing one.
// @Tags        articles
// @Accept      multipart/form-data
// @Produce     json
// @Param       title       formData string true  "Title"
// @Param       source      formData string true  "Source"
// @Param       description formData string true  "Description"
// @Param       date        formData string false "Date (YYYY-MM-DD), defaults to today"
// @Param       url         formData string false "Link to the article"
// @Param       image       formData file   false "Article image"
// @Success     200 {object} models.Response{data=models.Article}
// @Failure     401 {object} models.Response
// @Router      /API/articles [post]
func (h *ArticlesHandler) Create(c *gin.Context) {
	in := services.ArticleInput{
		Title:       c.PostForm("title"),
		Source:      c.PostForm("source"),
		Description: c.PostForm("description"),
		Date:        optionalForm(c, "date"),
		URL:         c.PostForm("url"),
	}
	if msg := in.Validate(); msg != "" {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, msg))
		return
	}

	upload, cleanup, err := stageUpload(c)
	if err != nil {
		upload = ""
	}
	defer cleanup()

	h.create(c, upload, in.Build(h.now()))
}

// Mutate godoc
// @Summary     Reorder or update articles
// @Tags        articles
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Failure     401 {object} models.Response
// @Router      /API/articles [put]
func (h *ArticlesHandler) Mutate(c *gin.Context) { h.mutate(c) }

// Delete godoc
// @Summary     Delete an article
// @Tags        articles
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Failure     401 {object} models.Response
// @Router      /API/articles [delete]
func (h *ArticlesHandler) Delete(c *gin.Context) { h.remove(c) }
