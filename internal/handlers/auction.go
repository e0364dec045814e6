package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/services"
)

type AuctionHandler struct {
	collection[*models.AuctionWork]
}

func NewAuctionHandler(catalog *services.Catalog[*models.AuctionWork], logger *slog.Logger) *AuctionHandler {
	return &AuctionHandler{
		collection: collection[*models.AuctionWork]{
			catalog: catalog,
			text: collectionText{
				ListKey:    "works",
				Singular:   "Work",
				Plural:     "Works",
				Retrieved:  "Auction data retrieved",
				Added:      "Auction work added successfully",
				CreateSave: "Failed to save auction data",
			},
			decodePatch: decodeJSONPatch(func(p models.AuctionWorkPatch) func(*models.AuctionWork) { return p.Apply }),
			logger:      logger.With("handler", "auction"),
		},
	}
}

// List godoc
// @Summary     List auction works
// @Tags        auction
// @Produce     json
// @Success     200 {object} models.Response{data=[]models.AuctionWork}
// @Router      /API/auction [get]
func (h *AuctionHandler) List(c *gin.Context) { h.list(c) }

// Create godoc
// @Summary     Add an auction work
// @Tags        auction
// @Accept      multipart/form-data
// @Produce     json
// @Param       image        formData file   true  "Source image"
// @Param       title        formData string true  "Title"
// @Param       price        formData string true  "Price"
// @Param       auctionHouse formData string true  "Auction house"
// @Param       dimensions   formData string false "Dimensions"
// @Param       medium       formData string false "Medium, defaults to Oil on Canvas"
// @Success     200 {object} models.Response{data=models.AuctionWork}
// @Failure     401 {object} models.Response
// @Router      /API/auction [post]
func (h *AuctionHandler) Create(c *gin.Context) {
	upload, cleanup, err := stageUpload(c)
	if err != nil {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "No image file uploaded or upload error"))
		return
	}
	defer cleanup()

	in := services.AuctionInput{
		Title:        c.PostForm("title"),
		Dimensions:   c.PostForm("dimensions"),
		Medium:       optionalForm(c, "medium"),
		Price:        c.PostForm("price"),
		AuctionHouse: c.PostForm("auctionHouse"),
	}
	if msg := in.Validate(); msg != "" {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, msg))
		return
	}

	h.create(c, upload, in.Build())
}

// Mutate godoc
// @Summary     Reorder or update auction works
// @Tags        auction
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Failure     401 {object} models.Response
// @Router      /API/auction [put]
func (h *AuctionHandler) Mutate(c *gin.Context) { h.mutate(c) }

// Delete godoc
// @Summary     Delete an auction work
// @Tags        auction
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Failure     401 {object} models.Response
// @Router      /API/auction [delete]
func (h *AuctionHandler) Delete(c *gin.Context) { h.remove(c) }
