package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/handlers"
	"portfolio-content-api/internal/middleware"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/services"
	"portfolio-content-api/internal/session"
)

type Deps struct {
	Content             *services.Content
	Gate                *middleware.SessionGate
	Verifier            *session.PasswordVerifier
	UploadsDir          string
	PublicUploadsPrefix string
	MaxUploadBytes      int64
	Logger              *slog.Logger
}

// NewRouter wires every route of the content API.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.Fail(models.CodeMethodNotAllowed, "Method not allowed"))
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.Fail(models.CodeNotFound, "Not found"))
	})

	// Health check (no auth)
	router.GET("/health", handlers.NewHealthHandler(d.Gate.Manager(), d.Logger).Check)

	// Derivatives are plain files
	router.Static(d.PublicUploadsPrefix, d.UploadsDir)

	api := router.Group("/API")
	api.Use(d.Gate.Resolve())

	admin := d.Gate.RequireAdmin()
	limit := limitBody(d.MaxUploadBytes)
	preflight := func(c *gin.Context) { c.Status(http.StatusOK) }

	gallery := handlers.NewGalleryHandler(d.Content.Gallery, d.Logger)
	auction := handlers.NewAuctionHandler(d.Content.Auction, d.Logger)
	articles := handlers.NewArticlesHandler(d.Content.Articles, d.Logger)
	auth := handlers.NewAuthHandler(d.Gate, d.Verifier, d.Logger)

	collections := []struct {
		paths                        []string
		list, create, mutate, delete gin.HandlerFunc
	}{
		{[]string{"/gallery", "/Gallery.php"}, gallery.List, gallery.Create, gallery.Mutate, gallery.Delete},
		{[]string{"/auction", "/Auction.php"}, auction.List, auction.Create, auction.Mutate, auction.Delete},
		{[]string{"/articles", "/Articles.php"}, articles.List, articles.Create, articles.Mutate, articles.Delete},
	}
	for _, col := range collections {
		for _, path := range col.paths {
			api.GET(path, col.list)
			api.POST(path, admin, limit, col.create)
			api.PUT(path, admin, col.mutate)
			api.DELETE(path, admin, col.delete)
			api.OPTIONS(path, preflight)
		}
	}

	for _, path := range []string{"/auth", "/auth.php"} {
		api.GET(path, auth.Status)
		api.POST(path, auth.Action)
		api.OPTIONS(path, preflight)
	}

	return router
}

func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
