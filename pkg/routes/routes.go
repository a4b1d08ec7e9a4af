package routes

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nexnote/internal/announcements"
	"nexnote/internal/auth"
	"nexnote/internal/config"
	"nexnote/internal/metrics"
	"nexnote/internal/notes"
	"nexnote/internal/users"
	"nexnote/pkg/middleware"
)

// Modules wires the whole application: config, store, repositories, services,
// handlers and the HTTP server.
var Modules = fx.Module("nexnote",
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(notes.NewFileStore),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewAuthService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(notes.NewNoteRepository),
	fx.Provide(notes.NewNoteService),
	fx.Provide(notes.NewNoteHandler),
	fx.Provide(users.NewRepository),
	fx.Provide(users.NewService),
	fx.Provide(users.NewHandler),
	fx.Provide(announcements.NewRepository),
	fx.Provide(announcements.NewService),
	fx.Provide(announcements.NewHandler),
	fx.Provide(middleware.NewAuthMiddleware),
	fx.Provide(NewEchoServer),
	fx.Invoke(config.EnsureIndexes),
	fx.Invoke(RegisterRoutes),
)

func NewEchoServer(lc fx.Lifecycle, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{clientURL()},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(countRequests)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting server", zap.String("port", port))
			go func() {
				if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	store *config.MongoDBClient,
	files *notes.FileStore,
	authMW *middleware.AuthMiddleware,
	authHandler *auth.AuthHandler,
	noteHandler *notes.NoteHandler,
	userHandler *users.Handler,
	announcementHandler *announcements.Handler,
) {
	e.GET("/healthz", func(c echo.Context) error {
		if err := store.Ready(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "store not ok: "+err.Error())
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Uploaded files are served read-only under a fixed prefix.
	e.Static("/uploads", files.Dir())

	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// Public note reads.
	e.GET("/notes", noteHandler.List)
	e.GET("/notes/stats", noteHandler.Stats)
	e.GET("/notes/:id", noteHandler.GetByID)
	e.GET("/notes/:id/download", noteHandler.Download)

	// Teacher/admin note mutations.
	e.POST("/notes", noteHandler.Upload, authMW.Authenticate, middleware.RequireRole)
	e.DELETE("/notes/:id", noteHandler.Delete, authMW.Authenticate, middleware.RequireRole)

	// Engagement, any authenticated user. Comment deletion additionally
	// checks author-or-admin in the service.
	e.POST("/notes/:id/comments", noteHandler.AddComment, authMW.Authenticate)
	e.DELETE("/notes/:id/comments/:commentId", noteHandler.DeleteComment, authMW.Authenticate)
	e.POST("/notes/:id/ratings", noteHandler.AddRating, authMW.Authenticate)

	userGroup := e.Group("/users", authMW.Authenticate)
	userGroup.GET("/profile", userHandler.GetProfile)
	userGroup.PUT("/profile", userHandler.UpdateProfile)
	userGroup.PUT("/change-password", userHandler.ChangePassword)
	userGroup.POST("/favorites/:noteId", userHandler.ToggleFavorite)
	userGroup.GET("/favorites", userHandler.ListFavorites)

	e.GET("/announcements", announcementHandler.List)
	e.GET("/announcements/:id", announcementHandler.GetByID)
	e.POST("/announcements", announcementHandler.Create, authMW.Authenticate, middleware.RequireRole)
	e.PUT("/announcements/:id", announcementHandler.Update, authMW.Authenticate, middleware.RequireRole)
	e.DELETE("/announcements/:id", announcementHandler.Delete, authMW.Authenticate, middleware.RequireRole)
}

func countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		metrics.RequestsTotal.WithLabelValues(
			c.Request().Method, c.Path(), strconv.Itoa(c.Response().Status)).Inc()
		return err
	}
}

func clientURL() string {
	if url := os.Getenv("CLIENT_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}
