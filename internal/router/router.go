// file: internal/router/router.go
package router

import (
	"net/http"

	"personahub/internal/config"
	"personahub/internal/handlers"
	"personahub/internal/middleware"
	"personahub/internal/response"
	"personahub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New assembles the HTTP routing tree with the full middleware stack
func New(collection *services.ServiceCollection, cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	builder := response.NewBuilder(&response.Config{
		PrettyJSON:         cfg.IsDevelopment(),
		MaskInternalErrors: !cfg.IsDevelopment(),
	}, logger)

	base := handlers.NewBase(builder, logger)

	authHandler := handlers.NewAuthHandler(base, collection.AuthService)
	profileHandler := handlers.NewProfileHandler(base, collection.ProfileService, collection.FileService)
	postHandler := handlers.NewPostHandler(base, collection.PostService, collection.EngagementService)
	questionHandler := handlers.NewQuestionHandler(base, collection.QuestionService, collection.EngagementService)
	categoryHandler := handlers.NewCategoryHandler(base, collection.CategoryService)
	healthHandler := handlers.NewHealthHandler(base, collection, cfg.Server.ServerName)

	feedHandler, err := handlers.NewEventFeedHandler(base, collection.EventBus)
	if err != nil {
		return nil, err
	}

	auth := middleware.NewAuthenticator(collection.AuthService, collection.ProfileService, builder, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&cfg.Security))
	r.Use(middleware.RateLimit(&cfg.Security, logger))

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Public reads, decorated with viewer state when a token is present
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth)
			r.Use(auth.OptionalProfile)

			r.Get("/posts", postHandler.List)
			r.Get("/posts/search", postHandler.Search)
			r.Get("/posts/{postID}", postHandler.Get)

			r.Get("/questions", questionHandler.List)
			r.Get("/questions/search", questionHandler.Search)
			r.Get("/questions/{questionID}", questionHandler.Get)

			r.Get("/categories", categoryHandler.List)
			r.Get("/categories/{categoryID}", categoryHandler.Get)

			r.Get("/profiles/{profileID}/posts", postHandler.ListByProfile)
			r.Get("/profiles/{profileID}/questions", questionHandler.ListByProfile)
		})

		// Authenticated account scope
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Route("/profiles", func(r chi.Router) {
				r.Post("/", profileHandler.Create)
				r.Get("/", profileHandler.List)
				r.Get("/{profileID}", profileHandler.Get)
				r.Patch("/{profileID}", profileHandler.Update)
				r.Put("/{profileID}/default", profileHandler.SetDefault)
				r.Delete("/{profileID}", profileHandler.Delete)
				r.Post("/{profileID}/avatar", profileHandler.UploadAvatar)
			})

			r.Get("/events/feed", feedHandler.Serve)

			r.Post("/categories", categoryHandler.Create)
			r.Delete("/categories/{categoryID}", categoryHandler.Delete)

			// Content writes and engagement act as a specific profile
			r.Group(func(r chi.Router) {
				r.Use(auth.ResolveProfile)

				r.Post("/posts", postHandler.Create)
				r.Patch("/posts/{postID}", postHandler.Update)
				r.Delete("/posts/{postID}", postHandler.Delete)

				r.Put("/posts/{postID}/like", postHandler.Like)
				r.Delete("/posts/{postID}/like", postHandler.Unlike)
				r.Put("/posts/{postID}/dislike", postHandler.Dislike)
				r.Delete("/posts/{postID}/dislike", postHandler.RemoveDislike)
				r.Put("/posts/{postID}/save", postHandler.Save)
				r.Delete("/posts/{postID}/save", postHandler.Unsave)
				r.Post("/posts/{postID}/share", postHandler.Share)
				r.Get("/posts/{postID}/engagement", postHandler.GetEngagement)

				r.Post("/questions", questionHandler.Create)
				r.Patch("/questions/{questionID}", questionHandler.Update)
				r.Delete("/questions/{questionID}", questionHandler.Delete)
				r.Put("/questions/{questionID}/accepted-answer", questionHandler.AcceptAnswer)

				r.Put("/questions/{questionID}/like", questionHandler.Like)
				r.Delete("/questions/{questionID}/like", questionHandler.Unlike)
				r.Put("/questions/{questionID}/dislike", questionHandler.Dislike)
				r.Delete("/questions/{questionID}/dislike", questionHandler.RemoveDislike)
				r.Put("/questions/{questionID}/save", questionHandler.Save)
				r.Delete("/questions/{questionID}/save", questionHandler.Unsave)
				r.Post("/questions/{questionID}/share", questionHandler.Share)
				r.Get("/questions/{questionID}/engagement", questionHandler.GetEngagement)
			})
		})
	})

	return r, nil
}
