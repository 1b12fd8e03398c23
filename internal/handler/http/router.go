package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rim-hr/paie-backend-go/internal/handler/http/middleware"
	"github.com/rim-hr/paie-backend-go/internal/pkg/jwt"
)

func NewRouter(env string, jwtService jwt.Service, paieHandler PaieHandler, clotureHandler ClotureHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paie-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// SSE clients cannot set headers, so the events stream verifies
		// the token from the query string.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(jwtService.JWTAuth(), jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Get("/cloture/runs/{runID}/events", clotureHandler.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/motifs", func(r chi.Router) {
				r.Get("/", paieHandler.ListMotifs)
			})

			r.Route("/rubriques", func(r chi.Router) {
				r.Get("/", paieHandler.ListRubriques)
			})

			r.Put("/rubriques-paie", paieHandler.SetRubriquePaie)
			r.Put("/njt", paieHandler.SetNjt)
			r.Post("/paies/compute", paieHandler.ComputePaie)

			r.Route("/cloture", func(r chi.Router) {
				r.Post("/", clotureHandler.Start)
				r.Route("/runs/{runID}", func(r chi.Router) {
					r.Get("/", clotureHandler.Get)
					r.Delete("/", clotureHandler.Cancel)
				})
			})
		})
	})
	return r
}
