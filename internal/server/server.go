package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/session"
)

// New constructs the HTTP server with routes and middleware.
func New(port string, handler session.Handler, log zerolog.Logger) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", handler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.Get)
				r.Delete("/", handler.Delete)
				r.Post("/mode", handler.SwitchMode)
				r.Post("/image", handler.UploadImage)
				r.Post("/room", handler.SelectRoom)
				r.Post("/style", handler.ApplyStyle)
				r.Post("/chat", handler.SendChat)
				r.Post("/agent", handler.SetAgentInstruction)
				r.Post("/country", handler.SelectCountry)
				r.Route("/palette", func(r chi.Router) {
					r.Post("/lock", handler.LockColor)
					r.Post("/complementary", handler.ComplementaryPalette)
					r.Post("/apply", handler.ApplyPalette)
				})
				r.Post("/price", handler.AnalyzePrices)
				r.Post("/wishlist", handler.AddWishlistItem)
				r.Delete("/wishlist/{itemID}", handler.RemoveWishlistItem)
				r.Get("/wishlist/total", handler.WishlistTotal)
				r.Post("/video", handler.GenerateVideo)
				r.Post("/comparator", handler.SetComparator)
				r.Post("/tour", handler.Tour)
				r.Post("/tilt", handler.Tilt)
				r.Post("/export", handler.Export)
			})
		})
		r.Post("/credential", handler.ReplaceCredential)
		r.Get("/events", handler.StreamEvents)
		r.Get("/styles", handler.Styles)
		r.Get("/countries", handler.Countries)
	})

	// Long write timeout: the SSE stream and video generation both outlive
	// a normal request/response cycle.
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("server ready")
	return srv
}
