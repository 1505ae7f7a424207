package routes

import (
	"net/http"

	"github.com/Dosada05/auction-system/handlers"
	"github.com/Dosada05/auction-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auctions  *handlers.AuctionHandler
	Bids      *handlers.BidHandler
	Timers    *handlers.TimerHandler
	AutoBids  *handlers.AutoBidHandler
	WebSocket *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/auctions", func(r chi.Router) {
		r.Get("/{auctionID}", h.Auctions.Get)
		r.Get("/{auctionID}/state", h.Auctions.GetState)

		// Lifecycle control is restricted to session operators.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Post("/{auctionID}/start", h.Auctions.Start)
			r.Post("/{auctionID}/next", h.Auctions.Next)
			r.Post("/{auctionID}/pause", h.Auctions.Pause)
			r.Post("/{auctionID}/resume", h.Auctions.Resume)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/{auctionID}/auto-bids", h.AutoBids.Create)
			r.Get("/{auctionID}/auto-bids", h.AutoBids.List)
			r.Delete("/{auctionID}/auto-bids/{autoBidID}", h.AutoBids.Deactivate)
		})
	})

	router.Route("/bids", func(r chi.Router) {
		r.Get("/auction/{auctionID}/player/{playerID}", h.Bids.ListBids)
		r.Get("/auction/{auctionID}/player/{playerID}/highest", h.Bids.HighestBid)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", h.Bids.PlaceBid)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(middleware.RoleAdmin))
		r.Delete("/undo/bids/{auctionID}/{playerID}", h.Bids.UndoLastBid)
	})

	router.Route("/timer", func(r chi.Router) {
		r.Get("/{auctionID}", h.Timers.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Post("/control", h.Timers.Control)
			r.Post("/{auctionID}/extend", h.Timers.Extend)
		})
	})

	router.Get("/ws/auctions/{auctionID}", h.WebSocket.ServeWs)

	return router
}
