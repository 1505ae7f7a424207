package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/middleware"
	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/Dosada05/auction-system/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict Origin to the frontend domain before production.
		return true
	},
}

type WebSocketHandler struct {
	hub      *live.Hub
	auctions services.AuctionService
	teams    repositories.TeamRepository
	auth     *middleware.Authenticator
}

func NewWebSocketHandler(hub *live.Hub, auctions services.AuctionService, teams repositories.TeamRepository, auth *middleware.Authenticator) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, auctions: auctions, teams: teams, auth: auth}
}

// ServeWs upgrades an observer connection for one auction room. A token query
// parameter is optional; with a valid one the connection is attributed to the
// user and, when they own a team in the auction's tournament, to that team.
// Without one the observer is anonymous.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	auction, err := h.auctions.Get(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	userID, teamID, err := h.identify(r, auction)
	if err != nil {
		unauthorizedResponse(w, r, "invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("failed to upgrade connection for auction %d: %v", auctionID, err)
		return
	}

	client := &live.Client{
		Hub:       h.hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		AuctionID: auctionID,
		UserID:    userID,
		TeamID:    teamID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// identify resolves the observer's user and team from an optional token
// query parameter. Attribution is best effort: a missing token or a user
// without a team yields an anonymous or user-only connection; only an
// invalid token is an error.
func (h *WebSocketHandler) identify(r *http.Request, auction *models.Auction) (int, *int, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return 0, nil, nil
	}

	claims, err := h.auth.ParseClaims(token)
	if err != nil {
		return 0, nil, err
	}

	ctx := middleware.ContextWithClaims(r.Context(), claims)
	userID, err := middleware.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, nil, nil
	}

	team, err := h.teams.GetByOwner(r.Context(), nil, auction.TournamentID, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrTeamNotFound) {
			log.Printf("failed to resolve team for user %d on auction %d: %v", userID, auction.ID, err)
		}
		return userID, nil, nil
	}
	return userID, &team.ID, nil
}
