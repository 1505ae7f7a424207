package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/auction-system/middleware"
	"github.com/Dosada05/auction-system/services"
	"github.com/shopspring/decimal"
)

type AutoBidHandler struct {
	autoBids services.AutoBidService
}

func NewAutoBidHandler(autoBids services.AutoBidService) *AutoBidHandler {
	return &AutoBidHandler{autoBids: autoBids}
}

type createAutoBidRequest struct {
	AuctionPlayerID int             `json:"auction_player_id"`
	MaxAmount       decimal.Decimal `json:"max_amount"`
}

func (h *AutoBidHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input createAutoBidRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.AuctionPlayerID <= 0 {
		badRequestResponse(w, r, errors.New("auction_player_id is required"))
		return
	}

	autoBid, err := h.autoBids.Create(r.Context(), userID, auctionID, input.AuctionPlayerID, input.MaxAmount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"auto_bid": autoBid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AutoBidHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	autoBids, err := h.autoBids.ListForUser(r.Context(), userID, auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"auto_bids": autoBids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AutoBidHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	autoBidID, err := urlParamInt(r, "autoBidID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.autoBids.Deactivate(r.Context(), userID, autoBidID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "deactivated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
