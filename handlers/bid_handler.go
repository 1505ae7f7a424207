package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/auction-system/middleware"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/Dosada05/auction-system/services"
	"github.com/shopspring/decimal"
)

type BidHandler struct {
	bids services.BidService
}

func NewBidHandler(bids services.BidService) *BidHandler {
	return &BidHandler{bids: bids}
}

type placeBidRequest struct {
	AuctionID int             `json:"auction_id"`
	PlayerID  int             `json:"player_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input placeBidRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.AuctionID <= 0 || input.PlayerID <= 0 {
		badRequestResponse(w, r, errors.New("auction_id and player_id are required"))
		return
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		badRequestResponse(w, r, errors.New("amount must be positive"))
		return
	}

	bid, err := h.bids.PlaceBidAsUser(r.Context(), input.AuctionID, input.PlayerID, userID, input.Amount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bid": bid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BidHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bids, err := h.bids.ListBids(r.Context(), auctionID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bids": bids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BidHandler) HighestBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	highest, err := h.bids.HighestBid(r.Context(), auctionID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			writeJSON(w, http.StatusOK, jsonResponse{"highest_bid": nil}, nil)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"highest_bid": highest}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UndoLastBid removes the most recent bid on a lot. Admin-only compensating
// action for operator mistakes during a live session.
func (h *BidHandler) UndoLastBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	newHighest, err := h.bids.UndoLastBid(r.Context(), auctionID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	body := jsonResponse{"new_highest": newHighest}
	if newHighest == nil {
		body["new_highest"] = nil
	}
	if err := writeJSON(w, http.StatusOK, body, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
