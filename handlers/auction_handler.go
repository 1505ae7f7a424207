package handlers

import (
	"net/http"

	"github.com/Dosada05/auction-system/services"
)

type AuctionHandler struct {
	auctions services.AuctionService
}

func NewAuctionHandler(auctions services.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctions: auctions}
}

func (h *AuctionHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	if err := writeJSON(w, http.StatusOK, jsonResponse{"auction": auction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetState returns the snapshot a reconnecting client resyncs from before it
// starts consuming live events.
func (h *AuctionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.auctions.GetState(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, state, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) Start(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.auctions.Start(r.Context(), auctionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "started"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) Next(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.auctions.AdvanceToNextPlayer(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if entry == nil {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "completed"}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "advanced", "current": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.auctions.Pause(r.Context(), auctionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "paused"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.auctions.Resume(r.Context(), auctionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "resumed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
