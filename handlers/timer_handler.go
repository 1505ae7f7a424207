package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/auction-system/services"
)

type TimerHandler struct {
	timers services.TimerService
}

func NewTimerHandler(timers services.TimerService) *TimerHandler {
	return &TimerHandler{timers: timers}
}

type timerControlRequest struct {
	AuctionID int    `json:"auction_id"`
	Action    string `json:"action"`
	Seconds   int    `json:"seconds,omitempty"`
}

// Control drives the countdown directly: start resets it to the given
// duration, pause/resume toggle it, stop removes it.
func (h *TimerHandler) Control(w http.ResponseWriter, r *http.Request) {
	var input timerControlRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.AuctionID <= 0 {
		badRequestResponse(w, r, errors.New("auction_id is required"))
		return
	}

	var err error
	switch input.Action {
	case "start":
		if input.Seconds <= 0 {
			badRequestResponse(w, r, errors.New("seconds must be positive for start"))
			return
		}
		err = h.timers.Reset(r.Context(), input.AuctionID, input.Seconds)
	case "pause":
		err = h.timers.Pause(r.Context(), input.AuctionID)
	case "resume":
		err = h.timers.Resume(r.Context(), input.AuctionID)
	case "stop":
		err = h.timers.Stop(r.Context(), input.AuctionID)
	default:
		badRequestResponse(w, r, fmt.Errorf("unknown action %q", input.Action))
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TimerHandler) Get(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.timers.Get(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	body := jsonResponse{
		"remaining_seconds": state.RemainingSeconds,
		"is_paused":         state.Paused(),
		"active":            state.Found,
	}
	if err := writeJSON(w, http.StatusOK, body, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type timerExtendRequest struct {
	Seconds int `json:"seconds"`
}

func (h *TimerHandler) Extend(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParamInt(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input timerExtendRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Seconds <= 0 {
		badRequestResponse(w, r, errors.New("seconds must be positive"))
		return
	}

	if err := h.timers.Extend(r.Context(), auctionID, input.Seconds); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "extended"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
