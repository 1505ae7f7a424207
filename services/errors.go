package services

import "errors"

// Rejection reasons are user-facing: they cross the HTTP boundary as the
// response body, so the text matters.
var (
	// Bid validation rejections, checked in this order.
	ErrAuctionNotActive    = errors.New("auction is not active")
	ErrPlayerNotOnBlock    = errors.New("this player is not currently up for auction")
	ErrLotClosed           = errors.New("bidding for this player is closed")
	ErrBidTooLow           = errors.New("bid is below the minimum")
	ErrTeamNotInTournament = errors.New("team is not part of this tournament")
	ErrInsufficientBudget  = errors.New("insufficient budget")

	// Auction control.
	ErrInvalidStatusTransition = errors.New("invalid auction status transition")
	ErrEmptyQueue              = errors.New("auction has no pending players")

	// Admin undo.
	ErrNoBidsToUndo = errors.New("no bids to undo")

	// Auto-bid instructions.
	ErrAutoBidInvalidMax = errors.New("max amount must be positive")

	// Caller identity.
	ErrNoTeamForUser = errors.New("no team found for this tournament")
)

// IsRejection reports whether err is a bid validation rejection, as opposed
// to a resource failure. Rejections are final for the submitted amount and
// are never retried by the engine; inside a cascade they deactivate the
// instruction that produced them instead of failing the triggering bid.
func IsRejection(err error) bool {
	return errors.Is(err, ErrAuctionNotActive) ||
		errors.Is(err, ErrPlayerNotOnBlock) ||
		errors.Is(err, ErrLotClosed) ||
		errors.Is(err, ErrBidTooLow) ||
		errors.Is(err, ErrTeamNotInTournament) ||
		errors.Is(err, ErrInsufficientBudget)
}
