package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/shopspring/decimal"
)

type AutoBidService interface {
	// Create registers a standing maximum for the caller on one lot. The lot
	// must belong to the auction and still be open.
	Create(ctx context.Context, userID, auctionID, auctionPlayerID int, maxAmount decimal.Decimal) (*models.AutoBid, error)
	ListForUser(ctx context.Context, userID, auctionID int) ([]*models.AutoBid, error)
	Deactivate(ctx context.Context, userID, autoBidID int) error
}

type autoBidService struct {
	autoBidRepo repositories.AutoBidRepository
	queueRepo   repositories.QueueRepository
}

func NewAutoBidService(autoBidRepo repositories.AutoBidRepository, queueRepo repositories.QueueRepository) AutoBidService {
	return &autoBidService{autoBidRepo: autoBidRepo, queueRepo: queueRepo}
}

func (s *autoBidService) Create(ctx context.Context, userID, auctionID, auctionPlayerID int, maxAmount decimal.Decimal) (*models.AutoBid, error) {
	if maxAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: maximum must be positive", ErrAutoBidInvalidMax)
	}

	entry, err := s.queueRepo.GetByID(ctx, nil, auctionPlayerID)
	if err != nil {
		return nil, err
	}
	if entry.AuctionID != auctionID {
		return nil, repositories.ErrQueueEntryNotFound
	}
	if entry.Status == models.QueueEntrySold || entry.Status == models.QueueEntryUnsold {
		return nil, ErrLotClosed
	}

	return s.autoBidRepo.Create(ctx, nil, userID, auctionPlayerID, maxAmount)
}

func (s *autoBidService) ListForUser(ctx context.Context, userID, auctionID int) ([]*models.AutoBid, error) {
	return s.autoBidRepo.ListByUser(ctx, userID, auctionID)
}

func (s *autoBidService) Deactivate(ctx context.Context, userID, autoBidID int) error {
	return s.autoBidRepo.DeactivateOwned(ctx, nil, autoBidID, userID)
}
