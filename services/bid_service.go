package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/Dosada05/auction-system/timerstore"
	"github.com/shopspring/decimal"
)

type BidService interface {
	// PlaceBid is the engine's serialization point: for a fixed
	// (auction, player) pair calls are totally ordered, and each committed
	// bid has observed the one before it. The bid, its auto-bid cascade,
	// instruction deactivations and owner notifications commit in a single
	// transaction; countdown reset, fan-out and event recording happen after
	// commit.
	PlaceBid(ctx context.Context, auctionID, playerID, teamID int, amount decimal.Decimal) (*models.Bid, error)
	// PlaceBidAsUser resolves the caller's team for the auction's tournament
	// before placing.
	PlaceBidAsUser(ctx context.Context, auctionID, playerID, userID int, amount decimal.Decimal) (*models.Bid, error)
	ListBids(ctx context.Context, auctionID, playerID int) ([]*models.BidWithTeam, error)
	HighestBid(ctx context.Context, auctionID, playerID int) (*models.BidWithTeam, error)
	// UndoLastBid is the privileged compensating action: it deletes the
	// latest committed bid and reports the new highest, if any.
	UndoLastBid(ctx context.Context, auctionID, playerID int) (*models.BidWithTeam, error)
}

type bidService struct {
	db               *sql.DB
	auctionRepo      repositories.AuctionRepository
	queueRepo        repositories.QueueRepository
	bidRepo          repositories.BidRepository
	teamRepo         repositories.TeamRepository
	playerRepo       repositories.PlayerRepository
	autoBidRepo      repositories.AutoBidRepository
	notificationRepo repositories.NotificationRepository
	timers           timerstore.Store
	hub              live.Broadcaster
	recorder         EventRecorder
	locks            *LotLocker
	logger           *slog.Logger
}

func NewBidService(
	db *sql.DB,
	auctionRepo repositories.AuctionRepository,
	queueRepo repositories.QueueRepository,
	bidRepo repositories.BidRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	autoBidRepo repositories.AutoBidRepository,
	notificationRepo repositories.NotificationRepository,
	timers timerstore.Store,
	hub live.Broadcaster,
	recorder EventRecorder,
	locks *LotLocker,
	logger *slog.Logger,
) BidService {
	return &bidService{
		db:               db,
		auctionRepo:      auctionRepo,
		queueRepo:        queueRepo,
		bidRepo:          bidRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		autoBidRepo:      autoBidRepo,
		notificationRepo: notificationRepo,
		timers:           timers,
		hub:              hub,
		recorder:         recorder,
		locks:            locks,
		logger:           logger,
	}
}

func (s *bidService) PlaceBidAsUser(ctx context.Context, auctionID, playerID, userID int, amount decimal.Decimal) (*models.Bid, error) {
	auction, err := s.auctionRepo.GetByID(ctx, nil, auctionID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByOwner(ctx, nil, auction.TournamentID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrNoTeamForUser
		}
		return nil, err
	}
	return s.PlaceBid(ctx, auctionID, playerID, team.ID, amount)
}

func (s *bidService) PlaceBid(ctx context.Context, auctionID, playerID, teamID int, amount decimal.Decimal) (*models.Bid, error) {
	unlock := s.locks.Lock(auctionID, playerID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bid transaction: %w", err)
	}
	defer tx.Rollback()

	auction, err := s.auctionRepo.GetByID(ctx, tx, auctionID)
	if err != nil {
		return nil, err
	}

	var events []live.Event

	committed, err := s.commitBid(ctx, tx, auction, playerID, teamID, amount, &events)
	if err != nil {
		return nil, err
	}

	if err := s.resolveCascade(ctx, tx, auction, playerID, committed, &events); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bid transaction: %w", err)
	}

	// Post-commit effects. Activity re-arms the clock to the full configured
	// duration, regardless of a prior pause.
	if err := s.timers.Start(ctx, auctionID, auction.TimerSeconds); err != nil {
		s.logger.Error("failed to reset countdown after bid",
			slog.Int("auction_id", auctionID), slog.Any("error", err))
	}
	s.publish(ctx, auctionID, events)

	return &committed.Bid, nil
}

// commitBid validates and inserts one bid inside the caller's transaction and
// queues its BID_UPDATED event. The caller must hold the lot lock.
func (s *bidService) commitBid(ctx context.Context, exec repositories.SQLExecutor, auction *models.Auction, playerID, teamID int, amount decimal.Decimal, events *[]live.Event) (*models.BidWithTeam, error) {
	team, err := s.validate(ctx, exec, auction, playerID, teamID, amount)
	if err != nil {
		return nil, err
	}

	bid := &models.Bid{
		AuctionID: auction.ID,
		PlayerID:  playerID,
		TeamID:    teamID,
		Amount:    amount,
	}
	if err := s.bidRepo.Create(ctx, exec, bid); err != nil {
		return nil, fmt.Errorf("insert bid: %w", err)
	}

	*events = append(*events, live.Event{
		Type: live.EventBidUpdated,
		Data: live.BidUpdatedPayload{
			BidID:     bid.ID,
			TeamID:    teamID,
			TeamName:  team.Name,
			PlayerID:  playerID,
			Amount:    amount,
			Timestamp: bid.CreatedAt,
		},
	})

	return &models.BidWithTeam{Bid: *bid, TeamName: team.Name}, nil
}

// validate applies the acceptance checks in order; the first failure wins.
func (s *bidService) validate(ctx context.Context, exec repositories.SQLExecutor, auction *models.Auction, playerID, teamID int, amount decimal.Decimal) (*models.Team, error) {
	if auction.Status != models.AuctionStatusActive {
		return nil, ErrAuctionNotActive
	}
	if auction.CurrentPlayerID == nil || *auction.CurrentPlayerID != playerID {
		return nil, ErrPlayerNotOnBlock
	}

	// The lot itself must still be open: finalization is terminal even while
	// the player remains the auction's current player (until an operator
	// advances).
	entry, err := s.queueRepo.GetByAuctionAndPlayer(ctx, exec, auction.ID, playerID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.QueueEntryInProgress {
		return nil, ErrLotClosed
	}

	minimum, err := s.minimumBid(ctx, exec, auction, playerID)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(minimum) {
		return nil, fmt.Errorf("%w: bid must be at least %s", ErrBidTooLow, minimum)
	}

	team, err := s.teamRepo.GetByID(ctx, exec, teamID)
	if err != nil {
		return nil, err
	}
	if team.TournamentID != auction.TournamentID {
		return nil, ErrTeamNotInTournament
	}

	spent, err := s.bidRepo.TeamTotalSpent(ctx, exec, teamID, auction.ID)
	if err != nil {
		return nil, fmt.Errorf("compute team spend: %w", err)
	}
	available := team.Budget.Sub(spent)
	if amount.GreaterThan(available) {
		return nil, fmt.Errorf("%w: available %s", ErrInsufficientBudget, available)
	}

	return team, nil
}

func (s *bidService) minimumBid(ctx context.Context, exec repositories.SQLExecutor, auction *models.Auction, playerID int) (decimal.Decimal, error) {
	highest, err := s.bidRepo.GetHighest(ctx, exec, auction.ID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			player, err := s.playerRepo.GetByID(ctx, exec, playerID)
			if err != nil {
				return decimal.Zero, err
			}
			return player.BasePrice, nil
		}
		return decimal.Zero, err
	}
	return highest.Amount.Add(auction.BidIncrement), nil
}

// resolveCascade applies standing auto-bid instructions to the newly
// committed bid. It is an iterative worklist, not recursion: each pass
// re-reads the active instructions (ranked max DESC, then earliest created)
// and lets at most one of them act; a placed counter-bid changes the current
// highest and triggers the next pass. Instructions that cannot beat the
// current highest by one increment are deactivated and their owners
// notified. Amounts strictly increase every placed bid and are bounded by
// the largest standing max, so the loop terminates.
func (s *bidService) resolveCascade(ctx context.Context, exec repositories.SQLExecutor, auction *models.Auction, playerID int, current *models.BidWithTeam, events *[]live.Event) error {
	entry, err := s.queueRepo.GetByAuctionAndPlayer(ctx, exec, auction.ID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return nil
		}
		return err
	}

	for {
		instructions, err := s.autoBidRepo.ListActiveForPlayer(ctx, exec, entry.ID)
		if err != nil {
			return fmt.Errorf("load auto-bid instructions: %w", err)
		}

		acted := false
		for _, instr := range instructions {
			// The current winner never bids against itself.
			if instr.TeamID == current.TeamID {
				continue
			}

			next := current.Amount.Add(auction.BidIncrement)
			if next.GreaterThan(instr.MaxAmount) {
				// Outbid beyond its ceiling: retire the instruction and move
				// on to the next-ranked one.
				if err := s.retireInstruction(ctx, exec, instr, models.NotificationAutoBidOutbid,
					fmt.Sprintf("Your auto-bid of %s was outbid", instr.MaxAmount)); err != nil {
					return err
				}
				continue
			}

			committed, err := s.commitBid(ctx, exec, auction, playerID, instr.TeamID, next, events)
			if err != nil {
				if IsRejection(err) {
					// Usually the owner's budget no longer covers the next
					// step. Cascade termination, not an error for the
					// triggering caller.
					if err := s.retireInstruction(ctx, exec, instr, models.NotificationAutoBidOutbid,
						fmt.Sprintf("Your auto-bid could not place %s: %s", next, err)); err != nil {
						return err
					}
					continue
				}
				return err
			}

			if err := s.notificationRepo.Create(ctx, exec, instr.UserID, models.NotificationAutoBidPlaced,
				fmt.Sprintf("Auto-bid placed: %s", next)); err != nil {
				return fmt.Errorf("create auto-bid notification: %w", err)
			}

			current = committed
			acted = true
			break // one instruction per step; re-rank against the new highest
		}

		if !acted {
			return nil
		}
	}
}

func (s *bidService) retireInstruction(ctx context.Context, exec repositories.SQLExecutor, instr *models.AutoBid, notifType, message string) error {
	if err := s.autoBidRepo.Deactivate(ctx, exec, instr.ID); err != nil {
		return fmt.Errorf("deactivate auto-bid %d: %w", instr.ID, err)
	}
	if err := s.notificationRepo.Create(ctx, exec, instr.UserID, notifType, message); err != nil {
		return fmt.Errorf("create auto-bid notification: %w", err)
	}
	return nil
}

func (s *bidService) publish(ctx context.Context, auctionID int, events []live.Event) {
	for _, event := range events {
		s.hub.BroadcastToAuction(auctionID, event)
		s.recorder.Record(ctx, auctionID, event.Type, event.Data)
	}
}

func (s *bidService) ListBids(ctx context.Context, auctionID, playerID int) ([]*models.BidWithTeam, error) {
	return s.bidRepo.ListForPlayer(ctx, auctionID, playerID)
}

func (s *bidService) HighestBid(ctx context.Context, auctionID, playerID int) (*models.BidWithTeam, error) {
	return s.bidRepo.GetHighest(ctx, nil, auctionID, playerID)
}

func (s *bidService) UndoLastBid(ctx context.Context, auctionID, playerID int) (*models.BidWithTeam, error) {
	unlock := s.locks.Lock(auctionID, playerID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin undo transaction: %w", err)
	}
	defer tx.Rollback()

	latest, err := s.bidRepo.GetLatest(ctx, tx, auctionID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			return nil, ErrNoBidsToUndo
		}
		return nil, err
	}

	if err := s.bidRepo.Delete(ctx, tx, latest.ID); err != nil {
		return nil, fmt.Errorf("delete bid %d: %w", latest.ID, err)
	}

	newHighest, err := s.bidRepo.GetHighest(ctx, tx, auctionID, playerID)
	if err != nil && !errors.Is(err, repositories.ErrBidNotFound) {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit undo transaction: %w", err)
	}

	payload := live.BidUndonePayload{
		PlayerID: playerID,
		UndoneBid: live.UndoneBid{
			TeamID: latest.TeamID,
			Amount: latest.Amount,
		},
	}
	if newHighest != nil {
		payload.NewHighest = &live.NewHighestBid{
			TeamID:   newHighest.TeamID,
			TeamName: newHighest.TeamName,
			Amount:   newHighest.Amount,
		}
	}
	event := live.Event{Type: live.EventBidUndone, Data: payload}
	s.hub.BroadcastToAuction(auctionID, event)
	s.recorder.Record(ctx, auctionID, event.Type, event.Data)

	return newHighest, nil
}
