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
)

// AuctionState is the live snapshot a reconnecting observer resyncs from.
type AuctionState struct {
	Auction          *models.Auction     `json:"auction"`
	CurrentPlayer    *models.Player      `json:"current_player,omitempty"`
	HighestBid       *models.BidWithTeam `json:"highest_bid,omitempty"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	TimerPaused      bool                `json:"timer_paused"`
}

type AuctionService interface {
	Get(ctx context.Context, auctionID int) (*models.Auction, error)
	GetState(ctx context.Context, auctionID int) (*AuctionState, error)
	// Start activates a pending auction and puts the first queued player on
	// the block.
	Start(ctx context.Context, auctionID int) error
	// AdvanceToNextPlayer finalizes the current lot if it is still open, then
	// activates the next pending entry, or completes the auction when the
	// queue is exhausted. Returns the new current entry, nil when completed.
	AdvanceToNextPlayer(ctx context.Context, auctionID int) (*models.AuctionPlayer, error)
	Pause(ctx context.Context, auctionID int) error
	Resume(ctx context.Context, auctionID int) error
	// FinalizeCurrentPlayer is the countdown-expiry entry point: it decides
	// sold/unsold for the auction's current player. Safe to call when the lot
	// already closed.
	FinalizeCurrentPlayer(ctx context.Context, auctionID int) error
}

// AuctionArchiver exports an auction's recorded event log to long-term
// storage once the auction completes.
type AuctionArchiver interface {
	ArchiveAuction(ctx context.Context, auctionID int) (string, error)
}

type auctionService struct {
	db             *sql.DB
	auctionRepo    repositories.AuctionRepository
	queueRepo      repositories.QueueRepository
	bidRepo        repositories.BidRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	autoBidRepo    repositories.AutoBidRepository
	tournamentRepo repositories.TournamentRepository
	timers         timerstore.Store
	hub            live.Broadcaster
	recorder       EventRecorder
	locks          *LotLocker
	archiver       AuctionArchiver // optional
	logger         *slog.Logger
}

func NewAuctionService(
	db *sql.DB,
	auctionRepo repositories.AuctionRepository,
	queueRepo repositories.QueueRepository,
	bidRepo repositories.BidRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	autoBidRepo repositories.AutoBidRepository,
	tournamentRepo repositories.TournamentRepository,
	timers timerstore.Store,
	hub live.Broadcaster,
	recorder EventRecorder,
	locks *LotLocker,
	archiver AuctionArchiver,
	logger *slog.Logger,
) AuctionService {
	return &auctionService{
		db:             db,
		auctionRepo:    auctionRepo,
		queueRepo:      queueRepo,
		bidRepo:        bidRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		autoBidRepo:    autoBidRepo,
		tournamentRepo: tournamentRepo,
		timers:         timers,
		hub:            hub,
		recorder:       recorder,
		locks:          locks,
		archiver:       archiver,
		logger:         logger,
	}
}

func (s *auctionService) Get(ctx context.Context, auctionID int) (*models.Auction, error) {
	return s.auctionRepo.GetByID(ctx, nil, auctionID)
}

func (s *auctionService) GetState(ctx context.Context, auctionID int) (*AuctionState, error) {
	auction, err := s.auctionRepo.GetByID(ctx, nil, auctionID)
	if err != nil {
		return nil, err
	}

	state := &AuctionState{Auction: auction}

	if auction.CurrentPlayerID != nil {
		player, err := s.playerRepo.GetByID(ctx, nil, *auction.CurrentPlayerID)
		if err != nil {
			return nil, err
		}
		state.CurrentPlayer = player

		highest, err := s.bidRepo.GetHighest(ctx, nil, auctionID, player.ID)
		if err != nil && !errors.Is(err, repositories.ErrBidNotFound) {
			return nil, err
		}
		state.HighestBid = highest
	}

	timer, err := s.timers.Get(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("read countdown state: %w", err)
	}
	state.RemainingSeconds = timer.RemainingSeconds
	state.TimerPaused = timer.Paused()

	return state, nil
}

func (s *auctionService) Start(ctx context.Context, auctionID int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin start transaction: %w", err)
	}
	defer tx.Rollback()

	auction, err := s.auctionRepo.GetByID(ctx, tx, auctionID)
	if err != nil {
		return err
	}
	if auction.Status != models.AuctionStatusPending {
		return fmt.Errorf("%w: cannot start a %s auction", ErrInvalidStatusTransition, auction.Status)
	}

	next, err := s.queueRepo.NextPending(ctx, tx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return ErrEmptyQueue
		}
		return err
	}

	if err := s.queueRepo.MarkInProgress(ctx, tx, auctionID, next.PlayerID); err != nil {
		return err
	}
	if err := s.auctionRepo.SetCurrentPlayer(ctx, tx, auctionID, &next.PlayerID); err != nil {
		return err
	}
	if err := s.auctionRepo.UpdateStatus(ctx, tx, auctionID, models.AuctionStatusActive); err != nil {
		return err
	}

	player, err := s.playerRepo.GetByID(ctx, tx, next.PlayerID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit start transaction: %w", err)
	}

	if err := s.timers.Start(ctx, auctionID, auction.TimerSeconds); err != nil {
		s.logger.Error("failed to start countdown", slog.Int("auction_id", auctionID), slog.Any("error", err))
	}

	s.publish(ctx, auctionID,
		live.Event{Type: live.EventAuctionStarted, Data: live.AuctionStatusPayload{AuctionID: auctionID, Status: string(models.AuctionStatusActive)}},
		onBlockEvent(player),
	)
	return nil
}

func (s *auctionService) Pause(ctx context.Context, auctionID int) error {
	auction, err := s.auctionRepo.GetByID(ctx, nil, auctionID)
	if err != nil {
		return err
	}
	if auction.Status != models.AuctionStatusActive {
		return fmt.Errorf("%w: cannot pause a %s auction", ErrInvalidStatusTransition, auction.Status)
	}
	if err := s.auctionRepo.UpdateStatus(ctx, nil, auctionID, models.AuctionStatusPaused); err != nil {
		return err
	}
	if err := s.timers.Pause(ctx, auctionID); err != nil {
		s.logger.Warn("failed to pause countdown", slog.Int("auction_id", auctionID), slog.Any("error", err))
	}
	s.publish(ctx, auctionID,
		live.Event{Type: live.EventAuctionPaused, Data: live.AuctionStatusPayload{AuctionID: auctionID, Status: string(models.AuctionStatusPaused)}})
	return nil
}

func (s *auctionService) Resume(ctx context.Context, auctionID int) error {
	auction, err := s.auctionRepo.GetByID(ctx, nil, auctionID)
	if err != nil {
		return err
	}
	if auction.Status != models.AuctionStatusPaused {
		return fmt.Errorf("%w: cannot resume a %s auction", ErrInvalidStatusTransition, auction.Status)
	}
	if err := s.auctionRepo.UpdateStatus(ctx, nil, auctionID, models.AuctionStatusActive); err != nil {
		return err
	}
	if err := s.timers.Resume(ctx, auctionID); err != nil {
		s.logger.Warn("failed to resume countdown", slog.Int("auction_id", auctionID), slog.Any("error", err))
	}
	s.publish(ctx, auctionID,
		live.Event{Type: live.EventAuctionResumed, Data: live.AuctionStatusPayload{AuctionID: auctionID, Status: string(models.AuctionStatusActive)}})
	return nil
}

func (s *auctionService) FinalizeCurrentPlayer(ctx context.Context, auctionID int) error {
	auction, err := s.auctionRepo.GetByID(ctx, nil, auctionID)
	if err != nil {
		return err
	}
	if auction.CurrentPlayerID == nil {
		return nil
	}
	_, err = s.finalizePlayer(ctx, auctionID, *auction.CurrentPlayerID)
	return err
}

// finalizePlayer owns the terminal sold/unsold decision for one lot. It takes
// the same lot lock as bid placement, so an in-flight bid and an expiry can
// never interleave. Calling it on an already-closed lot is a no-op.
func (s *auctionService) finalizePlayer(ctx context.Context, auctionID, playerID int) (finalized bool, err error) {
	unlock := s.locks.Lock(auctionID, playerID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin finalize transaction: %w", err)
	}
	defer tx.Rollback()

	events, finalized, err := s.finalizeTx(ctx, tx, auctionID, playerID)
	if err != nil {
		return false, err
	}
	if !finalized {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit finalize transaction: %w", err)
	}

	if err := s.timers.Clear(ctx, auctionID); err != nil {
		s.logger.Warn("failed to clear countdown", slog.Int("auction_id", auctionID), slog.Any("error", err))
	}
	s.publish(ctx, auctionID, events...)
	return true, nil
}

func (s *auctionService) finalizeTx(ctx context.Context, tx *sql.Tx, auctionID, playerID int) ([]live.Event, bool, error) {
	entry, err := s.queueRepo.GetByAuctionAndPlayer(ctx, tx, auctionID, playerID)
	if err != nil {
		return nil, false, err
	}
	if entry.Status != models.QueueEntryInProgress {
		// Already terminal; a concurrent expiry or advance beat us to it.
		return nil, false, nil
	}

	// Standing instructions cannot act on a closed lot.
	if err := s.autoBidRepo.DeactivateAllForPlayer(ctx, tx, entry.ID); err != nil {
		return nil, false, fmt.Errorf("deactivate auto-bids: %w", err)
	}

	player, err := s.playerRepo.GetByID(ctx, tx, playerID)
	if err != nil {
		return nil, false, err
	}

	highest, err := s.bidRepo.GetHighest(ctx, tx, auctionID, playerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrBidNotFound) {
			return nil, false, err
		}
		// No bids at all.
		if err := s.queueRepo.MarkUnsold(ctx, tx, auctionID, playerID); err != nil {
			return nil, false, err
		}
		return []live.Event{unsoldEvent(player.ID, player.Name)}, true, nil
	}

	if player.ReservePrice != nil && highest.Amount.LessThan(*player.ReservePrice) {
		if err := s.queueRepo.MarkUnsold(ctx, tx, auctionID, playerID); err != nil {
			return nil, false, err
		}
		return []live.Event{unsoldEvent(player.ID, player.Name+" (Reserve not met)")}, true, nil
	}

	auction, err := s.auctionRepo.GetByID(ctx, tx, auctionID)
	if err != nil {
		return nil, false, err
	}
	violation, err := s.squadViolation(ctx, tx, auction, highest.TeamID, player)
	if err != nil {
		return nil, false, err
	}
	if violation != "" {
		if err := s.queueRepo.MarkUnsold(ctx, tx, auctionID, playerID); err != nil {
			return nil, false, err
		}
		return []live.Event{unsoldEvent(player.ID, player.Name+" ("+violation+")")}, true, nil
	}

	if err := s.queueRepo.MarkSold(ctx, tx, auctionID, playerID, highest.TeamID, highest.Amount); err != nil {
		return nil, false, err
	}
	if err := s.teamRepo.DeductBudget(ctx, tx, highest.TeamID, highest.Amount); err != nil {
		return nil, false, err
	}

	return []live.Event{{
		Type: live.EventPlayerSold,
		Data: live.PlayerSoldPayload{
			PlayerID:    player.ID,
			PlayerName:  player.Name,
			TeamID:      highest.TeamID,
			TeamName:    highest.TeamName,
			FinalAmount: highest.Amount,
		},
	}}, true, nil
}

// squadViolation returns a human-readable reason when awarding the player
// would break the tournament's per-position limits, empty string otherwise.
func (s *auctionService) squadViolation(ctx context.Context, exec repositories.SQLExecutor, auction *models.Auction, teamID int, player *models.Player) (string, error) {
	if player.Position == nil {
		return "", nil
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, exec, auction.TournamentID)
	if err != nil {
		return "", err
	}
	rule, ok := tournament.SquadRules[*player.Position]
	if !ok || rule.Max <= 0 {
		return "", nil
	}

	composition, err := s.teamRepo.SquadComposition(ctx, exec, teamID, auction.ID)
	if err != nil {
		return "", fmt.Errorf("load squad composition: %w", err)
	}
	if composition[*player.Position] >= rule.Max {
		return fmt.Sprintf("Maximum %d %s(s) allowed", rule.Max, *player.Position), nil
	}
	return "", nil
}

func (s *auctionService) AdvanceToNextPlayer(ctx context.Context, auctionID int) (*models.AuctionPlayer, error) {
	auction, err := s.auctionRepo.GetByID(ctx, nil, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Status != models.AuctionStatusActive {
		return nil, fmt.Errorf("%w: cannot advance a %s auction", ErrInvalidStatusTransition, auction.Status)
	}

	// Operator advance finalizes the open lot the same way expiry would.
	if auction.CurrentPlayerID != nil {
		if _, err := s.finalizePlayer(ctx, auctionID, *auction.CurrentPlayerID); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin advance transaction: %w", err)
	}
	defer tx.Rollback()

	next, err := s.queueRepo.NextPending(ctx, tx, auctionID)
	if err != nil {
		if !errors.Is(err, repositories.ErrQueueEntryNotFound) {
			return nil, err
		}
		// Queue exhausted: the auction is done.
		if err := s.auctionRepo.SetCurrentPlayer(ctx, tx, auctionID, nil); err != nil {
			return nil, err
		}
		if err := s.auctionRepo.UpdateStatus(ctx, tx, auctionID, models.AuctionStatusCompleted); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit advance transaction: %w", err)
		}

		if err := s.timers.Clear(ctx, auctionID); err != nil {
			s.logger.Warn("failed to clear countdown", slog.Int("auction_id", auctionID), slog.Any("error", err))
		}
		s.publish(ctx, auctionID,
			live.Event{Type: live.EventAuctionCompleted, Data: live.AuctionStatusPayload{AuctionID: auctionID, Status: string(models.AuctionStatusCompleted)}})
		s.archive(ctx, auctionID)
		return nil, nil
	}

	if err := s.queueRepo.MarkInProgress(ctx, tx, auctionID, next.PlayerID); err != nil {
		return nil, err
	}
	if err := s.auctionRepo.SetCurrentPlayer(ctx, tx, auctionID, &next.PlayerID); err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, tx, next.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit advance transaction: %w", err)
	}

	if err := s.timers.Start(ctx, auctionID, auction.TimerSeconds); err != nil {
		s.logger.Error("failed to start countdown", slog.Int("auction_id", auctionID), slog.Any("error", err))
	}
	s.publish(ctx, auctionID, onBlockEvent(player))
	next.Player = player
	return next, nil
}

func (s *auctionService) archive(ctx context.Context, auctionID int) {
	if s.archiver == nil {
		return
	}
	location, err := s.archiver.ArchiveAuction(ctx, auctionID)
	if err != nil {
		s.logger.Warn("failed to archive auction event log",
			slog.Int("auction_id", auctionID), slog.Any("error", err))
		return
	}
	s.logger.Info("auction event log archived",
		slog.Int("auction_id", auctionID), slog.String("location", location))
}

func (s *auctionService) publish(ctx context.Context, auctionID int, events ...live.Event) {
	for _, event := range events {
		s.hub.BroadcastToAuction(auctionID, event)
		s.recorder.Record(ctx, auctionID, event.Type, event.Data)
	}
}

func onBlockEvent(player *models.Player) live.Event {
	return live.Event{
		Type: live.EventPlayerOnBlock,
		Data: live.PlayerOnBlockPayload{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			BasePrice:  player.BasePrice,
			Position:   player.Position,
		},
	}
}

func unsoldEvent(playerID int, name string) live.Event {
	return live.Event{
		Type: live.EventPlayerUnsold,
		Data: live.PlayerUnsoldPayload{PlayerID: playerID, PlayerName: name},
	}
}
