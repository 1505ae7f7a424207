package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/Dosada05/auction-system/timerstore"
	"github.com/shopspring/decimal"
)

// The services only use *sql.DB for transaction demarcation; all data access
// goes through repository fakes. This stub driver gives BeginTx/Commit
// something to talk to without a database.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubDriver sync.Once

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerStubDriver.Do(func() {
		sql.Register("enginestub", stubDriver{})
	})
	db, err := sql.Open("enginestub", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fakeAuctionRepo struct {
	mu       sync.Mutex
	auctions map[int]*models.Auction
}

func (r *fakeAuctionRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[id]
	if !ok {
		return nil, repositories.ErrAuctionNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAuctionRepo) ListByStatus(ctx context.Context, status models.AuctionStatus) ([]*models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Auction
	for _, a := range r.auctions {
		if a.Status == status {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.AuctionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[id]
	if !ok {
		return repositories.ErrAuctionNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAuctionRepo) SetCurrentPlayer(ctx context.Context, exec repositories.SQLExecutor, id int, playerID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[id]
	if !ok {
		return repositories.ErrAuctionNotFound
	}
	a.CurrentPlayerID = playerID
	return nil
}

type fakeQueueRepo struct {
	mu      sync.Mutex
	entries []*models.AuctionPlayer
}

func (r *fakeQueueRepo) find(auctionID, playerID int) *models.AuctionPlayer {
	for _, e := range r.entries {
		if e.AuctionID == auctionID && e.PlayerID == playerID {
			return e
		}
	}
	return nil
}

func (r *fakeQueueRepo) InsertQueue(ctx context.Context, exec repositories.SQLExecutor, auctionID int, orderedPlayerIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, playerID := range orderedPlayerIDs {
		r.entries = append(r.entries, &models.AuctionPlayer{
			ID:         len(r.entries) + 1,
			AuctionID:  auctionID,
			PlayerID:   playerID,
			OrderIndex: idx,
			Status:     models.QueueEntryPending,
		})
	}
	return nil
}

func (r *fakeQueueRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.AuctionPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrQueueEntryNotFound
}

func (r *fakeQueueRepo) ListByAuction(ctx context.Context, auctionID int) ([]*models.AuctionPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuctionPlayer
	for _, e := range r.entries {
		if e.AuctionID == auctionID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeQueueRepo) GetByAuctionAndPlayer(ctx context.Context, exec repositories.SQLExecutor, auctionID, playerID int) (*models.AuctionPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.find(auctionID, playerID)
	if e == nil {
		return nil, repositories.ErrQueueEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeQueueRepo) NextPending(ctx context.Context, exec repositories.SQLExecutor, auctionID int) (*models.AuctionPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var next *models.AuctionPlayer
	for _, e := range r.entries {
		if e.AuctionID != auctionID || e.Status != models.QueueEntryPending {
			continue
		}
		if next == nil || e.OrderIndex < next.OrderIndex {
			next = e
		}
	}
	if next == nil {
		return nil, repositories.ErrQueueEntryNotFound
	}
	copied := *next
	return &copied, nil
}

func (r *fakeQueueRepo) MarkInProgress(ctx context.Context, exec repositories.SQLExecutor, auctionID, playerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.find(auctionID, playerID)
	if e == nil || e.Status != models.QueueEntryPending {
		return repositories.ErrQueueEntryNotFound
	}
	e.Status = models.QueueEntryInProgress
	return nil
}

func (r *fakeQueueRepo) MarkSold(ctx context.Context, exec repositories.SQLExecutor, auctionID, playerID, teamID int, finalPrice decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.find(auctionID, playerID)
	if e == nil || e.Status != models.QueueEntryInProgress {
		return repositories.ErrQueueEntryNotFound
	}
	now := time.Now()
	e.Status = models.QueueEntrySold
	e.SoldToTeamID = &teamID
	e.FinalPrice = &finalPrice
	e.EndedAt = &now
	return nil
}

func (r *fakeQueueRepo) MarkUnsold(ctx context.Context, exec repositories.SQLExecutor, auctionID, playerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.find(auctionID, playerID)
	if e == nil || e.Status != models.QueueEntryInProgress {
		return repositories.ErrQueueEntryNotFound
	}
	now := time.Now()
	e.Status = models.QueueEntryUnsold
	e.EndedAt = &now
	return nil
}

type fakeBidRepo struct {
	mu       sync.Mutex
	bids     []*models.Bid
	nextID   int
	spent    map[int]decimal.Decimal // teamID -> committed spend
	teamName func(teamID int) string
}

func (r *fakeBidRepo) Create(ctx context.Context, exec repositories.SQLExecutor, bid *models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	bid.ID = r.nextID
	// Strictly increasing timestamps so ordering by created_at is stable.
	bid.CreatedAt = time.Unix(0, int64(r.nextID)*int64(time.Millisecond))
	copied := *bid
	r.bids = append(r.bids, &copied)
	return nil
}

func (r *fakeBidRepo) withTeam(b *models.Bid) *models.BidWithTeam {
	name := ""
	if r.teamName != nil {
		name = r.teamName(b.TeamID)
	}
	return &models.BidWithTeam{Bid: *b, TeamName: name}
}

func (r *fakeBidRepo) GetHighest(ctx context.Context, exec repositories.SQLExecutor, auctionID, playerID int) (*models.BidWithTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Bid
	for _, b := range r.bids {
		if b.AuctionID != auctionID || b.PlayerID != playerID {
			continue
		}
		if best == nil || b.Amount.GreaterThan(best.Amount) ||
			(b.Amount.Equal(best.Amount) && b.CreatedAt.Before(best.CreatedAt)) {
			best = b
		}
	}
	if best == nil {
		return nil, repositories.ErrBidNotFound
	}
	return r.withTeam(best), nil
}

func (r *fakeBidRepo) GetLatest(ctx context.Context, exec repositories.SQLExecutor, auctionID, playerID int) (*models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Bid
	for _, b := range r.bids {
		if b.AuctionID != auctionID || b.PlayerID != playerID {
			continue
		}
		if latest == nil || b.ID > latest.ID {
			latest = b
		}
	}
	if latest == nil {
		return nil, repositories.ErrBidNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeBidRepo) ListForPlayer(ctx context.Context, auctionID, playerID int) ([]*models.BidWithTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BidWithTeam
	for _, b := range r.bids {
		if b.AuctionID == auctionID && b.PlayerID == playerID {
			out = append(out, r.withTeam(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeBidRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, bidID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bids {
		if b.ID == bidID {
			r.bids = append(r.bids[:i], r.bids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrBidNotFound
}

func (r *fakeBidRepo) TeamTotalSpent(ctx context.Context, exec repositories.SQLExecutor, teamID, auctionID int) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spent == nil {
		return decimal.Zero, nil
	}
	return r.spent[teamID], nil
}

func (r *fakeBidRepo) all(auctionID, playerID int) []*models.Bid {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID && b.PlayerID == playerID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[int]*models.Team
	// squads is sold players per position, keyed by teamID.
	squads map[int]map[string]int
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) GetByOwner(ctx context.Context, exec repositories.SQLExecutor, tournamentID, ownerID int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TournamentID == tournamentID && t.OwnerID == ownerID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Team
	for _, t := range r.teams {
		if t.TournamentID == tournamentID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) DeductBudget(ctx context.Context, exec repositories.SQLExecutor, teamID int, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.RemainingBudget = t.RemainingBudget.Sub(amount)
	return nil
}

func (r *fakeTeamRepo) SquadComposition(ctx context.Context, exec repositories.SQLExecutor, teamID, auctionID int) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int{}
	for pos, n := range r.squads[teamID] {
		out[pos] = n
	}
	return out, nil
}

func (r *fakeTeamRepo) name(teamID int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.teams[teamID]; ok {
		return t.Name
	}
	return ""
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[int]*models.Player
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *p
	return &copied, nil
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]*models.Tournament
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

type fakeAutoBidRepo struct {
	mu           sync.Mutex
	instructions []*models.AutoBid
	nextID       int
}

func (r *fakeAutoBidRepo) add(ab *models.AutoBid) *models.AutoBid {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ab.ID = r.nextID
	ab.IsActive = true
	ab.CreatedAt = time.Unix(0, int64(r.nextID)*int64(time.Millisecond))
	r.instructions = append(r.instructions, ab)
	return ab
}

func (r *fakeAutoBidRepo) Create(ctx context.Context, exec repositories.SQLExecutor, userID, auctionPlayerID int, maxAmount decimal.Decimal) (*models.AutoBid, error) {
	ab := r.add(&models.AutoBid{UserID: userID, AuctionPlayerID: auctionPlayerID, MaxAmount: maxAmount})
	copied := *ab
	return &copied, nil
}

func (r *fakeAutoBidRepo) ListActiveForPlayer(ctx context.Context, exec repositories.SQLExecutor, auctionPlayerID int) ([]*models.AutoBid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AutoBid
	for _, ab := range r.instructions {
		if ab.AuctionPlayerID == auctionPlayerID && ab.IsActive {
			copied := *ab
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MaxAmount.Equal(out[j].MaxAmount) {
			return out[i].MaxAmount.GreaterThan(out[j].MaxAmount)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeAutoBidRepo) ListByUser(ctx context.Context, userID, auctionID int) ([]*models.AutoBid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AutoBid
	for _, ab := range r.instructions {
		if ab.UserID == userID {
			copied := *ab
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAutoBidRepo) Deactivate(ctx context.Context, exec repositories.SQLExecutor, autoBidID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ab := range r.instructions {
		if ab.ID == autoBidID && ab.IsActive {
			ab.IsActive = false
			return nil
		}
	}
	return repositories.ErrAutoBidNotFound
}

func (r *fakeAutoBidRepo) DeactivateOwned(ctx context.Context, exec repositories.SQLExecutor, autoBidID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ab := range r.instructions {
		if ab.ID == autoBidID && ab.UserID == userID && ab.IsActive {
			ab.IsActive = false
			return nil
		}
	}
	return repositories.ErrAutoBidNotFound
}

func (r *fakeAutoBidRepo) DeactivateAllForPlayer(ctx context.Context, exec repositories.SQLExecutor, auctionPlayerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ab := range r.instructions {
		if ab.AuctionPlayerID == auctionPlayerID {
			ab.IsActive = false
		}
	}
	return nil
}

func (r *fakeAutoBidRepo) get(id int) *models.AutoBid {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ab := range r.instructions {
		if ab.ID == id {
			copied := *ab
			return &copied
		}
	}
	return nil
}

type notificationRecord struct {
	UserID  int
	Type    string
	Message string
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	records []notificationRecord
}

func (r *fakeNotificationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, userID int, notifType, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, notificationRecord{UserID: userID, Type: notifType, Message: message})
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID int, limit int) ([]*models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) byType(notifType string) []notificationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notificationRecord
	for _, rec := range r.records {
		if rec.Type == notifType {
			out = append(out, rec)
		}
	}
	return out
}

type fakeTimerStore struct {
	mu         sync.Mutex
	states     map[int]timerstore.State
	startCalls int
}

func newFakeTimerStore() *fakeTimerStore {
	return &fakeTimerStore{states: make(map[int]timerstore.State)}
}

func (s *fakeTimerStore) Start(ctx context.Context, auctionID, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startCalls++
	s.states[auctionID] = timerstore.State{RemainingSeconds: seconds, Status: timerstore.StatusRunning, Found: true}
	return nil
}

func (s *fakeTimerStore) Pause(ctx context.Context, auctionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[auctionID]
	if !ok {
		return errors.New("no timer")
	}
	st.Status = timerstore.StatusPaused
	s.states[auctionID] = st
	return nil
}

func (s *fakeTimerStore) Resume(ctx context.Context, auctionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[auctionID]
	if !ok {
		return errors.New("no timer")
	}
	st.Status = timerstore.StatusRunning
	s.states[auctionID] = st
	return nil
}

func (s *fakeTimerStore) Extend(ctx context.Context, auctionID, extraSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[auctionID]
	if !ok {
		return errors.New("no timer")
	}
	st.RemainingSeconds += extraSeconds
	s.states[auctionID] = st
	return nil
}

func (s *fakeTimerStore) Get(ctx context.Context, auctionID int) (timerstore.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[auctionID], nil
}

func (s *fakeTimerStore) Decrement(ctx context.Context, auctionID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[auctionID]
	st.RemainingSeconds--
	s.states[auctionID] = st
	return st.RemainingSeconds, nil
}

func (s *fakeTimerStore) Clear(ctx context.Context, auctionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, auctionID)
	return nil
}

func (s *fakeTimerStore) ActiveAuctions(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for id := range s.states {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

type captureHub struct {
	mu     sync.Mutex
	events []live.Event
}

func (h *captureHub) BroadcastToAuction(auctionID int, event live.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *captureHub) byType(eventType string) []live.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []live.Event
	for _, e := range h.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordedEvent struct {
	AuctionID int
	Type      string
	Data      interface{}
}

type captureRecorder struct {
	mu      sync.Mutex
	records []recordedEvent
}

func (r *captureRecorder) Record(ctx context.Context, auctionID int, eventType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedEvent{AuctionID: auctionID, Type: eventType, Data: data})
}

// engineFixture wires the services against in-memory fakes. The default
// world: auction 1 (tournament 1, 30s timer, increment 100) with player 10 on
// the block at base price 500, and four teams with 100000 budgets.
type engineFixture struct {
	bids     BidService
	auctions AuctionService
	autoBids AutoBidService

	auctionRepo *fakeAuctionRepo
	queueRepo   *fakeQueueRepo
	bidRepo     *fakeBidRepo
	teamRepo    *fakeTeamRepo
	playerRepo  *fakePlayerRepo
	autoRepo    *fakeAutoBidRepo
	tournRepo   *fakeTournamentRepo
	notifRepo   *fakeNotificationRepo
	timers      *fakeTimerStore
	hub         *captureHub
	recorder    *captureRecorder
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	playerID := 10
	f := &engineFixture{
		auctionRepo: &fakeAuctionRepo{auctions: map[int]*models.Auction{
			1: {
				ID:              1,
				TournamentID:    1,
				Name:            "Season auction",
				Status:          models.AuctionStatusActive,
				TimerSeconds:    30,
				BidIncrement:    dec(100),
				CurrentPlayerID: &playerID,
			},
		}},
		queueRepo: &fakeQueueRepo{entries: []*models.AuctionPlayer{
			{ID: 100, AuctionID: 1, PlayerID: 10, OrderIndex: 0, Status: models.QueueEntryInProgress},
			{ID: 101, AuctionID: 1, PlayerID: 11, OrderIndex: 1, Status: models.QueueEntryPending},
		}},
		bidRepo: &fakeBidRepo{spent: map[int]decimal.Decimal{}},
		teamRepo: &fakeTeamRepo{
			teams: map[int]*models.Team{
				1: {ID: 1, TournamentID: 1, Name: "Team A", OwnerID: 11, Budget: dec(100000), RemainingBudget: dec(100000)},
				2: {ID: 2, TournamentID: 1, Name: "Team B", OwnerID: 12, Budget: dec(100000), RemainingBudget: dec(100000)},
				3: {ID: 3, TournamentID: 1, Name: "Team C", OwnerID: 13, Budget: dec(100000), RemainingBudget: dec(100000)},
				4: {ID: 4, TournamentID: 1, Name: "Team D", OwnerID: 14, Budget: dec(100000), RemainingBudget: dec(100000)},
			},
			squads: map[int]map[string]int{},
		},
		playerRepo: &fakePlayerRepo{players: map[int]*models.Player{
			10: {ID: 10, Name: "Aiden Cole", BasePrice: dec(500)},
			11: {ID: 11, Name: "Marco Reyes", BasePrice: dec(300)},
		}},
		autoRepo:  &fakeAutoBidRepo{},
		tournRepo: &fakeTournamentRepo{tournaments: map[int]*models.Tournament{1: {ID: 1, Name: "Premier", SquadRules: models.SquadRules{}}}},
		notifRepo: &fakeNotificationRepo{},
		timers:    newFakeTimerStore(),
		hub:       &captureHub{},
		recorder:  &captureRecorder{},
	}
	f.bidRepo.teamName = f.teamRepo.name

	db := newStubDB(t)
	locks := NewLotLocker()
	logger := testLogger()

	f.bids = NewBidService(
		db, f.auctionRepo, f.queueRepo, f.bidRepo, f.teamRepo, f.playerRepo,
		f.autoRepo, f.notifRepo, f.timers, f.hub, f.recorder, locks, logger,
	)
	f.auctions = NewAuctionService(
		db, f.auctionRepo, f.queueRepo, f.bidRepo, f.teamRepo, f.playerRepo,
		f.autoRepo, f.tournRepo, f.timers, f.hub, f.recorder, locks, nil, logger,
	)
	f.autoBids = NewAutoBidService(f.autoRepo, f.queueRepo)
	return f
}
