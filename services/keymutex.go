package services

import "sync"

type lotKey struct {
	auctionID int
	playerID  int
}

// LotLocker hands out one mutex per (auction, player) pair. Bid placement and
// finalization both take this lock and hold it across their database work, so
// no two commits can observe the same prior highest bid. A per-lot lock keeps
// unrelated auctions from serializing behind each other.
type LotLocker struct {
	mu      sync.Mutex
	entries map[lotKey]*lotEntry
}

type lotEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLotLocker() *LotLocker {
	return &LotLocker{entries: make(map[lotKey]*lotEntry)}
}

// Lock blocks until the lot is owned and returns the release function.
// Entries are reference-counted so the map does not grow with every lot ever
// auctioned.
func (l *LotLocker) Lock(auctionID, playerID int) func() {
	key := lotKey{auctionID: auctionID, playerID: playerID}

	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lotEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
