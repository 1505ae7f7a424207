package services

import (
	"context"
	"testing"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAutoBid(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	ab, err := f.autoBids.Create(ctx, 13, 1, 100, dec(2000))
	require.NoError(t, err)
	assert.True(t, ab.IsActive)
	assert.True(t, ab.MaxAmount.Equal(dec(2000)))
}

func TestCreateAutoBidRejectsNonPositiveMax(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.autoBids.Create(ctx, 13, 1, 100, dec(0))
	assert.ErrorIs(t, err, ErrAutoBidInvalidMax)

	_, err = f.autoBids.Create(ctx, 13, 1, 100, dec(-50))
	assert.ErrorIs(t, err, ErrAutoBidInvalidMax)
}

func TestCreateAutoBidRejectsClosedLot(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	f.queueRepo.entries[0].Status = models.QueueEntrySold
	_, err := f.autoBids.Create(ctx, 13, 1, 100, dec(2000))
	assert.ErrorIs(t, err, ErrLotClosed)
}

func TestCreateAutoBidChecksLotBelongsToAuction(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// Entry 100 belongs to auction 1, not auction 2.
	_, err := f.autoBids.Create(ctx, 13, 2, 100, dec(2000))
	assert.ErrorIs(t, err, repositories.ErrQueueEntryNotFound)
}

func TestDeactivateAutoBidRequiresOwnership(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	ab, err := f.autoBids.Create(ctx, 13, 1, 100, dec(2000))
	require.NoError(t, err)

	// Someone else's instruction stays untouched.
	err = f.autoBids.Deactivate(ctx, 14, ab.ID)
	assert.ErrorIs(t, err, repositories.ErrAutoBidNotFound)
	assert.True(t, f.autoRepo.get(ab.ID).IsActive)

	require.NoError(t, f.autoBids.Deactivate(ctx, 13, ab.ID))
	assert.False(t, f.autoRepo.get(ab.ID).IsActive)
}
