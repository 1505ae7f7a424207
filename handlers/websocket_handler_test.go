package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/auction-system/middleware"
	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "observer-test-secret"

// stubTeamRepo embeds the interface so only GetByOwner needs a real body.
type stubTeamRepo struct {
	repositories.TeamRepository
	teams map[int]*models.Team // ownerID -> team
}

func (r *stubTeamRepo) GetByOwner(ctx context.Context, exec repositories.SQLExecutor, tournamentID, ownerID int) (*models.Team, error) {
	team, ok := r.teams[ownerID]
	if !ok || team.TournamentID != tournamentID {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func TestObserverIdentify(t *testing.T) {
	handler := &WebSocketHandler{
		teams: &stubTeamRepo{teams: map[int]*models.Team{
			13: {ID: 3, TournamentID: 1, Name: "Team C", OwnerID: 13},
		}},
		auth: middleware.NewAuthenticator(testJWTSecret),
	}
	auction := &models.Auction{ID: 1, TournamentID: 1}

	t.Run("no token is anonymous", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/auctions/1", nil)
		userID, teamID, err := handler.identify(r, auction)
		require.NoError(t, err)
		assert.Zero(t, userID)
		assert.Nil(t, teamID)
	})

	t.Run("token resolves user and owned team", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": 13, "role": "owner"})
		r := httptest.NewRequest("GET", "/ws/auctions/1?token="+token, nil)
		userID, teamID, err := handler.identify(r, auction)
		require.NoError(t, err)
		assert.Equal(t, 13, userID)
		require.NotNil(t, teamID)
		assert.Equal(t, 3, *teamID)
	})

	t.Run("user without a team in this tournament", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": 14, "role": "owner"})
		r := httptest.NewRequest("GET", "/ws/auctions/1?token="+token, nil)
		userID, teamID, err := handler.identify(r, auction)
		require.NoError(t, err)
		assert.Equal(t, 14, userID)
		assert.Nil(t, teamID)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws/auctions/1?token=not-a-token", nil)
		_, _, err := handler.identify(r, auction)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 13}).
			SignedString([]byte("wrong-secret"))
		require.NoError(t, err)
		r := httptest.NewRequest("GET", "/ws/auctions/1?token="+forged, nil)
		_, _, err = handler.identify(r, auction)
		assert.Error(t, err)
	})
}
