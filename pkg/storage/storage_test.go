// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/testsetup"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, TypeSQLite, filepath.Join(t.TempDir(), "teambot.db"), logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))
	return store
}

func seedParticipants(t *testing.T, store *Store, participants ...models.Participant) {
	t.Helper()
	require.NoError(t, store.db.Create(&participants).Error)
}

func teamSuggestions(runID string, teamID int, participantIDs ...uint) []models.MatchSuggestion {
	out := make([]models.MatchSuggestion, 0, len(participantIDs))
	for _, id := range participantIDs {
		out = append(out, models.MatchSuggestion{
			ParticipantID: id,
			RunID:         runID,
			TeamKey:       models.TeamKey(runID, teamID),
			TeamName:      "Python Squad #1",
			Score:         90,
			Reasons:       []byte(`{"type":"auto_formation"}`),
			Status:        models.SuggestionPending,
			ExpiresAt:     testNow.Add(72 * time.Hour).UnixMilli(),
		})
	}
	return out
}

func participant(id uint) models.Participant {
	return testsetup.NewParticipant(id, "Curitiba", models.ModalityRemote, models.EducationUndergraduate, "python")
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(context.Background(), "mongodb", "x", logrus.New())
	assert.Error(t, err)
}

func TestListAvailableParticipants(t *testing.T) {
	store := newTestStore(t)
	closed := participant(2)
	closed.AvailableForTeam = false
	seedParticipants(t, store, participant(3), closed, participant(1))

	got, err := store.ListAvailableParticipants(testsetup.NewTestScope())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
	assert.Equal(t, "python", got[0].Skills())
}

func TestSetAvailability_UnknownUser(t *testing.T) {
	store := newTestStore(t)
	err := store.SetAvailability(testsetup.NewTestScope(), "404", true)
	assert.ErrorIs(t, err, models.ErrParticipantNotFound)
}

func TestSaveSuggestions(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	seedParticipants(t, store, participant(1), participant(2), participant(3))

	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))
	for _, s := range suggestions {
		assert.NotZero(t, s.ID)
	}

	saved, err := store.ListSuggestions(scope, "run-a")
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.JSONEq(t, `{"type":"auto_formation"}`, string(saved[0].Reasons))
}

func TestSaveSuggestions_SameRunTwiceFails(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	seedParticipants(t, store, participant(1), participant(2), participant(3))

	require.NoError(t, store.SaveSuggestions(scope, "run-a", teamSuggestions("run-a", 1, 1, 2, 3)))
	assert.Error(t, store.SaveSuggestions(scope, "run-a", teamSuggestions("run-a", 1, 1, 2, 3)))

	saved, err := store.ListSuggestions(scope, "run-a")
	require.NoError(t, err)
	assert.Len(t, saved, 3)
}

func TestSaveSuggestions_SupersedesOlderRuns(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	seedParticipants(t, store, participant(1), participant(2), participant(3), participant(4))

	require.NoError(t, store.SaveSuggestions(scope, "run-a", teamSuggestions("run-a", 1, 1, 2, 3)))
	require.NoError(t, store.SaveSuggestions(scope, "run-b", teamSuggestions("run-b", 1, 2, 3, 4)))

	old, err := store.ListSuggestions(scope, "run-a")
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionPending, old[0].Status, "participant 1 is not in the new run")
	assert.Equal(t, models.SuggestionExpired, old[1].Status)
	assert.Equal(t, models.SuggestionExpired, old[2].Status)
}

func TestAcceptSuggestion_ConfirmsTeamWhenEveryoneAccepts(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	members := []models.Participant{participant(1), participant(2), participant(3)}
	seedParticipants(t, store, members...)
	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))

	for i, s := range suggestions[:2] {
		result, err := store.AcceptSuggestion(scope, s.ID, members[i].DiscordUserID, testNow)
		require.NoError(t, err)
		assert.False(t, result.TeamConfirmed)
		assert.Equal(t, models.SuggestionAccepted, result.Suggestion.Status)
	}

	result, err := store.AcceptSuggestion(scope, suggestions[2].ID, members[2].DiscordUserID, testNow)
	require.NoError(t, err)
	assert.True(t, result.TeamConfirmed)
	require.Len(t, result.Team, 3)
	assert.Equal(t, "Python Squad #1", *result.Team[0].Participant.TeamName)

	available, err := store.ListAvailableParticipants(scope)
	require.NoError(t, err)
	assert.Empty(t, available)

	var named []models.Participant
	require.NoError(t, store.db.Where("team_name = ?", "Python Squad #1").Find(&named).Error)
	assert.Len(t, named, 3)
}

func TestAcceptSuggestion_Refusals(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	owner := participant(1)
	seedParticipants(t, store, owner, participant(2), participant(3))
	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))
	id := suggestions[0].ID

	_, err := store.AcceptSuggestion(scope, 999, owner.DiscordUserID, testNow)
	assert.ErrorIs(t, err, models.ErrSuggestionNotFound)

	_, err = store.AcceptSuggestion(scope, id, participant(2).DiscordUserID, testNow)
	assert.ErrorIs(t, err, models.ErrSuggestionNotFound, "someone else's suggestion")

	_, err = store.AcceptSuggestion(scope, id, owner.DiscordUserID, testNow.Add(73*time.Hour))
	assert.ErrorIs(t, err, models.ErrSuggestionExpired)

	_, err = store.AcceptSuggestion(scope, id, owner.DiscordUserID, testNow)
	require.NoError(t, err)
	_, err = store.AcceptSuggestion(scope, id, owner.DiscordUserID, testNow)
	assert.ErrorIs(t, err, models.ErrSuggestionNotPending)
}

func TestAcceptSuggestion_ParticipantAlreadyClosed(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	owner := participant(1)
	seedParticipants(t, store, owner, participant(2), participant(3))
	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))
	require.NoError(t, store.SetAvailability(scope, owner.DiscordUserID, false))

	_, err := store.AcceptSuggestion(scope, suggestions[0].ID, owner.DiscordUserID, testNow)
	assert.ErrorIs(t, err, models.ErrParticipantUnavailable)
}

func TestRejectSuggestion(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	owner := participant(1)
	seedParticipants(t, store, owner, participant(2), participant(3))
	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))

	long := ""
	for i := 0; i < 40; i++ {
		long += "não curti "
	}
	rejected, err := store.RejectSuggestion(scope, suggestions[0].ID, owner.DiscordUserID, long, testNow)

	require.NoError(t, err)
	assert.Equal(t, models.SuggestionRejected, rejected.Status)
	assert.Len(t, []rune(rejected.RejectReason), 300)
	require.NotNil(t, rejected.RespondedAt)
	assert.Equal(t, testNow.UnixMilli(), *rejected.RespondedAt)

	available, err := store.ListAvailableParticipants(scope)
	require.NoError(t, err)
	assert.Len(t, available, 3, "rejecting keeps the participant in the pool")

	_, err = store.RejectSuggestion(scope, suggestions[0].ID, owner.DiscordUserID, "", testNow)
	assert.ErrorIs(t, err, models.ErrSuggestionNotPending)
}

func TestExpireSuggestions(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	seedParticipants(t, store, participant(1), participant(2), participant(3))
	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	suggestions[0].ExpiresAt = testNow.Add(-time.Minute).UnixMilli()
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))

	n, err := store.ExpireSuggestions(scope, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.ExpireSuggestions(scope, testNow)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.AcceptSuggestion(scope, suggestions[0].ID, participant(1).DiscordUserID, testNow)
	assert.ErrorIs(t, err, models.ErrSuggestionExpired)
}

func TestDissolvedTeams_ReopenAcceptedMembers(t *testing.T) {
	tests := []struct {
		name     string
		dropOut  func(t *testing.T, store *Store, suggestions []models.MatchSuggestion)
		wantStatus models.SuggestionStatus
	}{
		{
			name: "teammate rejects",
			dropOut: func(t *testing.T, store *Store, suggestions []models.MatchSuggestion) {
				_, err := store.RejectSuggestion(testsetup.NewTestScope(), suggestions[1].ID, participant(2).DiscordUserID, "", testNow)
				require.NoError(t, err)
			},
			wantStatus: models.SuggestionRejected,
		},
		{
			name: "teammate expires",
			dropOut: func(t *testing.T, store *Store, suggestions []models.MatchSuggestion) {
				require.NoError(t, store.db.Model(&models.MatchSuggestion{}).Where("id = ?", suggestions[1].ID).
					Update("expires_at", testNow.Add(-time.Minute).UnixMilli()).Error)
				n, err := store.ExpireSuggestions(testsetup.NewTestScope(), testNow)
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
			},
			wantStatus: models.SuggestionExpired,
		},
		{
			name: "teammate is suggested again by a newer run",
			dropOut: func(t *testing.T, store *Store, suggestions []models.MatchSuggestion) {
				require.NoError(t, store.SaveSuggestions(testsetup.NewTestScope(), "run-b", teamSuggestions("run-b", 1, 2, 4, 5)))
			},
			wantStatus: models.SuggestionExpired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			scope := testsetup.NewTestScope()
			seedParticipants(t, store, participant(1), participant(2), participant(3), participant(4), participant(5))
			suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
			require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))

			_, err := store.AcceptSuggestion(scope, suggestions[0].ID, participant(1).DiscordUserID, testNow)
			require.NoError(t, err)

			tt.dropOut(t, store, suggestions)

			saved, err := store.ListSuggestions(scope, "run-a")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, saved[1].Status)

			var first models.Participant
			require.NoError(t, store.db.First(&first, 1).Error)
			assert.True(t, first.AvailableForTeam, "the member who accepted is back in the pool")
			assert.Nil(t, first.TeamName)

			_, err = store.AcceptSuggestion(scope, suggestions[2].ID, participant(3).DiscordUserID, testNow)
			assert.ErrorIs(t, err, models.ErrTeamDissolved)

			var third models.Participant
			require.NoError(t, store.db.First(&third, 3).Error)
			assert.True(t, third.AvailableForTeam)
		})
	}
}

func TestExpireSuggestions_ConfirmedTeamsStayClosed(t *testing.T) {
	store := newTestStore(t)
	scope := testsetup.NewTestScope()
	seedParticipants(t, store, participant(1), participant(2), participant(3))
	suggestions := teamSuggestions("run-a", 1, 1, 2, 3)
	require.NoError(t, store.SaveSuggestions(scope, "run-a", suggestions))
	for i, s := range suggestions {
		_, err := store.AcceptSuggestion(scope, s.ID, participant(uint(i+1)).DiscordUserID, testNow)
		require.NoError(t, err)
	}

	n, err := store.ExpireSuggestions(scope, testNow.Add(100*time.Hour))

	require.NoError(t, err)
	assert.Zero(t, n)
	available, err := store.ListAvailableParticipants(scope)
	require.NoError(t, err)
	assert.Empty(t, available)
}
