// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/elliotchance/pie/v2"
	"gorm.io/gorm"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// AcceptResult tells whether an accept completed its team.
type AcceptResult struct {
	Suggestion    models.MatchSuggestion
	TeamConfirmed bool
	// Team holds every suggestion of the same team, participants preloaded.
	Team []models.MatchSuggestion
}

// SaveSuggestions inserts the suggestions of one run in a single transaction.
// Pending suggestions the same participants got from earlier runs are expired
// first, which dissolves those teams. The unique (participant_id, run_id)
// index makes a replay of the same run fail instead of duplicating it.
func (s *Store) SaveSuggestions(rootScope *envelope.Scope, runID string, suggestions []models.MatchSuggestion) error {
	scope := rootScope.NewChildScope("Store.SaveSuggestions")
	defer scope.Finish()

	if len(suggestions) == 0 {
		return nil
	}
	participantIDs := pie.Unique(pie.Map(suggestions, func(m models.MatchSuggestion) uint { return m.ParticipantID }))

	err := s.db.WithContext(scope.Ctx).Transaction(func(tx *gorm.DB) error {
		superseded, err := expirePending(tx, "participant_id IN ? AND run_id <> ?", participantIDs, runID)
		if err != nil {
			return fmt.Errorf("expire superseded suggestions: %w", err)
		}
		if superseded > 0 {
			scope.Log.Infof("%d pending suggestions superseded by run %s", superseded, runID)
		}

		if err := tx.Create(&suggestions).Error; err != nil {
			return fmt.Errorf("insert suggestions: %w", err)
		}
		return nil
	})
	if err != nil {
		scope.RecordError(err)
		return err
	}

	return nil
}

// ListSuggestions returns the suggestions of a run, by id.
func (s *Store) ListSuggestions(rootScope *envelope.Scope, runID string) ([]models.MatchSuggestion, error) {
	scope := rootScope.NewChildScope("Store.ListSuggestions")
	defer scope.Finish()

	var suggestions []models.MatchSuggestion
	err := s.db.WithContext(scope.Ctx).Where("run_id = ?", runID).Order("id").Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("list suggestions of run %s: %w", runID, err)
	}
	return suggestions, nil
}

// AcceptSuggestion records that the participant with discordUserID accepts
// suggestion id. The participant leaves the pool. Once every member of the
// team has accepted, all of them get the team name.
func (s *Store) AcceptSuggestion(rootScope *envelope.Scope, id uint, discordUserID string, now time.Time) (AcceptResult, error) {
	scope := rootScope.NewChildScope("Store.AcceptSuggestion")
	defer scope.Finish()

	var result AcceptResult
	err := s.db.WithContext(scope.Ctx).Transaction(func(tx *gorm.DB) error {
		suggestion, err := answerableSuggestion(tx, id, discordUserID, now)
		if err != nil {
			return err
		}
		if !suggestion.Participant.AvailableForTeam {
			return models.ErrParticipantUnavailable
		}
		var dropped int64
		err = tx.Model(&models.MatchSuggestion{}).
			Where("team_key = ? AND status IN ?", suggestion.TeamKey, []models.SuggestionStatus{models.SuggestionRejected, models.SuggestionExpired}).
			Count(&dropped).Error
		if err != nil {
			return fmt.Errorf("check team %s: %w", suggestion.TeamKey, err)
		}
		if dropped > 0 {
			return models.ErrTeamDissolved
		}

		respondedAt := now.UnixMilli()
		suggestion.Status = models.SuggestionAccepted
		suggestion.RespondedAt = &respondedAt
		err = tx.Model(&models.MatchSuggestion{}).Where("id = ?", suggestion.ID).Updates(map[string]interface{}{
			"status":       suggestion.Status,
			"responded_at": respondedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("accept suggestion %d: %w", id, err)
		}

		suggestion.Participant.AvailableForTeam = false
		if err = tx.Model(&models.Participant{}).Where("id = ?", suggestion.ParticipantID).Update("available_for_team", false).Error; err != nil {
			return fmt.Errorf("close participant %d: %w", suggestion.ParticipantID, err)
		}

		var team []models.MatchSuggestion
		if err = tx.Preload("Participant").Where("team_key = ?", suggestion.TeamKey).Order("id").Find(&team).Error; err != nil {
			return fmt.Errorf("load team %s: %w", suggestion.TeamKey, err)
		}

		confirmed := pie.All(team, func(m models.MatchSuggestion) bool { return m.Status == models.SuggestionAccepted })
		if confirmed {
			memberIDs := pie.Map(team, func(m models.MatchSuggestion) uint { return m.ParticipantID })
			err = tx.Model(&models.Participant{}).Where("id IN ?", memberIDs).Update("team_name", suggestion.TeamName).Error
			if err != nil {
				return fmt.Errorf("name team %s: %w", suggestion.TeamKey, err)
			}
			for i := range team {
				team[i].Participant.TeamName = &suggestion.TeamName
			}
		}

		result = AcceptResult{Suggestion: suggestion, TeamConfirmed: confirmed, Team: team}
		return nil
	})
	if err != nil {
		scope.Log.WithField("suggestionID", id).Infof("accept refused: %s", err)
		return AcceptResult{}, err
	}

	if result.TeamConfirmed {
		scope.Log.Infof("team %q confirmed by all %d members", result.Suggestion.TeamName, len(result.Team))
	}
	return result, nil
}

// RejectSuggestion records a refusal. The participant stays available for
// later formations and teammates who already accepted are available again.
func (s *Store) RejectSuggestion(rootScope *envelope.Scope, id uint, discordUserID string, reason string, now time.Time) (models.MatchSuggestion, error) {
	scope := rootScope.NewChildScope("Store.RejectSuggestion")
	defer scope.Finish()

	reason = truncateRunes(reason, constants.RejectReasonMaxLength)

	var suggestion models.MatchSuggestion
	err := s.db.WithContext(scope.Ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		suggestion, err = answerableSuggestion(tx, id, discordUserID, now)
		if err != nil {
			return err
		}

		respondedAt := now.UnixMilli()
		suggestion.Status = models.SuggestionRejected
		suggestion.RejectReason = reason
		suggestion.RespondedAt = &respondedAt
		err = tx.Model(&models.MatchSuggestion{}).Where("id = ?", suggestion.ID).Updates(map[string]interface{}{
			"status":        suggestion.Status,
			"reject_reason": reason,
			"responded_at":  respondedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("reject suggestion %d: %w", id, err)
		}
		_, err = reopenAcceptedMembers(tx, []string{suggestion.TeamKey})
		return err
	})
	if err != nil {
		scope.Log.WithField("suggestionID", id).Infof("reject refused: %s", err)
		return models.MatchSuggestion{}, err
	}

	return suggestion, nil
}

// ExpireSuggestions marks every pending suggestion past its deadline expired
// and returns how many there were. Their teams are dissolved.
func (s *Store) ExpireSuggestions(rootScope *envelope.Scope, now time.Time) (int64, error) {
	scope := rootScope.NewChildScope("Store.ExpireSuggestions")
	defer scope.Finish()

	var expired int64
	err := s.db.WithContext(scope.Ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		expired, err = expirePending(tx, "expires_at <= ?", now.UnixMilli())
		return err
	})
	if err != nil {
		scope.RecordError(err)
		return 0, fmt.Errorf("expire suggestions: %w", err)
	}

	if expired > 0 {
		scope.Log.Infof("%d suggestions expired", expired)
	}
	return expired, nil
}

// expirePending expires the pending suggestions matching query and reopens
// the members who accepted a suggestion of the same teams.
func expirePending(tx *gorm.DB, query string, args ...interface{}) (int64, error) {
	pending := func() *gorm.DB {
		return tx.Model(&models.MatchSuggestion{}).Where("status = ?", models.SuggestionPending).Where(query, args...)
	}

	var teamKeys []string
	if err := pending().Distinct().Pluck("team_key", &teamKeys).Error; err != nil {
		return 0, fmt.Errorf("load teams to expire: %w", err)
	}
	if len(teamKeys) == 0 {
		return 0, nil
	}

	rv := pending().Update("status", models.SuggestionExpired)
	if rv.Error != nil {
		return 0, rv.Error
	}
	if _, err := reopenAcceptedMembers(tx, teamKeys); err != nil {
		return 0, err
	}
	return rv.RowsAffected, nil
}

// reopenAcceptedMembers puts back in the pool every participant who accepted a
// suggestion of teamKeys. Those teams can no longer be confirmed.
func reopenAcceptedMembers(tx *gorm.DB, teamKeys []string) (int64, error) {
	var participantIDs []uint
	err := tx.Model(&models.MatchSuggestion{}).
		Where("team_key IN ? AND status = ?", teamKeys, models.SuggestionAccepted).
		Pluck("participant_id", &participantIDs).Error
	if err != nil {
		return 0, fmt.Errorf("load accepted members: %w", err)
	}
	if len(participantIDs) == 0 {
		return 0, nil
	}

	rv := tx.Model(&models.Participant{}).
		Where("id IN ? AND team_name IS NULL", participantIDs).
		Update("available_for_team", true)
	if rv.Error != nil {
		return 0, fmt.Errorf("reopen accepted members: %w", rv.Error)
	}
	return rv.RowsAffected, nil
}

// answerableSuggestion loads a pending, unexpired suggestion owned by
// discordUserID. A suggestion of someone else is reported as not found.
func answerableSuggestion(tx *gorm.DB, id uint, discordUserID string, now time.Time) (models.MatchSuggestion, error) {
	var suggestion models.MatchSuggestion
	if err := tx.Preload("Participant").First(&suggestion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return suggestion, models.ErrSuggestionNotFound
		}
		return suggestion, fmt.Errorf("load suggestion %d: %w", id, err)
	}

	switch {
	case suggestion.Participant == nil || suggestion.Participant.DiscordUserID != discordUserID:
		return suggestion, models.ErrSuggestionNotFound
	case suggestion.Status == models.SuggestionExpired:
		return suggestion, models.ErrSuggestionExpired
	case suggestion.Status != models.SuggestionPending:
		return suggestion, models.ErrSuggestionNotPending
	case suggestion.ExpiresAt <= now.UnixMilli():
		return suggestion, models.ErrSuggestionExpired
	}
	return suggestion, nil
}

func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes])
}
