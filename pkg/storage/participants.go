// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"fmt"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// ListAvailableParticipants returns the participants open to suggestions, by id.
func (s *Store) ListAvailableParticipants(rootScope *envelope.Scope) ([]models.Participant, error) {
	scope := rootScope.NewChildScope("Store.ListAvailableParticipants")
	defer scope.Finish()

	var participants []models.Participant
	err := s.db.WithContext(scope.Ctx).
		Where("available_for_team = ?", true).
		Order("id").
		Find(&participants).Error
	if err != nil {
		scope.RecordError(err)
		return nil, fmt.Errorf("list available participants: %w", err)
	}

	scope.Log.Debugf("%d participants available", len(participants))
	return participants, nil
}

// SetAvailability opens or closes a participant to team suggestions.
func (s *Store) SetAvailability(rootScope *envelope.Scope, discordUserID string, available bool) error {
	scope := rootScope.NewChildScope("Store.SetAvailability")
	defer scope.Finish()

	rv := s.db.WithContext(scope.Ctx).
		Model(&models.Participant{}).
		Where("discord_user_id = ?", discordUserID).
		Update("available_for_team", available)
	if rv.Error != nil {
		return fmt.Errorf("set availability of %s: %w", discordUserID, rv.Error)
	}
	if rv.RowsAffected == 0 {
		return models.ErrParticipantNotFound
	}
	return nil
}
