// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package matchmaker groups available hackathon participants into suggested
// teams and hands the suggestions over to persistence and notification.
package matchmaker

import (
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

/*
ParticipantSource provides the point-in-time snapshot a formation run works on. The orchestrator reads it exactly once
per run and never writes back to it; participants consumed by a team are tracked in memory for the rest of the run.

Implementations must return only participants with AvailableForTeam set, in a stable order, so that the same pool
always produces the same teams. ID identifies a participant for the whole run: it must be non-zero and unique within the
snapshot, otherwise the run fails with models.ErrInvalidParticipant.
*/
type ParticipantSource interface {
	// ListAvailableParticipants returns every participant currently open to a team suggestion.
	ListAvailableParticipants(scope *envelope.Scope) ([]models.Participant, error)
}

// SuggestionSink persists the suggestions of one run.
type SuggestionSink interface {
	// SaveSuggestions writes all suggestions of runID or none of them. Saved suggestions get their IDs filled in.
	SaveSuggestions(scope *envelope.Scope, runID string, suggestions []models.MatchSuggestion) error
}

// Notifier delivers saved suggestions to the suggested participants.
type Notifier interface {
	// NotifySuggestions sends one message per suggestion. A failed delivery is counted, not returned as an error.
	NotifySuggestions(scope *envelope.Scope, result models.FormationResult, suggestions []models.MatchSuggestion) models.NotificationReport
}
