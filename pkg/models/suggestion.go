// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"fmt"

	"gorm.io/datatypes"
)

type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionRejected SuggestionStatus = "rejected"
	SuggestionExpired  SuggestionStatus = "expired"
)

// MatchSuggestion proposes that a participant joins a team formed by a run.
// TeamID stays nil until the team exists as its own record.
//
//nolint:lll // struct tags can't be split
type MatchSuggestion struct {
	ModelUintID
	ModelUnixTime

	ParticipantID uint         `json:"participant_id" gorm:"not null;uniqueIndex:idx_suggestion_participant_run"`
	Participant   *Participant `json:"-"              gorm:"foreignKey:ParticipantID"`
	RunID         string       `json:"run_id"         gorm:"not null;uniqueIndex:idx_suggestion_participant_run"`
	TeamKey       string       `json:"team_key"       gorm:"index;not null"`
	TeamName      string       `json:"team_name"`
	TeamID        *uint        `json:"team_id,omitempty"`

	Score   int              `json:"score"`
	Reasons datatypes.JSON   `json:"reasons"`
	Status  SuggestionStatus `json:"status"  gorm:"index;not null;default:pending"`

	RejectReason string `json:"reject_reason,omitempty"`
	ExpiresAt    int64  `json:"expires_at"   gorm:"index;not null"`
	RespondedAt  *int64 `json:"responded_at,omitempty"`
}

func (MatchSuggestion) TableName() string {
	return "match_suggestions"
}

// TeamKey identifies a formed team across the suggestions of its members.
func TeamKey(runID string, teamID int) string {
	return fmt.Sprintf("%s:%d", runID, teamID)
}

type SuggestedTeam struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Size    int      `json:"size"`
}

// MatchReasons is the JSON stored in MatchSuggestion.Reasons.
type MatchReasons struct {
	Type          string              `json:"type"`
	TeamScore     float64             `json:"team_score"`
	Details       CompatibilityDetail `json:"details"`
	SuggestedTeam SuggestedTeam       `json:"suggested_team"`
}

// NotificationReport counts the suggestion messages of one run.
type NotificationReport struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
