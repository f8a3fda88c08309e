// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

// PairScore is the compatibility of two members of a candidate team.
type PairScore struct {
	P1    string  `json:"p1"`
	P2    string  `json:"p2"`
	Score float64 `json:"score"`
}

// CompatibilityDetail explains a team score. Every list is sorted and free of
// duplicates so the same team always serializes the same way.
type CompatibilityDetail struct {
	CommonSkills []string    `json:"common_skills"`
	Regions      []string    `json:"regions"`
	Modalities   []string    `json:"modalities"`
	Educations   []string    `json:"educations"`
	Pairs        []PairScore `json:"pairs"`
}

// CandidateTeam is a transient grouping considered during one formation run.
type CandidateTeam struct {
	Members []Participant
	Score   float64
	Detail  CompatibilityDetail
}

// MemberIDs returns the participant ids in member order.
func (c CandidateTeam) MemberIDs() []uint {
	ids := make([]uint, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

type MemberInfo struct {
	ParticipantID uint   `json:"participant_id"`
	DiscordUserID string `json:"discord_user_id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	Education     string `json:"education"`
	Skills        string `json:"skills,omitempty"`
}

// TeamResult is one formed team as reported to callers and notifications.
type TeamResult struct {
	ID            int                 `json:"id"`
	SuggestedName string              `json:"suggested_name"`
	Members       []MemberInfo        `json:"members"`
	Score         float64             `json:"score"`
	Detail        CompatibilityDetail `json:"detail"`
	Origin        string              `json:"origin"`
	Size          int                 `json:"size"`
}

// OtherMemberNames lists every member name except the one with discordUserID.
func (t TeamResult) OtherMemberNames(discordUserID string) []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		if m.DiscordUserID == discordUserID {
			continue
		}
		names = append(names, m.Name)
	}
	return names
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type FormationCondition string

const (
	ConditionOK                       FormationCondition = "ok"
	ConditionInsufficientParticipants FormationCondition = "insufficient_participants"
	ConditionNoQualifyingTeams        FormationCondition = "no_qualifying_teams"
)

// FormationResult is the outcome of one formation run. A run without teams is
// a normal result; Condition and Reason say why.
type FormationResult struct {
	RunID                string             `json:"run_id"`
	TeamsFormed          int                `json:"teams_formed"`
	ParticipantsGrouped  int                `json:"participants_grouped"`
	ParticipantsLeftOver int                `json:"participants_left_over"`
	GroupsByRegion       []GroupCount       `json:"groups_by_region"`
	Teams                []TeamResult       `json:"teams"`
	Condition            FormationCondition `json:"condition"`
	Reason               string             `json:"reason,omitempty"`
}
