// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// BuildSuggestions creates one pending suggestion per member of every team in
// result, expiring ttl after now.
func BuildSuggestions(result models.FormationResult, now time.Time, ttl time.Duration) ([]models.MatchSuggestion, error) {
	suggestions := make([]models.MatchSuggestion, 0, result.ParticipantsGrouped)
	expiresAt := now.Add(ttl).UnixMilli()

	for _, team := range result.Teams {
		for _, member := range team.Members {
			reasons, err := json.Marshal(models.MatchReasons{
				Type:      constants.MatchReasonAutoFormation,
				TeamScore: team.Score,
				Details:   team.Detail,
				SuggestedTeam: models.SuggestedTeam{
					Name:    team.SuggestedName,
					Members: team.OtherMemberNames(member.DiscordUserID),
					Size:    team.Size,
				},
			})
			if err != nil {
				return nil, fmt.Errorf("encode reasons of team %d: %w", team.ID, err)
			}

			suggestions = append(suggestions, models.MatchSuggestion{
				ParticipantID: member.ParticipantID,
				RunID:         result.RunID,
				TeamKey:       models.TeamKey(result.RunID, team.ID),
				TeamName:      team.SuggestedName,
				Score:         int(team.Score),
				Reasons:       datatypes.JSON(reasons),
				Status:        models.SuggestionPending,
				ExpiresAt:     expiresAt,
			})
		}
	}

	return suggestions, nil
}
