// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"time"

	"gopkg.in/typ.v4/slices"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// SelectTeams repeatedly takes the best qualifying candidate of the remaining
// pool and drops its members, until nothing qualifies or fewer than
// MinTeamSize participants are left. Candidates are regenerated every round.
// The result is a local optimum: the best team always goes first even when
// another partition would score more in total.
//
// Participants are told apart by ID, which must be unique within pool.
func (e *Engine) SelectTeams(rootScope *envelope.Scope, pool []models.Participant) []models.CandidateTeam {
	scope := rootScope.NewChildScope("Engine.SelectTeams")
	defer scope.Finish()

	startTime := time.Now()
	defer func() {
		e.metrics.AddFormationElapsedTimeMs(constants.SelectTeamsFunction, time.Since(startTime))
	}()

	selected := make([]models.CandidateTeam, 0)
	remaining := make([]models.Participant, len(pool))
	copy(remaining, pool)

	for len(remaining) >= e.rules.MinTeamSize {
		candidates := e.GenerateCandidates(scope, remaining)
		if len(candidates) == 0 || candidates[0].Score < e.rules.MinCompatibilityScore {
			break
		}

		best := candidates[0]
		selected = append(selected, best)

		taken := make(map[uint]struct{}, len(best.Members))
		for _, id := range best.MemberIDs() {
			taken[id] = struct{}{}
		}
		remaining = slices.Filter(remaining, func(p models.Participant) bool {
			_, ok := taken[p.ID]
			return !ok
		})

		scope.Log.Debugf("selected team of %d with score %.1f, %d participants remain", len(best.Members), best.Score, len(remaining))
	}

	return selected
}
