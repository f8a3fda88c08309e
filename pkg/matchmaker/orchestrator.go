// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"fmt"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/mitchellh/copystructure"
	"github.com/oklog/ulid/v2"
	"gopkg.in/typ.v4/slices"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/mathutil"
	"github.com/AccelByte/hackathon-teambot/pkg/metrics"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// Orchestrator runs a whole formation: region and modality buckets first,
// then one inter regional pass over whoever is left.
type Orchestrator struct {
	source  ParticipantSource
	engine  *Engine
	metrics metrics.FormationMetrics

	now      func() time.Time
	newRunID func(time.Time) string
}

func NewOrchestrator(source ParticipantSource, engine *Engine, formationMetrics metrics.FormationMetrics) *Orchestrator {
	return &Orchestrator{
		source:   source,
		engine:   engine,
		metrics:  formationMetrics,
		now:      time.Now,
		newRunID: newULID,
	}
}

func newULID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

type selectedTeam struct {
	models.CandidateTeam
	origin string
}

// Run reads the available participants once and forms teams out of them.
// Too few participants or no qualifying team are reported through the result
// condition. Only a failing participant source returns an error.
func (o *Orchestrator) Run(rootScope *envelope.Scope) (models.FormationResult, error) {
	scope := rootScope.NewChildScope("Orchestrator.Run")
	defer scope.Finish()

	startTime := time.Now()
	defer func() {
		o.metrics.AddFormationElapsedTimeMs(constants.OrchestratorRunFunction, time.Since(startTime))
	}()

	rules := o.engine.Rules()
	result := models.FormationResult{
		RunID:          o.newRunID(o.now()),
		GroupsByRegion: make([]models.GroupCount, 0),
		Teams:          make([]models.TeamResult, 0),
		Condition:      models.ConditionOK,
	}
	scope.SetAttributes(envelope.RunIDTag, result.RunID)
	scope.Log = scope.Log.WithField("runID", result.RunID)

	participants, err := o.snapshot(scope)
	if err != nil {
		scope.RecordError(err)
		return result, err
	}

	if len(participants) < rules.MinTeamSize {
		result.ParticipantsLeftOver = len(participants)
		result.Condition = models.ConditionInsufficientParticipants
		result.Reason = fmt.Sprintf("only %d participants available, at least %d are needed", len(participants), rules.MinTeamSize)
		o.metrics.AddUnmatchedReason(constants.ReasonInsufficientParticipants, len(participants))
		scope.Log.Info(result.Reason)
		return result, nil
	}

	consumed := make(map[uint]struct{}, len(participants))
	teams := make([]selectedTeam, 0)

	for _, bucket := range PartitionByRegionModality(participants) {
		result.GroupsByRegion = append(result.GroupsByRegion, models.GroupCount{Key: bucket.Key, Count: len(bucket.Participants)})
		o.metrics.BucketSize(bucket.Key, len(bucket.Participants))
		teams = append(teams, o.selectInPool(scope, bucket.Key, bucket.Participants, consumed)...)
	}

	leftovers := slices.Filter(participants, func(p models.Participant) bool {
		_, ok := consumed[p.ID]
		return !ok
	})
	if len(leftovers) >= rules.MinTeamSize {
		teams = append(teams, o.selectInPool(scope, constants.InterRegionalOrigin, leftovers, consumed)...)
	}

	for i, team := range teams {
		result.Teams = append(result.Teams, toTeamResult(i+1, team))
	}
	result.TeamsFormed = len(result.Teams)
	result.ParticipantsGrouped = len(consumed)
	result.ParticipantsLeftOver = len(participants) - len(consumed)

	for _, team := range result.Teams {
		o.metrics.AddTeamsFormed(team.Origin, 1)
	}

	switch {
	case result.TeamsFormed == 0:
		result.Condition = models.ConditionNoQualifyingTeams
		result.Reason = fmt.Sprintf("no team of %d to %d participants reached compatibility %.0f",
			rules.MinTeamSize, rules.MaxTeamSize, rules.MinCompatibilityScore)
		o.metrics.AddUnmatchedReason(constants.ReasonNoQualifyingTeams, len(participants))
	case result.ParticipantsLeftOver > 0:
		o.metrics.AddUnmatchedReason(constants.ReasonLeftOver, result.ParticipantsLeftOver)
	}

	scope.SetAttributes(envelope.TeamsFormedTag, result.TeamsFormed)
	scope.Log.Infof("formation finished: %d teams, %d grouped, %d left over",
		result.TeamsFormed, result.ParticipantsGrouped, result.ParticipantsLeftOver)

	return result, nil
}

// snapshot reads the pool and deep copies it so the run never shares memory
// with the source.
func (o *Orchestrator) snapshot(scope *envelope.Scope) ([]models.Participant, error) {
	listed, err := o.source.ListAvailableParticipants(scope)
	if err != nil {
		return nil, fmt.Errorf("list available participants: %w", err)
	}

	copied, err := copystructure.Copy(listed)
	if err != nil {
		return nil, fmt.Errorf("copy participant snapshot: %w", err)
	}
	participants, _ := copied.([]models.Participant)
	participants = slices.Filter(participants, func(p models.Participant) bool {
		return p.AvailableForTeam
	})

	seen := make(map[uint]struct{}, len(participants))
	for _, p := range participants {
		if p.ID == 0 {
			return nil, fmt.Errorf("%w: %s has no id", models.ErrInvalidParticipant, p.DiscordUserID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: id %d listed twice", models.ErrInvalidParticipant, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return participants, nil
}

// selectInPool runs the selector over pool in chunks of at most MaxBucketSize
// and records the members of every selected team in consumed.
func (o *Orchestrator) selectInPool(rootScope *envelope.Scope, origin string, pool []models.Participant, consumed map[uint]struct{}) []selectedTeam {
	scope := rootScope.NewChildScope("Orchestrator.selectInPool")
	defer scope.Finish()
	scope.SetAttributes(envelope.BucketTag, origin)

	rules := o.engine.Rules()
	teams := make([]selectedTeam, 0)
	for _, chunk := range splitPool(pool, rules.MaxBucketSize) {
		if len(chunk) < rules.MinTeamSize {
			scope.Log.WithField("reason", constants.ReasonBucketTooSmall).
				Debugf("%s: %d participants wait for the next pass", origin, len(chunk))
			continue
		}
		for _, team := range o.engine.SelectTeams(scope, chunk) {
			for _, id := range team.MemberIDs() {
				consumed[id] = struct{}{}
			}
			teams = append(teams, selectedTeam{CandidateTeam: team, origin: origin})
		}
	}

	scope.Log.Debugf("%s: %d teams from %d participants", origin, len(teams), len(pool))
	return teams
}

func toTeamResult(id int, team selectedTeam) models.TeamResult {
	return models.TeamResult{
		ID:            id,
		SuggestedName: SuggestTeamName(team.Members, id),
		Members:       pie.Map(team.Members, toMemberInfo),
		Score:         mathutil.RoundTo(team.Score, 1),
		Detail:        team.Detail,
		Origin:        team.origin,
		Size:          len(team.Members),
	}
}

func toMemberInfo(p models.Participant) models.MemberInfo {
	return models.MemberInfo{
		ParticipantID: p.ID,
		DiscordUserID: p.DiscordUserID,
		Name:          p.DisplayName(),
		City:          p.City,
		Education:     string(p.Education),
		Skills:        p.Skills(),
	}
}
