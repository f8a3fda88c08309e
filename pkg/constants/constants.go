// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	MinTeamSize           = 3
	MaxTeamSize           = 5
	MinCompatibilityScore = 55
	RegionBonus           = 15

	// MaxBucketSize keeps C(n,3)+C(n,4)+C(n,5) per greedy round in the tens of thousands.
	MaxBucketSize = 18

	// MaxCombinationsPerChunk bounds what a bucket size and team size range
	// may ask the generator to enumerate in one greedy round.
	MaxCombinationsPerChunk = 200_000

	SuggestionTTL = 72 * time.Hour
)

const (
	// UnknownRegion is the region bucket for cities that match no rule.
	UnknownRegion = "desconhecida"

	// InterRegionalOrigin tags teams formed from the leftovers of every bucket.
	InterRegionalOrigin = "inter_regional"

	MatchReasonAutoFormation = "auto_formation"
)

const (
	OrchestratorRunFunction   = "formationRun"
	ServiceExecuteFunction    = "serviceExecute"
	SelectTeamsFunction       = "selectTeams"
	GenerateCandidateFunction = "generateCandidates"

	// unmatched reason constants.
	ReasonInsufficientParticipants = "insufficient_participants"
	ReasonNoQualifyingTeams        = "no_qualifying_teams"
	ReasonBucketTooSmall           = "bucket_too_small"
	ReasonLeftOver                 = "left_over"
)

const (
	CustomIDAcceptPrefix      = "auto_team_accept"
	CustomIDRejectPrefix      = "auto_team_reject"
	CustomIDRejectModalPrefix = "auto_team_reject_modal"
	RejectReasonInputID       = "reject_reason"
	RejectReasonMaxLength     = 300

	FormTeamsCommand = "formar-equipes"
)
