// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package compatibility scores how well a participant fits a prospective team
// seeded by another participant.
package compatibility

import (
	"github.com/AccelByte/hackathon-teambot/pkg/mathutil"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/region"
	"github.com/AccelByte/hackathon-teambot/pkg/utils"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Weights of each compatibility factor. Skill overlap is a ratio in [0,1]
// multiplied by SkillOverlap, the other two are flat bonuses.
type Weights struct {
	SkillOverlap         float64
	SameModality         float64
	SameEducationBracket float64
}

func DefaultWeights() Weights {
	return Weights{
		SkillOverlap:         60,
		SameModality:         20,
		SameEducationBracket: 10,
	}
}

// PairDetail explains one Score call.
type PairDetail struct {
	CandidateSkills    []string
	ReferenceSkills    []string
	CommonSkills       []string
	SkillOverlap       float64
	CandidateRegion    string
	ReferenceRegion    string
	CandidateModality  models.Modality
	ReferenceModality  models.Modality
	CandidateEducation models.EducationLevel
	ReferenceEducation models.EducationLevel
}

// SameKnownRegion reports whether both participants resolved to the same
// non-unknown region.
func (d PairDetail) SameKnownRegion() bool {
	return region.IsKnown(d.CandidateRegion) && d.CandidateRegion == d.ReferenceRegion
}

type Scorer struct {
	weights Weights
}

func NewScorer() *Scorer {
	return NewScorerWithWeights(DefaultWeights())
}

func NewScorerWithWeights(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score rates candidate against a team seeded by seed whose wanted skills are
// referenceSkills. The result is always within [0, 100]. The region bonus is
// not part of it; callers add it on top.
func (s *Scorer) Score(candidate models.Participant, seed models.Participant, referenceSkills string) (float64, PairDetail) {
	candidateSkills := ExtractSkills(candidate.Skills())
	wantedSkills := ExtractSkills(referenceSkills)
	common := utils.IntersectionOfStringLists(candidateSkills, wantedSkills)

	detail := PairDetail{
		CandidateSkills:    candidateSkills,
		ReferenceSkills:    wantedSkills,
		CommonSkills:       common,
		CandidateRegion:    region.Classify(candidate.City),
		ReferenceRegion:    region.Classify(seed.City),
		CandidateModality:  candidate.Modality,
		ReferenceModality:  seed.Modality,
		CandidateEducation: candidate.Education,
		ReferenceEducation: seed.Education,
	}

	var score float64
	if union := utils.UnionCount(candidateSkills, wantedSkills); union > 0 {
		detail.SkillOverlap = float64(len(common)) / float64(union)
		score += detail.SkillOverlap * s.weights.SkillOverlap
	}
	if candidate.Modality != "" && candidate.Modality == seed.Modality {
		score += s.weights.SameModality
	}
	if candidate.Education.Bracket() == seed.Education.Bracket() {
		score += s.weights.SameEducationBracket
	}

	return mathutil.Clamp(score, MinScore, MaxScore), detail
}
