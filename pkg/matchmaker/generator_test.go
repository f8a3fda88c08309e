// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/hackathon-teambot/pkg/compatibility"
	"github.com/AccelByte/hackathon-teambot/pkg/config"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/testsetup"
)

func newTestEngine(rules config.FormationRules) *Engine {
	return NewEngine(rules, compatibility.NewScorer(), testsetup.NewMetrics())
}

func TestPairScore_RegionBonus(t *testing.T) {
	engine := newTestEngine(config.DefaultRules())

	seed := testsetup.NewParticipant(1, "São Paulo", models.ModalityRemote, models.EducationUndergraduate, "python, sql")
	sameRegion := testsetup.NewParticipant(2, "Campinas", models.ModalityInPerson, models.EducationUndergraduate, "python, sql")
	otherRegion := testsetup.NewParticipant(3, "Recife", models.ModalityInPerson, models.EducationUndergraduate, "python, sql")

	near, _ := engine.PairScore(seed, sameRegion)
	far, _ := engine.PairScore(seed, otherRegion)

	assert.InDelta(t, 85, near, 1e-9)
	assert.InDelta(t, 70, far, 1e-9)
	assert.InDelta(t, config.DefaultRules().RegionBonus, near-far, 1e-9)
}

func TestPairScore_CappedAt100(t *testing.T) {
	engine := newTestEngine(config.DefaultRules())

	a := testsetup.NewParticipant(1, "Recife", models.ModalityRemote, models.EducationUndergraduate, "python")
	b := testsetup.NewParticipant(2, "Olinda, PE", models.ModalityRemote, models.EducationPostgraduate, "python")

	score, _ := engine.PairScore(a, b)
	assert.Equal(t, float64(100), score)
}

func TestPairScore_UnknownRegionsGetNoBonus(t *testing.T) {
	engine := newTestEngine(config.DefaultRules())

	a := testsetup.NewParticipant(1, "Lisboa", models.ModalityRemote, models.EducationUndergraduate, "python")
	b := testsetup.NewParticipant(2, "Lisboa", models.ModalityRemote, models.EducationUndergraduate, "python")

	score, _ := engine.PairScore(a, b)
	assert.InDelta(t, 90, score, 1e-9)
}

func TestGenerateCandidates_TieBreak(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	engine := newTestEngine(config.DefaultRules())

	pool := make([]models.Participant, 4)
	for i := range pool {
		pool[i] = testsetup.NewParticipant(uint(i+1), "Manaus", models.ModalityRemote, models.EducationUndergraduate, "react")
	}

	candidates := engine.GenerateCandidates(g.TestScope, pool)

	g.Expect(candidates).To(HaveLen(5))
	ids := make([][]uint, len(candidates))
	for i, c := range candidates {
		g.Expect(c.Score).To(BeNumerically("==", 100))
		ids[i] = c.MemberIDs()
	}
	g.Expect(ids).To(Equal([][]uint{{1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4}, {1, 2, 3, 4}}))
}

func TestGenerateCandidates_SortedAndAboveThreshold(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	rules := config.DefaultRules()
	engine := newTestEngine(rules)

	pool := []models.Participant{
		testsetup.NewParticipant(1, "Fortaleza", models.ModalityRemote, models.EducationUndergraduate, "python, sql"),
		testsetup.NewParticipant(2, "Fortaleza", models.ModalityRemote, models.EducationHighSchool, "python"),
		testsetup.NewParticipant(3, "Salvador", models.ModalityRemote, models.EducationUndergraduate, "sql, docker"),
		testsetup.NewParticipant(4, "Natal", models.ModalityRemote, models.EducationTechnical, "marketing"),
		testsetup.NewParticipant(5, "Recife", models.ModalityRemote, models.EducationPostgraduate, "python, docker"),
		testsetup.NewParticipant(6, "Maceió", models.ModalityRemote, models.EducationUndergraduate, ""),
	}

	candidates := engine.GenerateCandidates(g.TestScope, pool)

	g.Expect(candidates).NotTo(BeEmpty())
	for i, c := range candidates {
		g.Expect(c.Score).To(BeNumerically(">=", rules.MinCompatibilityScore))
		g.Expect(len(c.Members)).To(BeNumerically(">=", rules.MinTeamSize))
		g.Expect(len(c.Members)).To(BeNumerically("<=", rules.MaxTeamSize))
		g.Expect(c.Detail.Pairs).To(HaveLen(len(c.Members) * (len(c.Members) - 1) / 2))
		if i > 0 {
			g.Expect(candidates[i-1].Score).To(BeNumerically(">=", c.Score))
		}
	}
}

func TestGenerateCandidates_Detail(t *testing.T) {
	engine := newTestEngine(config.DefaultRules())
	pool := []models.Participant{
		testsetup.NewParticipant(1, "Curitiba", models.ModalityRemote, models.EducationUndergraduate, "python, sql"),
		testsetup.NewParticipant(2, "Joinville", models.ModalityRemote, models.EducationTechnical, "python"),
		testsetup.NewParticipant(3, "Londrina", models.ModalityRemote, models.EducationUndergraduate, "sql, python"),
	}

	candidates := engine.GenerateCandidates(testsetup.NewTestScope(), pool)

	require.Len(t, candidates, 1)
	detail := candidates[0].Detail
	assert.Equal(t, []string{"python", "sql"}, detail.CommonSkills)
	assert.Equal(t, []string{"sul"}, detail.Regions)
	assert.Equal(t, []string{"Remoto"}, detail.Modalities)
	assert.Equal(t, []string{"Ensino Técnico", "Graduação"}, detail.Educations)
	require.Len(t, detail.Pairs, 3)
	assert.Equal(t, models.PairScore{P1: "Participant1 Test", P2: "Participant2 Test", Score: 65}, detail.Pairs[0])
	// 60 + 20 + 10 + 15: the breakdown keeps the uncapped pair score, the team score uses 100
	assert.Equal(t, models.PairScore{P1: "Participant1 Test", P2: "Participant3 Test", Score: 105}, detail.Pairs[1])
	assert.Equal(t, models.PairScore{P1: "Participant2 Test", P2: "Participant3 Test", Score: 65}, detail.Pairs[2])
	assert.InDelta(t, 230.0/3.0, candidates[0].Score, 1e-9)
}

func TestGenerateCandidates_PairBreakdownIsUncapped(t *testing.T) {
	engine := newTestEngine(config.DefaultRules())
	pool := []models.Participant{
		testsetup.NewParticipant(1, "Recife", models.ModalityRemote, models.EducationUndergraduate, "python"),
		testsetup.NewParticipant(2, "Olinda, PE", models.ModalityRemote, models.EducationPostgraduate, "python"),
		testsetup.NewParticipant(3, "Caruaru", models.ModalityRemote, models.EducationUndergraduate, "python"),
	}

	candidates := engine.GenerateCandidates(testsetup.NewTestScope(), pool)

	require.Len(t, candidates, 1)
	assert.Equal(t, float64(100), candidates[0].Score)
	for _, pair := range candidates[0].Detail.Pairs {
		assert.Equal(t, float64(105), pair.Score)
	}
}

func TestGenerateCandidates_TooSmall(t *testing.T) {
	engine := newTestEngine(config.DefaultRules())
	pool := []models.Participant{
		testsetup.NewParticipant(1, "Curitiba", models.ModalityRemote, models.EducationUndergraduate, "python"),
		testsetup.NewParticipant(2, "Curitiba", models.ModalityRemote, models.EducationUndergraduate, "python"),
	}

	assert.Empty(t, engine.GenerateCandidates(testsetup.NewTestScope(), pool))
	assert.Empty(t, engine.GenerateCandidates(testsetup.NewTestScope(), nil))
}
