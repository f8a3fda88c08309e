// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/AccelByte/hackathon-teambot/pkg/compatibility"
	"github.com/AccelByte/hackathon-teambot/pkg/config"
	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/mathutil"
	"github.com/AccelByte/hackathon-teambot/pkg/metrics"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/region"
	"github.com/AccelByte/hackathon-teambot/pkg/utils"
)

// Engine generates and selects candidate teams inside one pool of participants.
// It performs no I/O.
type Engine struct {
	rules   config.FormationRules
	scorer  *compatibility.Scorer
	metrics metrics.FormationMetrics
}

func NewEngine(rules config.FormationRules, scorer *compatibility.Scorer, formationMetrics metrics.FormationMetrics) *Engine {
	return &Engine{
		rules:   rules,
		scorer:  scorer,
		metrics: formationMetrics,
	}
}

func (e *Engine) Rules() config.FormationRules {
	return e.rules
}

// PairScore rates b against a team seeded by a, adds the region bonus when
// both live in the same known region and caps the sum at 100.
func (e *Engine) PairScore(a, b models.Participant) (float64, compatibility.PairDetail) {
	raw, detail := e.rawPairScore(a, b)
	return math.Min(raw, compatibility.MaxScore), detail
}

// rawPairScore is PairScore before the cap; the pair breakdown reports it.
func (e *Engine) rawPairScore(a, b models.Participant) (float64, compatibility.PairDetail) {
	score, detail := e.scorer.Score(b, a, a.Skills())
	if detail.SameKnownRegion() {
		score += e.rules.RegionBonus
	}
	return score, detail
}

// pairTable caches every pair score of a pool so that each of the
// C(n,3)+C(n,4)+C(n,5) combinations only averages cached values.
type pairTable struct {
	pool    []models.Participant
	scores  *mat.SymDense
	raw     *mat.SymDense
	common  [][][]string
	regions []string
}

func (e *Engine) newPairTable(pool []models.Participant) pairTable {
	n := len(pool)
	t := pairTable{
		pool:    pool,
		scores:  mat.NewSymDense(n, nil),
		raw:     mat.NewSymDense(n, nil),
		common:  make([][][]string, n),
		regions: make([]string, n),
	}
	for i := range pool {
		t.common[i] = make([][]string, n)
		t.regions[i] = region.Classify(pool[i].City)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			raw, detail := e.rawPairScore(pool[i], pool[j])
			t.raw.SetSym(i, j, raw)
			t.scores.SetSym(i, j, math.Min(raw, compatibility.MaxScore))
			t.common[i][j] = detail.CommonSkills
		}
	}
	return t
}

// teamScore is the mean of the capped pair scores of the members at idx.
// buf is reused between calls to avoid an allocation per combination.
func (t pairTable) teamScore(idx []int, buf []float64) float64 {
	buf = buf[:0]
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			buf = append(buf, t.scores.At(idx[a], idx[b]))
		}
	}
	return mathutil.Mean(buf)
}

func (t pairTable) candidate(idx []int, score float64) models.CandidateTeam {
	members := make([]models.Participant, len(idx))
	commonSkills := utils.StringSet{}
	regions := utils.StringSet{}
	modalities := utils.StringSet{}
	educations := utils.StringSet{}
	pairs := make([]models.PairScore, 0, len(idx)*(len(idx)-1)/2)

	for a, i := range idx {
		members[a] = t.pool[i]
		regions.Add(t.regions[i])
		modalities.Add(string(t.pool[i].Modality))
		educations.Add(string(t.pool[i].Education))
		for _, j := range idx[a+1:] {
			commonSkills.Add(t.common[i][j]...)
			pairs = append(pairs, models.PairScore{
				P1:    t.pool[i].DisplayName(),
				P2:    t.pool[j].DisplayName(),
				Score: mathutil.RoundTo(t.raw.At(i, j), 1),
			})
		}
	}

	return models.CandidateTeam{
		Members: members,
		Score:   score,
		Detail: models.CompatibilityDetail{
			CommonSkills: commonSkills.Sorted(),
			Regions:      regions.Sorted(),
			Modalities:   modalities.Sorted(),
			Educations:   educations.Sorted(),
			Pairs:        pairs,
		},
	}
}

// GenerateCandidates scores every combination of MinTeamSize to MaxTeamSize
// members of pool and returns those reaching MinCompatibilityScore, best
// first. Equal scores keep generation order: smaller teams first, then
// lexicographic order of member positions in pool.
func (e *Engine) GenerateCandidates(rootScope *envelope.Scope, pool []models.Participant) []models.CandidateTeam {
	scope := rootScope.NewChildScope("Engine.GenerateCandidates")
	defer scope.Finish()

	startTime := time.Now()
	defer func() {
		e.metrics.AddFormationElapsedTimeMs(constants.GenerateCandidateFunction, time.Since(startTime))
	}()

	candidates := make([]models.CandidateTeam, 0)
	n := len(pool)
	if n < e.rules.MinTeamSize || n < 2 {
		return candidates
	}

	table := e.newPairTable(pool)
	maxSize := min(e.rules.MaxTeamSize, n)
	generated := 0
	for k := e.rules.MinTeamSize; k <= maxSize; k++ {
		gen := combin.NewCombinationGenerator(n, k)
		idx := make([]int, k)
		buf := make([]float64, 0, k*(k-1)/2)
		for gen.Next() {
			gen.Combination(idx)
			generated++
			score := table.teamScore(idx, buf)
			if score < e.rules.MinCompatibilityScore {
				continue
			}
			candidates = append(candidates, table.candidate(idx, score))
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	scope.Log.Debugf("generated %d combinations from %d participants, %d qualify", generated, n, len(candidates))
	return candidates
}
