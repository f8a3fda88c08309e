// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormationRules_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *FormationRules)
		wantErr error
	}{
		{name: "defaults", mutate: func(r *FormationRules) {}},
		{
			name:    "min above max",
			mutate:  func(r *FormationRules) { r.MinTeamSize = 6 },
			wantErr: ErrTeamSizeRange,
		},
		{
			name:    "bucket smaller than a team",
			mutate:  func(r *FormationRules) { r.MaxBucketSize = 4 },
			wantErr: ErrBucketTooSmall,
		},
		{
			name:    "bucket too large for the team sizes",
			mutate:  func(r *FormationRules) { r.MaxTeamSize = 8; r.MaxBucketSize = 64 },
			wantErr: ErrTooManyCombinations,
		},
		{
			name:   "largest bucket within budget",
			mutate: func(r *FormationRules) { r.MaxBucketSize = 30 },
		},
		{
			name:    "zero ttl",
			mutate:  func(r *FormationRules) { r.SuggestionTTL = 0 },
			wantErr: ErrSuggestionTTL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)
			err := rules.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormationRules_ValidateRange(t *testing.T) {
	rules := DefaultRules()
	rules.MinCompatibilityScore = 140
	assert.Error(t, rules.Validate())

	rules = DefaultRules()
	rules.MaxTeamSize = 50
	rules.MaxBucketSize = 64
	assert.Error(t, rules.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("MIN_TEAM_SIZE", "2")
	t.Setenv("MAX_TEAM_SIZE", "4")
	t.Setenv("SUGGESTION_TTL", "24h")
	t.Setenv("DATABASE_TYPE", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Rules.MinTeamSize)
	assert.Equal(t, 4, cfg.Rules.MaxTeamSize)
	assert.Equal(t, 24*time.Hour, cfg.Rules.SuggestionTTL)
	assert.Equal(t, float64(55), cfg.Rules.MinCompatibilityScore)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "127.0.0.1:9090", cfg.AdminAddr)
	assert.Empty(t, cfg.AdminToken)
}

func TestCombinationsPerChunk(t *testing.T) {
	assert.Equal(t, 816+3060+8568, DefaultRules().CombinationsPerChunk())

	rules := DefaultRules()
	rules.MaxBucketSize = 4
	rules.MaxTeamSize = 4
	assert.Equal(t, 4+1, rules.CombinationsPerChunk())
}

func TestLoad_InvalidRules(t *testing.T) {
	t.Setenv("MIN_TEAM_SIZE", "5")
	t.Setenv("MAX_TEAM_SIZE", "3")

	_, err := Load()
	assert.ErrorIs(t, err, ErrTeamSizeRange)
}
