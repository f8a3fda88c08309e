// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"
	"time"

	"github.com/AccelByte/hackathon-teambot/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) AddFormationElapsedTimeMs(function string, elapsedTime time.Duration) {}

func (s stubMetricsCollection) BucketSize(bucket string, participants int) {}

func (s stubMetricsCollection) AddTeamsFormed(origin string, teams int) {}

func (s stubMetricsCollection) AddUnmatchedReason(reason string, participants int) {}

func (s stubMetricsCollection) AddSuggestionsCreated(suggestions int) {}

func (s stubMetricsCollection) AddNotification(outcome string) {}

func NewMetrics() metrics.FormationMetrics {
	return stubMetricsCollection{}
}

// RecordingMetrics keeps counters in memory so tests can assert on them.
type RecordingMetrics struct {
	stubMetricsCollection

	mu                 sync.Mutex
	TeamsFormed        map[string]int
	UnmatchedReasons   map[string]int
	SuggestionsCreated int
	Notifications      map[string]int
}

func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		TeamsFormed:      map[string]int{},
		UnmatchedReasons: map[string]int{},
		Notifications:    map[string]int{},
	}
}

func (r *RecordingMetrics) AddTeamsFormed(origin string, teams int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TeamsFormed[origin] += teams
}

func (r *RecordingMetrics) AddUnmatchedReason(reason string, participants int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UnmatchedReasons[reason] += participants
}

func (r *RecordingMetrics) AddSuggestionsCreated(suggestions int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SuggestionsCreated += suggestions
}

func (r *RecordingMetrics) AddNotification(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications[outcome]++
}
