// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	formationElapsedTime prometheus.HistogramVec
	bucketSize           prometheus.GaugeVec
	teamsFormed          prometheus.CounterVec
	unmatchedReasons     prometheus.CounterVec
	suggestionsCreated   prometheus.Counter
	notifications        prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	//nolint:promlinter
	formationElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teambot_formation_elapsed_time_ms",
			Help:    "A histogram of team formation functions elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"function"})
	bucketSize := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "teambot_formation_bucket_size",
			Help: "Number of available participants per region and modality bucket in the last run",
		}, []string{"bucket"})
	teamsFormed := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teambot_teams_formed_total",
			Help: "Teams formed, by bucket or inter regional origin",
		}, []string{"origin"})
	unmatchedReasons := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teambot_unmatched_participants_total",
			Help: "Participants left without a team, by reason",
		}, []string{"reason"})
	suggestionsCreated := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "teambot_suggestions_created_total",
			Help: "Match suggestions persisted",
		})
	notifications := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teambot_notifications_total",
			Help: "Suggestion direct messages, by outcome",
		}, []string{"outcome"})

	return prometheusMetrics{
		formationElapsedTime: *formationElapsedTime,
		bucketSize:           *bucketSize,
		teamsFormed:          *teamsFormed,
		unmatchedReasons:     *unmatchedReasons,
		suggestionsCreated:   suggestionsCreated,
		notifications:        *notifications,
	}
}

func (metrics prometheusMetrics) AddFormationElapsedTimeMs(function string, elapsedTime time.Duration) {
	metrics.formationElapsedTime.With(prometheus.Labels{"function": function}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) BucketSize(bucket string, participants int) {
	metrics.bucketSize.With(prometheus.Labels{"bucket": bucket}).Set(float64(participants))
}

func (metrics prometheusMetrics) AddTeamsFormed(origin string, teams int) {
	metrics.teamsFormed.With(prometheus.Labels{"origin": origin}).Add(float64(teams))
}

func (metrics prometheusMetrics) AddUnmatchedReason(reason string, participants int) {
	metrics.unmatchedReasons.With(prometheus.Labels{"reason": reason}).Add(float64(participants))
}

func (metrics prometheusMetrics) AddSuggestionsCreated(suggestions int) {
	metrics.suggestionsCreated.Add(float64(suggestions))
}

func (metrics prometheusMetrics) AddNotification(outcome string) {
	metrics.notifications.With(prometheus.Labels{"outcome": outcome}).Inc()
}
