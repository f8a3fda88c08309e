// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

type FormationMetrics interface {
	AddFormationElapsedTimeMs(function string, elapsedTime time.Duration)
	BucketSize(bucket string, participants int)
	AddTeamsFormed(origin string, teams int)
	AddUnmatchedReason(reason string, participants int)
	AddSuggestionsCreated(suggestions int)
	AddNotification(outcome string)
}

func NewMetrics(registry *prometheus.Registry) FormationMetrics {
	return setupPrometheusMetrics(registry)
}
