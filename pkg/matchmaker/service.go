// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/metrics"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// Report is what an administrator sees after a formation.
type Report struct {
	Result              models.FormationResult `json:"result"`
	SuggestionsCreated  int                    `json:"suggestions_created"`
	NotificationsSent   int                    `json:"notifications_sent"`
	NotificationsFailed int                    `json:"notifications_failed"`
}

// Service runs a formation end to end: teams, suggestions, messages.
type Service struct {
	orchestrator *Orchestrator
	sink         SuggestionSink
	notifier     Notifier
	ttl          time.Duration
	metrics      metrics.FormationMetrics
	now          func() time.Time

	running sync.Mutex
}

// NewService wires the formation pipeline. notifier may be nil, in which case
// suggestions are saved but nobody is messaged.
func NewService(orchestrator *Orchestrator, sink SuggestionSink, notifier Notifier, ttl time.Duration, formationMetrics metrics.FormationMetrics) *Service {
	return &Service{
		orchestrator: orchestrator,
		sink:         sink,
		notifier:     notifier,
		ttl:          ttl,
		metrics:      formationMetrics,
		now:          time.Now,
	}
}

// Preview forms teams without saving or sending anything.
func (s *Service) Preview(rootScope *envelope.Scope) (models.FormationResult, error) {
	scope := rootScope.NewChildScope("Service.Preview")
	defer scope.Finish()

	return s.orchestrator.Run(scope)
}

// Execute forms teams, saves one suggestion per member and notifies them.
// Only one Execute runs at a time; a concurrent call gets
// models.ErrFormationInProgress. Persistence errors are returned and nothing
// of the run is kept, so the caller may simply run again.
func (s *Service) Execute(rootScope *envelope.Scope) (Report, error) {
	scope := rootScope.NewChildScope("Service.Execute")
	defer scope.Finish()

	if !s.running.TryLock() {
		return Report{}, models.ErrFormationInProgress
	}
	defer s.running.Unlock()

	startTime := time.Now()
	defer func() {
		s.metrics.AddFormationElapsedTimeMs(constants.ServiceExecuteFunction, time.Since(startTime))
	}()

	result, err := s.orchestrator.Run(scope)
	if err != nil {
		scope.Log.Errorf("formation run failed: %s", err)
		return Report{Result: result}, err
	}

	report := Report{Result: result}
	if result.TeamsFormed == 0 {
		scope.Log.Infof("no suggestions to create: %s", result.Reason)
		return report, nil
	}

	suggestions, err := BuildSuggestions(result, s.now(), s.ttl)
	if err != nil {
		return report, err
	}

	if err = s.sink.SaveSuggestions(scope, result.RunID, suggestions); err != nil {
		scope.RecordError(err)
		scope.Log.Errorf("unable to save suggestions of run %s: %s", result.RunID, err)
		return report, fmt.Errorf("save suggestions: %w", err)
	}
	report.SuggestionsCreated = len(suggestions)
	s.metrics.AddSuggestionsCreated(len(suggestions))

	if s.notifier != nil {
		// suggestions are saved at this point, so a caller that goes away must
		// not leave their participants unaware of them
		notifyScope := scope.NewDetachedChildScope("Service.notify")
		notified := s.notifier.NotifySuggestions(notifyScope, result, suggestions)
		notifyScope.Finish()
		report.NotificationsSent = notified.Sent
		report.NotificationsFailed = notified.Failed
	}

	scope.Log.Infof("run %s: %d suggestions saved, %d messages sent, %d failed",
		result.RunID, report.SuggestionsCreated, report.NotificationsSent, report.NotificationsFailed)
	return report, nil
}
