// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/hackathon-teambot/pkg/config"
	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/testsetup"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(pool []models.Participant, sink SuggestionSink, notifier Notifier) (*Service, *testsetup.RecordingMetrics) {
	metrics := testsetup.NewRecordingMetrics()
	orchestrator := newTestOrchestrator(&testsetup.StubParticipantSource{Participants: pool}, config.DefaultRules())
	service := NewService(orchestrator, sink, notifier, constants.SuggestionTTL, metrics)
	service.now = func() time.Time { return fixedNow }
	return service, metrics
}

func TestExecute(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	sink := testsetup.NewStubSuggestionSink()
	notifier := &testsetup.StubNotifier{FailFor: map[uint]bool{4: true}}
	service, metrics := newTestService(twoRegionPool(), sink, notifier)

	report, err := service.Execute(g.TestScope)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(report.Result.TeamsFormed).To(Equal(2))
	g.Expect(report.SuggestionsCreated).To(Equal(6))
	g.Expect(report.NotificationsSent).To(Equal(5))
	g.Expect(report.NotificationsFailed).To(Equal(1))
	g.Expect(metrics.SuggestionsCreated).To(Equal(6))

	saved := sink.Saved[report.Result.RunID]
	g.Expect(saved).To(HaveLen(6))
	for _, s := range saved {
		g.Expect(s.ID).NotTo(BeZero())
		g.Expect(s.Status).To(Equal(models.SuggestionPending))
		g.Expect(s.Score).To(Equal(100))
		g.Expect(s.ExpiresAt).To(Equal(fixedNow.Add(72 * time.Hour).UnixMilli()))
		g.Expect(s.TeamID).To(BeNil())
	}
	g.Expect(notifier.Notified).To(HaveLen(5))
}

func TestExecute_NoTeamsWritesNothing(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	sink := testsetup.NewStubSuggestionSink()
	notifier := &testsetup.StubNotifier{}
	service, _ := newTestService(twoRegionPool()[:2], sink, notifier)

	report, err := service.Execute(g.TestScope)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(report.Result.Condition).To(Equal(models.ConditionInsufficientParticipants))
	g.Expect(report.SuggestionsCreated).To(BeZero())
	g.Expect(sink.Saved).To(BeEmpty())
	g.Expect(notifier.Notified).To(BeEmpty())
}

func TestExecute_SinkErrorPropagates(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	sinkErr := errors.New("disk full")
	sink := testsetup.NewStubSuggestionSink()
	sink.Err = sinkErr
	notifier := &testsetup.StubNotifier{}
	service, _ := newTestService(twoRegionPool(), sink, notifier)

	report, err := service.Execute(g.TestScope)

	g.Expect(err).To(MatchError(sinkErr))
	g.Expect(report.Result.TeamsFormed).To(Equal(2))
	g.Expect(report.SuggestionsCreated).To(BeZero())
	g.Expect(notifier.Notified).To(BeEmpty())
}

func TestExecute_WithoutNotifier(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	sink := testsetup.NewStubSuggestionSink()
	service, _ := newTestService(twoRegionPool(), sink, nil)

	report, err := service.Execute(g.TestScope)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(report.SuggestionsCreated).To(Equal(6))
	g.Expect(report.NotificationsSent).To(BeZero())
}

// cancellingSink cancels the caller once the suggestions are stored.
type cancellingSink struct {
	*testsetup.StubSuggestionSink
	cancel context.CancelFunc
}

func (s cancellingSink) SaveSuggestions(scope *envelope.Scope, runID string, suggestions []models.MatchSuggestion) error {
	defer s.cancel()
	return s.StubSuggestionSink.SaveSuggestions(scope, runID, suggestions)
}

// contextNotifier fails every message whose scope is already done.
type contextNotifier struct{}

func (contextNotifier) NotifySuggestions(scope *envelope.Scope, result models.FormationResult, suggestions []models.MatchSuggestion) models.NotificationReport {
	report := models.NotificationReport{}
	for range suggestions {
		if scope.Ctx.Err() != nil {
			report.Failed++
			continue
		}
		report.Sent++
	}
	return report
}

func TestExecute_NotifiesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scope := envelope.NewRootScope(ctx, "test", "")
	defer scope.Finish()

	sink := cancellingSink{StubSuggestionSink: testsetup.NewStubSuggestionSink(), cancel: cancel}
	service, _ := newTestService(twoRegionPool(), sink, contextNotifier{})

	report, err := service.Execute(scope)

	require.NoError(t, err)
	assert.Error(t, ctx.Err())
	assert.Equal(t, 6, report.SuggestionsCreated)
	assert.Equal(t, 6, report.NotificationsSent)
	assert.Zero(t, report.NotificationsFailed)
}

func TestExecute_OneRunAtATime(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	service, _ := newTestService(twoRegionPool(), testsetup.NewStubSuggestionSink(), nil)

	service.running.Lock()
	_, err := service.Execute(g.TestScope)
	service.running.Unlock()

	g.Expect(err).To(MatchError(models.ErrFormationInProgress))

	_, err = service.Execute(g.TestScope)
	g.Expect(err).NotTo(HaveOccurred())
}

func TestPreview_WritesNothing(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	sink := testsetup.NewStubSuggestionSink()
	service, _ := newTestService(twoRegionPool(), sink, &testsetup.StubNotifier{})

	result, err := service.Preview(g.TestScope)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.TeamsFormed).To(Equal(2))
	g.Expect(sink.Saved).To(BeEmpty())
}

func TestBuildSuggestions(t *testing.T) {
	orchestrator := newTestOrchestrator(&testsetup.StubParticipantSource{Participants: twoRegionPool()}, config.DefaultRules())
	result, err := orchestrator.Run(testsetup.NewTestScope())
	require.NoError(t, err)

	suggestions, err := BuildSuggestions(result, fixedNow, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, suggestions, 6)

	first := suggestions[0]
	assert.Equal(t, uint(1), first.ParticipantID)
	assert.Equal(t, result.RunID, first.RunID)
	assert.Equal(t, result.RunID+":1", first.TeamKey)
	assert.Equal(t, "Python Squad #1", first.TeamName)
	assert.Equal(t, fixedNow.Add(24*time.Hour).UnixMilli(), first.ExpiresAt)
	assert.Equal(t, result.RunID+":2", suggestions[3].TeamKey)

	var reasons models.MatchReasons
	require.NoError(t, json.Unmarshal(first.Reasons, &reasons))
	assert.Equal(t, constants.MatchReasonAutoFormation, reasons.Type)
	assert.Equal(t, float64(100), reasons.TeamScore)
	assert.Equal(t, "Python Squad #1", reasons.SuggestedTeam.Name)
	assert.Equal(t, 3, reasons.SuggestedTeam.Size)
	assert.Equal(t, []string{"Participant3 Test", "Participant5 Test"}, reasons.SuggestedTeam.Members)
	assert.Equal(t, []string{"python"}, reasons.Details.CommonSkills)
}

func TestBuildSuggestions_Empty(t *testing.T) {
	suggestions, err := BuildSuggestions(models.FormationResult{RunID: "x"}, fixedNow, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
