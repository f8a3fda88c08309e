// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"fmt"
	"sync"

	"github.com/go-openapi/swag"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

type StubParticipantSource struct {
	Participants []models.Participant
	Err          error
	Calls        int
}

func (s *StubParticipantSource) ListAvailableParticipants(scope *envelope.Scope) ([]models.Participant, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Participants, nil
}

// StubSuggestionSink assigns sequential IDs the way the database would.
type StubSuggestionSink struct {
	mu     sync.Mutex
	Err    error
	Saved  map[string][]models.MatchSuggestion
	nextID uint
}

func NewStubSuggestionSink() *StubSuggestionSink {
	return &StubSuggestionSink{Saved: map[string][]models.MatchSuggestion{}}
}

func (s *StubSuggestionSink) SaveSuggestions(scope *envelope.Scope, runID string, suggestions []models.MatchSuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range suggestions {
		s.nextID++
		suggestions[i].ID = s.nextID
	}
	s.Saved[runID] = append(s.Saved[runID], suggestions...)
	return nil
}

// StubNotifier fails every suggestion whose participant id is in FailFor.
type StubNotifier struct {
	FailFor  map[uint]bool
	Notified []models.MatchSuggestion
}

func (s *StubNotifier) NotifySuggestions(scope *envelope.Scope, result models.FormationResult, suggestions []models.MatchSuggestion) models.NotificationReport {
	report := models.NotificationReport{}
	for _, suggestion := range suggestions {
		if s.FailFor[suggestion.ParticipantID] {
			report.Failed++
			continue
		}
		s.Notified = append(s.Notified, suggestion)
		report.Sent++
	}
	return report
}

// NewParticipant builds an available participant with a unique id and user id.
func NewParticipant(id uint, city string, modality models.Modality, education models.EducationLevel, skills string) models.Participant {
	p := models.Participant{
		DiscordUserID:    fmt.Sprintf("10000000000000%04d", id),
		FirstName:        fmt.Sprintf("Participant%d", id),
		LastName:         "Test",
		City:             city,
		Modality:         modality,
		Education:        education,
		AvailableForTeam: true,
	}
	p.ID = id
	if skills != "" {
		p.SkillsDescription = swag.String(skills)
	}
	return p
}
