// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/metrics"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

// Notifier sends direct messages, at most perSecond of them.
type Notifier struct {
	session Session
	limiter *rate.Limiter
	metrics metrics.FormationMetrics
}

func NewNotifier(session Session, perSecond float64, formationMetrics metrics.FormationMetrics) *Notifier {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Notifier{
		session: session,
		limiter: rate.NewLimiter(limit, 1),
		metrics: formationMetrics,
	}
}

// NotifySuggestions messages every suggested member. A failed message is
// counted and logged; it never stops the others.
func (n *Notifier) NotifySuggestions(rootScope *envelope.Scope, result models.FormationResult, suggestions []models.MatchSuggestion) models.NotificationReport {
	scope := rootScope.NewChildScope("Notifier.NotifySuggestions")
	defer scope.Finish()

	teams := make(map[string]models.TeamResult, len(result.Teams))
	for _, team := range result.Teams {
		teams[models.TeamKey(result.RunID, team.ID)] = team
	}

	report := models.NotificationReport{}
	for _, suggestion := range suggestions {
		err := n.notifySuggestion(scope, teams, suggestion)
		if err != nil {
			report.Failed++
			n.metrics.AddNotification(metrics.NotificationFailed)
			scope.Log.WithField("participantID", suggestion.ParticipantID).Warnf("suggestion %d not delivered: %s", suggestion.ID, err)
			continue
		}
		report.Sent++
		n.metrics.AddNotification(metrics.NotificationSent)
	}

	return report
}

func (n *Notifier) notifySuggestion(scope *envelope.Scope, teams map[string]models.TeamResult, suggestion models.MatchSuggestion) error {
	team, ok := teams[suggestion.TeamKey]
	if !ok {
		return fmt.Errorf("team %s not in run", suggestion.TeamKey)
	}
	for _, member := range team.Members {
		if member.ParticipantID == suggestion.ParticipantID {
			return n.SendDirect(scope, member.DiscordUserID, SuggestionMessage(team, member, suggestion))
		}
	}
	return fmt.Errorf("participant %d not in team %s", suggestion.ParticipantID, suggestion.TeamKey)
}

// SendDirect opens (or reuses) the DM channel with discordUserID and posts message.
func (n *Notifier) SendDirect(scope *envelope.Scope, discordUserID string, message *discordgo.MessageSend) error {
	if err := n.limiter.Wait(scope.Ctx); err != nil {
		return err
	}
	channel, err := n.session.UserChannelCreate(discordUserID)
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if _, err = n.session.ChannelMessageSendComplex(channel.ID, message); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}
