// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/storage"
)

var errNoUser = errors.New("interaction has no user")

// AnswerStore records the answers participants give to suggestions.
type AnswerStore interface {
	AcceptSuggestion(scope *envelope.Scope, id uint, discordUserID string, now time.Time) (storage.AcceptResult, error)
	RejectSuggestion(scope *envelope.Scope, id uint, discordUserID string, reason string, now time.Time) (models.MatchSuggestion, error)
}

// Responder answers the buttons and the modal of suggestion messages.
type Responder struct {
	store    AnswerStore
	session  Session
	notifier *Notifier
	now      func() time.Time
}

func NewResponder(store AnswerStore, session Session, notifier *Notifier) *Responder {
	return &Responder{store: store, session: session, notifier: notifier, now: time.Now}
}

type acceptOutcome struct {
	teamName  string
	accepted  int
	size      int
	confirmed bool
}

// HandleInteraction responds to suggestion components. handled is false when
// the interaction belongs to something else.
func (r *Responder) HandleInteraction(rootScope *envelope.Scope, i *discordgo.InteractionCreate) (handled bool, err error) {
	var (
		action       Action
		suggestionID uint
		ok           bool
	)
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		action, suggestionID, ok = ParseCustomID(i.MessageComponentData().CustomID)
		ok = ok && action != ActionRejectModal
	case discordgo.InteractionModalSubmit:
		action, suggestionID, ok = ParseCustomID(i.ModalSubmitData().CustomID)
		ok = ok && action == ActionRejectModal
	}
	if !ok {
		return false, nil
	}

	scope := rootScope.NewChildScope("Responder.HandleInteraction")
	defer scope.Finish()

	user := interactionUser(i)
	if user == nil {
		return true, errNoUser
	}
	scope.Log = scope.Log.WithField("discordUserID", user.ID).WithField("suggestionID", suggestionID)

	var response *discordgo.InteractionResponse
	switch action {
	case ActionAccept:
		response = r.accept(scope, suggestionID, user.ID)
	case ActionReject:
		response = rejectModal(suggestionID)
	case ActionRejectModal:
		response = r.reject(scope, suggestionID, user.ID, rejectReason(i.ModalSubmitData()))
	}

	if err = r.session.InteractionRespond(i.Interaction, response); err != nil {
		scope.Log.Errorf("unable to respond to interaction: %s", err)
		return true, err
	}
	return true, nil
}

func (r *Responder) accept(scope *envelope.Scope, suggestionID uint, discordUserID string) *discordgo.InteractionResponse {
	result, err := r.store.AcceptSuggestion(scope, suggestionID, discordUserID, r.now())
	if err != nil {
		return errorResponse(err)
	}
	scope.Log.Infof("suggestion accepted for team %q", result.Suggestion.TeamName)

	accepted := pie.Filter(result.Team, func(s models.MatchSuggestion) bool {
		return s.Status == models.SuggestionAccepted
	})
	if result.TeamConfirmed {
		r.announceTeam(scope, result)
	}

	return acceptedResponse(acceptOutcome{
		teamName:  result.Suggestion.TeamName,
		accepted:  len(accepted),
		size:      len(result.Team),
		confirmed: result.TeamConfirmed,
	})
}

// announceTeam tells every member that the team is complete.
func (r *Responder) announceTeam(scope *envelope.Scope, result storage.AcceptResult) {
	if r.notifier == nil {
		return
	}
	names := memberNames(result.Team)
	for _, s := range result.Team {
		if s.Participant == nil {
			continue
		}
		message := TeamConfirmedMessage(result.Suggestion.TeamName, names)
		if err := r.notifier.SendDirect(scope, s.Participant.DiscordUserID, message); err != nil {
			scope.Log.Warnf("team confirmation not delivered to participant %d: %s", s.ParticipantID, err)
		}
	}
}

func (r *Responder) reject(scope *envelope.Scope, suggestionID uint, discordUserID string, reason string) *discordgo.InteractionResponse {
	suggestion, err := r.store.RejectSuggestion(scope, suggestionID, discordUserID, reason, r.now())
	if err != nil {
		return errorResponse(err)
	}
	scope.Log.Infof("suggestion rejected for team %q", suggestion.TeamName)
	return rejectedResponse(suggestion.TeamName)
}

func rejectReason(data discordgo.ModalSubmitInteractionData) string {
	for _, component := range data.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rowComponent := range row.Components {
			input, ok := rowComponent.(*discordgo.TextInput)
			if ok && input.CustomID == constants.RejectReasonInputID {
				return input.Value
			}
		}
	}
	return ""
}
