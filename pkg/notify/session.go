// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package notify delivers team suggestions as Discord direct messages and
// handles the accept and reject buttons attached to them.
package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
)

// Session is the part of *discordgo.Session the bot uses, so tests can fake it.
type Session interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

var _ Session = (*discordgo.Session)(nil)

// Action is what a component custom id asks for.
type Action string

const (
	ActionAccept      Action = constants.CustomIDAcceptPrefix
	ActionReject      Action = constants.CustomIDRejectPrefix
	ActionRejectModal Action = constants.CustomIDRejectModalPrefix
)

func customID(action Action, suggestionID uint) string {
	return fmt.Sprintf("%s:%d", action, suggestionID)
}

// ParseCustomID splits "<action>:<suggestion id>". ok is false for custom ids
// that belong to other features.
func ParseCustomID(id string) (action Action, suggestionID uint, ok bool) {
	prefix, rawID, found := strings.Cut(id, ":")
	if !found {
		return "", 0, false
	}
	switch Action(prefix) {
	case ActionAccept, ActionReject, ActionRejectModal:
	default:
		return "", 0, false
	}
	parsed, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || parsed == 0 {
		return "", 0, false
	}
	return Action(prefix), uint(parsed), true
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	u := i.User
	if u == nil && i.Member != nil {
		u = i.Member.User
	}
	return u
}
