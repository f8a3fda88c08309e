// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type sentMessage struct {
	UserID  string
	Message *discordgo.MessageSend
}

// fakeSession records what the bot would send to Discord.
type fakeSession struct {
	mu        sync.Mutex
	Blocked   map[string]bool
	Sent      []sentMessage
	Responses []*discordgo.InteractionResponse
}

func newFakeSession() *fakeSession {
	return &fakeSession{Blocked: map[string]bool{}}
}

func (f *fakeSession) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.Blocked[recipientID] {
		return nil, errors.New("HTTP 403 Forbidden, Cannot send messages to this user")
	}
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, sentMessage{UserID: channelID[len("dm-"):], Message: data})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses = append(f.Responses, resp)
	return nil
}

func (f *fakeSession) lastResponse() *discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Responses) == 0 {
		return nil
	}
	return f.Responses[len(f.Responses)-1]
}
