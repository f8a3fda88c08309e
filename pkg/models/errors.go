// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ErrSuggestionNotFound     = errors.New("match suggestion not found")
	ErrSuggestionNotPending   = errors.New("match suggestion was already answered")
	ErrSuggestionExpired      = errors.New("match suggestion has expired")
	ErrParticipantNotFound    = errors.New("participant not found")
	ErrParticipantUnavailable = errors.New("participant is no longer available for teams")
	ErrFormationInProgress    = errors.New("a team formation is already running")
	ErrInvalidParticipant     = errors.New("participant snapshot has a missing or repeated id")
	ErrTeamDissolved          = errors.New("a member of the suggested team already dropped out")
)

var errorCodeMap = map[error]int{
	ErrSuggestionNotFound:     520101,
	ErrSuggestionNotPending:   520102,
	ErrSuggestionExpired:      520103,
	ErrParticipantNotFound:    520104,
	ErrParticipantUnavailable: 520105,
	ErrFormationInProgress:    520106,
	ErrInvalidParticipant:     520107,
	ErrTeamDissolved:          520108,
}

// ErrorCode returns a code for the error, matching wrapped errors too.
// It returns 20000 (internal error) if the error is not registered in the map.
func ErrorCode(err error) int {
	for known, code := range errorCodeMap {
		if errors.Is(err, known) {
			return code
		}
	}
	return 20000
}
