// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"strings"

	"github.com/go-openapi/swag"
)

type Modality string

const (
	ModalityInPerson Modality = "Presencial"
	ModalityRemote   Modality = "Remoto"
)

type EducationLevel string

const (
	EducationElementary    EducationLevel = "Ensino Fundamental"
	EducationHighSchool    EducationLevel = "Ensino Médio"
	EducationTechnical     EducationLevel = "Ensino Técnico"
	EducationUndergraduate EducationLevel = "Graduação"
	EducationPostgraduate  EducationLevel = "Pós-graduação"
)

const (
	BracketSecondary     = "secondary"
	BracketPostSecondary = "post_secondary"
)

// Bracket groups education levels for the compatibility bonus.
func (e EducationLevel) Bracket() string {
	switch e {
	case EducationUndergraduate, EducationPostgraduate:
		return BracketPostSecondary
	default:
		return BracketSecondary
	}
}

// Participant is a registered person that may be grouped into a team.
//
//nolint:lll // struct tags can't be split
type Participant struct {
	ModelUintID
	ModelUnixTime

	DiscordUserID     string         `json:"discord_user_id" gorm:"uniqueIndex;not null"`
	FirstName         string         `json:"first_name"      gorm:"not null"`
	LastName          string         `json:"last_name"`
	City              string         `json:"city"`
	Modality          Modality       `json:"modality"`
	Education         EducationLevel `json:"education"`
	SkillsDescription *string        `json:"skills_description,omitempty"`
	AvailableForTeam  bool           `json:"available_for_team" gorm:"index;not null;default:false"`
	TeamName          *string        `json:"team_name,omitempty"`
}

func (Participant) TableName() string {
	return "participants"
}

// DisplayName is the first and last name joined by a space.
func (p Participant) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Skills returns the free-text skills, empty when not informed.
func (p Participant) Skills() string {
	return swag.StringValue(p.SkillsDescription)
}
