// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AccelByte/hackathon-teambot/pkg/compatibility"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/utils"
)

const defaultTeamName = "Dream Team"

var skillTeamNames = map[string]string{
	"python":           "Python Squad",
	"javascript":       "JS Innovators",
	"react":            "React Force",
	"design":           "Design Masters",
	"machine learning": "ML Warriors",
	"data science":     "Data Wizards",
	"ai":               "AI Pioneers",
	"unity":            "Game Creators",
	"figma":            "Design Squad",
	"comunicação":      "Communication Hub",
	"liderança":        "Leadership Team",
}

// SuggestTeamName names a team after the skill most of its members list.
func SuggestTeamName(members []models.Participant, teamID int) string {
	skills := make([]string, 0)
	for _, m := range members {
		skills = append(skills, compatibility.ExtractSkills(m.Skills())...)
	}

	name := defaultTeamName
	if top, ok := utils.MostFrequent(skills); ok {
		if mapped, found := skillTeamNames[top]; found {
			name = mapped
		} else {
			// a Caser keeps state, one per call
			name = "Team " + cases.Title(language.BrazilianPortuguese).String(top)
		}
	}

	return fmt.Sprintf("%s #%d", name, teamID)
}
