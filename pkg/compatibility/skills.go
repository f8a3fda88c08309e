// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package compatibility

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	skillSeparator = regexp.MustCompile(`[,;/|\n\t]+|\s+(?:e|and|ou|or)\s+`)

	skillAliases = map[string]string{
		"js":                      "javascript",
		"node":                    "nodejs",
		"node.js":                 "nodejs",
		"py":                      "python",
		"ts":                      "typescript",
		"ml":                      "machine learning",
		"aprendizado de máquina":  "machine learning",
		"ia":                      "ai",
		"inteligência artificial": "ai",
		"artificial intelligence": "ai",
		"ciência de dados":        "data science",
		"ux":                      "design",
		"ui":                      "design",
		"golang":                  "go",
		"reactjs":                 "react",
		"react.js":                "react",
		"comunicacao":             "comunicação",
		"lideranca":               "liderança",
	}

	stopTokens = map[string]struct{}{
		"de": {}, "da": {}, "do": {}, "em": {}, "com": {}, "para": {},
		"etc": {}, "outros": {}, "outras": {}, "básico": {}, "basico": {},
		"intermediário": {}, "avançado": {}, "nenhuma": {}, "nenhum": {},
		"the": {}, "with": {}, "some": {}, "none": {},
	}
)

// ExtractSkills splits a free-text skills description into normalized skill
// tokens, in first-seen order and without duplicates.
func ExtractSkills(description string) []string {
	description = strings.ToLower(strings.TrimSpace(description))
	if description == "" {
		return []string{}
	}

	parts := skillSeparator.Split(description, -1)
	skills := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		token := strings.TrimFunc(part, func(r rune) bool {
			return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '+' && r != '#')
		})
		token = strings.Join(strings.Fields(token), " ")
		if alias, ok := skillAliases[token]; ok {
			token = alias
		}
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		if _, stop := stopTokens[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		skills = append(skills, token)
	}

	return skills
}
