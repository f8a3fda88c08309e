// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package utils

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates uuid without hyphens.
func GenerateUUID() string {
	id, _ := uuid.NewRandom()
	return strings.ReplaceAll(id.String(), "-", "")
}

// IntersectionOfStringLists returns the strings present in every list, in the
// order they complete the count.
func IntersectionOfStringLists(stringLists ...[]string) []string {
	neededCount := len(stringLists)
	countMap := make(map[string]int)
	intersection := make([]string, 0)
	for _, stringList := range stringLists {
		seenStringAlreadyInThisList := make(map[string]struct{})
		for _, str := range stringList {
			if _, yes := seenStringAlreadyInThisList[str]; yes {
				continue
			}
			seenStringAlreadyInThisList[str] = struct{}{}
			countMap[str] += 1
			if countMap[str] == neededCount {
				intersection = append(intersection, str)
			}
		}
	}
	return intersection
}

// UnionCount returns the size of the union of two string lists.
func UnionCount(a, b []string) int {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// StringSet is an insertion-agnostic set that renders sorted.
type StringSet map[string]struct{}

func (s StringSet) Add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

// Sorted returns the members in ascending order, never nil.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MostFrequent returns the most frequent value; on ties the value seen first wins.
func MostFrequent(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}
