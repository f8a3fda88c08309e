// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"github.com/AccelByte/hackathon-teambot/pkg/models"
	"github.com/AccelByte/hackathon-teambot/pkg/region"
)

// Bucket holds the participants sharing a region and a modality.
type Bucket struct {
	Key          string
	Region       string
	Modality     models.Modality
	Participants []models.Participant
}

func BucketKey(regionKey string, modality models.Modality) string {
	return regionKey + "_" + string(modality)
}

// PartitionByRegionModality buckets participants by region and modality.
// Buckets are returned in order of first appearance and keep the input order
// of their members, so the same pool always yields the same buckets.
func PartitionByRegionModality(participants []models.Participant) []Bucket {
	buckets := make([]Bucket, 0)
	index := make(map[string]int)

	for _, p := range participants {
		r := region.Classify(p.City)
		key := BucketKey(r, p.Modality)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Region: r, Modality: p.Modality})
		}
		buckets[i].Participants = append(buckets[i].Participants, p)
	}

	return buckets
}

// splitPool cuts participants into consecutive chunks of near equal size,
// none larger than maxSize. The exhaustive candidate search grows
// combinatorially with the pool, so no selector ever sees more than maxSize.
func splitPool(participants []models.Participant, maxSize int) [][]models.Participant {
	n := len(participants)
	if n == 0 {
		return nil
	}
	if maxSize <= 0 || n <= maxSize {
		return [][]models.Participant{participants}
	}

	numChunks := (n + maxSize - 1) / maxSize
	base, extra := n/numChunks, n%numChunks

	chunks := make([][]models.Participant, 0, numChunks)
	start := 0
	for i := 0; i < numChunks; i++ {
		size := base
		if i < extra {
			size++
		}
		chunks = append(chunks, participants[start:start+size])
		start += size
	}
	return chunks
}
