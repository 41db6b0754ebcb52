package gallery

import (
	"fmt"
	"image"
	"math"

	"attendance/faces"
)

type Outcome uint8

const (
	MatchUnknown Outcome = iota
	MatchKnown
	MatchError
)

// MatchResult is the classification of a single face crop
type MatchResult struct {
	Rect    image.Rectangle
	Name    string
	Class   string
	Score   float64
	Outcome Outcome
}

// Label is the display string for frame annotation
func (r MatchResult) Label() string {
	switch r.Outcome {
	case MatchKnown:
		return fmt.Sprintf("%s (%.2f)", r.Name, r.Score)
	case MatchError:
		return "Error"
	}
	return "Unknown"
}

// CosineSimilarity returns 1 - cosine distance, in [-1, 1], higher is more
// similar. Magnitude-independent. Zero-length vectors score 0.
func CosineSimilarity(a, b faces.Descriptor) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Classify matches a descriptor against every identity in the snapshot.
// The maximum similarity wins; ties resolve to the identity encountered
// first in snapshot order. A score at or above threshold is a match
// (inclusive); anything below is Unknown carrying the best score. An empty
// snapshot always yields Unknown.
func Classify(desc faces.Descriptor, snap *Snapshot, threshold float64) MatchResult {
	best := -1
	bestScore := 0.0
	for i := range snap.Identities {
		score := CosineSimilarity(desc, snap.Identities[i].Descriptor)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return MatchResult{Outcome: MatchUnknown}
	}
	if bestScore >= threshold {
		return MatchResult{
			Name:    snap.Identities[best].Name,
			Class:   snap.Identities[best].Class,
			Score:   bestScore,
			Outcome: MatchKnown,
		}
	}
	return MatchResult{Score: bestScore, Outcome: MatchUnknown}
}

// ClassifyCrop embeds an isolated face crop and classifies it. An embedding
// failure is a classification outcome (MatchError, score 0), never an error
// return - per-face failures must not take down the caller's loop.
func ClassifyCrop(rec faces.Recognizer, crop image.Image, snap *Snapshot, threshold float64) MatchResult {
	desc, err := rec.Embed(crop)
	if err != nil {
		return MatchResult{Outcome: MatchError}
	}
	return Classify(desc, snap, threshold)
}
