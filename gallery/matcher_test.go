package gallery

import (
	"errors"
	"image"
	"math"
	"testing"

	"attendance/faces"
)

func snapshotOf(identities ...Identity) *Snapshot {
	return &Snapshot{Identities: identities}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b faces.Descriptor
		want float64
	}{
		{"identical", faces.Descriptor{1, 0, 0}, faces.Descriptor{1, 0, 0}, 1},
		{"opposite", faces.Descriptor{1, 0, 0}, faces.Descriptor{-1, 0, 0}, -1},
		{"orthogonal", faces.Descriptor{1, 0, 0}, faces.Descriptor{0, 1, 0}, 0},
		{"magnitude independent", faces.Descriptor{2, 0, 0}, faces.Descriptor{5, 0, 0}, 1},
		{"zero vector", faces.Descriptor{0, 0, 0}, faces.Descriptor{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyThresholdBoundary(t *testing.T) {
	// alice's descriptor at 45 degrees from the probe: similarity is exactly
	// cos(45) ~ 0.7071
	snap := snapshotOf(Identity{Name: "alice", Class: "10A", Descriptor: faces.Descriptor{1, 1}})
	probe := faces.Descriptor{1, 0}
	sim := CosineSimilarity(probe, snap.Identities[0].Descriptor)

	// Exactly at the threshold: a match (inclusive)
	result := Classify(probe, snap, sim)
	if result.Outcome != MatchKnown || result.Name != "alice" {
		t.Errorf("score == threshold should match, got %+v", result)
	}
	if math.Abs(result.Score-sim) > 1e-9 {
		t.Errorf("match score = %v, want %v", result.Score, sim)
	}
	// One epsilon above the score: Unknown, still carrying the best score
	result = Classify(probe, snap, sim+1e-9)
	if result.Outcome != MatchUnknown {
		t.Errorf("score < threshold should be Unknown, got %+v", result)
	}
	if math.Abs(result.Score-sim) > 1e-9 {
		t.Errorf("Unknown score = %v, want best similarity %v", result.Score, sim)
	}
}

func TestClassifyTieBreak(t *testing.T) {
	// Two identities with identical descriptors: max similarity ties and the
	// first in snapshot order must win, every time
	snap := snapshotOf(
		Identity{Name: "alice", Descriptor: faces.Descriptor{1, 0}},
		Identity{Name: "bob", Descriptor: faces.Descriptor{1, 0}},
	)
	for i := 0; i < 100; i++ {
		result := Classify(faces.Descriptor{1, 0}, snap, 0.6)
		if result.Name != "alice" {
			t.Fatalf("run %d: tie resolved to %q, want alice", i, result.Name)
		}
	}
}

func TestClassifyEmptySnapshot(t *testing.T) {
	result := Classify(faces.Descriptor{1, 0}, snapshotOf(), 0.6)
	if result.Outcome != MatchUnknown || result.Score != 0 {
		t.Errorf("empty snapshot should be Unknown score 0, got %+v", result)
	}
}

func TestClassifyPicksMaximum(t *testing.T) {
	snap := snapshotOf(
		Identity{Name: "alice", Class: "10A", Descriptor: faces.Descriptor{1, 0}},
		Identity{Name: "bob", Class: "10B", Descriptor: faces.Descriptor{0.9, 0.1}},
	)
	result := Classify(faces.Descriptor{0.9, 0.1}, snap, 0.6)
	if result.Name != "bob" || result.Class != "10B" {
		t.Errorf("expected bob to win, got %+v", result)
	}
	if result.Score < 0.99 {
		t.Errorf("bob's score should be ~1, got %v", result.Score)
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Detect(img image.Image) ([]faces.Detection, error) {
	return nil, nil
}

func (failingEmbedder) Embed(crop image.Image) (faces.Descriptor, error) {
	return nil, errors.New("model exploded")
}

func TestClassifyCropEmbedFailure(t *testing.T) {
	snap := snapshotOf(Identity{Name: "alice", Descriptor: faces.Descriptor{1, 0}})
	crop := image.NewRGBA(image.Rect(0, 0, 8, 8))
	result := ClassifyCrop(failingEmbedder{}, crop, snap, 0.6)
	if result.Outcome != MatchError {
		t.Errorf("embed failure must classify as Error, got %+v", result)
	}
	if result.Score != 0 {
		t.Errorf("Error result score = %v, want 0", result.Score)
	}
}

func TestMatchResultLabel(t *testing.T) {
	tests := []struct {
		name   string
		result MatchResult
		want   string
	}{
		{"known", MatchResult{Name: "alice", Score: 0.95, Outcome: MatchKnown}, "alice (0.95)"},
		{"unknown", MatchResult{Score: 0.31, Outcome: MatchUnknown}, "Unknown"},
		{"error", MatchResult{Outcome: MatchError}, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
