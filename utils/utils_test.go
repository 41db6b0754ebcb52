package utils

import (
	"image"
	"image/color"
	"testing"
)

func TestFloat32ArrayRoundTrip(t *testing.T) {
	fa := []float32{0.1, -0.2, 0.3, 42}
	got := ByteArrayToFloat32Array(Float32ArrayToByteArray(fa))
	if len(got) != len(fa) {
		t.Fatalf("round trip length = %d, want %d", len(got), len(fa))
	}
	for i := range fa {
		if got[i] != fa[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], fa[i])
		}
	}
	// Truncated blobs drop the partial trailing value instead of panicking
	if got := ByteArrayToFloat32Array([]byte{1, 2, 3}); len(got) != 0 {
		t.Errorf("partial blob decoded to %v", got)
	}
}

func TestSha512String(t *testing.T) {
	if got := Sha512String("a"); len(got) != 128 {
		t.Errorf("hex sha512 length = %d, want 128", len(got))
	}
	if Sha512String("a") != Sha512String("a") {
		t.Error("hashing is not deterministic")
	}
	if Sha512String("a") == Sha512String("b") {
		t.Error("different inputs hashed alike")
	}
}

func TestRandSalt(t *testing.T) {
	if RandSalt(16) == RandSalt(16) {
		t.Error("two salts came out identical")
	}
}

func TestCropFace(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	tests := []struct {
		name    string
		rect    image.Rectangle
		wantNil bool
	}{
		{"inside bounds", image.Rect(2, 2, 12, 12), false},
		{"spills over the edge", image.Rect(10, 10, 40, 40), false},
		{"negative origin clipped", image.Rect(-5, -5, 5, 5), false},
		{"entirely outside", image.Rect(30, 30, 40, 40), true},
		{"degenerate", image.Rect(5, 5, 5, 9), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CropFace(img, tt.rect, 16)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil crop, got %v", got.Bounds())
				}
				return
			}
			if got == nil {
				t.Fatal("expected a crop, got nil")
			}
			b := got.Bounds()
			if b.Dx() != 16 || b.Dy() != 16 {
				t.Errorf("crop size = %dx%d, want 16x16", b.Dx(), b.Dy())
			}
		})
	}
}
