package faces

import "image"

// Detection is the structured boundary type for the external face detector.
// Only detections above the configured confidence cutoff are acted upon.
type Detection struct {
	Rect       image.Rectangle
	Confidence float64
}

// Descriptor is a fixed-length face embedding (128 floats for dlib models)
type Descriptor []float32

// Recognizer is the external detect/embed collaborator. Implementations are
// opaque to the rest of the system.
type Recognizer interface {
	// Detect finds face boxes in a frame or gallery image
	Detect(img image.Image) ([]Detection, error)
	// Embed computes the descriptor for an already-isolated face crop
	Embed(crop image.Image) (Descriptor, error)
}
