package faces

import (
	"errors"
	"image"

	"attendance/utils"

	goface "github.com/Kagami/go-face"
)

// goFaceRecognizer backs the Recognizer boundary with dlib via go-face.
type goFaceRecognizer struct {
	rec *goface.Recognizer
}

// Init loads the dlib model files from modelsDir. The models are required
// for anything face-related to work, so failure here is fatal.
func Init(modelsDir string) Recognizer {
	rec, err := goface.NewRecognizer(modelsDir)
	if err != nil {
		panic(err)
	}
	return &goFaceRecognizer{rec: rec}
}

func (g *goFaceRecognizer) Detect(img image.Image) ([]Detection, error) {
	data, err := utils.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}
	found, err := g.rec.Recognize(data)
	if err != nil {
		return nil, err
	}
	result := make([]Detection, 0, len(found))
	for _, f := range found {
		// dlib's frontal detector applies its own score cutoff before
		// returning boxes, so surviving boxes are reported at full confidence
		result = append(result, Detection{Rect: f.Rectangle, Confidence: 1.0})
	}
	return result, nil
}

func (g *goFaceRecognizer) Embed(crop image.Image) (Descriptor, error) {
	data, err := utils.EncodeJPEG(crop)
	if err != nil {
		return nil, err
	}
	f, err := g.rec.RecognizeSingle(data)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("no face found in crop")
	}
	desc := [128]float32(f.Descriptor)
	return Descriptor(desc[:]), nil
}
