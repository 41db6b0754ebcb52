package utils

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/nfnt/resize"
)

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

func RandSalt(saltSize int) string {
	b := make([]byte, saltSize)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func Float32ArrayToByteArray(fa []float32) []byte {
	buf := bytes.Buffer{}
	_ = binary.Write(&buf, binary.LittleEndian, fa)
	return buf.Bytes()
}

func ByteArrayToFloat32Array(b []byte) (result []float32) {
	for i := 0; i+3 < len(b); i += 4 {
		ui32 := uint32(b[i+0]) +
			uint32(b[i+1])<<8 +
			uint32(b[i+2])<<16 +
			uint32(b[i+3])<<24
		result = append(result, math.Float32frombits(ui32))
	}
	return
}

// LoadImage decodes a PNG/JPEG/GIF file from disk
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	return img, err
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CropFace clips rect to the image bounds, crops and scales the result to a
// size x size square (the embedding model input). Returns nil if the clipped
// rectangle has no area.
func CropFace(img image.Image, rect image.Rectangle, size int) image.Image {
	clipped := rect.Intersect(img.Bounds())
	if clipped.Dx() <= 0 || clipped.Dy() <= 0 {
		return nil
	}
	var face image.Image
	if si, ok := img.(subImager); ok {
		face = si.SubImage(clipped)
	} else {
		// Decoded images all support SubImage; copy pixel by pixel otherwise
		rgba := image.NewRGBA(image.Rect(0, 0, clipped.Dx(), clipped.Dy()))
		for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
			for x := clipped.Min.X; x < clipped.Max.X; x++ {
				rgba.Set(x-clipped.Min.X, y-clipped.Min.Y, img.At(x, y))
			}
		}
		face = rgba
	}
	return resize.Resize(uint(size), uint(size), face, resize.Lanczos3)
}

// EncodeJPEG returns the image as JPEG bytes (the recognizer input format)
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
