package camera

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"os/exec"
	"sync"
)

// FFmpegSource acquires frames by piping an ffmpeg MJPEG stream from a
// capture device or network URL. The subprocess is started lazily on the
// first NextFrame call and restarted if the stream breaks.
type FFmpegSource struct {
	input  string
	format string // ffmpeg input format, e.g. v4l2; empty lets ffmpeg guess

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
}

func NewFFmpegSource(input, format string) *FFmpegSource {
	return &FFmpegSource{input: input, format: format}
}

func (s *FFmpegSource) start() error {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if s.format != "" {
		args = append(args, "-f", s.format)
	}
	args = append(args, "-i", s.input, "-f", "image2pipe", "-vcodec", "mjpeg", "-q:v", "5", "-")
	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err = cmd.Start(); err != nil {
		return err
	}
	log.Printf("Capture started: ffmpeg reading %s", s.input)
	s.cmd = cmd
	s.stdout = stdout
	s.reader = bufio.NewReaderSize(stdout, 1<<20)
	return nil
}

// NextFrame blocks until the next complete JPEG arrives on the pipe
func (s *FFmpegSource) NextFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		if err := s.start(); err != nil {
			return nil, fmt.Errorf("cannot start capture for %s: %w", s.input, err)
		}
	}
	data, err := s.readJPEG()
	if err != nil {
		s.shutdown()
		return nil, fmt.Errorf("capture stream %s broke: %w", s.input, err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// readJPEG scans the MJPEG byte stream for one SOI..EOI segment
func (s *FFmpegSource) readJPEG() ([]byte, error) {
	// Seek the start-of-image marker
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != 0xFF {
			continue
		}
		b, err = s.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == 0xD8 {
			break
		}
	}
	data := []byte{0xFF, 0xD8}
	prev := byte(0)
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		data = append(data, b)
		if prev == 0xFF && b == 0xD9 {
			return data, nil
		}
		prev = b
	}
}

func (s *FFmpegSource) shutdown() {
	if s.cmd == nil {
		return
	}
	_ = s.stdout.Close()
	_ = s.cmd.Process.Kill()
	_ = s.cmd.Wait()
	s.cmd = nil
	s.stdout = nil
	s.reader = nil
}

// Release stops the capture subprocess. Call only after the pipeline worker
// has been stopped.
func (s *FFmpegSource) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown()
}
