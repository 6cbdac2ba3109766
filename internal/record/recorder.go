// Package record pipes raw framebuffer captures to an external encoder
// process. The render loop owns frame pacing; this package owns the
// process lifecycle and the write/close discipline.
package record

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrClosed is returned for writes after Close.
	ErrClosed = errors.New("record: recorder closed")

	// ErrFrameSize is returned when a frame does not match the size
	// negotiated at start.
	ErrFrameSize = errors.New("record: frame size mismatch")
)

// Recorder feeds RGBA frames, in submission order, to an encoder. Writes
// are synchronous: an encoder that died is detected at the next frame
// write, and the caller decides whether that is fatal (the viewer treats
// it as "disable recording and carry on").
//
// Recorder is confined to the render thread; it has no locking.
type Recorder struct {
	log       *logrus.Logger
	sink      io.WriteCloser
	cmd       *exec.Cmd
	path      string
	frameSize int
	frames    int
	closed    bool
}

// Start spawns ffmpeg reading raw RGBA frames of the given size on
// stdin. An empty path gets a generated file name.
func Start(log *logrus.Logger, bin, path string, width, height, fps int) (*Recorder, error) {
	if path == "" {
		path = fmt.Sprintf("simscope_%s.mp4", uuid.NewString()[:8])
	}
	if bin == "" {
		bin = "ffmpeg"
	}

	binPath, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("record: encoder binary %q not found: %w", bin, err)
	}

	cmd := exec.Command(binPath,
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", "18",
		path,
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("record: open encoder stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("record: start encoder: %w", err)
	}

	log.Infof("recording %dx%d @ %d fps to %s", width, height, fps, path)

	r := NewWithSink(log, stdin, width, height)
	r.cmd = cmd
	r.path = path
	return r, nil
}

// NewWithSink builds a recorder around an arbitrary frame sink. Tests
// and non-process consumers use this directly.
func NewWithSink(log *logrus.Logger, sink io.WriteCloser, width, height int) *Recorder {
	return &Recorder{
		log:       log,
		sink:      sink,
		frameSize: width * height * 4,
	}
}

// WriteFrame submits one RGBA frame. Frames reach the encoder in the
// order written.
func (r *Recorder) WriteFrame(px []byte) error {
	if r.closed {
		return ErrClosed
	}
	if len(px) != r.frameSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(px), r.frameSize)
	}
	if _, err := r.sink.Write(px); err != nil {
		return fmt.Errorf("record: encoder write failed: %w", err)
	}
	r.frames++
	return nil
}

// Frames reports how many frames have been accepted.
func (r *Recorder) Frames() int {
	return r.frames
}

// Path returns the output file path, empty for sink-only recorders.
func (r *Recorder) Path() string {
	return r.path
}

// Close flushes and finishes the encoder exactly once; further calls
// are no-ops. No frame may be written afterwards.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.sink.Close()
	if r.cmd != nil {
		if werr := r.cmd.Wait(); werr != nil && err == nil {
			err = fmt.Errorf("record: encoder exited: %w", werr)
		}
		r.log.Infof("recording finished: %d frames to %s", r.frames, r.path)
	}
	return err
}
