package record

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeSink struct {
	writes  [][]byte
	closes  int
	failing bool
}

func (f *fakeSink) Write(p []byte) (int, error) {
	if f.failing {
		return 0, errors.New("broken pipe")
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	f.writes = append(f.writes, buf)
	return len(p), nil
}

func (f *fakeSink) Close() error {
	f.closes++
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestFramesArriveInOrder(t *testing.T) {
	sink := &fakeSink{}
	r := NewWithSink(testLogger(), sink, 2, 2)

	for i := 0; i < 10; i++ {
		frame := make([]byte, 2*2*4)
		frame[0] = byte(i)
		if err := r.WriteFrame(frame); err != nil {
			t.Fatalf("frame %d rejected: %v", i, err)
		}
	}

	if err := r.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if len(sink.writes) != 10 {
		t.Fatalf("encoder received %d frames, want 10", len(sink.writes))
	}
	for i, w := range sink.writes {
		if w[0] != byte(i) {
			t.Errorf("frame %d out of order: marker %d", i, w[0])
		}
	}
	if sink.closes != 1 {
		t.Errorf("encoder closed %d times, want exactly 1", sink.closes)
	}
	if r.Frames() != 10 {
		t.Errorf("Frames() = %d, want 10", r.Frames())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	sink := &fakeSink{}
	r := NewWithSink(testLogger(), sink, 1, 1)

	if err := r.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if sink.closes != 1 {
		t.Errorf("sink closed %d times, want 1", sink.closes)
	}
}

func TestNoFramesAfterClose(t *testing.T) {
	sink := &fakeSink{}
	r := NewWithSink(testLogger(), sink, 1, 1)
	r.Close()

	err := r.WriteFrame(make([]byte, 4))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("frame leaked past close: %d writes", len(sink.writes))
	}
}

func TestFrameSizeChecked(t *testing.T) {
	r := NewWithSink(testLogger(), &fakeSink{}, 4, 4)

	err := r.WriteFrame(make([]byte, 7))
	if !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
}

func TestDeadEncoderSurfacesOnWrite(t *testing.T) {
	sink := &fakeSink{failing: true}
	r := NewWithSink(testLogger(), sink, 1, 1)

	err := r.WriteFrame(make([]byte, 4))
	if err == nil {
		t.Fatal("expected write to a dead encoder to fail")
	}
	if errors.Is(err, ErrClosed) || errors.Is(err, ErrFrameSize) {
		t.Errorf("failure should be a pipe error, got %v", err)
	}
}
