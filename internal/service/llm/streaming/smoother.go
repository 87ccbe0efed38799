package streaming

import (
	"context"
	"regexp"
	"time"
)

var wordChunk = regexp.MustCompile(`\S+\s+`)

// smoother re-chunks text deltas at word boundaries and paces them with a
// fixed delay between chunks.
type smoother struct {
	delay time.Duration
	emit  func(string) error
	buf   string
}

func newSmoother(delay time.Duration, emit func(string) error) *smoother {
	return &smoother{delay: delay, emit: emit}
}

// Push buffers delta and emits every complete word it now holds.
func (s *smoother) Push(ctx context.Context, delta string) error {
	s.buf += delta
	for {
		loc := wordChunk.FindStringIndex(s.buf)
		if loc == nil {
			return nil
		}
		chunk := s.buf[:loc[1]]
		s.buf = s.buf[loc[1]:]
		if err := s.emit(chunk); err != nil {
			return err
		}
		if err := sleep(ctx, s.delay); err != nil {
			return err
		}
	}
}

// Flush emits whatever is left in the buffer.
func (s *smoother) Flush() error {
	if s.buf == "" {
		return nil
	}
	chunk := s.buf
	s.buf = ""
	return s.emit(chunk)
}

// Pending reports whether text is buffered.
func (s *smoother) Pending() bool {
	return s.buf != ""
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
