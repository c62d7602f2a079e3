package orion

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// number of frames in the statistics window. A summary is logged
// each time the window is filled.
const statsWindow = 60 * 10

type frameTimings struct {
	Total time.Duration

	Acquire time.Duration
	Queue   time.Duration
	Draw    time.Duration
}

// FrameStats records the timings of the phases of the most recent frames.
type FrameStats struct {
	frameCount int
	frames     [statsWindow]frameTimings

	timeStartFrame time.Time
	timeAcquired   time.Time
	timeQueued     time.Time

	mem runtime.MemStats

	now func() time.Time
}

func NewFrameStats() *FrameStats {
	return &FrameStats{now: time.Now}
}

func (s *FrameStats) StartFrame() {
	s.timeStartFrame = s.now()
}

func (s *FrameStats) Acquired() {
	s.timeAcquired = s.now()
}

func (s *FrameStats) Queued() {
	s.timeQueued = s.now()
}

func (s *FrameStats) EndFrame() {
	now := s.now()

	s.frames[s.frameCount%len(s.frames)] = frameTimings{
		Total:   now.Sub(s.timeStartFrame),
		Acquire: s.timeAcquired.Sub(s.timeStartFrame),
		Queue:   s.timeQueued.Sub(s.timeAcquired),
		Draw:    now.Sub(s.timeQueued),
	}

	s.frameCount += 1

	if s.frameCount%len(s.frames) == 0 {
		s.logSummary()
	}
}

func (s *FrameStats) FrameCount() int {
	return s.frameCount
}

// average returns the mean timings of all recorded frames in the window.
func (s *FrameStats) average() frameTimings {
	var sum frameTimings
	var count int

	for _, frame := range s.frames {
		if frame.Total <= 0 {
			continue
		}

		count += 1
		sum.Total += frame.Total
		sum.Acquire += frame.Acquire
		sum.Queue += frame.Queue
		sum.Draw += frame.Draw
	}

	if count == 0 {
		return frameTimings{}
	}

	n := time.Duration(count)

	return frameTimings{
		Total:   sum.Total / n,
		Acquire: sum.Acquire / n,
		Queue:   sum.Queue / n,
		Draw:    sum.Draw / n,
	}
}

func (s *FrameStats) FPS() float64 {
	avg := s.average()
	if avg.Total <= 0 {
		return 0
	}

	return 1.0 / avg.Total.Seconds()
}

func (s *FrameStats) logSummary() {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	runtime.ReadMemStats(&s.mem)

	avg := s.average()

	slog.Debug("Frame statistics",
		slog.Int("frames", s.frameCount),
		slog.Float64("fps", s.FPS()),
		slog.Duration("acquire", avg.Acquire),
		slog.Duration("queue", avg.Queue),
		slog.Duration("draw", avg.Draw),
		slog.Uint64("heapObjects", s.mem.HeapObjects),
		slog.Uint64("numGC", uint64(s.mem.NumGC)),
	)
}
