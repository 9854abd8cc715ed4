package core

import "github.com/spaghettifunk/anima2d/engine/containers"

const AVG_COUNT int = 30

// Metrics keeps a rolling window of frame times to report a smoothed frame
// time and the frames counted over the last full second.
type Metrics struct {
	samples            *containers.RingQueue[float64]
	msAVG              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		samples: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	if m.samples.IsFull() {
		_, _ = m.samples.Dequeue()
	}
	_ = m.samples.Enqueue(frameMS)

	sum := 0.0
	m.samples.Each(func(v float64) {
		sum += v
	})
	m.msAVG = sum / float64(m.samples.Len())

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}
}

// FPS is the number of frames counted during the last full second.
func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds.
func (m *Metrics) FrameTime() float64 {
	return m.msAVG
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAVG
}
