package loop

import "time"

// FPSWindow is how far back the FPS counter looks.
const FPSWindow = time.Second

// FPSCounter measures the frame rate over a sliding one second window.
type FPSCounter struct {
	frames []time.Time
}

// Tick records a frame at now and returns the frames per second over the
// retained window. Timestamps older than the window are discarded.
func (c *FPSCounter) Tick(now time.Time) float64 {
	c.frames = append(c.frames, now)

	cut := 0
	for cut < len(c.frames) && now.Sub(c.frames[cut]) > FPSWindow {
		cut++
	}
	if cut > 0 {
		n := copy(c.frames, c.frames[cut:])
		c.frames = c.frames[:n]
	}
	return float64(len(c.frames)) / FPSWindow.Seconds()
}
