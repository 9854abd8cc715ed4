package rendertest

// Surface is a window stand-in with a manually driven clock.
type Surface struct {
	Width  int
	Height int
	// Now is returned by Time.
	Now float64
	// Step is added to Now on every PollEvents.
	Step float64

	Swaps int
	Polls int
}

func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height}
}

func (s *Surface) FramebufferSize() (int, int) {
	return s.Width, s.Height
}

func (s *Surface) Time() float64 {
	return s.Now
}

func (s *Surface) SwapBuffers() {
	s.Swaps++
}

func (s *Surface) PollEvents() {
	s.Polls++
	s.Now += s.Step
}
