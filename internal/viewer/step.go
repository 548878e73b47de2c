package viewer

// stepper turns variable frame times into a whole number of fixed steps,
// carrying the remainder to the next frame.
type stepper struct {
	step float64
	acc  float64
}

func newStepper(step float64) *stepper {
	return &stepper{step: step}
}

// advance adds frame seconds and returns how many steps are due.
func (s *stepper) advance(frame float64) int {
	if frame > 0 {
		s.acc += frame
	}
	n := 0
	for s.acc >= s.step {
		s.acc -= s.step
		n++
	}
	return n
}
