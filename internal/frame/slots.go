package frame

// Slots cycles the in-flight frame slot. The slot is always the frame
// counter modulo the depth.
type Slots struct {
	depth   int
	counter uint64
}

func NewSlots(depth int) *Slots {
	if depth < 1 {
		depth = 1
	}
	return &Slots{depth: depth}
}

func (s *Slots) Depth() int { return s.depth }

func (s *Slots) Current() int {
	return int(s.counter % uint64(s.depth))
}

// Frame is the number of frames advanced past so far.
func (s *Slots) Frame() uint64 { return s.counter }

func (s *Slots) Advance() int {
	s.counter++
	return s.Current()
}
