package mapview

// controlSlot holds at most one installed control. Replacing the occupant
// removes the old control from the engine before the new one is added, so
// the engine never carries two return buttons.
type controlSlot struct {
	handle   ControlHandle
	control  Control
	occupied bool
}

func (s *controlSlot) replace(e Engine, c Control) {
	s.release(e)
	s.handle = e.AddControl(c)
	s.control = c
	s.occupied = true
}

func (s *controlSlot) release(e Engine) {
	if !s.occupied {
		return
	}
	e.RemoveControl(s.handle)
	s.control = Control{}
	s.occupied = false
}

// click invokes the occupant's action. It reports false when empty.
func (s *controlSlot) click() bool {
	if !s.occupied || s.control.OnClick == nil {
		return false
	}
	s.control.OnClick()
	return true
}
