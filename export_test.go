package govsync

// Generation exposes the number of Refresh calls made so far.
func (s *Synchronizer) Generation() uint64 {
	return s.gen.Load()
}
