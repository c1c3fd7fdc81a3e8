package dedup

// RunState holds the ephemeral seen sets for one pipeline execution. It
// guards against two feeds delivering the same underlying story within a
// single run, before either has been persisted. Never persisted; create a
// fresh value at run start.
type RunState struct {
	links  map[string]struct{}
	titles map[string]struct{}
}

// NewRunState returns empty run-scoped state.
func NewRunState() *RunState {
	return &RunState{
		links:  make(map[string]struct{}),
		titles: make(map[string]struct{}),
	}
}

// SeenLink reports whether link was already dispatched in this run.
func (s *RunState) SeenLink(link string) bool {
	_, ok := s.links[link]
	return ok
}

// SeenTitle reports whether the publisher-qualified loose title key was
// already dispatched in this run.
func (s *RunState) SeenTitle(key string) bool {
	_, ok := s.titles[key]
	return ok
}

// MarkLink records link in the run-scoped set.
func (s *RunState) MarkLink(link string) {
	if link != "" {
		s.links[link] = struct{}{}
	}
}

// MarkTitle records the loose title key in the run-scoped set.
func (s *RunState) MarkTitle(key string) {
	if key != "" {
		s.titles[key] = struct{}{}
	}
}
