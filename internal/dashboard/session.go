package dashboard

// Update is one recomputed panel pushed to the browser
type Update struct {
	Output string      `json:"output"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Session is one connection's view of a dashboard: the registry plus the
// connection's own input state. A session is driven by a single reader
// goroutine, so it carries no locking.
type Session struct {
	registry *Registry
	inputs   Inputs
}

// NewSession starts a session with the given default input state
func NewSession(registry *Registry, defaults Inputs) *Session {
	return &Session{
		registry: registry,
		inputs:   defaults.clone(),
	}
}

// Input returns the current value of a control
func (s *Session) Input(name string) (interface{}, bool) {
	v, ok := s.inputs[name]
	return v, ok
}

// ComputeAll evaluates every registered output, for the initial page render
func (s *Session) ComputeAll() []Update {
	return s.computeOutputs(s.registry.Outputs())
}

// Set updates one control and recomputes only the outputs that declared it
func (s *Session) Set(input string, value interface{}) []Update {
	s.inputs[input] = value
	return s.computeOutputs(s.registry.Affected(input))
}

// SetAll applies several control changes at once and recomputes each
// affected output exactly once.
func (s *Session) SetAll(changes Inputs) []Update {
	affected := make(map[string]bool)
	for input, value := range changes {
		s.inputs[input] = value
		for _, name := range s.registry.Affected(input) {
			affected[name] = true
		}
	}

	var names []string
	for _, name := range s.registry.Outputs() {
		if affected[name] {
			names = append(names, name)
		}
	}
	return s.computeOutputs(names)
}

func (s *Session) computeOutputs(names []string) []Update {
	updates := make([]Update, 0, len(names))
	for _, name := range names {
		data, err := s.registry.Compute(name, s.inputs)
		if err != nil {
			updates = append(updates, Update{Output: name, Error: err.Error()})
			continue
		}
		updates = append(updates, Update{Output: name, Data: data})
	}
	return updates
}
