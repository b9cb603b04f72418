// Package dashboard implements the reactive panel model: named outputs
// declare the inputs they read, input state lives per session, and a
// control change recomputes only the outputs that declared it.
package dashboard

import (
	"fmt"
	"sort"
)

// Inputs is the named control state a session holds
type Inputs map[string]interface{}

// Int reads an integer input; JSON numbers arrive as float64
func (in Inputs) Int(name string) (int, bool) {
	switch v := in[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// String reads a string input
func (in Inputs) String(name string) (string, bool) {
	s, ok := in[name].(string)
	return s, ok
}

// Bool reads a boolean input
func (in Inputs) Bool(name string) (bool, bool) {
	b, ok := in[name].(bool)
	return b, ok
}

// Strings reads a string list input; JSON arrays arrive as []interface{}
func (in Inputs) Strings(name string) ([]string, bool) {
	switch v := in[name].(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// clone copies the input state so sessions never share maps
func (in Inputs) clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ComputeFunc derives one output's payload from the current input state
type ComputeFunc func(in Inputs) (interface{}, error)

type output struct {
	name    string
	inputs  []string
	compute ComputeFunc
}

// Registry maps output names to their compute functions and input
// declarations. Register everything up front; Registry is read-only
// after that and safe for concurrent sessions.
type Registry struct {
	outputs map[string]*output
	order   []string
	byInput map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		outputs: make(map[string]*output),
		byInput: make(map[string][]string),
	}
}

// Register adds a named output with its declared inputs
func (r *Registry) Register(name string, inputs []string, fn ComputeFunc) error {
	if name == "" {
		return fmt.Errorf("register output: empty name")
	}
	if fn == nil {
		return fmt.Errorf("register output %s: nil compute", name)
	}
	if _, exists := r.outputs[name]; exists {
		return fmt.Errorf("register output %s: already registered", name)
	}
	r.outputs[name] = &output{name: name, inputs: inputs, compute: fn}
	r.order = append(r.order, name)
	for _, input := range inputs {
		r.byInput[input] = append(r.byInput[input], name)
	}
	return nil
}

// MustRegister is Register for static panel wiring
func (r *Registry) MustRegister(name string, inputs []string, fn ComputeFunc) {
	if err := r.Register(name, inputs, fn); err != nil {
		panic(err)
	}
}

// Outputs returns all output names in registration order
func (r *Registry) Outputs() []string {
	return append([]string(nil), r.order...)
}

// Affected returns the outputs that declared the given input, in
// registration order.
func (r *Registry) Affected(input string) []string {
	return append([]string(nil), r.byInput[input]...)
}

// Inputs returns every declared input name, sorted
func (r *Registry) Inputs() []string {
	names := make([]string, 0, len(r.byInput))
	for name := range r.byInput {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute evaluates one output against the given input state
func (r *Registry) Compute(name string, in Inputs) (interface{}, error) {
	out, ok := r.outputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown output %q", name)
	}
	return out.compute(in)
}
