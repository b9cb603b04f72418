package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("a", []string{"x"}, func(Inputs) (interface{}, error) { return 1, nil }))
	require.NoError(t, r.Register("b", []string{"x", "y"}, func(Inputs) (interface{}, error) { return 2, nil }))

	assert.Error(t, r.Register("a", nil, func(Inputs) (interface{}, error) { return nil, nil }))
	assert.Error(t, r.Register("", nil, func(Inputs) (interface{}, error) { return nil, nil }))
	assert.Error(t, r.Register("c", nil, nil))

	assert.Equal(t, []string{"a", "b"}, r.Outputs())
	assert.Equal(t, []string{"a", "b"}, r.Affected("x"))
	assert.Equal(t, []string{"b"}, r.Affected("y"))
	assert.Empty(t, r.Affected("z"))
	assert.Equal(t, []string{"x", "y"}, r.Inputs())
}

func TestRegistry_Compute(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("double", []string{"n"}, func(in Inputs) (interface{}, error) {
		n, ok := in.Int("n")
		if !ok {
			return nil, fmt.Errorf("missing n")
		}
		return n * 2, nil
	})

	got, err := r.Compute("double", Inputs{"n": 21})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = r.Compute("missing", Inputs{})
	assert.Error(t, err)
}

func TestInputs_Conversions(t *testing.T) {
	in := Inputs{
		"int":     7,
		"float":   float64(2001), // JSON number
		"str":     "tmax",
		"flag":    true,
		"list":    []interface{}{"a", "b"},
		"strlist": []string{"c"},
		"badlist": []interface{}{1, 2},
	}

	n, ok := in.Int("int")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = in.Int("float")
	assert.True(t, ok)
	assert.Equal(t, 2001, n)

	_, ok = in.Int("str")
	assert.False(t, ok)

	s, ok := in.String("str")
	assert.True(t, ok)
	assert.Equal(t, "tmax", s)

	b, ok := in.Bool("flag")
	assert.True(t, ok)
	assert.True(t, b)

	list, ok := in.Strings("list")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	list, ok = in.Strings("strlist")
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, list)

	_, ok = in.Strings("badlist")
	assert.False(t, ok)
}

func newCountingRegistry(counts map[string]int) *Registry {
	r := NewRegistry()
	echo := func(name string, inputs ...string) {
		r.MustRegister(name, inputs, func(in Inputs) (interface{}, error) {
			counts[name]++
			return counts[name], nil
		})
	}
	echo("map", "year", "metric")
	echo("stats", "year", "metric")
	echo("trend", "metric")
	echo("static")
	return r
}

func TestSession_SetRecomputesOnlyAffected(t *testing.T) {
	counts := make(map[string]int)
	s := NewSession(newCountingRegistry(counts), Inputs{"year": 2000, "metric": "tmax"})

	updates := s.Set("year", 2001)
	require.Len(t, updates, 2)
	assert.Equal(t, "map", updates[0].Output)
	assert.Equal(t, "stats", updates[1].Output)
	assert.Equal(t, 0, counts["trend"])
	assert.Equal(t, 0, counts["static"])

	v, ok := s.Input("year")
	assert.True(t, ok)
	assert.Equal(t, 2001, v)
}

func TestSession_SetAllDeduplicates(t *testing.T) {
	counts := make(map[string]int)
	s := NewSession(newCountingRegistry(counts), Inputs{})

	updates := s.SetAll(Inputs{"year": 2001, "metric": "rain"})
	// map and stats declare both changed inputs but recompute once each
	require.Len(t, updates, 3)
	assert.Equal(t, 1, counts["map"])
	assert.Equal(t, 1, counts["stats"])
	assert.Equal(t, 1, counts["trend"])
	assert.Equal(t, 0, counts["static"])
}

func TestSession_ComputeAll(t *testing.T) {
	counts := make(map[string]int)
	s := NewSession(newCountingRegistry(counts), Inputs{})

	updates := s.ComputeAll()
	require.Len(t, updates, 4)
	assert.Equal(t, 1, counts["static"])
}

func TestSession_ErrorsSurfacePerOutput(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("boom", []string{"x"}, func(Inputs) (interface{}, error) {
		return nil, fmt.Errorf("compute failed")
	})
	r.MustRegister("ok", []string{"x"}, func(Inputs) (interface{}, error) {
		return "fine", nil
	})

	s := NewSession(r, Inputs{})
	updates := s.Set("x", 1)
	require.Len(t, updates, 2)
	assert.Equal(t, "compute failed", updates[0].Error)
	assert.Nil(t, updates[0].Data)
	assert.Equal(t, "fine", updates[1].Data)
}

func TestSession_DefaultsAreCopied(t *testing.T) {
	defaults := Inputs{"year": 2000}
	s := NewSession(newCountingRegistry(make(map[string]int)), defaults)

	s.Set("year", 2024)
	assert.Equal(t, 2000, defaults["year"])
}
