package metrics

import "math"

// WelfordState holds running delay statistics using Welford's online algorithm.
// Groups of trip events (per route, stop or hour) are folded into one state each
// so a single pass over the dataset yields every group's mean and spread.
type WelfordState struct {
	Count int     // n - number of observations
	Mean  float64 // running mean
	M2    float64 // sum of squared differences from mean (for variance)
	Max   float64 // largest observation seen
}

// Update adds a new observation.
// Reference: https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Welford's_online_algorithm
func (w *WelfordState) Update(newValue float64) {
	if w.Count == 0 || newValue > w.Max {
		w.Max = newValue
	}
	w.Count++
	delta := newValue - w.Mean
	w.Mean += delta / float64(w.Count)
	delta2 := newValue - w.Mean
	w.M2 += delta * delta2
}

// GetStdDev returns the population standard deviation.
// Returns 0 if fewer than 2 observations.
func (w *WelfordState) GetStdDev() float64 {
	if w.Count < 2 {
		return 0
	}
	return math.Sqrt(w.M2 / float64(w.Count))
}

// Grouped keeps one WelfordState per key and remembers which keys were seen
type Grouped[K comparable] struct {
	states map[K]*WelfordState
	keys   []K
}

// NewGrouped creates an empty set of per-key accumulators
func NewGrouped[K comparable]() *Grouped[K] {
	return &Grouped[K]{states: make(map[K]*WelfordState)}
}

// Update folds value into the accumulator for key
func (g *Grouped[K]) Update(key K, value float64) {
	state, ok := g.states[key]
	if !ok {
		state = &WelfordState{}
		g.states[key] = state
		g.keys = append(g.keys, key)
	}
	state.Update(value)
}

// Keys returns the keys in first-seen order
func (g *Grouped[K]) Keys() []K {
	return append([]K(nil), g.keys...)
}

// Get returns a copy of the state for key
func (g *Grouped[K]) Get(key K) (WelfordState, bool) {
	state, ok := g.states[key]
	if !ok {
		return WelfordState{}, false
	}
	return *state, true
}
