package metrics

import (
	"math"
	"testing"
)

func TestWelfordMatchesBatchStatistics(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	var w WelfordState
	for _, v := range values {
		w.Update(v)
	}

	if w.Count != len(values) {
		t.Errorf("Count = %d, want %d", w.Count, len(values))
	}
	if math.Abs(w.Mean-5) > 1e-12 {
		t.Errorf("Mean = %f, want 5", w.Mean)
	}
	if math.Abs(w.GetStdDev()-2) > 1e-12 {
		t.Errorf("StdDev = %f, want 2", w.GetStdDev())
	}
	if w.Max != 9 {
		t.Errorf("Max = %f, want 9", w.Max)
	}
}

func TestWelfordNegativeMax(t *testing.T) {
	var w WelfordState
	w.Update(-3)
	w.Update(-1.5)

	if w.Max != -1.5 {
		t.Errorf("Max = %f, want -1.5 (max must not default to zero)", w.Max)
	}
	if w.GetStdDev() == 0 {
		t.Error("StdDev should be non-zero for two distinct observations")
	}
}

func TestWelfordSingleObservation(t *testing.T) {
	var w WelfordState
	w.Update(3)
	if got := w.GetStdDev(); got != 0 {
		t.Errorf("StdDev with one observation = %f, want 0", got)
	}
}

func TestGroupedKeepsFirstSeenOrder(t *testing.T) {
	g := NewGrouped[string]()
	g.Update("R2", 1)
	g.Update("R1", 3)
	g.Update("R2", 3)

	keys := g.Keys()
	if len(keys) != 2 || keys[0] != "R2" || keys[1] != "R1" {
		t.Fatalf("Keys() = %v, want [R2 R1]", keys)
	}

	r2, ok := g.Get("R2")
	if !ok {
		t.Fatal("R2 missing")
	}
	if r2.Count != 2 || r2.Mean != 2 {
		t.Errorf("R2 = %+v, want count 2 mean 2", r2)
	}

	if _, ok := g.Get("R9"); ok {
		t.Error("Get should report unknown keys as missing")
	}
}
