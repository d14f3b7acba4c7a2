package game

import "testing"

func TestWindSourceRange(t *testing.T) {
	src := NewWindSource()
	for i := 0; i < 10000; i++ {
		v := src.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("roll %d: %f outside [0, 1)", i, v)
		}
	}
}

func TestWindSourcesAreIndependent(t *testing.T) {
	a := NewWindSource()
	b := NewWindSource()
	for i := 0; i < 64; i++ {
		if a.Float64() != b.Float64() {
			return
		}
	}
	t.Error("two fresh sources produced identical streams")
}
