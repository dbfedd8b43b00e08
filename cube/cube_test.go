package cube

import (
	"encoding/json"
	"testing"

	"golang.org/x/exp/slices"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestNewRejectsNonCubic(t *testing.T) {
	if _, err := New(2, seq(7)); err == nil {
		t.Fatalf("New(2, 7 values): got nil error")
	}
	if _, err := New(-1, nil); err == nil {
		t.Fatalf("New(-1): got nil error")
	}
	s, err := New(0, nil)
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}
	if s.Size() != 0 || s.Len() != 0 {
		t.Fatalf("size-0 state: got size %d len %d", s.Size(), s.Len())
	}
}

func TestNewCopiesInput(t *testing.T) {
	v := seq(8)
	s := MustNew(2, v)
	v[0] = 100
	if got := s.At(0, 0, 0); got != 0 {
		t.Fatalf("state aliased input: got %v want 0", got)
	}
	out := s.Values()
	out[1] = 100
	if got := s.At(0, 0, 1); got != 1 {
		t.Fatalf("Values aliased state: got %v want 1", got)
	}
}

func TestAtIndexing(t *testing.T) {
	s := MustNew(3, seq(27))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				if got, want := s.At(i, j, k), float64(i*9+j*3+k); got != want {
					t.Fatalf("At(%d,%d,%d): got %v want %v", i, j, k, got, want)
				}
			}
		}
	}
}

func TestAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("At out of range did not panic")
		}
	}()
	MustNew(2, seq(8)).At(0, 2, 0)
}

func TestActionsOrder(t *testing.T) {
	got := Actions(2)
	want := []Action{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("Actions(2): got %v want %v", got, want)
	}
	if len(Actions(4)) != 16 {
		t.Fatalf("Actions(4): got %d pairs want 16", len(Actions(4)))
	}
}

func TestEliminateShapeAndEntries(t *testing.T) {
	s := MustNew(3, seq(27))
	for _, a := range Actions(3) {
		sub := s.Play(a)
		if sub.Size() != 2 {
			t.Fatalf("Eliminate%v: got size %d want 2", a, sub.Size())
		}
		rows, cols := Remaining(3, a.Row, a.Col)
		if slices.Contains(rows, a.Row) || slices.Contains(cols, a.Col) {
			t.Fatalf("Remaining%v kept the chosen index: rows %v cols %v", a, rows, cols)
		}
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				for k := 0; k < 2; k++ {
					want := s.At(i+1, rows[j], cols[k])
					if got := sub.At(i, j, k); got != want {
						t.Fatalf("Eliminate%v [%d,%d,%d]: got %v want %v", a, i, j, k, got, want)
					}
				}
			}
		}
	}
	// the parent is untouched
	if !s.Equal(MustNew(3, seq(27))) {
		t.Fatalf("Eliminate mutated its receiver")
	}
}

func TestEliminateDownToScalar(t *testing.T) {
	s := MustNew(2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	// drop block 0, row 0, col 1: block 1 is [[5 6] [7 8]] -> keep row 1, col 0 -> 7
	sub := s.Eliminate(0, 1)
	if sub.Size() != 1 || sub.Scalar() != 7 {
		t.Fatalf("Eliminate(0,1): got %v want scalar 7", sub)
	}
	empty := sub.Eliminate(0, 0)
	if empty.Size() != 0 {
		t.Fatalf("Eliminate on size 1: got size %d want 0", empty.Size())
	}
}

func TestTextRoundTrip(t *testing.T) {
	s := MustNew(2, []float64{0.5, 0.25, 1, 2, 3, 4.125, 5, 6})
	got, err := ParseText(FormatText(s))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if !got.Equal(s) {
		t.Fatalf("text round trip: got %v want %v", got, s)
	}
	if _, err := ParseText("2 1 2 3"); err == nil {
		t.Fatalf("ParseText short input: got nil error")
	}
}

func TestJSONNested(t *testing.T) {
	s := MustNew(2, seq(8))
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "[[[0,1],[2,3]],[[4,5],[6,7]]]" {
		t.Fatalf("Marshal: got %s", b)
	}
	got, err := ParseAny(string(b))
	if err != nil {
		t.Fatalf("ParseAny: %v", err)
	}
	if !got.Equal(s) {
		t.Fatalf("json round trip: got %v want %v", got, s)
	}
	if _, err := ParseAny("[[[1,2]],[[3,4]]]"); err == nil {
		t.Fatalf("ParseAny non-square: got nil error")
	}
}

func TestUniformGenerator(t *testing.T) {
	a := NewUniformGenerator(7).Batch(3, 4)
	b := NewUniformGenerator(7).Batch(3, 4)
	for i := range a {
		if a[i].Size() != 4 {
			t.Fatalf("batch[%d]: got size %d want 4", i, a[i].Size())
		}
		if !a[i].Equal(b[i]) {
			t.Fatalf("same seed produced different batch[%d]", i)
		}
		for _, v := range a[i].Values() {
			if v < 0 || v >= 1 {
				t.Fatalf("entry %v outside [0,1)", v)
			}
		}
	}
	if a[0].Equal(a[1]) {
		t.Fatalf("batch instances are identical")
	}
}

func TestFixedGeneratorSkipsOtherSizes(t *testing.T) {
	two := MustNew(2, seq(8))
	g := &FixedGenerator{States: []State{MustNew(1, []float64{3}), two}}
	if got := g.Instance(2); !got.Equal(two) {
		t.Fatalf("FixedGenerator.Instance(2): got %v", got)
	}
	if got := g.Batch(2, 1); got[0].Scalar() != 3 || got[1].Scalar() != 3 {
		t.Fatalf("FixedGenerator.Batch(2,1): got %v", got)
	}
}
