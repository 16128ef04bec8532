package capture

import "testing"

func TestFramer_SplitsExactMultiples(t *testing.T) {
	f := NewFramer(4)
	frames := f.Push([]float32{0, 1, 2, 3, 4, 5, 6, 7})
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0][0] != 0 || frames[1][0] != 4 {
		t.Errorf("expected frames to preserve order, got %v then %v", frames[0], frames[1])
	}
	if f.Pending() != 0 {
		t.Errorf("expected no pending samples, got %d", f.Pending())
	}
}

func TestFramer_CarriesRemainder(t *testing.T) {
	f := NewFramer(8)
	if frames := f.Push([]float32{0, 1, 2, 3, 4}); len(frames) != 0 {
		t.Fatalf("expected no frames yet, got %d", len(frames))
	}
	if f.Pending() != 5 {
		t.Errorf("expected 5 pending samples, got %d", f.Pending())
	}

	frames := f.Push([]float32{5, 6, 7, 8, 9, 10, 11})
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	for i, s := range frames[0] {
		if s != float32(i) {
			t.Errorf("sample %d: expected %v, got %v", i, float32(i), s)
		}
	}
	if f.Pending() != 4 {
		t.Errorf("expected 4 pending samples, got %d", f.Pending())
	}
}

func TestFramer_FramesAreCopies(t *testing.T) {
	f := NewFramer(2)
	frames := f.Push([]float32{1, 2, 3})
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	frames[0][0] = 99

	next := f.Push([]float32{4})
	if len(next) != 1 || next[0][0] != 3 || next[0][1] != 4 {
		t.Errorf("expected carried samples unaffected by caller writes, got %v", next)
	}
}
