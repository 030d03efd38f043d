package align

import "testing"

// TestInvalidSegmentMonotonicity exercises spec §8's invariant: the union
// of invalid segments for a (vertex, matrix) only grows across score steps,
// never shrinks.
func TestInvalidSegmentMonotonicity(t *testing.T) {
	vd := NewVerticesData(32, 2)
	vd.Activate(0)
	vd.invalidateMJump(0, 5, 6)

	covered := func(lo, hi int) map[int]bool {
		set := make(map[int]bool)
		for d := lo; d <= hi; d++ {
			if !vd.ValidDiagonal(MatrixM, 0, d) {
				set[d] = true
			}
		}
		return set
	}

	prev := covered(-20, 20)
	for step := 0; step < 10; step++ {
		vd.Expand()
		vd.Compact()
		cur := covered(-20, 20)
		for d := range prev {
			if !cur[d] {
				t.Fatalf("diagonal %d was invalid and became valid after Expand/Compact", d)
			}
		}
		prev = cur
	}
}

func TestValidDiagonalOutsideAnySegment(t *testing.T) {
	vd := NewVerticesData(32, 2)
	vd.Activate(0)
	vd.invalidateMJump(0, 5, 6)
	if !vd.ValidDiagonal(MatrixM, 0, 1000) {
		t.Fatalf("diagonal far from the invalidated one should remain valid")
	}
}

func TestCompactMergesOverlappingSegments(t *testing.T) {
	vd := NewVerticesData(32, 2)
	vd.m[0] = []InvalidSegment{
		{StartDiag: 0, EndDiag: 2, RemDown: 3, RemUp: 1},
		{StartDiag: 3, EndDiag: 5, RemDown: 1, RemUp: 4},
	}
	vd.Compact()
	segs := vd.m[0]
	if len(segs) != 1 {
		t.Fatalf("expected adjacent segments to merge, got %d segments", len(segs))
	}
	if segs[0].StartDiag != 0 || segs[0].EndDiag != 5 {
		t.Fatalf("unexpected merged range [%d,%d]", segs[0].StartDiag, segs[0].EndDiag)
	}
	if segs[0].RemDown != 1 || segs[0].RemUp != 1 {
		t.Fatalf("expected the tighter (smaller) rem counters to survive merge, got down=%d up=%d", segs[0].RemDown, segs[0].RemUp)
	}
}
