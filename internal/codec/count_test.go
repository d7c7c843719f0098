package codec

import "testing"

func TestPackCountMonotonic(t *testing.T) {
	var prev uint16
	for _, c := range []uint64{0, 1, 2, 5, 10, 100, 1000, 1 << 10, 1 << 20, 1 << 27, MaxRealCount, MaxRealCount * 2} {
		q := PackCount(c)
		if q < prev {
			t.Fatalf("PackCount(%d) = %d, not monotonic against previous %d", c, q, prev)
		}
		prev = q
	}
}

func TestPackCountZero(t *testing.T) {
	if q := PackCount(0); q != 0 {
		t.Fatalf("PackCount(0) = %d, want 0", q)
	}
	if c := UnpackCount(0); c != 0 {
		t.Fatalf("UnpackCount(0) = %d, want 0", c)
	}
}

func TestPackCountSaturates(t *testing.T) {
	q1 := PackCount(MaxRealCount)
	q2 := PackCount(MaxRealCount * 100)
	if q1 != q2 {
		t.Fatalf("counts above MaxRealCount should saturate: got %d and %d", q1, q2)
	}
	if int(q1) > MaxQuantized-1 {
		t.Fatalf("PackCount saturated value %d exceeds uint16 domain", q1)
	}
}

func TestUnpackCountRoundTripApprox(t *testing.T) {
	for _, c := range []uint64{1, 10, 500, 10000, 1 << 20} {
		q := PackCount(c)
		back := UnpackCount(q)
		// Lossy: only guarantee that a nonzero count does not reconstruct
		// as 0.
		if back == 0 && c != 0 {
			t.Fatalf("UnpackCount(PackCount(%d)) collapsed to 0", c)
		}
	}
}
