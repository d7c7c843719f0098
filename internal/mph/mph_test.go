package mph

import "testing"

func keysOf(strs ...string) [][]byte {
	out := make([][]byte, len(strs))
	for i, s := range strs {
		out[i] = []byte(s)
	}
	return out
}

func TestBuildHashInjective(t *testing.T) {
	keys := keysOf("the", "cat", "sat", "on", "mat", "dog", "ran", "fast", "slow", "very")
	tbl, err := Build(keys)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := make(map[uint32]bool)
	for _, k := range keys {
		h := tbl.Hash(k)
		if h >= tbl.BucketsNumber() {
			t.Fatalf("Hash(%q) = %d out of range [0,%d)", k, h, tbl.BucketsNumber())
		}
		if seen[h] {
			t.Fatalf("Hash(%q) collided with another key's bucket: %d", k, h)
		}
		seen[h] = true
	}
}

func TestBuildEmpty(t *testing.T) {
	tbl, err := Build(nil)
	if err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if tbl.BucketsNumber() != 0 {
		t.Fatalf("empty table should have zero buckets")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	keys := keysOf("alpha", "beta", "gamma", "delta")
	tbl, err := Build(keys)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := tbl.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	tbl2 := &Table{}
	if err := tbl2.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	for _, k := range keys {
		if tbl.Hash(k) != tbl2.Hash(k) {
			t.Fatalf("hash mismatch for %q after round trip", k)
		}
	}
}

func TestUnmarshalBinaryTruncated(t *testing.T) {
	tbl := &Table{}
	if err := tbl.UnmarshalBinary([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error decoding a truncated header")
	}
}
