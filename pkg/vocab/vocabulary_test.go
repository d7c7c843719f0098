package vocab

import "testing"

func TestGetOrCreateIDIdempotent(t *testing.T) {
	v := New()
	id1 := v.GetOrCreateID("cat")
	id2 := v.GetOrCreateID("cat")
	if id1 != id2 {
		t.Fatalf("GetOrCreateID not idempotent: %d != %d", id1, id2)
	}
	if v.GetOrCreateID("dog") == id1 {
		t.Fatalf("distinct words got the same id")
	}
}

func TestGetIDNoCreateUnknown(t *testing.T) {
	v := New()
	if id := v.GetIDNoCreate("ghost"); id != UnknownID {
		t.Fatalf("GetIDNoCreate on unseen word = %d, want UnknownID", id)
	}
}

func TestPruneKeepsReverseTable(t *testing.T) {
	v := New()
	catID := v.GetOrCreateID("cat")
	dogID := v.GetOrCreateID("dog")

	v.Prune(func(id uint32) bool { return id != catID })

	if v.GetIDNoCreate("cat") != UnknownID {
		t.Fatalf("pruned word still reachable through forward map")
	}
	if v.GetWord(catID) != "cat" {
		t.Fatalf("reverse table entry for a pruned id must remain valid")
	}
	if v.GetIDNoCreate("dog") != dogID {
		t.Fatalf("unrelated word affected by prune")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	v := New()
	v.GetOrCreateID("the")
	v.GetOrCreateID("cat")
	v.GetOrCreateID("sat")

	data, err := v.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	v2 := New()
	rest, err := v2.UnmarshalBinary(data)
	if err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("UnmarshalBinary left %d unread bytes", len(rest))
	}
	if v2.Size() != v.Size() {
		t.Fatalf("round-tripped vocabulary size = %d, want %d", v2.Size(), v.Size())
	}
	for _, w := range []string{"the", "cat", "sat"} {
		if v2.GetIDNoCreate(w) != v.GetIDNoCreate(w) {
			t.Fatalf("word %q id mismatch after round trip", w)
		}
	}
}
