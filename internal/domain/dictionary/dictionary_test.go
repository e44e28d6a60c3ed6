package dictionary

import "testing"

func TestListReturnsCopies(t *testing.T) {
	first := List()
	if len(first) == 0 {
		t.Fatal("expected dictionary entries")
	}
	first[0].Label = "changed"
	first[0].SourcePreference[0] = "changed"

	second := List()
	if second[0].Label == "changed" || second[0].SourcePreference[0] == "changed" {
		t.Fatal("expected dictionary to be immune to caller mutation")
	}
}

func TestKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range List() {
		if seen[d.Key] {
			t.Fatalf("duplicate key %s", d.Key)
		}
		seen[d.Key] = true
	}
}
