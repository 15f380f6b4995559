package keygen

import "testing"

func TestGenerateUnique(t *testing.T) {
	g := New()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key := g.Generate()
		if key == "" {
			t.Fatal("expected non-empty key")
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key: %s", key)
		}
		seen[key] = struct{}{}
	}
}
