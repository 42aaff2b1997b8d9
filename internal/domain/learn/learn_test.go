package learn

import "testing"

func TestArticles(t *testing.T) {
	all := Articles()
	if len(all) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, a := range all {
		if a.ID == "" || a.Title == "" || a.Body == "" {
			t.Errorf("incomplete article %+v", a)
		}
		if seen[a.ID] {
			t.Errorf("duplicate article id %q", a.ID)
		}
		seen[a.ID] = true
	}

	// Callers must not be able to mutate the shipped content.
	all[0].Title = "changed"
	if Articles()[0].Title == "changed" {
		t.Error("Articles returned shared backing storage")
	}
}

func TestGet(t *testing.T) {
	if _, ok := Get("proteger-arvore-jovem"); !ok {
		t.Error("expected known article")
	}
	if _, ok := Get("missing"); ok {
		t.Error("expected miss for unknown id")
	}
}
