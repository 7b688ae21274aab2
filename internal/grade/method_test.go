package grade

import "testing"

func TestResolveMethod(t *testing.T) {
	registry := map[string]struct{}{
		"act-essay":   {},
		"act-project": {},
	}
	if got := ResolveMethod(registry, "act-essay"); got != MethodRubric {
		t.Fatalf("act-essay: got %q", got)
	}
	if got := ResolveMethod(registry, "act-quiz"); got != MethodStandard {
		t.Fatalf("act-quiz: got %q", got)
	}
	if got := ResolveMethod(nil, "act-essay"); got != MethodStandard {
		t.Fatalf("empty registry: got %q", got)
	}
}
