package assets

import (
	"testing"

	"github.com/lumenpress/albumforge-backend/pkg/config"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	resolver, err := NewResolver(config.AssetsConfig{BaseURL: "https://cdn.example.com/assets/"})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func TestNewResolverRequiresBaseURL(t *testing.T) {
	if _, err := NewResolver(config.AssetsConfig{BaseURL: "   "}); err != ErrBaseURLRequired {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

func TestResolveURLJoinsRelativeRefs(t *testing.T) {
	resolver := newTestResolver(t)
	got := resolver.ResolveURL("/covers/album-1.jpg", "")
	if got != "https://cdn.example.com/assets/covers/album-1.jpg" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestResolveURLPassesThroughAbsoluteRefs(t *testing.T) {
	resolver := newTestResolver(t)
	got := resolver.ResolveURL("https://legacy.example.com/old.jpg", "")
	if got != "https://legacy.example.com/old.jpg" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestResolveURLAppliesSizeHint(t *testing.T) {
	resolver := newTestResolver(t)
	got := resolver.ResolveURL("textures/linen.jpg", "thumb")
	if got != "https://cdn.example.com/assets/textures/linen.jpg?size=thumb" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestResolveURLEmptyRef(t *testing.T) {
	resolver := newTestResolver(t)
	if got := resolver.ResolveURL("  ", "thumb"); got != "" {
		t.Fatalf("expected empty url, got %s", got)
	}
	if got := resolver.ResolveOptional(nil, ""); got != "" {
		t.Fatalf("expected empty url for nil ref, got %s", got)
	}
}
