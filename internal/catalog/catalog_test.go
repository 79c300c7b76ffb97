package catalog_test

import (
	"context"
	"errors"
	"testing"

	"reelvault/internal/catalog"
	"reelvault/internal/config"
	"reelvault/internal/logging"
	"reelvault/internal/testsupport"
)

type fakeResolver struct {
	urls []string
	err  error
}

func (r *fakeResolver) Resolve(context.Context, string) ([]string, error) {
	return r.urls, r.err
}

func TestEpisodesAssignsSequentialIndexes(t *testing.T) {
	resolver := &fakeResolver{urls: []string{"https://a", "https://b", "https://c"}}
	enum := catalog.NewEnumerator(resolver, logging.NewNop())

	episodes := enum.Episodes(context.Background(), config.Series{Name: "demo", PlaylistURL: "https://playlist"})
	if len(episodes) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(episodes))
	}
	for i, ep := range episodes {
		if ep.Index != i+1 {
			t.Fatalf("episode %d has index %d", i, ep.Index)
		}
		if ep.Series != "demo" {
			t.Fatalf("unexpected series %q", ep.Series)
		}
	}
	if episodes[1].SourceURL != "https://b" {
		t.Fatalf("unexpected url ordering: %#v", episodes)
	}
}

func TestEpisodesResolverFailureYieldsEmpty(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("network down")}
	enum := catalog.NewEnumerator(resolver, logging.NewNop())

	episodes := enum.Episodes(context.Background(), config.Series{Name: "demo", PlaylistURL: "https://playlist"})
	if len(episodes) != 0 {
		t.Fatalf("expected zero episodes on failure, got %d", len(episodes))
	}
}

func TestEpisodesSkipsBlankEntries(t *testing.T) {
	resolver := &fakeResolver{urls: []string{"https://a", "", "https://c"}}
	enum := catalog.NewEnumerator(resolver, logging.NewNop())

	episodes := enum.Episodes(context.Background(), config.Series{Name: "demo", PlaylistURL: "https://playlist"})
	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
}

func TestYtDlpResolverParsesOutput(t *testing.T) {
	testsupport.StubBinary(t, "yt-dlp", "#!/bin/sh\nprintf 'https://one\\nhttps://two\\n'\n")

	resolver := catalog.NewYtDlpResolver()
	urls, err := resolver.Resolve(context.Background(), "https://playlist")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://one" || urls[1] != "https://two" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestYtDlpResolverSurfacesFailure(t *testing.T) {
	testsupport.StubBinary(t, "yt-dlp", "#!/bin/sh\necho 'ERROR: unavailable' >&2\nexit 1\n")

	resolver := catalog.NewYtDlpResolver()
	if _, err := resolver.Resolve(context.Background(), "https://playlist"); err == nil {
		t.Fatal("expected error from failing binary")
	}
}
