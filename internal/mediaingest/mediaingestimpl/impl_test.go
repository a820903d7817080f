package mediaingestimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest"
	"github.com/tgstories/telegram-stories-bot/internal/mediastore"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/pkg/config"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
)

type stubGate struct {
	accept domain.Capability
}

func (g stubGate) RequestCapability(context.Context, int64) (domain.Capability, error) {
	return g.accept, nil
}

func (g stubGate) Validate(c domain.Capability) bool {
	return c.Valid() && c == g.accept
}

type stubProber struct {
	duration time.Duration
	err      error
}

func (p stubProber) Duration(context.Context, domain.RawAsset) (time.Duration, error) {
	return p.duration, p.err
}

func newTestIngestor(t *testing.T, prober mediaingest.Prober) (*IngestorImpl, *storystore.Memory, *mediastore.Memory, domain.Capability) {
	t.Helper()

	log := logger.New(logger.Opts{})
	store := storystore.NewMemory(24*time.Hour, clockwork.NewFakeClock(), log)
	media := mediastore.NewMemory(log)

	cfg := &config.Config{}
	cfg.Stories.MaxVideoSeconds = 60

	granted := domain.Capability{Token: "granted"}

	ing := New(Opts{
		Gate:   stubGate{accept: granted},
		Store:  store,
		Media:  media,
		Prober: prober,
		Config: cfg,
		Logger: log,
	})
	return ing, store, media, granted
}

func pngAsset() domain.RawAsset {
	return domain.RawAsset{Name: "photo.png", ContentType: "image/png", Data: []byte("png-bytes")}
}

func mp4Asset() domain.RawAsset {
	return domain.RawAsset{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("mp4-bytes")}
}

func TestIngestWithoutCapabilityFails(t *testing.T) {
	ing, store, media, _ := newTestIngestor(t, stubProber{})

	_, err := ing.Ingest(context.Background(), domain.Capability{}, pngAsset())
	if !errors.Is(err, mediaingest.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(store.All()) != 0 {
		t.Fatal("unauthorized ingest must not change the store")
	}
	if media.Len() != 0 {
		t.Fatal("unauthorized ingest must not leave a blob behind")
	}
}

func TestIngestEmptyAsset(t *testing.T) {
	ing, _, _, granted := newTestIngestor(t, stubProber{})

	_, err := ing.Ingest(context.Background(), granted, domain.RawAsset{})
	if !errors.Is(err, mediaingest.ErrNoFileSelected) {
		t.Fatalf("expected ErrNoFileSelected, got %v", err)
	}
}

func TestIngestUnsupportedType(t *testing.T) {
	ing, store, _, granted := newTestIngestor(t, stubProber{})

	asset := domain.RawAsset{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("pdf")}
	_, err := ing.Ingest(context.Background(), granted, asset)
	if !errors.Is(err, mediaingest.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if len(store.All()) != 0 {
		t.Fatal("rejected ingest must not change the store")
	}
}

func TestIngestImage(t *testing.T) {
	ing, store, media, granted := newTestIngestor(t, stubProber{})

	story, err := ing.Ingest(context.Background(), granted, pngAsset())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if story.Media.Kind != domain.MediaKindImage {
		t.Fatalf("expected image kind, got %s", story.Media.Kind)
	}
	if story.DurationSeconds != 0 {
		t.Fatalf("image stories carry no duration, got %v", story.DurationSeconds)
	}
	if len(store.All()) != 1 {
		t.Fatal("expected story admitted")
	}
	if media.Len() != 1 {
		t.Fatal("expected one blob stored")
	}
}

func TestIngestVideoClampsDuration(t *testing.T) {
	ing, _, _, granted := newTestIngestor(t, stubProber{duration: 90 * time.Second})

	story, err := ing.Ingest(context.Background(), granted, mp4Asset())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if story.DurationSeconds != 60 {
		t.Fatalf("expected duration clamped to 60, got %v", story.DurationSeconds)
	}
}

func TestIngestVideoKeepsShortDuration(t *testing.T) {
	ing, _, _, granted := newTestIngestor(t, stubProber{duration: 30 * time.Second})

	story, err := ing.Ingest(context.Background(), granted, mp4Asset())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if story.DurationSeconds != 30 {
		t.Fatalf("expected probed duration kept, got %v", story.DurationSeconds)
	}
}

func TestIngestVideoProbeFailureAdmitsNothing(t *testing.T) {
	ing, store, media, granted := newTestIngestor(t, stubProber{err: errors.New("corrupt container")})

	if _, err := ing.Ingest(context.Background(), granted, mp4Asset()); err == nil {
		t.Fatal("expected error from failed probe")
	}
	if len(store.All()) != 0 {
		t.Fatal("failed probe must not admit a story")
	}
	if media.Len() != 0 {
		t.Fatal("failed probe must not leave a blob behind")
	}
}
