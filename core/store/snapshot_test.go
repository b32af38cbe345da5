package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "corpus.db")

	src := New(Config{Inline: []byte(inlineCorpus)})
	src.Initialize(ctx)
	if err := src.SaveSnapshot(ctx, path); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := LoadSnapshot(ctx, path, 0)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if loaded.Mode() != ModeSingle {
		t.Errorf("Mode() = %v; want single-source", loaded.Mode())
	}

	want := src.IndexMetadata()
	got := loaded.IndexMetadata()
	if got.Len() != want.Len() {
		t.Fatalf("loaded metadata has %d documents; want %d", got.Len(), want.Len())
	}
	for i := range want.Documents {
		if got.Documents[i] != want.Documents[i] || got.ChapterCounts[i] != want.ChapterCounts[i] {
			t.Errorf("metadata[%d] = %s/%d; want %s/%d", i,
				got.Documents[i], got.ChapterCounts[i],
				want.Documents[i], want.ChapterCounts[i])
		}
	}

	vs, err := loaded.GetChapter(ctx, "Genesis", 1)
	if err != nil {
		t.Fatalf("GetChapter() error = %v", err)
	}
	if len(vs) != 2 || vs[0].Text != "In the beginning God created the heaven and the earth." {
		t.Errorf("Genesis 1 = %+v; want round-tripped verses", vs)
	}
}

func TestSaveSnapshotSplitMode(t *testing.T) {
	ctx := context.Background()
	st := New(Config{})
	st.Initialize(ctx)

	err := st.SaveSnapshot(ctx, filepath.Join(t.TempDir(), "corpus.db"))
	if err == nil {
		t.Error("SaveSnapshot() on a split-source store succeeded; want error")
	}
}

func TestLoadSnapshotEmpty(t *testing.T) {
	// A fresh file has no documents; loading must fail rather than hand back
	// an empty store.
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.db")

	src := New(Config{Inline: []byte(inlineCorpus)})
	src.Initialize(ctx)
	if err := src.SaveSnapshot(ctx, path); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if _, err := LoadSnapshot(ctx, filepath.Join(t.TempDir(), "missing.db"), 0); err == nil {
		t.Error("LoadSnapshot() on an absent snapshot succeeded; want error")
	}
}
