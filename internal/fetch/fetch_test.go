package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ulikunitz/xz"
)

func TestGetPlainPayload(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := New(5*time.Second, time.Minute)
	ctx := context.Background()

	data, err := c.Get(ctx, srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != `{"ok": true}` {
		t.Errorf("Get() = %q", data)
	}

	// Second fetch is served from the cache.
	again, err := c.Get(ctx, srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests; want 1", requests)
	}

	// Cached results are copies, not shared slices.
	again[0] = 'X'
	third, _ := c.Get(ctx, srv.URL)
	if third[0] == 'X' {
		t.Error("cached payload aliases a previously returned slice")
	}
}

func TestGetXZPayload(t *testing.T) {
	payload := []byte(`[{"book": "Genesis", "chapter": 1, "verse": 1, "text": "x"}]`)

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter() error = %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("xz write error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close error = %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	c := New(5*time.Second, 0)
	data, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Get() = %q; want decompressed payload", data)
	}
}

func TestGetNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(5*time.Second, time.Minute)
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Error("Get() on 404 succeeded; want error")
	}
}

func TestGetCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(5*time.Second, time.Minute)
	if _, err := c.Get(ctx, srv.URL); err == nil {
		t.Error("Get() with canceled context succeeded; want error")
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("payload"))
	b := Fingerprint([]byte("payload"))
	other := Fingerprint([]byte("different"))

	if a != b {
		t.Errorf("Fingerprint not deterministic: %q vs %q", a, b)
	}
	if a == other {
		t.Error("distinct payloads share a fingerprint")
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d hex chars; want 16", len(a))
	}
}
