package npm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/depscout/depscout/pkg/cache"
	"github.com/depscout/depscout/pkg/integrations"
)

func fastOptions() integrations.Options {
	return integrations.Options{Retries: 3, Delay: time.Millisecond}
}

func TestFetchPackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lodash" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"name": "lodash",
			"description": "Lodash modular utilities.",
			"dist-tags": {"latest": "4.17.21"},
			"versions": {"4.17.20": {}, "4.17.21": {}}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, fastOptions())
	info, err := client.FetchPackage(context.Background(), "lodash", false)
	if err != nil {
		t.Fatalf("FetchPackage failed: %v", err)
	}

	if info.Name != "lodash" {
		t.Errorf("Name = %q", info.Name)
	}
	// No top-level version: dist-tags.latest is the fallback.
	if info.Version != "4.17.21" {
		t.Errorf("Version = %q, want 4.17.21", info.Version)
	}
	if len(info.Versions) != 2 || info.Versions[0] != "4.17.20" {
		t.Errorf("Versions = %v", info.Versions)
	}
}

func TestFetchPackage_NotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, fastOptions())
	_, err := client.FetchPackage(context.Background(), "no-such-pkg", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	// 404 is a definitive answer, not a transient failure.
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retries on 404)", calls.Load())
	}
}

func TestFetchPackage_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"name": "flaky", "version": "1.0.0"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, fastOptions())
	info, err := client.FetchPackage(context.Background(), "flaky", false)
	if err != nil {
		t.Fatalf("FetchPackage failed: %v", err)
	}
	if info.Version != "1.0.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchPackage_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, fastOptions())
	_, err := client.FetchPackage(context.Background(), "down", false)
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchPackage_CachesSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"name": "express", "version": "4.18.2"}`))
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(srv.URL, store, fastOptions())

	for i := 0; i < 3; i++ {
		info, err := client.FetchPackage(context.Background(), "express", false)
		if err != nil {
			t.Fatalf("FetchPackage failed: %v", err)
		}
		if info.Version != "4.18.2" {
			t.Errorf("Version = %q", info.Version)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (cache hit after first)", calls.Load())
	}

	// refresh bypasses the cache.
	if _, err := client.FetchPackage(context.Background(), "express", true); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 after refresh", calls.Load())
	}
}

func TestFetchPackage_NotFoundNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(srv.URL, store, fastOptions())

	for i := 0; i < 2; i++ {
		if _, err := client.FetchPackage(context.Background(), "ghost", false); !errors.Is(err, integrations.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (failures are not cached)", calls.Load())
	}
}

func TestFetchPackage_ScopedNameEscaped(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"name": "@types/node", "version": "20.0.0"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, fastOptions())
	if _, err := client.FetchPackage(context.Background(), "@types/node", false); err != nil {
		t.Fatalf("FetchPackage failed: %v", err)
	}
	if gotPath != "/@types%2Fnode" {
		t.Errorf("request path = %q, want /@types%%2Fnode", gotPath)
	}
}
