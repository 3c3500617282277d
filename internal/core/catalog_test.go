package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func noToken() string { return "" }

func newTestCatalog(t *testing.T, handler http.Handler, opts ...CatalogOption) *CatalogClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]CatalogOption{WithBaseURL(srv.URL), WithTokenResolver(noToken)}, opts...)
	return NewCatalogClient(opts...)
}

func TestCatalogClient_ListAvailable_Skills(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/anthropics/skills/contents/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "commit-helper", "type": "dir"},
			{"name": "docs", "type": "dir"},
			{"name": ".github", "type": "dir"},
			{"name": "README.md", "type": "file"},
			{"name": "code-review", "type": "dir"},
			{"name": "scripts", "type": "dir"}
		]`)
	})

	client := newTestCatalog(t, mux)
	items, err := client.ListAvailable(context.Background(), KindSkill)
	if err != nil {
		t.Fatalf("ListAvailable() error: %v", err)
	}

	want := []string{"code-review", "commit-helper"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(want), items)
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestCatalogClient_ListAvailable_Subagents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/wshobson/agents/contents/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "backend-architect.md", "type": "file"},
			{"name": "README.md", "type": "file"},
			{"name": "notes.txt", "type": "file"},
			{"name": "examples", "type": "dir"},
			{"name": ".editorconfig", "type": "file"}
		]`)
	})

	client := newTestCatalog(t, mux)
	items, err := client.ListAvailable(context.Background(), KindSubagent)
	if err != nil {
		t.Fatalf("ListAvailable() error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "backend-architect.md" {
		t.Errorf("items = %+v, want only backend-architect.md", items)
	}
}

func TestCatalogClient_FetchDescription(t *testing.T) {
	descriptor := "---\nname: Code Review\ndescription: Reviews pull requests\n---\n\n# Code Review\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(descriptor))
	// The API wraps base64 bodies with newlines.
	wrapped := encoded[:10] + "\n" + encoded[10:]

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/anthropics/skills/contents/code-review/SKILL.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"name": "SKILL.md", "type": "file", "encoding": "base64", "content": %q}`, wrapped)
	})

	client := newTestCatalog(t, mux)
	meta, err := client.FetchDescription(context.Background(), KindSkill, "code-review")
	if err != nil {
		t.Fatalf("FetchDescription() error: %v", err)
	}
	if meta.DisplayName != "Code Review" {
		t.Errorf("DisplayName = %q, want %q", meta.DisplayName, "Code Review")
	}
	if meta.Description != "Reviews pull requests" {
		t.Errorf("Description = %q, want %q", meta.Description, "Reviews pull requests")
	}
}

func TestCatalogClient_NonSuccessStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "rate limited"}`, http.StatusForbidden)
	})

	client := newTestCatalog(t, handler)
	_, err := client.ListAvailable(context.Background(), KindSkill)
	if err == nil {
		t.Fatal("expected error for non-success status")
	}

	var fetchErr *CatalogFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *CatalogFetchError", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusForbidden)
	}
}

func TestCatalogClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/anthropics/skills/contents/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	})

	client := newTestCatalog(t, mux, WithTokenResolver(func() string { return "tok123" }))
	if _, err := client.ListAvailable(context.Background(), KindSkill); err != nil {
		t.Fatalf("ListAvailable() error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
}

func TestCatalogClient_TokenResolvedOnce(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	client := newTestCatalog(t, mux, WithTokenResolver(func() string {
		calls++
		return "tok"
	}))

	ctx := context.Background()
	_, _ = client.ListAvailable(ctx, KindSkill)
	_, _ = client.ListAvailable(ctx, KindSubagent)
	if calls != 1 {
		t.Errorf("token resolver called %d times, want 1", calls)
	}
}

func TestCatalogClient_EmptyListingIsNotAnError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	client := newTestCatalog(t, handler)
	items, err := client.ListAvailable(context.Background(), KindSkill)
	if err != nil {
		t.Fatalf("ListAvailable() error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want empty", items)
	}
}
