package deepl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	cerr "crosscheck/internal/errors"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/translate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key secret" {
			t.Errorf("unexpected auth header: %q", got)
		}
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Text) != 1 || req.Text[0] != "笔记本电脑" || req.SourceLang != "ZH" || req.TargetLang != "EN-US" {
			t.Errorf("unexpected request body: %+v", req)
		}
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"ZH","text":"Laptop computer"}]}`))
	}))
	defer srv.Close()

	got, err := New("secret", srv.URL).Translate(context.Background(), "笔记本电脑", "zh", "en-us")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Laptop computer" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestTranslateFailuresAreUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"forbidden": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Wrong endpoint", http.StatusForbidden)
		},
		"quota": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(456)
		},
		"empty": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"translations":[]}`))
		},
		"garbage": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			_, err := New("secret", srv.URL).Translate(context.Background(), "text", "ZH", "EN-US")
			if cerr.KindOf(err) != cerr.KindTranslationUnavailable {
				t.Fatalf("expected translation_unavailable, got %v", err)
			}
		})
	}
}

func TestNewPicksEndpointFromKey(t *testing.T) {
	if c := New("abc:fx", ""); c.baseURL != FreeURL {
		t.Fatalf("unexpected free endpoint: %s", c.baseURL)
	}
	if c := New("abc", ""); c.baseURL != ProURL {
		t.Fatalf("unexpected pro endpoint: %s", c.baseURL)
	}
}
