package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var body struct {
			Query     string            `json:"query"`
			Variables map[string]string `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if body.Variables["search"] != "Naruto Uzumaki" {
			t.Errorf("search = %q", body.Variables["search"])
		}
		_, _ = w.Write([]byte(`{"data":{"Character":{
			"name":{"full":"Naruto Uzumaki","native":"うずまきナルト"},
			"media":{"nodes":[{"title":{"romaji":"Naruto","english":"Naruto"}}]}
		}}}`))
	}))
	defer srv.Close()

	info, ok := New(srv.URL).Verify(context.Background(), "Naruto Uzumaki")
	if !ok {
		t.Fatal("expected character to verify")
	}
	if info.Name != "Naruto Uzumaki" || info.NativeName != "うずまきナルト" || info.MediaTitle != "Naruto" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestVerifyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"Character":null}}`))
	}))
	defer srv.Close()

	if _, ok := New(srv.URL).Verify(context.Background(), "Not A Character"); ok {
		t.Error("null character must not verify")
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>nope</html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if _, ok := New(srv.URL).Verify(context.Background(), "anyone"); ok {
				t.Error("failure must read as not found")
			}
		})
	}
}

func TestVerifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	if _, ok := New(srv.URL).Verify(context.Background(), "anyone"); ok {
		t.Error("transport error must read as not found")
	}
}

func TestVerifyHonorsContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := New(srv.URL).Verify(ctx, "anyone"); ok {
		t.Error("cancelled context must read as not found")
	}
}
