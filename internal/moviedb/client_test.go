package moviedb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/popcorn/internal/domain"
	"github.com/mmcdole/popcorn/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", APIKey: "test-key"}, log.NullLogger())
}

func TestClient_Search_Success(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.Header.Get("X-API-KEY")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"docs": [
				{"id": 61237, "name": "Железный человек", "alternativeName": "Iron Man", "year": 2008,
				 "poster": {"url": "https://img/iron.jpg", "previewUrl": "https://img/iron-small.jpg"}},
				{"id": "1", "name": "", "alternativeName": "Iron Giant", "year": 1999, "poster": null}
			],
			"total": 2, "limit": 10, "page": 1, "pages": 1
		}`)
	})

	result, err := client.Search(context.Background(), "iron man")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotPath != "/movie/search" {
		t.Errorf("path = %q, want /movie/search", gotPath)
	}
	if gotQuery != "iron man" {
		t.Errorf("query = %q, want %q", gotQuery, "iron man")
	}
	if gotKey != "test-key" {
		t.Errorf("X-API-KEY = %q, want test-key", gotKey)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}

	if result.Total != 2 || len(result.Movies) != 2 {
		t.Fatalf("result = %+v, want 2 movies", result)
	}
	first := result.Movies[0]
	if first.ID != "61237" || first.Name != "Железный человек" || first.AlternativeName != "Iron Man" || first.Year != 2008 || first.PosterURL != "https://img/iron.jpg" {
		t.Errorf("first movie = %+v", first)
	}
	second := result.Movies[1]
	if second.ID != "1" || second.Title() != "Iron Giant" || second.PosterURL != "" {
		t.Errorf("second movie = %+v", second)
	}
}

func TestClient_Search_ZeroTotal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs": [], "total": 0}`)
	})

	result, err := client.Search(context.Background(), "qwertyuiop")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Total != 0 || len(result.Movies) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestClient_Search_NonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"nope"}`, status)
			})

			_, err := client.Search(context.Background(), "iron")
			if !errors.Is(err, domain.ErrNetwork) {
				t.Errorf("err = %v, want ErrNetwork", err)
			}
		})
	}
}

func TestClient_Search_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Options{BaseURL: url, APIKey: "k"}, log.NullLogger())
	_, err := client.Search(context.Background(), "iron")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestClient_Search_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing total", `{"docs": []}`},
		{"doc without id", `{"docs": [{"name": "x"}], "total": 1}`},
		{"id wrong type", `{"docs": [{"id": {"x": 1}}], "total": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			_, err := client.Search(context.Background(), "iron")
			if !errors.Is(err, domain.ErrParse) {
				t.Errorf("err = %v, want ErrParse", err)
			}
		})
	}
}

func TestClient_Search_Cancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Search(ctx, "iron")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if errors.Is(err, domain.ErrNetwork) {
		t.Error("cancellation must not be classified as a network error")
	}
}

func TestClient_GetMovie(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{
			"id": 447301,
			"name": "Начало",
			"alternativeName": "Inception",
			"year": 2010,
			"description": "<p>Кобб &amp; команда</p>",
			"movieLength": 148,
			"poster": {"url": "https://img/inception.jpg"},
			"rating": {"kp": 8.665, "imdb": 8.8},
			"premiere": {"world": "2010-07-08T00:00:00.000Z"},
			"genres": [{"name": "фантастика"}, {"name": "боевик"}],
			"persons": [
				{"id": 37859, "name": "Леонардо ДиКаприо", "profession": "актеры", "enProfession": "actor"},
				{"id": 22260, "name": "Кристофер Нолан", "profession": "режиссеры", "enProfession": "director"},
				{"id": 1, "name": "Ли Смит", "profession": "монтажеры", "enProfession": "editor"},
				{"id": 2, "name": "Том Харди", "profession": "актеры"}
			]
		}`)
	})

	movie, err := client.GetMovie(context.Background(), "447301")
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}

	if gotPath != "/movie/447301" {
		t.Errorf("path = %q, want /movie/447301", gotPath)
	}
	if movie.ID != "447301" || movie.Name != "Начало" || movie.Runtime != 148 {
		t.Errorf("movie = %+v", movie.MovieSummary)
	}
	if movie.RatingKP != 8.665 || movie.RatingIMDb != 8.8 {
		t.Errorf("ratings = %v / %v", movie.RatingKP, movie.RatingIMDb)
	}
	if movie.Description != "Кобб & команда" {
		t.Errorf("Description = %q, want markup stripped", movie.Description)
	}
	if got := movie.FormattedPremiere(); got != "8 July 2010" {
		t.Errorf("premiere = %q", got)
	}
	if got := movie.FormattedGenres(); got != "фантастика, боевик" {
		t.Errorf("genres = %q", got)
	}
	actors := movie.Actors()
	if len(actors) != 2 || actors[0] != "Леонардо ДиКаприо" || actors[1] != "Том Харди" {
		t.Errorf("actors = %v", actors)
	}
	directors := movie.Directors()
	if len(directors) != 1 || directors[0] != "Кристофер Нолан" {
		t.Errorf("directors = %v", directors)
	}
}

func TestClient_GetMovie_NullRatingsAndBadDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/1" {
			fmt.Fprint(w, `{"id": 1, "name": "X", "rating": {"kp": null, "imdb": null}}`)
			return
		}
		fmt.Fprint(w, `{"id": 2, "premiere": {"world": "yesterday"}}`)
	})

	movie, err := client.GetMovie(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if movie.RatingKP != 0 || movie.RatingIMDb != 0 {
		t.Errorf("ratings = %v / %v, want zero", movie.RatingKP, movie.RatingIMDb)
	}

	if _, err := client.GetMovie(context.Background(), "2"); !errors.Is(err, domain.ErrParse) {
		t.Errorf("err = %v, want ErrParse for malformed date", err)
	}
}

func TestClient_RateLimitHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs": [], "total": 0}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k", RateLimit: 0.001, Burst: 1}, log.NullLogger())

	if _, err := client.Search(context.Background(), "first"); err != nil {
		t.Fatalf("first search failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Search(ctx, "second")
	if err == nil {
		t.Fatal("expected rate-limited search to fail once the context expires")
	}
	if errors.Is(err, domain.ErrNetwork) {
		t.Errorf("err = %v, rate limiting must not surface as a network error", err)
	}
}

func TestClient_VerifyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"docs": [], "total": 0}`)
	})

	if err := client.VerifyKey(context.Background()); err != nil {
		t.Errorf("VerifyKey with a good key: %v", err)
	}

	client.apiKey = "wrong"
	if err := client.VerifyKey(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("VerifyKey with a bad key = %v, want ErrNetwork", err)
	}
}
