package neoapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", opts...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestEnvelopeUnwrap(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/api/v1/movies/42", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 42, "title": "The Matrix", "release_date": "1999-03-31"},
		})
	})

	movie, err := c.GetMovie(context.Background(), "42")
	require.NoError(err)
	require.Equal(42, movie.ID)
	require.Equal("The Matrix", movie.DisplayTitle())
	require.Equal("1999", movie.Year())
}

func TestBareBodyDecoded(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"imdb_id": "tt0133093"})
	})

	id, err := c.MovieIMDbID(context.Background(), "603")
	require.NoError(err)
	require.Equal("tt0133093", id)
}

func TestRemoteRequestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    map[string]interface{}
		message string
	}{
		{"message passed through", http.StatusOK, map[string]interface{}{"success": false, "message": "Invalid credentials"}, "Invalid credentials"},
		{"default message", http.StatusOK, map[string]interface{}{"success": false, "data": nil}, "API request failed"},
		{"created with failure envelope", http.StatusCreated, map[string]interface{}{"success": false, "message": "Email taken"}, "Email taken"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			_, err := c.Login(context.Background(), "neo@example.com", "wrong")
			require.Error(err)

			var remoteErr *RemoteRequestError
			require.True(errors.As(err, &remoteErr))
			require.Equal(tc.message, remoteErr.Message)
			require.Equal(tc.message, err.Error())
			require.Equal(tc.status, remoteErr.Status)
		})
	}
}

func TestTransportErrorOnStatus(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := c.Categories(context.Background())
	var transportErr *TransportError
	require.True(errors.As(err, &transportErr))
	require.Equal(http.StatusBadGateway, transportErr.Status)
	require.Contains(err.Error(), "upstream exploded")
}

func TestNon2xxEnvelopeIsTransportError(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid credentials"})
	})

	_, err := c.Login(context.Background(), "neo@example.com", "wrong")
	require.Error(err)

	var remoteErr *RemoteRequestError
	require.False(errors.As(err, &remoteErr))

	var transportErr *TransportError
	require.True(errors.As(err, &transportErr))
	require.Equal(http.StatusUnauthorized, transportErr.Status)
	require.Contains(err.Error(), "Invalid credentials")
}

func TestSuccessWithoutDataDecodedAsIs(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"token":   "tok",
			"user":    map[string]string{"name": "Neo", "email": "neo@example.com"},
		})
	})

	resp, err := c.Login(context.Background(), "neo@example.com", "secret")
	require.NoError(err)
	require.Equal("tok", resp.Token)
	require.Equal("Neo", resp.User.Name)
}

func TestTransportErrorOnTimeout(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	release := make(chan struct{})
	defer close(release)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := c.Categories(context.Background())
	var transportErr *TransportError
	require.True(errors.As(err, &transportErr))
	require.Zero(transportErr.Status)
}

func TestTransportErrorOnBadJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"categories": "nope"}}`))
	})

	_, err := c.Categories(context.Background())
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"1", "1"},
		{"7", "7"},
		{"0", "1"},
		{"-3", "1"},
		{"abc", "1"},
		{"", "1"},
		{"2.5", "1"},
	}

	for _, tc := range tests {
		q := url.Values{"page": []string{tc.input}}
		normalizePage(q)
		require.Equal(tc.expected, q.Get("page"), "normalizePage(%q)", tc.input)
	}

	q := url.Values{"query": []string{"x"}}
	normalizePage(q)
	require.False(q.Has("page"))
}

func TestPageClampedOnTheWire(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	var mu sync.Mutex
	var pages []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pages = append(pages, r.URL.Query().Get("page"))
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": MovieResponse{Page: 1}})
	})

	ctx := context.Background()
	_, err := c.ListMovies(ctx, MoviesPopular, 0)
	require.NoError(err)
	_, err = c.ListTV(ctx, TVOnTheAir, -5)
	require.NoError(err)
	_, err = c.MoviesByCategory(ctx, 28, 3)
	require.NoError(err)

	require.Equal([]string{"1", "1", "3"}, pages)

	_, err = c.ListMovies(ctx, MovieList("trending"), 1)
	require.Error(err)
}

func TestTokenHeaderIsPerClient(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	headers := make(chan http.Header, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []Favorite{}})
	}))
	defer srv.Close()

	a := NewClient(srv.URL)
	b := NewClient(srv.URL)
	a.SetToken("secret")

	ctx := context.Background()
	_, err := a.Favorites(ctx)
	require.NoError(err)
	h := <-headers
	require.Equal("Bearer secret", h.Get("Authorization"))
	require.NotEmpty(h.Get("X-Request-ID"))
	require.Equal(defaultUserAgent, h.Get("User-Agent"))

	_, err = b.Favorites(ctx)
	require.NoError(err)
	require.Empty((<-headers).Get("Authorization"))

	a.SetToken("")
	_, err = a.Favorites(ctx)
	require.NoError(err)
	require.Empty((<-headers).Get("Authorization"))
}

func TestMultiSearch(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal("matrix", r.URL.Query().Get("query"))
		switch r.URL.Path {
		case "/api/v1/movies/search":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": MovieResponse{
				Page:         2,
				Results:      []Movie{{ID: 1, Title: "The Matrix", Popularity: 50}, {ID: 2, Title: "Matrix Reloaded", Popularity: 10}},
				TotalPages:   3,
				TotalResults: 41,
			}})
		case "/api/v1/tv/search":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": MovieResponse{
				Page:         2,
				Results:      []Movie{{ID: 3, Name: "Matrix (TV)", Popularity: 30}},
				TotalPages:   5,
				TotalResults: 7,
			}})
		default:
			http.NotFound(w, r)
		}
	})

	resp, err := c.MultiSearch(context.Background(), "matrix", 2)
	require.NoError(err)
	require.Equal(2, resp.Page)
	require.Equal(5, resp.TotalPages)
	require.Equal(48, resp.TotalResults)
	require.Len(resp.Results, 3)

	require.Equal(1, resp.Results[0].ID)
	require.Equal("movie", resp.Results[0].MediaType)
	require.Equal(3, resp.Results[1].ID)
	require.Equal("tv", resp.Results[1].MediaType)
	require.Equal(2, resp.Results[2].ID)
}

func TestMultiSearchFailsWhenEitherFails(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/tv/search" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "tv down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": MovieResponse{}})
	})

	_, err := c.MultiSearch(context.Background(), "x", 1)
	var remoteErr *RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, "tv down", remoteErr.Message)
}

func TestSearchTorrentsQuery(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	hdr := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/api/v1/torrents/search/tt0944947", r.URL.Path)
		q := r.URL.Query()
		require.Equal("tv", q.Get("type"))
		require.Equal("3", q.Get("season"))
		require.Equal("CAMRIP,TS", q.Get("excludeQualities"))
		require.Equal("true", q.Get("hdr"))
		require.False(q.Has("hevc"))
		require.False(q.Has("quality"))

		w.Write([]byte(`{"success":true,"data":{"query":"tt0944947","total":2,"results":[
			{"title":"Game of Thrones S03 1080p","size":3221225472,"magnet":"magnet:?xt=urn:btih:aaa"},
			{"title":"Game of Thrones S03 720p","size":"2.1 GB","magnet":"magnet:?xt=urn:btih:bbb"}
		]}}`))
	})

	resp, err := c.SearchTorrents(context.Background(), "tt0944947", MediaTypeTV, &TorrentSearchOptions{
		Season:           3,
		ExcludeQualities: []string{"CAMRIP", "TS"},
		HDR:              &hdr,
	})
	require.NoError(err)
	require.Equal(2, resp.Total)
	require.Equal(ByteSize("3221225472"), resp.Results[0].Size)
	require.Equal(ByteSize("2.1 GB"), resp.Results[1].Size)
}

func TestAvailableSeasonsAndQuerySearch(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/api/v1/torrents/seasons":
			require.Equal("Тьма", q.Get("title"))
			require.Equal("Dark", q.Get("originalTitle"))
			require.False(q.Has("year"))
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": AvailableSeasonsResponse{Seasons: []int{1, 2, 3}, Total: 3}})
		case "/api/v1/torrents/search":
			require.Equal("movie", q.Get("type"))
			require.Equal("2017", q.Get("year"))
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": TorrentSearchResponse{Total: 0}})
		}
	})

	ctx := context.Background()
	seasons, err := c.AvailableSeasons(ctx, "Тьма", "Dark", "")
	require.NoError(err)
	require.Equal([]int{1, 2, 3}, seasons.Seasons)

	resp, err := c.SearchByQuery(ctx, "Dark", "", "2017")
	require.NoError(err)
	require.Zero(resp.Total)
}

func TestFavoritesAndReactions(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&body)
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/favorites/603":
			require.Equal("movie", r.URL.Query().Get("mediaType"))
			require.Equal("The Matrix", body["title"])
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/favorites/check/603":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]bool{"isFavorite": true}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/reactions":
			require.Equal("tv_1399", body["mediaId"])
			require.Equal("like", body["type"])
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/reactions/tv/1399/counts":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": ReactionCounts{Likes: 5, Dislikes: 1}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/reactions/tv/1399":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	require.NoError(c.AddFavorite(ctx, Favorite{MediaID: "603", MediaType: "movie", Title: "The Matrix"}))

	fav, err := c.IsFavorite(ctx, "603")
	require.NoError(err)
	require.True(fav)

	require.NoError(c.SetReaction(ctx, MediaTypeTV, "1399", ReactionLike))

	counts, err := c.ReactionCounts(ctx, MediaTypeTV, "1399")
	require.NoError(err)
	require.Equal(5, counts.Likes)

	require.NoError(c.RemoveReaction(ctx, MediaTypeTV, "1399"))
}

func TestImageURL(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := NewClient("https://api.example.com/")
	require.Equal(PlaceholderImage, c.ImageURL("", ""))
	require.Equal(PlaceholderImage, c.ImageURL("/posters/", "w200"))
	require.Equal("https://api.example.com/api/v1/images/w500/abc.jpg", c.ImageURL("/t/p/original/abc.jpg", ""))
	require.Equal("https://api.example.com/api/v1/images/w200/abc.jpg", c.ImageURL("abc.jpg", "w200"))
}

func TestParseMediaType(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	mt, err := ParseMediaType(" TV ")
	require.NoError(err)
	require.Equal(MediaTypeTV, mt)

	_, err = ParseMediaType("podcast")
	require.Error(err)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveRequest(method, outcome string, status int, d time.Duration) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func TestObserverOutcomes(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/categories":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"categories": []Category{{ID: 1, Name: "Drama"}}}})
		case "/api/v1/categories/2":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "nope"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}, WithObserver(obs))

	ctx := context.Background()
	cats, err := c.Categories(ctx)
	require.NoError(err)
	require.Len(cats, 1)
	_, err = c.Category(ctx, 2)
	require.Error(err)
	_, err = c.Category(ctx, 3)
	require.Error(err)

	require.Equal([]string{OutcomeOK, OutcomeRemoteError, OutcomeTransportError}, obs.outcomes)
}
