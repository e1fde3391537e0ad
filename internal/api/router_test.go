package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/neomovies/internal/auth"
	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/selector"
	"github.com/shapedtime/neomovies/internal/storage"
)

const testMagnet = "magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056"

func ok(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": message})
}

// fakeRemote stands in for the remote API.
func fakeRemote(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		ok(w, neoapi.LoginResponse{Token: "tok", User: neoapi.User{Name: "Neo", Email: body["email"]}})
	})
	mux.HandleFunc("/api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		ok(w, nil)
	})
	mux.HandleFunc("/api/v1/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		ok(w, nil)
	})
	mux.HandleFunc("/api/v1/movies/search", func(w http.ResponseWriter, r *http.Request) {
		ok(w, neoapi.MovieResponse{Page: 1, Results: []neoapi.Movie{{ID: 1, Title: "Dark City", Popularity: 5}}, TotalPages: 1, TotalResults: 1})
	})
	mux.HandleFunc("/api/v1/tv/search", func(w http.ResponseWriter, r *http.Request) {
		ok(w, neoapi.MovieResponse{Page: 1, Results: []neoapi.Movie{{ID: 2, Name: "Dark", Popularity: 9}}, TotalPages: 2, TotalResults: 1})
	})
	mux.HandleFunc("/api/v1/torrents/seasons", func(w http.ResponseWriter, r *http.Request) {
		ok(w, neoapi.AvailableSeasonsResponse{Seasons: []int{1, 2}})
	})
	mux.HandleFunc("/api/v1/torrents/search/tt5753856", func(w http.ResponseWriter, r *http.Request) {
		results := []neoapi.TorrentResult{
			{Title: "Dark S01 720p", Magnet: "magnet:?xt=urn:btih:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Size: "1073741824"},
			{Title: "Dark S01 1080p", Magnet: testMagnet, Size: "2147483648"},
		}
		if r.URL.Query().Get("season") == "2" {
			results = nil
		}
		ok(w, neoapi.TorrentSearchResponse{Results: results, Total: len(results)})
	})
	mux.HandleFunc("/api/v1/torrents/search/tt0000000", func(w http.ResponseWriter, r *http.Request) {
		ok(w, neoapi.TorrentSearchResponse{Total: 0})
	})
	mux.HandleFunc("/api/v1/torrents/search/tt9999999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) (*Server, storage.Store) {
	t.Helper()
	remote := fakeRemote(t)

	client := neoapi.NewClient(remote.URL)
	store := storage.NewMemory()
	routes := &RouteTracker{}
	ctrl := auth.NewController(client, store, routes, auth.NewBus())

	return NewServer(ctrl, client, routes, "ru"), store
}

func do(s *Server, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, store := newTestServer(t)

	w := do(s, http.MethodPost, "/api/auth/login", map[string]string{"email": "neo@example.com", "password": "wrong"})
	require.Equal(http.StatusUnauthorized, w.Code)
	var errResp map[string]string
	decode(t, w, &errResp)
	require.Equal(selector.NewMessages("ru").Get(selector.MsgLoadFailed), errResp["error"])
	_, err := store.Get(storage.KeyToken)
	require.ErrorIs(err, storage.ErrNotFound)

	w = do(s, http.MethodPost, "/api/auth/login", map[string]string{"email": "neo@example.com", "password": "secret"})
	require.Equal(http.StatusOK, w.Code)
	var authResp AuthResponse
	decode(t, w, &authResp)
	require.Equal(auth.StateAuthenticated, authResp.State)
	require.Equal(auth.RouteHome, authResp.Redirect)

	w = do(s, http.MethodGet, "/api/session", nil)
	var session SessionResponse
	decode(t, w, &session)
	require.Equal(auth.StateAuthenticated, session.State)
	require.Equal("Neo", session.Profile.Name)

	w = do(s, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(http.StatusOK, w.Code)
	decode(t, w, &authResp)
	require.Equal(auth.StateAnonymous, authResp.State)
	require.Equal(auth.RouteLogin, authResp.Redirect)
}

func TestConcurrentAuthRedirects(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	const n = 40
	codes := make([]int, n)
	redirects := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var w *httptest.ResponseRecorder
			if i%2 == 0 {
				w = do(s, http.MethodPost, "/api/auth/login", map[string]string{"email": "neo@example.com", "password": "secret"})
			} else {
				w = do(s, http.MethodPost, "/api/auth/logout", nil)
			}
			var resp AuthResponse
			json.Unmarshal(w.Body.Bytes(), &resp)
			codes[i] = w.Code
			redirects[i] = resp.Redirect
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.Equal(http.StatusOK, codes[i], "request %d", i)
		if i%2 == 0 {
			require.Equal(auth.RouteHome, redirects[i], "login %d", i)
		} else {
			require.Equal(auth.RouteLogin, redirects[i], "logout %d", i)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	w := do(s, http.MethodPost, "/api/auth/login", map[string]string{"email": "neo@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyWithoutRegistration(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodPost, "/api/auth/verify", map[string]string{"code": "123456"})
	require.Equal(http.StatusGone, w.Code)
	var errResp map[string]string
	decode(t, w, &errResp)
	require.Equal("Сессия подтверждения истекла. Пожалуйста, попробуйте зарегистрироваться снова.", errResp["error"])

	w = do(s, http.MethodPost, "/api/auth/verify", map[string]string{"code": "123456"}, "Accept-Language", "en-US,en;q=0.9")
	decode(t, w, &errResp)
	require.Equal("The verification session has expired. Please register again.", errResp["error"])
}

func TestRegisterAndVerify(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodPost, "/api/auth/register", map[string]string{"email": "neo@example.com", "password": "secret", "name": "Neo"})
	require.Equal(http.StatusOK, w.Code)
	var authResp AuthResponse
	decode(t, w, &authResp)
	require.Equal(auth.StatePendingVerification, authResp.State)
	require.Empty(authResp.Redirect)

	w = do(s, http.MethodPost, "/api/auth/verify", map[string]string{"code": "123456"})
	require.Equal(http.StatusOK, w.Code)
	decode(t, w, &authResp)
	require.Equal(auth.StateAuthenticated, authResp.State)
	require.Equal(auth.RouteHome, authResp.Redirect)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/api/search", nil)
	require.Equal(http.StatusBadRequest, w.Code)

	w = do(s, http.MethodGet, "/api/search?query=dark&page=0", nil)
	require.Equal(http.StatusOK, w.Code)
	var resp neoapi.MovieResponse
	decode(t, w, &resp)
	require.Len(resp.Results, 2)
	require.Equal("Dark", resp.Results[0].DisplayTitle())
	require.Equal("tv", resp.Results[0].MediaType)
	require.Equal(2, resp.TotalPages)
}

func TestTorrentsView(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/api/torrents/tt5753856?type=tv&title=Dark&magnet="+testMagnet, nil)
	require.Equal(http.StatusOK, w.Code)
	var view selector.View
	decode(t, w, &view)
	require.Equal([]int{1, 2}, view.Seasons)
	require.Equal(1, view.Season)
	require.Len(view.Torrents, 2)
	require.Equal("Dark S01 1080p", view.Torrents[0].Title)
	require.Equal("2.00 GB", view.Torrents[0].SizeLabel)
	require.Equal(testMagnet, view.Magnet)

	w = do(s, http.MethodGet, "/api/torrents/tt5753856?type=tv&title=Dark&season=2", nil)
	require.Equal(http.StatusOK, w.Code)
	view = selector.View{}
	decode(t, w, &view)
	require.Equal(2, view.Season)
	require.Equal(selector.MsgNotFound, view.MessageKey)
	require.Empty(view.Torrents)

	w = do(s, http.MethodGet, "/api/torrents/tt5753856?type=tv&title=Dark&quality=720P", nil)
	view = selector.View{}
	decode(t, w, &view)
	require.Len(view.Torrents, 1)
	require.Equal("720P", view.Torrents[0].QualityTier)

	w = do(s, http.MethodGet, "/api/torrents/tt5753856?type=podcast", nil)
	require.Equal(http.StatusBadRequest, w.Code)
}

func TestTorrentsNotFoundAndFailure(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/api/torrents/tt0000000", nil)
	require.Equal(http.StatusOK, w.Code)
	var view selector.View
	decode(t, w, &view)
	require.Equal("Торренты не найдены.", view.Message)

	w = do(s, http.MethodGet, "/api/torrents/tt9999999", nil)
	require.Equal(http.StatusBadGateway, w.Code)
	var errResp map[string]string
	decode(t, w, &errResp)
	require.Equal("Не удалось загрузить список торрентов.", errResp["error"])
}

func TestSeasonsAndStatus(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, _ := newTestServer(t)

	w := do(s, http.MethodGet, "/api/seasons", nil)
	require.Equal(http.StatusBadRequest, w.Code)

	w = do(s, http.MethodGet, "/api/seasons?title=Dark", nil)
	require.Equal(http.StatusOK, w.Code)
	var seasons SeasonsResponse
	decode(t, w, &seasons)
	require.Equal([]int{1, 2}, seasons.Seasons)

	w = do(s, http.MethodGet, "/api/status", nil)
	require.Equal(http.StatusOK, w.Code)
	var status StatusResponse
	decode(t, w, &status)
	require.Equal("ok", status.Status)
	require.Equal(string(auth.StateAnonymous), status.Session)
	require.Equal("ru", status.Locale)
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal(http.StatusGone, errorStatus(auth.ErrSessionExpired))
	require.Equal(http.StatusUnauthorized, errorStatus(auth.ErrNoToken))
	require.Equal(http.StatusConflict, errorStatus(&neoapi.RemoteRequestError{Status: 409}))
	require.Equal(http.StatusBadRequest, errorStatus(&neoapi.RemoteRequestError{Status: 200}))
	require.Equal(http.StatusBadGateway, errorStatus(&neoapi.TransportError{}))
	require.Equal(http.StatusBadGateway, errorStatus(&neoapi.TransportError{Status: http.StatusInternalServerError}))
	require.Equal(http.StatusUnauthorized, errorStatus(&neoapi.TransportError{Status: http.StatusUnauthorized}))
}
