package selector

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/release"
)

var (
	// ErrSuperseded is returned by a fetch whose result was dropped because a
	// newer fetch started after it.
	ErrSuperseded = errors.New("fetch superseded by a newer request")

	ErrUnknownMagnet = errors.New("magnet is not in the current list")
	ErrNoIMDbID      = errors.New("no IMDb id")
)

// Fetcher is the subset of the remote client the selector needs.
type Fetcher interface {
	SearchTorrents(ctx context.Context, imdbID string, mediaType neoapi.MediaType, opts *neoapi.TorrentSearchOptions) (*neoapi.TorrentSearchResponse, error)
	AvailableSeasons(ctx context.Context, title, originalTitle, year string) (*neoapi.AvailableSeasonsResponse, error)
}

// Target is the title torrents are picked for.
type Target struct {
	IMDbID        string
	MediaType     neoapi.MediaType
	Title         string
	OriginalTitle string
	Year          string
}

// View is a snapshot of what the selector shows.
type View struct {
	MediaType  neoapi.MediaType        `json:"mediaType"`
	Seasons    []int                   `json:"seasons,omitempty"`
	Season     int                     `json:"season,omitempty"`
	Qualities  []string                `json:"qualities,omitempty"`
	Quality    string                  `json:"quality,omitempty"`
	Torrents   []release.ParsedTorrent `json:"torrents"`
	Magnet     string                  `json:"magnet,omitempty"`
	Loading    bool                    `json:"loading"`
	MessageKey MessageKey              `json:"messageKey,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// Selector holds torrent-picker state for one title. It is safe for
// concurrent use; results of a fetch that was overtaken by a newer one are
// discarded.
type Selector struct {
	api    Fetcher
	target Target
	msgs   *Messages
	log    *slog.Logger

	mu         sync.Mutex
	generation uint64
	seasons    []int
	season     int
	quality    string
	torrents   []release.ParsedTorrent // nil until a fetch succeeds
	magnet     string
	loading    bool
	message    MessageKey
}

func New(api Fetcher, target Target, msgs *Messages) *Selector {
	if target.MediaType == "" {
		target.MediaType = neoapi.MediaTypeMovie
	}
	if msgs == nil {
		msgs = NewMessages("")
	}
	return &Selector{
		api:    api,
		target: target,
		msgs:   msgs,
		log:    slog.With("component", "selector", "imdb_id", target.IMDbID, "type", target.MediaType),
	}
}

func (s *Selector) isSeries() bool {
	return s.target.MediaType != neoapi.MediaTypeMovie
}

// Load prepares the selector: seasons first for series, then the torrents
// of the selected season. Movies are fetched immediately.
func (s *Selector) Load(ctx context.Context) error {
	if s.isSeries() {
		if _, err := s.LoadSeasons(ctx); err != nil {
			return err
		}
		s.mu.Lock()
		season := s.season
		s.mu.Unlock()
		if season == 0 {
			return nil
		}
	}
	return s.Fetch(ctx)
}

// LoadSeasons asks the server which seasons exist. When it reports none,
// or fails, seasons are inferred from the titles of an unfiltered search.
// The first season is selected when none is.
func (s *Selector) LoadSeasons(ctx context.Context) ([]int, error) {
	if !s.isSeries() {
		return nil, nil
	}

	var remote []int
	if s.target.Title != "" {
		resp, err := s.api.AvailableSeasons(ctx, s.target.Title, s.target.OriginalTitle, s.target.Year)
		if err != nil {
			s.log.Warn("Failed to fetch available seasons", "error", err)
		} else {
			remote = resp.Seasons
		}
	}

	var parsed []release.ParsedTorrent
	if len(remote) == 0 && s.target.IMDbID != "" {
		resp, err := s.api.SearchTorrents(ctx, s.target.IMDbID, s.target.MediaType, nil)
		if err != nil {
			s.log.Warn("Failed to infer seasons", "error", err)
		} else {
			parsed = release.ParseAll(resp.Results, s.target.MediaType)
		}
	}
	seasons := release.DiscoverSeasons(remote, parsed)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons = seasons
	if s.season == 0 && len(seasons) > 0 {
		s.season = seasons[0]
	}

	s.log.Debug("Seasons loaded", "seasons", seasons, "selected", s.season)
	return seasons, nil
}

// Fetch loads torrents for the current selection. A series without a
// selected season is not fetched.
func (s *Selector) Fetch(ctx context.Context) error {
	if s.target.IMDbID == "" {
		return ErrNoIMDbID
	}

	s.mu.Lock()
	if s.isSeries() && s.season == 0 {
		s.mu.Unlock()
		return nil
	}
	s.generation++
	gen := s.generation
	season := s.season
	s.loading = true
	s.message = ""
	s.magnet = ""
	s.mu.Unlock()

	var opts *neoapi.TorrentSearchOptions
	if s.isSeries() {
		opts = &neoapi.TorrentSearchOptions{Season: season}
	}
	resp, err := s.api.SearchTorrents(ctx, s.target.IMDbID, s.target.MediaType, opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.log.Debug("Dropping superseded fetch", "generation", gen, "current", s.generation)
		return ErrSuperseded
	}
	s.loading = false

	if err != nil {
		s.log.Error("Failed to load torrents", "season", season, "error", err)
		s.message = MsgLoadFailed
		s.torrents = nil
		return err
	}

	if resp.Total == 0 || len(resp.Results) == 0 {
		s.message = MsgNotFound
		s.torrents = []release.ParsedTorrent{}
		return nil
	}

	s.torrents = release.Dedup(release.ParseAll(resp.Results, s.target.MediaType))
	s.log.Debug("Torrents loaded", "season", season, "count", len(s.torrents))
	return nil
}

// SelectSeason switches season and refetches.
func (s *Selector) SelectSeason(ctx context.Context, season int) error {
	s.mu.Lock()
	s.season = season
	s.magnet = ""
	s.mu.Unlock()

	return s.Fetch(ctx)
}

// SelectQuality narrows the list to one tier; "" or release.QualityAll
// shows every tier.
func (s *Selector) SelectQuality(tier string) {
	s.mu.Lock()
	s.quality = tier
	s.magnet = ""
	s.mu.Unlock()
}

// SelectMagnet marks a torrent from the current list as chosen.
func (s *Selector) SelectMagnet(magnet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.visible() {
		if t.Magnet == magnet {
			s.magnet = magnet
			return nil
		}
	}
	return ErrUnknownMagnet
}

// View returns the filtered, sorted list and the current status.
func (s *Selector) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		MediaType: s.target.MediaType,
		Seasons:   append([]int(nil), s.seasons...),
		Quality:   s.quality,
		Magnet:    s.magnet,
		Loading:   s.loading,
	}
	if s.isSeries() {
		v.Season = s.season
	}

	bySeason := s.bySeason()
	v.Qualities = release.Qualities(bySeason)
	v.Torrents = release.SortByQuality(release.FilterByQuality(bySeason, s.quality))

	switch {
	case s.loading:
		v.MessageKey = MsgLoading
	case s.message != "":
		v.MessageKey = s.message
	case s.torrents != nil && len(v.Torrents) == 0:
		v.MessageKey = MsgNoneForSeason
	}
	if v.MessageKey != "" {
		v.Message = s.msgs.Get(v.MessageKey)
	}
	return v
}

// Messages returns the catalog used for status text.
func (s *Selector) Messages() *Messages {
	return s.msgs
}

func (s *Selector) bySeason() []release.ParsedTorrent {
	if s.isSeries() && s.season > 0 {
		return release.FilterBySeason(s.torrents, s.season)
	}
	return s.torrents
}

func (s *Selector) visible() []release.ParsedTorrent {
	return release.FilterByQuality(s.bySeason(), s.quality)
}
