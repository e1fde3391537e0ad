package neoapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// TorrentSearchOptions are the optional filters of SearchTorrents. Zero values
// and nil pointers are not sent.
type TorrentSearchOptions struct {
	Season           int
	Quality          string
	MinQuality       string
	MaxQuality       string
	ExcludeQualities []string
	HDR              *bool
	HEVC             *bool
	SortBy           string
	SortOrder        string
	GroupByQuality   *bool
	GroupBySeason    *bool
}

func (o *TorrentSearchOptions) apply(q url.Values) {
	if o == nil {
		return
	}
	if o.Season > 0 {
		q.Set("season", strconv.Itoa(o.Season))
	}
	setIf(q, "quality", o.Quality)
	setIf(q, "minQuality", o.MinQuality)
	setIf(q, "maxQuality", o.MaxQuality)
	if len(o.ExcludeQualities) > 0 {
		q.Set("excludeQualities", strings.Join(o.ExcludeQualities, ","))
	}
	setBool(q, "hdr", o.HDR)
	setBool(q, "hevc", o.HEVC)
	setIf(q, "sortBy", o.SortBy)
	setIf(q, "sortOrder", o.SortOrder)
	setBool(q, "groupByQuality", o.GroupByQuality)
	setBool(q, "groupBySeason", o.GroupBySeason)
}

// SearchTorrents looks up releases for an IMDb ID.
func (c *Client) SearchTorrents(ctx context.Context, imdbID string, mediaType MediaType, opts *TorrentSearchOptions) (*TorrentSearchResponse, error) {
	q := url.Values{}
	q.Set("type", string(mediaType))
	opts.apply(q)

	var resp TorrentSearchResponse
	if err := c.get(ctx, apiPrefix+"/torrents/search/"+url.PathEscape(imdbID), q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AvailableSeasons asks the server which seasons have releases.
func (c *Client) AvailableSeasons(ctx context.Context, title, originalTitle, year string) (*AvailableSeasonsResponse, error) {
	q := url.Values{}
	q.Set("title", title)
	setIf(q, "originalTitle", originalTitle)
	setIf(q, "year", year)

	var resp AvailableSeasonsResponse
	if err := c.get(ctx, apiPrefix+"/torrents/seasons", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchByQuery runs a free-text torrent search. An empty media type means
// movie.
func (c *Client) SearchByQuery(ctx context.Context, query string, mediaType MediaType, year string) (*TorrentSearchResponse, error) {
	if mediaType == "" {
		mediaType = MediaTypeMovie
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("type", string(mediaType))
	setIf(q, "year", year)

	var resp TorrentSearchResponse
	if err := c.get(ctx, apiPrefix+"/torrents/search", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setBool(q url.Values, key string, value *bool) {
	if value != nil {
		q.Set(key, strconv.FormatBool(*value))
	}
}
