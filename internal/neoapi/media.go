package neoapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// MovieList names a paged movie listing.
type MovieList string

const (
	MoviesPopular    MovieList = "popular"
	MoviesTopRated   MovieList = "top-rated"
	MoviesNowPlaying MovieList = "now-playing"
	MoviesUpcoming   MovieList = "upcoming"
)

// TVList names a paged TV listing.
type TVList string

const (
	TVPopular     TVList = "popular"
	TVTopRated    TVList = "top-rated"
	TVOnTheAir    TVList = "on-the-air"
	TVAiringToday TVList = "airing-today"
)

// MovieLists and TVLists enumerate the listings the API serves.
var (
	MovieLists = []MovieList{MoviesPopular, MoviesTopRated, MoviesNowPlaying, MoviesUpcoming}
	TVLists    = []TVList{TVPopular, TVTopRated, TVOnTheAir, TVAiringToday}
)

// ListMovies fetches one page of a movie listing.
func (c *Client) ListMovies(ctx context.Context, list MovieList, page int) (*MovieResponse, error) {
	if !validMovieList(list) {
		return nil, fmt.Errorf("unknown movie list %q", list)
	}

	var resp MovieResponse
	if err := c.get(ctx, apiPrefix+"/movies/"+string(list), pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTV fetches one page of a TV listing.
func (c *Client) ListTV(ctx context.Context, list TVList, page int) (*MovieResponse, error) {
	if !validTVList(list) {
		return nil, fmt.Errorf("unknown tv list %q", list)
	}

	var resp MovieResponse
	if err := c.get(ctx, apiPrefix+"/tv/"+string(list), pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovie fetches movie details by ID
func (c *Client) GetMovie(ctx context.Context, id string) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, apiPrefix+"/movies/"+url.PathEscape(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetTVShow fetches TV show details by ID
func (c *Client) GetTVShow(ctx context.Context, id string) (*Movie, error) {
	var show Movie
	if err := c.get(ctx, apiPrefix+"/tv/"+url.PathEscape(id), nil, &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// SearchMovies searches for movies by title
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MovieResponse, error) {
	return c.search(ctx, apiPrefix+"/movies/search", query, page)
}

// SearchTV searches for TV shows by title
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*MovieResponse, error) {
	return c.search(ctx, apiPrefix+"/tv/search", query, page)
}

func (c *Client) search(ctx context.Context, path, query string, page int) (*MovieResponse, error) {
	q := pageQuery(page)
	q.Set("query", query)

	var resp MovieResponse
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MovieIMDbID resolves a movie's IMDb ID.
func (c *Client) MovieIMDbID(ctx context.Context, id string) (string, error) {
	return c.imdbID(ctx, apiPrefix+"/movies/"+url.PathEscape(id)+"/external-ids")
}

// TVIMDbID resolves a show's IMDb ID.
func (c *Client) TVIMDbID(ctx context.Context, id string) (string, error) {
	return c.imdbID(ctx, apiPrefix+"/tv/"+url.PathEscape(id)+"/external-ids")
}

func (c *Client) imdbID(ctx context.Context, path string) (string, error) {
	var ids ExternalIDs
	if err := c.get(ctx, path, nil, &ids); err != nil {
		return "", err
	}
	return ids.IMDbID, nil
}

func validMovieList(l MovieList) bool {
	for _, known := range MovieLists {
		if l == known {
			return true
		}
	}
	return false
}

func validTVList(l TVList) bool {
	for _, known := range TVLists {
		if l == known {
			return true
		}
	}
	return false
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
