package neoapi

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// MultiSearch runs movie and TV searches in parallel and merges them into one
// page ordered by popularity. Either search failing fails the whole call.
func (c *Client) MultiSearch(ctx context.Context, query string, page int) (*MovieResponse, error) {
	var movies, shows *MovieResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = c.SearchMovies(gctx, query, page)
		return err
	})
	g.Go(func() error {
		var err error
		shows, err = c.SearchTV(gctx, query, page)
		return err
	})
	if err := g.Wait(); err != nil {
		c.log.Error("Multi search failed", "query", query, "error", err)
		return nil, err
	}

	return mergeResults(movies, shows, page), nil
}

func mergeResults(movies, shows *MovieResponse, page int) *MovieResponse {
	if page < 1 {
		page = 1
	}

	combined := make([]Movie, 0, len(movies.Results)+len(shows.Results))
	for _, m := range movies.Results {
		m.MediaType = string(MediaTypeMovie)
		combined = append(combined, m)
	}
	for _, s := range shows.Results {
		s.MediaType = string(MediaTypeTV)
		combined = append(combined, s)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Popularity > combined[j].Popularity
	})

	return &MovieResponse{
		Page:         page,
		Results:      combined,
		TotalPages:   max(movies.TotalPages, shows.TotalPages),
		TotalResults: movies.TotalResults + shows.TotalResults,
	}
}
