package neoapi

import (
	"context"
	"net/url"
)

// Favorites lists the authenticated user's favorites.
func (c *Client) Favorites(ctx context.Context) ([]Favorite, error) {
	var favs []Favorite
	if err := c.get(ctx, apiPrefix+"/favorites", nil, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// AddFavorite stores a title in the user's favorites.
func (c *Client) AddFavorite(ctx context.Context, fav Favorite) error {
	q := url.Values{}
	q.Set("mediaType", fav.MediaType)

	body := map[string]string{"title": fav.Title}
	if fav.PosterPath != "" {
		body["posterPath"] = fav.PosterPath
	}

	return c.post(ctx, apiPrefix+"/favorites/"+url.PathEscape(fav.MediaID), q, body, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, mediaID string) error {
	return c.delete(ctx, apiPrefix+"/favorites/"+url.PathEscape(mediaID), nil)
}

// IsFavorite reports whether mediaID is in the user's favorites.
func (c *Client) IsFavorite(ctx context.Context, mediaID string) (bool, error) {
	var resp struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.get(ctx, apiPrefix+"/favorites/check/"+url.PathEscape(mediaID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorite, nil
}
