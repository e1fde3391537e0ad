package neoapi

import (
	"context"
)

// Categories lists all genres/categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := c.get(ctx, apiPrefix+"/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) Category(ctx context.Context, id int) (*Category, error) {
	var cat Category
	if err := c.get(ctx, apiPrefix+"/categories/"+itoa(id), nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) MoviesByCategory(ctx context.Context, id, page int) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.get(ctx, apiPrefix+"/categories/"+itoa(id)+"/movies", pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TVByCategory(ctx context.Context, id, page int) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.get(ctx, apiPrefix+"/categories/"+itoa(id)+"/tv", pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
