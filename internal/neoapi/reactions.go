package neoapi

import (
	"context"
	"net/url"
)

func reactionPath(mediaType MediaType, mediaID string) string {
	return apiPrefix + "/reactions/" + url.PathEscape(string(mediaType)) + "/" + url.PathEscape(mediaID)
}

// ReactionCounts returns like/dislike totals for a title.
func (c *Client) ReactionCounts(ctx context.Context, mediaType MediaType, mediaID string) (*ReactionCounts, error) {
	var counts ReactionCounts
	if err := c.get(ctx, reactionPath(mediaType, mediaID)+"/counts", nil, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// MyReaction returns the user's reaction, or "" when there is none.
func (c *Client) MyReaction(ctx context.Context, mediaType MediaType, mediaID string) (ReactionType, error) {
	var resp struct {
		Type ReactionType `json:"type"`
	}
	if err := c.get(ctx, reactionPath(mediaType, mediaID)+"/my-reaction", nil, &resp); err != nil {
		return "", err
	}
	return resp.Type, nil
}

// SetReaction likes or dislikes a title. The server keys reactions as
// "<type>_<id>".
func (c *Client) SetReaction(ctx context.Context, mediaType MediaType, mediaID string, reaction ReactionType) error {
	body := map[string]string{
		"mediaId": string(mediaType) + "_" + mediaID,
		"type":    string(reaction),
	}
	return c.post(ctx, apiPrefix+"/reactions", nil, body, nil)
}

func (c *Client) RemoveReaction(ctx context.Context, mediaType MediaType, mediaID string) error {
	return c.delete(ctx, reactionPath(mediaType, mediaID), nil)
}
