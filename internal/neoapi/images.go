package neoapi

import (
	"strings"
)

const (
	PlaceholderImage = "/images/placeholder.jpg"
	DefaultImageSize = "w500"
)

// ImageURL builds the proxied image URL for a poster or backdrop path. Only
// the last path segment (the image ID) is kept.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = DefaultImageSize
	}

	imageID := path[strings.LastIndex(path, "/")+1:]
	if imageID == "" {
		return PlaceholderImage
	}

	return c.baseURL + apiPrefix + "/images/" + size + "/" + imageID
}
