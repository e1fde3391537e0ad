package neoapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MediaType selects movie, TV or anime endpoints and torrent searches.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeAnime MediaType = "anime"
)

// ParseMediaType accepts "movie", "tv" and "anime" in any case.
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaTypeMovie:
		return MediaTypeMovie, nil
	case MediaTypeTV:
		return MediaTypeTV, nil
	case MediaTypeAnime:
		return MediaTypeAnime, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a movie or TV show as returned by listing and search endpoints.
// TV payloads fill Name and FirstAirDate instead of Title and ReleaseDate.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalName     string  `json:"original_name,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	Runtime          int     `json:"runtime,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	MediaType        string  `json:"media_type,omitempty"`
	NumberOfSeasons  int     `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int     `json:"number_of_episodes,omitempty"`
	IMDbID           string  `json:"imdb_id,omitempty"`
}

// DisplayTitle returns the title for movies and the name for shows.
func (m *Movie) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// DisplayOriginalTitle mirrors DisplayTitle for original titles.
func (m *Movie) DisplayOriginalTitle() string {
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return m.OriginalName
}

// Year extracts the year from the release or first air date
func (m *Movie) Year() string {
	date := m.ReleaseDate
	if date == "" {
		date = m.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

type MovieResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// ByteSize is a torrent size as the server sends it: either a JSON number of
// bytes or free text such as "1.4 GB". Numbers are kept in their JSON form.
type ByteSize string

func (s *ByteSize) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = ByteSize(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("size must be a number or string: %w", err)
	}
	*s = ByteSize(n.String())
	return nil
}

// TorrentResult is one release returned by the torrent search endpoints.
type TorrentResult struct {
	Title       string   `json:"title"`
	Tracker     string   `json:"tracker"`
	Size        ByteSize `json:"size"`
	Seeders     int      `json:"seeders"`
	Peers       int      `json:"peers"`
	Leechers    int      `json:"leechers"`
	Quality     string   `json:"quality"`
	Voice       []string `json:"voice,omitempty"`
	Types       []string `json:"types,omitempty"`
	Seasons     []int    `json:"seasons,omitempty"`
	Category    string   `json:"category"`
	Magnet      string   `json:"magnet"`
	TorrentLink string   `json:"torrent_link,omitempty"`
	Details     string   `json:"details,omitempty"`
	PublishDate string   `json:"publish_date"`
	AddedDate   string   `json:"added_date,omitempty"`
	Source      string   `json:"source"`
}

type TorrentSearchResponse struct {
	Query   string          `json:"query"`
	Results []TorrentResult `json:"results"`
	Total   int             `json:"total"`
}

type AvailableSeasonsResponse struct {
	Title         string `json:"title"`
	OriginalTitle string `json:"originalTitle"`
	Year          string `json:"year"`
	Seasons       []int  `json:"seasons"`
	Total         int    `json:"total"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is the profile returned alongside a login token.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar,omitempty"`
	Verified      bool   `json:"verified"`
	IsAdmin       bool   `json:"isAdmin"`
	AdminVerified bool   `json:"adminVerified"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type Favorite struct {
	ID         string `json:"id,omitempty"`
	MediaID    string `json:"mediaId"`
	MediaType  string `json:"mediaType"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ReactionType is a like or a dislike.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}
