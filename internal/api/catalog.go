package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/selector"
)

// SeasonsResponse lists the seasons a series has releases for
type SeasonsResponse struct {
	Seasons []int `json:"seasons"`
}

// StatusResponse describes the companion server
type StatusResponse struct {
	Status  string `json:"status"`
	APIURL  string `json:"api_url"`
	Session string `json:"session"`
	Locale  string `json:"locale"`
}

// search runs a merged movie and TV search
// GET /api/search?query=...&page=...
func (s *Server) search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		errorResponse(c, http.StatusBadRequest, "Query parameter is required")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	resp, err := s.catalog.MultiSearch(c.Request.Context(), query, page)
	if err != nil {
		errorResponse(c, errorStatus(err), s.messages(c).Error(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTorrents returns the torrent selector view for a title
// GET /api/torrents/:imdb?type=tv&title=...&season=2&quality=1080P&magnet=...
func (s *Server) getTorrents(c *gin.Context) {
	mediaType, err := neoapi.ParseMediaType(c.DefaultQuery("type", string(neoapi.MediaTypeMovie)))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	msgs := s.messages(c)
	sel := selector.New(s.catalog, selector.Target{
		IMDbID:        c.Param("imdb"),
		MediaType:     mediaType,
		Title:         c.Query("title"),
		OriginalTitle: c.Query("originalTitle"),
		Year:          c.Query("year"),
	}, msgs)

	ctx := c.Request.Context()
	season, _ := strconv.Atoi(c.Query("season"))
	if season > 0 && mediaType != neoapi.MediaTypeMovie {
		if _, err := sel.LoadSeasons(ctx); err != nil {
			errorResponse(c, errorStatus(err), msgs.Error(err))
			return
		}
		err = sel.SelectSeason(ctx, season)
	} else {
		err = sel.Load(ctx)
	}
	if err != nil {
		errorResponse(c, errorStatus(err), msgs.Error(err))
		return
	}

	sel.SelectQuality(c.Query("quality"))
	if magnet := c.Query("magnet"); magnet != "" {
		if err := sel.SelectMagnet(magnet); err != nil {
			if errors.Is(err, selector.ErrUnknownMagnet) {
				errorResponse(c, http.StatusNotFound, err.Error())
				return
			}
			errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, sel.View())
}

// getSeasons lists the seasons of a series, inferring them when the remote
// index has none
// GET /api/seasons?title=...&imdb=...
func (s *Server) getSeasons(c *gin.Context) {
	title := c.Query("title")
	imdbID := c.Query("imdb")
	if title == "" && imdbID == "" {
		errorResponse(c, http.StatusBadRequest, "Title or imdb parameter is required")
		return
	}

	sel := selector.New(s.catalog, selector.Target{
		IMDbID:        imdbID,
		MediaType:     neoapi.MediaTypeTV,
		Title:         title,
		OriginalTitle: c.Query("originalTitle"),
		Year:          c.Query("year"),
	}, s.messages(c))

	seasons, err := sel.LoadSeasons(c.Request.Context())
	if err != nil {
		errorResponse(c, errorStatus(err), s.messages(c).Error(err))
		return
	}
	if seasons == nil {
		seasons = []int{}
	}

	c.JSON(http.StatusOK, SeasonsResponse{Seasons: seasons})
}

// getStatus returns server status
// GET /api/status
func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:  "ok",
		APIURL:  s.catalog.BaseURL(),
		Session: string(s.auth.State()),
		Locale:  s.messages(c).Tag().String(),
	})
}
