package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/release"
	"github.com/shapedtime/neomovies/internal/selector"
)

func (e *env) catalogCommands() []*cli.Command {
	pageFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "page", Value: 1}
	}

	return []*cli.Command{
		{
			Name:      "search",
			Usage:     "search movies and shows",
			ArgsUsage: "<query>",
			Flags: []cli.Flag{
				pageFlag(),
				&cli.StringFlag{Name: "type", Usage: "limit to movie or tv"},
				jsonFlag(),
			},
			Action: e.search,
		},
		{
			Name:      "movies",
			Usage:     "list movies (" + joinLists(neoapi.MovieLists) + ")",
			ArgsUsage: "<list>",
			Flags:     []cli.Flag{pageFlag(), jsonFlag()},
			Action: func(c *cli.Context) error {
				list := neoapi.MovieList(c.Args().First())
				if list == "" {
					list = neoapi.MoviesPopular
				}
				resp, err := e.client.ListMovies(c.Context, list, c.Int("page"))
				if err != nil {
					return e.fail(err)
				}
				return e.printMovies(c, resp)
			},
		},
		{
			Name:      "tv",
			Usage:     "list shows (" + joinLists(neoapi.TVLists) + ")",
			ArgsUsage: "<list>",
			Flags:     []cli.Flag{pageFlag(), jsonFlag()},
			Action: func(c *cli.Context) error {
				list := neoapi.TVList(c.Args().First())
				if list == "" {
					list = neoapi.TVPopular
				}
				resp, err := e.client.ListTV(c.Context, list, c.Int("page"))
				if err != nil {
					return e.fail(err)
				}
				return e.printMovies(c, resp)
			},
		},
		{
			Name:      "movie",
			Usage:     "show movie details",
			ArgsUsage: "<id>",
			Flags:     []cli.Flag{jsonFlag()},
			Action: func(c *cli.Context) error {
				return e.details(c, neoapi.MediaTypeMovie)
			},
		},
		{
			Name:      "show",
			Usage:     "show TV show details",
			ArgsUsage: "<id>",
			Flags:     []cli.Flag{jsonFlag()},
			Action: func(c *cli.Context) error {
				return e.details(c, neoapi.MediaTypeTV)
			},
		},
		{
			Name:  "torrents",
			Usage: "list releases for a title and pick one",
			Flags: append(targetFlags(),
				&cli.IntFlag{Name: "season", Usage: "season to list, series only"},
				&cli.StringFlag{Name: "quality", Usage: "quality tier filter, e.g. 1080P"},
				&cli.IntFlag{Name: "pick", Usage: "print the magnet of the n-th listed release"},
				jsonFlag(),
			),
			Action: e.torrents,
		},
		{
			Name:   "seasons",
			Usage:  "list the seasons a series has releases for",
			Flags:  targetFlags(),
			Action: e.seasons,
		},
		{
			Name:  "categories",
			Usage: "list categories, or titles in one",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "id", Usage: "list titles of this category"},
				&cli.StringFlag{Name: "type", Value: string(neoapi.MediaTypeMovie)},
				pageFlag(),
				jsonFlag(),
			},
			Action: e.categories,
		},
		{
			Name:      "image-url",
			Usage:     "print the proxied image URL for a poster path",
			ArgsUsage: "<path>",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "size", Value: neoapi.DefaultImageSize}},
			Action: func(c *cli.Context) error {
				fmt.Fprintln(c.App.Writer, e.client.ImageURL(c.Args().First(), c.String("size")))
				return nil
			},
		},
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "imdb", Usage: "IMDb ID, e.g. tt0133093"},
		&cli.StringFlag{Name: "id", Usage: "catalog ID, resolved to an IMDb ID"},
		&cli.StringFlag{Name: "type", Value: string(neoapi.MediaTypeMovie), Usage: "movie, tv or anime"},
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "original-title"},
		&cli.StringFlag{Name: "year"},
	}
}

func (e *env) search(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return cli.Exit("search query is required", 1)
	}

	var (
		resp *neoapi.MovieResponse
		err  error
	)
	switch c.String("type") {
	case "":
		resp, err = e.client.MultiSearch(c.Context, query, c.Int("page"))
	case string(neoapi.MediaTypeMovie):
		resp, err = e.client.SearchMovies(c.Context, query, c.Int("page"))
	case string(neoapi.MediaTypeTV):
		resp, err = e.client.SearchTV(c.Context, query, c.Int("page"))
	default:
		return cli.Exit("type must be movie or tv", 1)
	}
	if err != nil {
		return e.fail(err)
	}
	return e.printMovies(c, resp)
}

func (e *env) details(c *cli.Context, mediaType neoapi.MediaType) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("id is required", 1)
	}

	var (
		m   *neoapi.Movie
		err error
	)
	if mediaType == neoapi.MediaTypeMovie {
		m, err = e.client.GetMovie(c.Context, id)
	} else {
		m, err = e.client.GetTVShow(c.Context, id)
	}
	if err != nil {
		return e.fail(err)
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, m)
	}
	printDetails(c.App.Writer, e.client, m)
	return nil
}

// resolveTarget builds a selector target from flags, looking up the IMDb ID
// and titles from the catalog when only a catalog ID is given.
func (e *env) resolveTarget(c *cli.Context) (selector.Target, error) {
	mediaType, err := neoapi.ParseMediaType(c.String("type"))
	if err != nil {
		return selector.Target{}, cli.Exit(err.Error(), 1)
	}

	target := selector.Target{
		IMDbID:        c.String("imdb"),
		MediaType:     mediaType,
		Title:         c.String("title"),
		OriginalTitle: c.String("original-title"),
		Year:          c.String("year"),
	}

	if id := c.String("id"); id != "" {
		if err := e.fillTarget(c.Context, id, &target); err != nil {
			return selector.Target{}, e.fail(err)
		}
	}
	return target, nil
}

func (e *env) fillTarget(ctx context.Context, id string, t *selector.Target) error {
	var (
		m   *neoapi.Movie
		err error
	)
	if t.MediaType == neoapi.MediaTypeMovie {
		m, err = e.client.GetMovie(ctx, id)
	} else {
		m, err = e.client.GetTVShow(ctx, id)
	}
	if err != nil {
		return err
	}

	if t.IMDbID == "" {
		t.IMDbID = m.IMDbID
	}
	if t.IMDbID == "" {
		if t.MediaType == neoapi.MediaTypeMovie {
			t.IMDbID, err = e.client.MovieIMDbID(ctx, id)
		} else {
			t.IMDbID, err = e.client.TVIMDbID(ctx, id)
		}
		if err != nil {
			return err
		}
	}
	if t.Title == "" {
		t.Title = m.DisplayTitle()
	}
	if t.OriginalTitle == "" {
		t.OriginalTitle = m.DisplayOriginalTitle()
	}
	if t.Year == "" {
		t.Year = m.Year()
	}
	return nil
}

func (e *env) torrents(c *cli.Context) error {
	target, err := e.resolveTarget(c)
	if err != nil {
		return err
	}

	sel := selector.New(e.client, target, e.msgs)
	season := c.Int("season")
	if season > 0 && target.MediaType != neoapi.MediaTypeMovie {
		if _, err := sel.LoadSeasons(c.Context); err != nil {
			return e.fail(err)
		}
		err = sel.SelectSeason(c.Context, season)
	} else {
		err = sel.Load(c.Context)
	}
	if err != nil {
		return e.fail(err)
	}

	sel.SelectQuality(c.String("quality"))

	if n := c.Int("pick"); n > 0 {
		view := sel.View()
		if n > len(view.Torrents) {
			return cli.Exit(fmt.Sprintf("no release #%d, %d listed", n, len(view.Torrents)), 1)
		}
		if err := sel.SelectMagnet(view.Torrents[n-1].Magnet); err != nil {
			return err
		}
		// Magnet alone on stdout so it can be piped.
		fmt.Fprintln(c.App.Writer, sel.View().Magnet)
		return nil
	}

	view := sel.View()
	if c.Bool("json") {
		return writeJSON(c.App.Writer, view)
	}
	printView(c.App.Writer, e.msgs, view)
	return nil
}

func (e *env) seasons(c *cli.Context) error {
	target, err := e.resolveTarget(c)
	if err != nil {
		return err
	}
	if target.MediaType == neoapi.MediaTypeMovie {
		target.MediaType = neoapi.MediaTypeTV
	}
	if target.Title == "" && target.IMDbID == "" {
		return cli.Exit("title, imdb or id is required", 1)
	}

	seasons, err := selector.New(e.client, target, e.msgs).LoadSeasons(c.Context)
	if err != nil {
		return e.fail(err)
	}

	labels := make([]string, 0, len(seasons))
	for _, s := range seasons {
		labels = append(labels, strconv.Itoa(s))
	}
	fmt.Fprintf(c.App.Writer, "%s: %s\n", e.msgs.Get(selector.MsgSeasons), strings.Join(labels, ", "))
	return nil
}

func (e *env) categories(c *cli.Context) error {
	id := c.Int("id")
	if id == 0 {
		cats, err := e.client.Categories(c.Context)
		if err != nil {
			return e.fail(err)
		}
		if c.Bool("json") {
			return writeJSON(c.App.Writer, cats)
		}
		tw := newTable(c.App.Writer)
		fmt.Fprintln(tw, "ID\tNAME")
		for _, cat := range cats {
			fmt.Fprintf(tw, "%d\t%s\n", cat.ID, cat.Name)
		}
		return tw.Flush()
	}

	var (
		resp *neoapi.MovieResponse
		err  error
	)
	switch c.String("type") {
	case string(neoapi.MediaTypeMovie):
		resp, err = e.client.MoviesByCategory(c.Context, id, c.Int("page"))
	case string(neoapi.MediaTypeTV):
		resp, err = e.client.TVByCategory(c.Context, id, c.Int("page"))
	default:
		return cli.Exit("type must be movie or tv", 1)
	}
	if err != nil {
		return e.fail(err)
	}
	return e.printMovies(c, resp)
}

func (e *env) printMovies(c *cli.Context, resp *neoapi.MovieResponse) error {
	if c.Bool("json") {
		return writeJSON(c.App.Writer, resp)
	}
	return printMovieTable(c.App.Writer, resp)
}

func joinLists[T ~string](lists []T) string {
	names := make([]string, len(lists))
	for i, l := range lists {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

// tierLabel shows the parsed tier, or the server's quality when the title had
// no recognizable token.
func tierLabel(t release.ParsedTorrent) string {
	if t.QualityTier == release.Unknown && t.Quality != "" {
		return t.Quality
	}
	return t.QualityTier
}
