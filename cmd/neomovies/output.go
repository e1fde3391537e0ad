package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/selector"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "print raw JSON"}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printMovieTable(w io.Writer, resp *neoapi.MovieResponse) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tYEAR\tRATING")
	for i := range resp.Results {
		m := &resp.Results[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\n", m.ID, m.MediaType, m.DisplayTitle(), m.Year(), m.VoteAverage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d of %d, %d results\n", resp.Page, resp.TotalPages, resp.TotalResults)
	return nil
}

func printDetails(w io.Writer, client *neoapi.Client, m *neoapi.Movie) {
	fmt.Fprintf(w, "%s", m.DisplayTitle())
	if year := m.Year(); year != "" {
		fmt.Fprintf(w, " (%s)", year)
	}
	fmt.Fprintln(w)

	if orig := m.DisplayOriginalTitle(); orig != "" && orig != m.DisplayTitle() {
		fmt.Fprintf(w, "original: %s\n", orig)
	}
	if m.IMDbID != "" {
		fmt.Fprintf(w, "imdb:     %s\n", m.IMDbID)
	}
	fmt.Fprintf(w, "rating:   %.1f (%d votes)\n", m.VoteAverage, m.VoteCount)
	if m.Runtime > 0 {
		fmt.Fprintf(w, "runtime:  %d min\n", m.Runtime)
	}
	if m.NumberOfSeasons > 0 {
		fmt.Fprintf(w, "seasons:  %d (%d episodes)\n", m.NumberOfSeasons, m.NumberOfEpisodes)
	}
	if len(m.Genres) > 0 {
		names := make([]string, len(m.Genres))
		for i, g := range m.Genres {
			names[i] = g.Name
		}
		fmt.Fprintf(w, "genres:   %s\n", strings.Join(names, ", "))
	}

	poster := ""
	if m.PosterPath != nil {
		poster = *m.PosterPath
	}
	fmt.Fprintf(w, "poster:   %s\n", client.ImageURL(poster, ""))

	if m.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", m.Overview)
	}
}

func printView(w io.Writer, msgs *selector.Messages, v selector.View) {
	if len(v.Seasons) > 0 {
		labels := make([]string, len(v.Seasons))
		for i, s := range v.Seasons {
			labels[i] = fmt.Sprint(s)
			if s == v.Season {
				labels[i] = "[" + labels[i] + "]"
			}
		}
		fmt.Fprintf(w, "%s: %s\n", msgs.Get(selector.MsgSeasons), strings.Join(labels, " "))
	}
	if len(v.Qualities) > 0 {
		fmt.Fprintf(w, "%s\n", strings.Join(v.Qualities, " "))
	}
	if v.Message != "" {
		fmt.Fprintln(w, v.Message)
		return
	}

	fmt.Fprintf(w, "%s:\n", msgs.Get(selector.MsgReleases))
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tQUALITY\tSIZE\tSEED\tTAGS\tTITLE")
	for i, t := range v.Torrents {
		title := t.Title
		if title == "" {
			title = msgs.Get(selector.MsgUntitled)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			i+1, tierLabel(t), t.SizeLabel, t.Seeders, strings.Join(t.Tags, ","), title)
	}
	tw.Flush()
}
