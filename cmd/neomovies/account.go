package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/neomovies/internal/neoapi"
)

func (e *env) accountCommands() []*cli.Command {
	typeFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "type", Value: string(neoapi.MediaTypeMovie), Usage: "movie or tv"}
	}

	return []*cli.Command{
		{
			Name:  "favorites",
			Usage: "manage favorites",
			Subcommands: []*cli.Command{
				{
					Name:  "list",
					Flags: []cli.Flag{jsonFlag()},
					Action: func(c *cli.Context) error {
						favs, err := e.client.Favorites(c.Context)
						if err != nil {
							return e.fail(err)
						}
						if c.Bool("json") {
							return writeJSON(c.App.Writer, favs)
						}
						tw := newTable(c.App.Writer)
						fmt.Fprintln(tw, "ID\tTYPE\tTITLE")
						for _, f := range favs {
							fmt.Fprintf(tw, "%s\t%s\t%s\n", f.MediaID, f.MediaType, f.Title)
						}
						return tw.Flush()
					},
				},
				{
					Name:      "add",
					ArgsUsage: "<id>",
					Flags: []cli.Flag{
						typeFlag(),
						&cli.StringFlag{Name: "title", Required: true},
						&cli.StringFlag{Name: "poster"},
					},
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						fav := neoapi.Favorite{
							MediaID:    id,
							MediaType:  c.String("type"),
							Title:      c.String("title"),
							PosterPath: c.String("poster"),
						}
						if err := e.client.AddFavorite(c.Context, fav); err != nil {
							return e.fail(err)
						}
						fmt.Fprintf(c.App.Writer, "added %s\n", id)
						return nil
					},
				},
				{
					Name:      "remove",
					ArgsUsage: "<id>",
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						if err := e.client.RemoveFavorite(c.Context, id); err != nil {
							return e.fail(err)
						}
						fmt.Fprintf(c.App.Writer, "removed %s\n", id)
						return nil
					},
				},
				{
					Name:      "check",
					ArgsUsage: "<id>",
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						ok, err := e.client.IsFavorite(c.Context, id)
						if err != nil {
							return e.fail(err)
						}
						fmt.Fprintln(c.App.Writer, ok)
						return nil
					},
				},
			},
		},
		{
			Name:  "react",
			Usage: "like or dislike titles",
			Subcommands: []*cli.Command{
				{
					Name:      "set",
					ArgsUsage: "<id> <like|dislike>",
					Flags:     []cli.Flag{typeFlag()},
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						reaction := neoapi.ReactionType(c.Args().Get(1))
						if reaction != neoapi.ReactionLike && reaction != neoapi.ReactionDislike {
							return cli.Exit("reaction must be like or dislike", 1)
						}
						if err := e.client.SetReaction(c.Context, neoapi.MediaType(c.String("type")), id, reaction); err != nil {
							return e.fail(err)
						}
						fmt.Fprintf(c.App.Writer, "%s %s\n", reaction, id)
						return nil
					},
				},
				{
					Name:      "remove",
					ArgsUsage: "<id>",
					Flags:     []cli.Flag{typeFlag()},
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						if err := e.client.RemoveReaction(c.Context, neoapi.MediaType(c.String("type")), id); err != nil {
							return e.fail(err)
						}
						fmt.Fprintf(c.App.Writer, "removed reaction on %s\n", id)
						return nil
					},
				},
				{
					Name:      "counts",
					ArgsUsage: "<id>",
					Flags:     []cli.Flag{typeFlag()},
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						counts, err := e.client.ReactionCounts(c.Context, neoapi.MediaType(c.String("type")), id)
						if err != nil {
							return e.fail(err)
						}
						fmt.Fprintf(c.App.Writer, "likes: %d\ndislikes: %d\n", counts.Likes, counts.Dislikes)
						return nil
					},
				},
				{
					Name:      "mine",
					ArgsUsage: "<id>",
					Flags:     []cli.Flag{typeFlag()},
					Action: func(c *cli.Context) error {
						id, err := mediaID(c)
						if err != nil {
							return err
						}
						reaction, err := e.client.MyReaction(c.Context, neoapi.MediaType(c.String("type")), id)
						if err != nil {
							return e.fail(err)
						}
						if reaction == "" {
							reaction = "none"
						}
						fmt.Fprintln(c.App.Writer, reaction)
						return nil
					},
				},
			},
		},
	}
}

func mediaID(c *cli.Context) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", cli.Exit("id is required", 1)
	}
	return id, nil
}
