package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"utsulog/internal/domain"
)

// VideosCommand creates the command listing the video catalog
func VideosCommand() *cli.Command {
	return &cli.Command{
		Name:  "videos",
		Usage: "List the videos that can be used with --video",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the catalog as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := newRuntime(c, "videos")
			if err != nil {
				return err
			}
			defer rt.Close()

			videos, err := rt.client.Videos(ctx)
			if err != nil {
				return fmt.Errorf("loading videos: %w", err)
			}

			if c.Bool("json") {
				enc := json.NewEncoder(c.Root().Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(videos)
			}
			printVideos(c.Root().Writer, videos)
			return nil
		},
	}
}

func printVideos(w io.Writer, videos []domain.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No videos found.")
		return
	}
	for _, v := range videos {
		date := v.ActualStartTime
		if len(date) > 10 {
			date = date[:10]
		}
		fmt.Fprintf(w, "%-10s  %-11s  %s\n", date, v.VideoID, v.Title)
	}
}
