package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"utsulog/internal/domain"
	"utsulog/internal/format"
	"utsulog/internal/session"
)

// SearchCommand creates the one-shot search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run one search and print the results",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exact",
				Usage: "Match the query as a whole phrase",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Earliest date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Latest date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Only messages by this author",
			},
			&cli.StringFlag{
				Name:  "video",
				Usage: "Only messages from this video id",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort by video date: desc or asc",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Message type: all, chat or transcript",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to fetch",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
		Action: runSearch,
	}
}

// searchFlags are the raw filter values given on the command line
type searchFlags struct {
	Query  string
	Exact  bool
	From   string
	To     string
	Author string
	Video  string
	Sort   string
	Type   string
}

// buildCriteria applies flags on top of the configured defaults
func buildCriteria(base domain.SearchCriteria, f searchFlags) (domain.SearchCriteria, error) {
	criteria := base
	criteria.QueryText = f.Query
	criteria.AuthorName = strings.TrimSpace(f.Author)
	criteria.VideoID = strings.TrimSpace(f.Video)
	if f.Exact {
		criteria.ExactMatch = true
	}

	var errs []error
	from, err := domain.ParseDate(f.From)
	if err != nil {
		errs = append(errs, fmt.Errorf("--from: %w", err))
	}
	to, err := domain.ParseDate(f.To)
	if err != nil {
		errs = append(errs, fmt.Errorf("--to: %w", err))
	}
	criteria = criteria.WithDateFrom(from).WithDateTo(to)

	if f.Sort != "" {
		order, err := domain.ParseSortOrder(f.Sort)
		if err != nil {
			errs = append(errs, fmt.Errorf("--sort: %w", err))
		}
		criteria.SortOrder = order
	}
	if f.Type != "" {
		mt, err := domain.ParseMessageType(f.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("--type: %w", err))
		}
		criteria.MessageType = mt
	}

	if err := errors.Join(errs...); err != nil {
		return domain.SearchCriteria{}, err
	}
	return criteria, nil
}

// collectPages drives ctrl synchronously: one reset, then continuations up to pages in total.
// It stops early when the results run out or a request fails.
func collectPages(ctrl *session.Controller, criteria domain.SearchCriteria, pages int) (session.PaginationState, error) {
	if pages < 1 {
		pages = 1
	}

	cmd := ctrl.ExecuteSearch(criteria, true)
	for fetched := 0; cmd != nil && fetched < pages; fetched++ {
		msg, ok := cmd().(session.PageMsg)
		if !ok {
			break
		}
		ctrl.HandlePage(msg)
		if err := ctrl.LastError(); err != nil {
			return ctrl.Snapshot(), err
		}
		cmd = ctrl.TriggerContinuation()
	}
	return ctrl.Snapshot(), nil
}

func runSearch(ctx context.Context, c *cli.Command) error {
	rt, err := newRuntime(c, "search")
	if err != nil {
		return err
	}
	defer rt.Close()

	criteria, err := buildCriteria(rt.cfg.InitialCriteria(), searchFlags{
		Query:  c.String("query"),
		Exact:  c.Bool("exact"),
		From:   c.String("from"),
		To:     c.String("to"),
		Author: c.String("author"),
		Video:  c.String("video"),
		Sort:   c.String("sort"),
		Type:   c.String("type"),
	})
	if err != nil {
		return err
	}
	if criteria.IsEmpty() {
		return errors.New("nothing to search for: pass --query, --author or --video")
	}

	ctrl := session.New(ctx, rt.client, rt.bus,
		session.WithRequestTimeout(rt.cfg.RequestTimeout.Duration),
		session.WithInitialCriteria(criteria),
	)
	defer ctrl.Close()

	state, searchErr := collectPages(ctrl, criteria, c.Int("pages"))

	out := c.Root().Writer
	if c.Bool("json") {
		err = printResultsJSON(out, state)
	} else {
		printResults(out, state, rt.cfg.UISettings.DateFormat)
	}
	if err != nil {
		return err
	}

	if searchErr != nil {
		rt.logger.Error("search failed", "error", searchErr)
		if len(state.Results) > 0 {
			fmt.Fprintf(c.Root().ErrWriter, "utsulog: stopped after %d results\n", len(state.Results))
		}
		return fmt.Errorf("search failed: %w", searchErr)
	}
	return nil
}

type searchOutput struct {
	Total   int                 `json:"total"`
	HasMore bool                `json:"hasMore"`
	Results []domain.ResultItem `json:"results"`
}

func printResultsJSON(w io.Writer, state session.PaginationState) error {
	results := state.Results
	if results == nil {
		results = []domain.ResultItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchOutput{
		Total:   state.TotalCount,
		HasMore: state.HasMore,
		Results: results,
	})
}

func printResults(w io.Writer, state session.PaginationState, dateLayout string) {
	if len(state.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for _, item := range state.Results {
		meta := []string{format.Datetime(item.Datetime, dateLayout)}
		if item.ElapsedTime != "" {
			meta = append(meta, item.ElapsedTime)
		}
		if item.VideoTitle != "" {
			meta = append(meta, item.VideoTitle)
		}
		fmt.Fprintf(w, "%s [%s] %s\n", item.Author, item.DisplayType(), strings.Join(meta, " · "))
		fmt.Fprintf(w, "  %s\n", strings.Join(strings.Fields(item.Message), " "))
		fmt.Fprintf(w, "  %s\n\n", format.WatchURL(item.VideoID, item.ElapsedTime))
	}

	fmt.Fprintf(w, "%d of %d results", len(state.Results), state.TotalCount)
	if !state.HasMore {
		fmt.Fprint(w, " (no more results)")
	}
	fmt.Fprintln(w)
}
