package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/domain"
	"github.com/mmcdole/locker/internal/filter"
	"github.com/mmcdole/locker/internal/observable"
)

const headlessTimeout = 60 * time.Second

// newSearchCmd runs one search through the controller and prints the sorted results
func newSearchCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search images and video clips, newest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if !cfg.IsConfigured() {
				return fmt.Errorf("no Kakao API key configured: run 'locker setup' or set LOCKER_KAKAO_API_KEY")
			}

			ctx, cancel := context.WithTimeout(cmdContext(cmd), headlessTimeout)
			defer cancel()

			a, err := newApp(ctx, cfg, logger,
				controller.WithSurfacedFailures(controller.FailureSearch, controller.FailureLoadAll))
			if err != nil {
				return err
			}
			defer a.Close()

			// The locker only feeds the saved column
			if _, err := fetch(ctx, a.ctrl, a.ctrl.SavedThumbnails(), a.ctrl.FetchSavedThumbnails); err != nil {
				logger.Warn("failed to load locker", "error", err)
			}

			query := strings.Join(args, " ")
			items, err := fetch(ctx, a.ctrl, a.ctrl.SearchResults(), func() { a.ctrl.FetchThumbnails(query) })
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return writeTable(cmd.OutOrStdout(), items, a.ctrl.ContainsSaved)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// newSavedCmd loads the locker through the controller and prints it
func newSavedCmd(configPath *string) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "saved [filter]",
		Short: "List saved thumbnails, newest first, optionally ranked by a filter",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmdContext(cmd), headlessTimeout)
			defer cancel()

			a, err := newApp(ctx, cfg, logger, controller.WithSurfacedFailures(controller.FailureLoadAll))
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := fetch(ctx, a.ctrl, a.ctrl.SavedThumbnails(), a.ctrl.FetchSavedThumbnails)
			if err != nil {
				return err
			}
			items = filter.Rank(strings.Join(args, " "), items)

			if asYAML {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(items)
			}
			return writeTable(cmd.OutOrStdout(), items, func(domain.Thumbnail) bool { return true })
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the locker as YAML")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// fetch runs a controller command and waits for the list it publishes or a
// surfaced failure
func fetch(ctx context.Context, ctrl *controller.ThumbnailController, list *observable.List[domain.Thumbnail], start func()) ([]domain.Thumbnail, error) {
	published := make(chan []domain.Thumbnail, 1)
	failed := make(chan controller.Failure, 1)

	stopList := list.Observe(func(items []domain.Thumbnail) {
		select {
		case published <- items:
		default:
		}
	})
	defer stopList()

	stopFailures := ctrl.Failures().Observe(func(e *observable.Event[controller.Failure]) {
		if f, ok := e.Consume(); ok {
			select {
			case failed <- f:
			default:
			}
		}
	})
	defer stopFailures()

	start()

	select {
	case items := <-published:
		return items, nil
	case f := <-failed:
		return nil, f
	case <-ctx.Done():
		return nil, errors.New("timed out waiting for the locker controller")
	}
}

func writeJSON(w io.Writer, items []domain.Thumbnail) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeTable(w io.Writer, items []domain.Thumbnail, saved func(domain.Thumbnail) bool) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no thumbnails")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSOURCE\tSAVED\tTITLE\tURL")
	for _, it := range items {
		mark := ""
		if saved(it) {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.DateTime, it.Source, mark, it.Title, it.MediaURL)
	}
	return tw.Flush()
}
