package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pders01/pulse/internal/config"
	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/feed"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/tui"
)

type feedOptions struct {
	category string
	page     int
	json     bool
}

func newHeadlinesCmd(root *rootOptions) *cobra.Command {
	o := &feedOptions{}

	cmd := &cobra.Command{
		Use:   "headlines",
		Short: "Print top headlines for a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			defer debuglog.Close()

			client, err := newClient(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctrl := feed.NewController(client, startCategory(o.category, cfg))
			t, ok := ctrl.SetPage(o.page)
			if !ok {
				t = ctrl.Begin()
			}
			state := ctrl.Run(cmd.Context(), t)

			return printFeed(cmd.OutOrStdout(), cfg, ctrl.Filter(), state, o.json)
		},
	}

	cmd.Flags().StringVarP(&o.category, "category", "c", "", "category (defaults to feed.default_category)")
	cmd.Flags().IntVarP(&o.page, "page", "p", 1, "page number")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the feed state as JSON")
	return cmd
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	o := &feedOptions{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search global stories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				return errors.New("search query must not be blank")
			}

			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			defer debuglog.Close()

			client, err := newClient(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctrl := feed.NewController(client, cfg.Feed.DefaultCategory)
			t, _ := ctrl.SubmitSearch(query)
			if paged, ok := ctrl.SetPage(o.page); ok {
				t = paged
			}
			state := ctrl.Run(cmd.Context(), t)

			return printFeed(cmd.OutOrStdout(), cfg, ctrl.Filter(), state, o.json)
		},
	}

	cmd.Flags().IntVarP(&o.page, "page", "p", 1, "page number")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the feed state as JSON")
	return cmd
}

type feedOutput struct {
	Filter   feed.FilterState `json:"filter"`
	Articles []news.Article   `json:"articles"`
}

// printFeed renders the cards as plain text, or the filter and articles as
// JSON.
func printFeed(w io.Writer, cfg *config.Config, f feed.FilterState, st feed.FeedState, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(feedOutput{Filter: f, Articles: st.Articles})
	}

	title := f.Category
	if f.Searching() {
		title = fmt.Sprintf("search: %s", strings.TrimSpace(f.SearchQuery))
	}
	fmt.Fprintln(w, tui.HeaderStyle.Render(fmt.Sprintf("› %s • page %d", title, f.Page)))
	fmt.Fprintln(w)

	if len(st.Articles) == 0 {
		fmt.Fprintln(w, tui.MsgNoResults)
		fmt.Fprintln(w, tui.HelpStyle.Render("Try another category or search, or run `pulse headlines` to reset."))
		return nil
	}

	body := lipgloss.NewStyle().PaddingLeft(4).Width(80)
	for i, a := range st.Articles {
		fmt.Fprintf(w, "%2d. %s\n", i+1, lipgloss.NewStyle().Bold(true).Render(a.Title))
		fmt.Fprintln(w, "    "+tui.SourceStyle.Render(a.Source())+tui.TimeStyle.Render(" • "+a.Published()))
		if desc := strings.Join(strings.Fields(a.Description), " "); desc != "" {
			fmt.Fprintln(w, body.Render(truncate(desc, cfg.UI.Article.MaxDescriptionLength)))
		}
		fmt.Fprintln(w, "    "+a.URL)
		fmt.Fprintln(w)
	}
	return nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return strings.TrimRight(string(r[:limit-1]), " ") + "…"
}
