package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/robofuse/qbitctl/internal/logger"
	"github.com/robofuse/qbitctl/pkg/classify"
	"github.com/robofuse/qbitctl/pkg/qbittorrent"
)

type listFlags struct {
	filter   string
	category string
	tag      string
	sort     string
	reverse  bool
	limit    int
	offset   int
	hashes   []string
	parse    bool
	json     bool
}

func newListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List torrents",
		Example: `  qbitctl list --filter downloading
  qbitctl list --category movies --sort added_on --reverse --limit 20
  qbitctl list --parse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := lf.options(cmd)
			if err != nil {
				return err
			}

			_, client, err := setup()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := login(ctx, client); err != nil {
				return err
			}
			defer logout(ctx, client)

			resp, err := client.GetTorrents(ctx, filters)
			if err != nil {
				describeError(logger.Default(), err, "Listing torrents failed")
				return err
			}

			if lf.json {
				fmt.Fprintln(cmd.OutOrStdout(), resp.JSON())
				return nil
			}

			torrents, err := resp.GetResult("list torrents")
			if err != nil {
				return err
			}

			printTorrents(cmd.OutOrStdout(), torrents, lf.parse)
			return nil
		},
	}

	lf.bind(cmd)
	return cmd
}

func (lf *listFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&lf.filter, "filter", "", "State filter (all, downloading, seeding, completed, paused, active, ...)")
	f.StringVar(&lf.category, "category", "", "Only torrents in this category (\"\" for none)")
	f.StringVar(&lf.tag, "tag", "", "Only torrents with this tag (\"\" for none)")
	f.StringVar(&lf.sort, "sort", "", "Sort by a torrent field, e.g. name or added_on")
	f.BoolVar(&lf.reverse, "reverse", false, "Reverse the sort order")
	f.IntVar(&lf.limit, "limit", 0, "Maximum number of torrents")
	f.IntVar(&lf.offset, "offset", 0, "Skip this many torrents (negative counts from the end)")
	f.StringSliceVar(&lf.hashes, "hashes", nil, "Only torrents with these hashes")
	f.BoolVar(&lf.parse, "parse", false, "Show what each torrent name was classified as")
	f.BoolVar(&lf.json, "json", false, "Print the raw response envelope as JSON")
}

// options converts the flags that were actually given into FilterOptions
func (lf *listFlags) options(cmd *cobra.Command) (qbittorrent.FilterOptions, error) {
	var filters qbittorrent.FilterOptions
	changed := cmd.Flags().Changed

	if changed("filter") {
		state, ok := qbittorrent.ParseFilterState(lf.filter)
		if !ok {
			return filters, errors.Errorf("unknown filter %q", lf.filter)
		}
		filters.Filter = &state
	}
	if changed("category") {
		filters.Category = qbittorrent.Ref(lf.category)
	}
	if changed("tag") {
		filters.Tag = qbittorrent.Ref(lf.tag)
	}
	if changed("sort") {
		filters.Sort = qbittorrent.Ref(lf.sort)
	}
	if changed("reverse") {
		filters.Reverse = qbittorrent.Ref(lf.reverse)
	}
	if changed("limit") {
		filters.Limit = qbittorrent.Ref(lf.limit)
	}
	if changed("offset") {
		filters.Offset = qbittorrent.Ref(lf.offset)
	}
	if changed("hashes") {
		filters.Hashes = lf.hashes
	}
	return filters, nil
}

func printTorrents(out io.Writer, torrents []qbittorrent.Torrent, parse bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	header := []string{"HASH", "NAME", "STATE", "PROGRESS", "CATEGORY", "TAGS"}
	if parse {
		header = append(header, "PARSED")
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i := range torrents {
		t := &torrents[i]
		hash := t.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		row := []string{hash, t.Name, string(t.State), t.ProgressPercent(), t.Category, strings.Join(t.TagList(), ",")}
		if parse {
			info := classify.Name(t.Name)
			row = append(row, fmt.Sprintf("%s [%s]", info, info.Kind))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}
