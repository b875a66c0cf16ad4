package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/robofuse/qbitctl/internal/config"
	"github.com/robofuse/qbitctl/internal/console"
	"github.com/robofuse/qbitctl/internal/logger"
	"github.com/robofuse/qbitctl/pkg/classify"
	"github.com/robofuse/qbitctl/pkg/qbittorrent"
	"github.com/robofuse/qbitctl/pkg/worker"
)

type addFlags struct {
	savePath     string
	category     string
	tags         []string
	rename       string
	paused       bool
	skipChecking bool
	rootFolder   bool
	sequential   bool
	firstLast    bool
	autoTMM      bool
	upLimit      int
	dlLimit      int
	ratioLimit   float64
	seedingLimit int
	workers      int
	autoCategory bool
}

func newAddCmd() *cobra.Command {
	var af addFlags

	cmd := &cobra.Command{
		Use:   "add <file.torrent>...",
		Short: "Upload .torrent files",
		Example: `  qbitctl add ubuntu.torrent --category linux --paused
  qbitctl add *.torrent --auto-category --workers 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := setup()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := login(ctx, client); err != nil {
				return err
			}
			defer logout(ctx, client)

			return runAdd(ctx, cmd, cfg, client, &af, args)
		},
	}

	af.bind(cmd)
	return cmd
}

func (af *addFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&af.savePath, "save-path", "", "Download folder")
	f.StringVar(&af.category, "category", "", "Category for the torrents")
	f.StringSliceVar(&af.tags, "tags", nil, "Tags for the torrents")
	f.StringVar(&af.rename, "rename", "", "Rename the torrent (single file only)")
	f.BoolVar(&af.paused, "paused", false, "Add in the paused state")
	f.BoolVar(&af.skipChecking, "skip-checking", false, "Skip hash checking")
	f.BoolVar(&af.rootFolder, "root-folder", false, "Create the root folder")
	f.BoolVar(&af.sequential, "sequential", false, "Download in sequential order")
	f.BoolVar(&af.firstLast, "first-last-piece", false, "Prioritize first and last pieces")
	f.BoolVar(&af.autoTMM, "auto-tmm", false, "Use Automatic Torrent Management")
	f.IntVar(&af.upLimit, "up-limit", 0, "Upload limit in bytes/second")
	f.IntVar(&af.dlLimit, "dl-limit", 0, "Download limit in bytes/second")
	f.Float64Var(&af.ratioLimit, "ratio-limit", 0, "Share ratio limit")
	f.IntVar(&af.seedingLimit, "seeding-time-limit", 0, "Seeding time limit in minutes")
	f.IntVar(&af.workers, "workers", 0, "Concurrent uploads (default from config)")
	f.BoolVar(&af.autoCategory, "auto-category", false, "Derive the category from each file name")
}

// upload builds the TorrentUpload for path from the given flags and config defaults
func (af *addFlags) upload(cmd *cobra.Command, cfg *config.Config, path string) qbittorrent.TorrentUpload {
	changed := cmd.Flags().Changed
	upload := qbittorrent.TorrentUpload{Path: path}

	switch {
	case changed("save-path"):
		upload.SavePath = qbittorrent.Ref(af.savePath)
	case cfg.DefaultSavePath != "":
		upload.SavePath = qbittorrent.Ref(cfg.DefaultSavePath)
	}

	switch {
	case changed("category"):
		upload.Category = qbittorrent.Ref(af.category)
	case af.autoCategory:
		upload.Category = qbittorrent.Ref(classify.Name(filepath.Base(path)).Category())
	case cfg.DefaultCategory != "":
		upload.Category = qbittorrent.Ref(cfg.DefaultCategory)
	}

	if changed("tags") {
		upload.Tags = af.tags
	}
	if changed("rename") {
		upload.Rename = qbittorrent.Ref(af.rename)
	}
	if changed("paused") {
		upload.Paused = qbittorrent.Ref(af.paused)
	}
	if changed("skip-checking") {
		upload.SkipChecking = qbittorrent.Ref(af.skipChecking)
	}
	if changed("root-folder") {
		upload.RootFolder = qbittorrent.Ref(af.rootFolder)
	}
	if changed("sequential") {
		upload.SequentialDownload = qbittorrent.Ref(af.sequential)
	}
	if changed("first-last-piece") {
		upload.FirstLastPiecePrio = qbittorrent.Ref(af.firstLast)
	}
	if changed("auto-tmm") {
		upload.AutoTMM = qbittorrent.Ref(af.autoTMM)
	}
	if changed("up-limit") {
		upload.UpLimit = qbittorrent.Ref(af.upLimit)
	}
	if changed("dl-limit") {
		upload.DlLimit = qbittorrent.Ref(af.dlLimit)
	}
	if changed("ratio-limit") {
		upload.RatioLimit = qbittorrent.Ref(af.ratioLimit)
	}
	if changed("seeding-time-limit") {
		upload.SeedingTimeLimit = qbittorrent.Ref(af.seedingLimit)
	}
	return upload
}

func runAdd(ctx context.Context, cmd *cobra.Command, cfg *config.Config, client *qbittorrent.Client, af *addFlags, paths []string) error {
	log := logger.Default()

	workers := cfg.UploadWorkers
	if af.workers > 0 {
		workers = af.workers
	}

	uploads := make([]qbittorrent.TorrentUpload, len(paths))
	for i, path := range paths {
		uploads[i] = af.upload(cmd, cfg, path)
	}

	log.Info().Msgf("Adding %d torrent(s) with %d worker(s)", len(uploads), workers)

	var progress func(completed, failed, total int)
	if len(uploads) > 1 {
		bar := console.NewProgressBar("Adding", len(uploads))
		progress = func(completed, failed, _ int) {
			bar.Update(completed, failed)
		}
	}

	results := worker.Process(ctx, uploads, workers, func(ctx context.Context, upload qbittorrent.TorrentUpload) (bool, error) {
		resp, err := client.AddTorrent(ctx, upload)
		if err != nil {
			return false, err
		}
		return resp.GetResult("add torrent " + filepath.Base(upload.Path))
	}, progress)

	failed := 0
	for _, r := range results {
		name := filepath.Base(r.Item.Path)
		switch {
		case r.Err != nil:
			failed++
			describeError(log, r.Err, "Failed to add "+name)
		case !r.Value:
			failed++
			log.Error().Msgf("Failed to add %s", name)
		default:
			category := ""
			if r.Item.Category != nil {
				category = *r.Item.Category
			}
			log.Info().Str("category", category).Msgf("Added %s", name)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d torrent(s)\n", len(results)-failed, len(results))
	if failed > 0 {
		return errors.Errorf("%d torrent(s) failed", failed)
	}
	return nil
}
