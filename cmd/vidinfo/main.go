// vidinfo prints a CSV report of the first video stream of every file under
// a directory and can optionally delete files below quality thresholds.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/amorell/av1batch/internal/logger"
	"github.com/amorell/av1batch/internal/media"
)

func main() {
	log := logger.New()
	slog.SetDefault(log)

	minWidth := flag.Int("min-width", 0, "delete files narrower than this")
	minHeight := flag.Int("min-height", 0, "delete files shorter than this")
	minDuration := flag.Duration("min-duration", 0, "delete files shorter than this duration")
	del := flag.Bool("delete", false, "delete files below the thresholds")
	dryRun := flag.Bool("dry-run", false, "report deletions without performing them")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vidinfo [flags] <directory>")
		os.Exit(1)
	}

	if err := media.CheckTools(); err != nil {
		logger.Error(context.Background(), log, "Required tool missing", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	prober := media.NewFFprobe()

	err := filepath.WalkDir(flag.Arg(0), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, probeErr := prober.Inspect(ctx, path)
		if probeErr != nil {
			logger.Warn(ctx, log, "Cannot probe file", "path", path, "error", probeErr)
			return nil
		}

		duration := time.Duration(info.Duration * float64(time.Second))
		fmt.Printf("%s,%s,%d,%d,%.1f\n", path, info.Codec, info.Width, info.Height, info.Duration)

		if !*del || !belowThreshold(info, duration, *minWidth, *minHeight, *minDuration) {
			return nil
		}
		if *dryRun {
			logger.Info(ctx, log, "Would delete", "path", path)
			return nil
		}
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Error(ctx, log, "Failed to delete", "path", path, "error", rmErr)
			return nil
		}
		logger.Info(ctx, log, "Deleted", "path", path)
		return nil
	})
	if err != nil {
		logger.Error(ctx, log, "Walk failed", "error", err)
		os.Exit(1)
	}
}

func belowThreshold(info *media.Info, duration time.Duration, minWidth, minHeight int, minDuration time.Duration) bool {
	if minWidth > 0 && info.Width < minWidth {
		return true
	}
	if minHeight > 0 && info.Height < minHeight {
		return true
	}
	if minDuration > 0 && duration < minDuration {
		return true
	}
	return false
}
