// Package batch implements the conversion driver: file discovery, shard
// assignment, per-file skip decisions and the encode-then-rename commit.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/amorell/av1batch/internal/config"
	"github.com/amorell/av1batch/internal/logger"
	"github.com/amorell/av1batch/internal/media"
	"github.com/amorell/av1batch/internal/metrics"
	"github.com/amorell/av1batch/pkg/models"
)

var tracer = otel.Tracer("av1batch-driver")

// Prober reports the codec of a file's first video stream.
type Prober interface {
	Probe(ctx context.Context, path string) (string, error)
}

// Encoder converts a media file to AV1, writing to outPath.
type Encoder interface {
	Encode(ctx context.Context, inPath, outPath string) error
}

// Uploader pushes a converted file to remote storage. Optional.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

// Runner drives one batch invocation. Files are processed strictly
// sequentially; parallelism comes from independent shard invocations.
type Runner struct {
	cfg      *config.Config
	prober   Prober
	encoder  Encoder
	uploader Uploader
	log      *slog.Logger
}

// NewRunner creates a Runner. uploader may be nil.
func NewRunner(cfg *config.Config, prober Prober, encoder Encoder, uploader Uploader, log *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		prober:   prober,
		encoder:  encoder,
		uploader: uploader,
		log:      log,
	}
}

// Run processes every candidate file exactly once and returns the
// aggregated summary. Per-file failures never abort the batch; only
// discovery errors do.
func (r *Runner) Run(ctx context.Context) (*models.Summary, error) {
	var (
		files []string
		err   error
	)
	if r.cfg.Mode == config.ModeOutputDir {
		files, err = DiscoverRecursive(r.cfg.InputDir)
	} else {
		files, err = Discover(r.cfg.InputDir)
	}
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}

	logger.Info(ctx, r.log, "Starting batch",
		"mode", string(r.cfg.Mode),
		"inputDir", r.cfg.InputDir,
		"candidates", len(files),
	)

	summary := &models.Summary{}
	for i, path := range files {
		if ctx.Err() != nil {
			logger.Warn(ctx, r.log, "Interrupted", "processed", i, "remaining", len(files)-i)
			break
		}

		res, include := r.processFile(ctx, path)
		if !include {
			continue // owned by another shard
		}

		summary.Record(res)
		metrics.RecordOutcome(res.Outcome)

		switch {
		case res.Outcome == models.OutcomeConverted:
			logger.Info(ctx, r.log, "Converted", "path", path)
		case res.Outcome.Failed():
			logger.Error(ctx, r.log, "Failed", "path", path, "detail", res.Detail)
		default:
			logger.Info(ctx, r.log, "Skipped", "path", path, "reason", string(res.Outcome))
		}
	}

	logger.Info(ctx, r.log, "Batch complete",
		"total", summary.Total,
		"converted", summary.Converted,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"spaceSavedBytes", summary.SpaceSaved(),
	)
	return summary, nil
}

// processFile runs the per-file pipeline. The second return value is false
// when the file belongs to a different shard and produces no result.
func (r *Runner) processFile(ctx context.Context, path string) (models.FileResult, bool) {
	ctx, span := tracer.Start(ctx, "process-file")
	defer span.End()
	span.SetAttributes(attribute.String("file.path", path))

	name := filepath.Base(path)

	// Extension filter. Output-dir discovery already matched by extension.
	if r.cfg.Mode != config.ModeOutputDir && !SupportedExtension(name) {
		return models.FileResult{Path: path, Outcome: models.OutcomeSkippedUnsupported}, true
	}

	// Shard filter. A non-numeric prefix fails this one file, not the batch.
	if r.cfg.Mode == config.ModeShard {
		shard, err := ParseShardPrefix(name)
		if err != nil {
			return models.FileResult{
				Path:    path,
				Outcome: models.OutcomeInvalidName,
				Detail:  err.Error(),
			}, true
		}
		if shard != r.cfg.Shard {
			return models.FileResult{}, false
		}
	}

	if r.cfg.Mode == config.ModeOutputDir {
		return r.convertToOutputDir(ctx, path), true
	}
	return r.convertInPlace(ctx, path), true
}

// convertInPlace probes the candidate and, when it is not already AV1,
// encodes to a _temp sibling and renames it over the original. The rename
// is the commit point: the file is either untouched or fully replaced.
func (r *Runner) convertInPlace(ctx context.Context, path string) models.FileResult {
	codec, err := r.prober.Probe(ctx, path)
	if err != nil {
		return models.FileResult{Path: path, Outcome: models.OutcomeFailed, Detail: err.Error()}
	}
	if codec == media.TargetCodec {
		return models.FileResult{Path: path, Outcome: models.OutcomeSkippedAlreadyAV1}
	}

	tempPath := tempOutputPath(path)
	if res, ok := r.encode(ctx, path, tempPath); !ok {
		return res
	}

	inSize := fileSize(path)
	if err := os.Rename(tempPath, path); err != nil {
		r.discardArtifact(tempPath)
		return models.FileResult{
			Path:    path,
			Outcome: models.OutcomeFailed,
			Detail:  fmt.Sprintf("commit rename: %v", err),
		}
	}

	return r.finish(ctx, path, path, inSize)
}

// convertToOutputDir writes `<base>_AV1.mp4` into the output directory and
// skips files whose destination already exists, so re-runs are idempotent
// without a codec probe.
func (r *Runner) convertToOutputDir(ctx context.Context, path string) models.FileResult {
	dest := OutputPath(r.cfg.OutputDir, path)
	if _, err := os.Stat(dest); err == nil {
		return models.FileResult{Path: path, Outcome: models.OutcomeSkippedExists}
	}

	if res, ok := r.encode(ctx, path, dest); !ok {
		return res
	}
	return r.finish(ctx, path, dest, fileSize(path))
}

// encode invokes the external encoder. On failure the partial artifact is
// removed unless the run keeps temp files for inspection.
func (r *Runner) encode(ctx context.Context, inPath, outPath string) (models.FileResult, bool) {
	if err := r.encoder.Encode(ctx, inPath, outPath); err != nil {
		r.discardArtifact(outPath)
		return models.FileResult{
			Path:    inPath,
			Outcome: models.OutcomeFailed,
			Detail:  err.Error(),
		}, false
	}
	return models.FileResult{}, true
}

// finish records sizes and runs the optional upload of the converted file.
func (r *Runner) finish(ctx context.Context, srcPath, outPath string, inSize int64) models.FileResult {
	outSize := fileSize(outPath)
	metrics.RecordSizes(inSize, outSize)

	if r.uploader != nil {
		if err := r.uploader.Upload(ctx, outPath); err != nil {
			return models.FileResult{
				Path:    srcPath,
				Outcome: models.OutcomeFailed,
				Detail:  fmt.Sprintf("%v: %v", models.ErrUploadFailed, err),
			}
		}
	}

	return models.FileResult{
		Path:        srcPath,
		Outcome:     models.OutcomeConverted,
		InputBytes:  inSize,
		OutputBytes: outSize,
	}
}

// discardArtifact removes a failed partial output unless -keep-temp asked
// to preserve it for inspection.
func (r *Runner) discardArtifact(path string) {
	if r.cfg.KeepTemp {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.log.Warn("Failed to remove partial output", "path", path, "error", err)
	}
}

// tempOutputPath returns the _temp sibling for an in-place conversion:
// dir/name_temp.ext.
func tempOutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + TempMarker + ext
}

// OutputPath returns the destination for the output-directory variant:
// outDir/<base-without-ext>_AV1.mp4.
func OutputPath(outDir, path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+OutputMarker+".mp4")
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
