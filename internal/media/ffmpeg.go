package media

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/amorell/av1batch/internal/metrics"
	"github.com/amorell/av1batch/pkg/models"
)

const ffmpegBin = "ffmpeg"

// Fixed encoder parameters: AV1 via NVENC hardware encoding at constant
// quality 35, audio streams copied verbatim.
const (
	VideoCodec    = "av1_nvenc"
	QualityFactor = "35"
)

var tracer = otel.Tracer("av1batch-media")

// FFmpeg implements Encoder by shelling out to ffmpeg.
type FFmpeg struct {
	log *slog.Logger
}

func NewFFmpeg(log *slog.Logger) *FFmpeg {
	return &FFmpeg{log: log}
}

// BuildEncodeArgs constructs the ffmpeg command arguments for one file.
func BuildEncodeArgs(inPath, outPath string) []string {
	return []string{
		"-y",
		"-i", inPath,
		"-c:v", VideoCodec,
		"-cq", QualityFactor,
		"-c:a", "copy",
		outPath,
	}
}

// Encode converts inPath to AV1 at outPath. The caller owns outPath; on a
// non-zero exit status the partial output is left where it is.
func (f *FFmpeg) Encode(ctx context.Context, inPath, outPath string) error {
	ctx, span := tracer.Start(ctx, "ffmpeg-encode")
	defer span.End()
	span.SetAttributes(
		attribute.String("file.input", inPath),
		attribute.String("file.output", outPath),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, ffmpegBin, BuildEncodeArgs(inPath, outPath)...)

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	// Monitor stderr for progress and errors
	go func() {
		defer wg.Done()
		f.monitorOutput(ctx, stderrPipe)
	}()

	// Drain stdout
	go func() {
		defer wg.Done()
		_, _ = io.Copy(io.Discard, stdoutPipe)
	}()

	cmdErr := cmd.Wait()
	wg.Wait()

	if cmdErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: context canceled", models.ErrEncodeFailed)
		}
		return fmt.Errorf("%w: %v", models.ErrEncodeFailed, cmdErr)
	}

	metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	return nil
}

// monitorOutput reads and logs ffmpeg output.
func (f *FFmpeg) monitorOutput(ctx context.Context, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
			line := scanner.Text()
			if strings.Contains(line, "frame=") || strings.Contains(line, "time=") {
				f.log.Debug("FFmpeg progress", "output", line)
			} else if strings.Contains(line, "error") || strings.Contains(line, "Error") {
				f.log.Warn("FFmpeg warning", "output", line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		f.log.Warn("FFmpeg output scanner error", "error", err)
	}
}
