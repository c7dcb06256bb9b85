package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/amorell/av1batch/internal/metrics"
	"github.com/amorell/av1batch/pkg/models"
)

const ffprobeBin = "ffprobe"

// FFprobe implements Prober by shelling out to ffprobe. One JSON call
// returns everything both the batch driver and vidinfo need.
type FFprobe struct{}

func NewFFprobe() *FFprobe {
	return &FFprobe{}
}

// Probe returns the codec name of the first video stream.
func (p *FFprobe) Probe(ctx context.Context, path string) (string, error) {
	info, err := p.Inspect(ctx, path)
	if err != nil {
		return "", err
	}
	return info.Codec, nil
}

// Inspect runs ffprobe and returns first-video-stream metadata.
func (p *FFprobe) Inspect(ctx context.Context, path string) (*Info, error) {
	ctx, span := tracer.Start(ctx, "ffprobe")
	defer span.End()
	span.SetAttributes(attribute.String("file.path", path))

	start := time.Now()
	cmd := exec.CommandContext(ctx, ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrContextCanceled, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", models.ErrProbeFailed, err)
	}

	return ParseProbeJSON(out)
}

// ParseProbeJSON converts raw ffprobe JSON output into an Info. Exported so
// tests can run without a real ffprobe binary.
func ParseProbeJSON(data []byte) (*Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProbeFailed, err)
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" || s.Disposition["attached_pic"] == 1 {
			continue
		}
		info := &Info{
			Codec:    s.CodecName,
			Width:    s.Width,
			Height:   s.Height,
			Duration: parseFloat(s.Duration),
		}
		if info.Duration == 0 {
			info.Duration = parseFloat(raw.Format.Duration)
		}
		return info, nil
	}
	return nil, models.ErrNoVideoStream
}

// ffprobe JSON wire types (numbers arrive as strings)

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Duration    string         `json:"duration"`
	Disposition map[string]int `json:"disposition"`
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
