// Package media wraps the external ffmpeg/ffprobe tools behind small
// capability interfaces so the batch driver can be tested without real
// media processing.
package media

import (
	"fmt"
	"os/exec"

	"github.com/amorell/av1batch/pkg/models"
)

// TargetCodec is the codec identifier ffprobe reports for AV1 streams.
const TargetCodec = "av1"

// Info holds the subset of stream metadata the tools care about.
type Info struct {
	Codec    string
	Width    int
	Height   int
	Duration float64
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// CheckTools verifies that both external binaries are present on PATH.
// A missing tool is fatal before any file is processed.
func CheckTools() error {
	if _, err := lookPath(ffmpegBin); err != nil {
		return fmt.Errorf("%w: %v", models.ErrEncoderNotFound, err)
	}
	if _, err := lookPath(ffprobeBin); err != nil {
		return fmt.Errorf("%w: %v", models.ErrProberNotFound, err)
	}
	return nil
}
