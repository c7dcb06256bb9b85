package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mode selects which conversion variant the driver runs.
type Mode string

const (
	// ModeInPlace probes every candidate and replaces non-AV1 files in place.
	ModeInPlace Mode = "in-place"
	// ModeOutputDir writes `<base>_AV1.mp4` copies into a separate directory.
	ModeOutputDir Mode = "output-dir"
	// ModeShard is in-place conversion restricted to one shard (0-9) of the
	// numerically-prefixed file set.
	ModeShard Mode = "shard"
)

// Config holds all application configuration.
type Config struct {
	InputDir     string
	OutputDir    string
	Shard        int
	Mode         Mode
	KeepTemp     bool
	ReportDir    string
	UploadBucket string
	AWSRegion    string
	MetricsPort  int
	OTLPEndpoint string
}

// Default values
const (
	DefaultReportDir   = "."
	DefaultMetricsPort = 0 // disabled
	DefaultRegion      = "us-west-2"
	ShardCount         = 10
)

// Usage is printed on argument errors.
const Usage = `usage: av1batch [flags] <input_dir>

Converts every supported video file in <input_dir> to AV1, skipping files
that are already AV1. Flags:
  -output-dir DIR   write <name>_AV1.mp4 copies into DIR instead of
                    replacing files in place (recursive discovery)
  -shard N          process only files whose numeric prefix mod 10 == N
  -keep-temp        keep the _temp artifact of a failed conversion
  -report-dir DIR   directory for skippedfiles/badfiles lists (default ".")
  -upload-bucket B  upload converted files to S3 bucket B
`

// Load parses flags and environment into a validated Config. args is the
// command line after the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{
		Shard:        -1,
		ReportDir:    getEnv("REPORT_DIR", DefaultReportDir),
		UploadBucket: os.Getenv("UPLOAD_BUCKET"),
		AWSRegion:    getEnv("AWS_REGION", DefaultRegion),
		MetricsPort:  getEnvInt("METRICS_PORT", DefaultMetricsPort),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	fs := flag.NewFlagSet("av1batch", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), Usage) }
	fs.StringVar(&cfg.OutputDir, "output-dir", os.Getenv("OUTPUT_DIR"), "output directory")
	fs.IntVar(&cfg.Shard, "shard", getEnvInt("SHARD", -1), "shard index 0-9")
	fs.BoolVar(&cfg.KeepTemp, "keep-temp", getEnvBool("KEEP_TEMP"), "keep failed temp artifacts")
	fs.StringVar(&cfg.ReportDir, "report-dir", cfg.ReportDir, "report directory")
	fs.StringVar(&cfg.UploadBucket, "upload-bucket", cfg.UploadBucket, "S3 upload bucket")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one input directory, got %d arguments", fs.NArg())
	}
	cfg.InputDir = fs.Arg(0)

	switch {
	case cfg.OutputDir != "" && cfg.Shard >= 0:
		return nil, errors.New("-output-dir and -shard are mutually exclusive")
	case cfg.OutputDir != "":
		cfg.Mode = ModeOutputDir
	case cfg.Shard >= 0:
		cfg.Mode = ModeShard
	default:
		cfg.Mode = ModeInPlace
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks directory and shard constraints. Failures here are fatal
// to the whole run.
func (c *Config) Validate() error {
	var errs []string

	fi, err := os.Stat(c.InputDir)
	switch {
	case err != nil:
		errs = append(errs, fmt.Sprintf("input directory %q does not exist", c.InputDir))
	case !fi.IsDir():
		errs = append(errs, fmt.Sprintf("input path %q is not a directory", c.InputDir))
	}

	if c.Mode == ModeShard && (c.Shard < 0 || c.Shard >= ShardCount) {
		errs = append(errs, fmt.Sprintf("shard must be in [0,%d), got %d", ShardCount, c.Shard))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// EnsureDirs creates the output and report directories. A directory that
// cannot be created aborts the run before any file is processed.
func (c *Config) EnsureDirs() error {
	if c.Mode == ModeOutputDir {
		if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	if err := os.MkdirAll(c.ReportDir, 0o755); err != nil {
		return fmt.Errorf("cannot create report directory: %w", err)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
