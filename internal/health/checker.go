package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os/exec"
	"sync"
	"time"
)

// Configuration constants
const (
	DefaultCacheTTL = 10 * time.Second
)

// Status represents the health check response.
type Status struct {
	Status    string                    `json:"status"`
	Service   string                    `json:"service"`
	Timestamp string                    `json:"timestamp"`
	Checks    map[string]ComponentCheck `json:"checks,omitempty"`
}

// ComponentCheck represents the health of a single external tool.
type ComponentCheck struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Config holds health checker configuration.
type Config struct {
	ServiceName string
	Tools       []string
	Logger      *slog.Logger
	CacheTTL    time.Duration
	LookPath    func(string) (string, error)
}

// DefaultConfig returns a Config checking the external media tools.
func DefaultConfig(serviceName string, logger *slog.Logger) *Config {
	return &Config{
		ServiceName: serviceName,
		Tools:       []string{"ffmpeg", "ffprobe"},
		Logger:      logger,
		CacheTTL:    DefaultCacheTTL,
		LookPath:    exec.LookPath,
	}
}

// Checker reports whether the external tools the batch depends on are
// still resolvable on PATH.
type Checker struct {
	config     *Config
	mu         sync.RWMutex
	lastCheck  time.Time
	lastStatus *Status
}

// NewChecker creates a new health checker with the given configuration.
func NewChecker(config *Config) *Checker {
	if config.LookPath == nil {
		config.LookPath = exec.LookPath
	}
	return &Checker{config: config}
}

// Check performs the tool checks, returning a cached result inside the TTL.
func (c *Checker) Check() *Status {
	c.mu.RLock()
	if c.lastStatus != nil && time.Since(c.lastCheck) < c.config.CacheTTL {
		status := c.lastStatus
		c.mu.RUnlock()
		return status
	}
	c.mu.RUnlock()

	status := &Status{
		Status:    "healthy",
		Service:   c.config.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]ComponentCheck),
	}

	for _, tool := range c.config.Tools {
		path, err := c.config.LookPath(tool)
		if err != nil {
			status.Checks[tool] = ComponentCheck{Status: "unhealthy", Error: err.Error()}
			status.Status = "degraded"
			continue
		}
		status.Checks[tool] = ComponentCheck{Status: "healthy", Path: path}
	}

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.lastStatus = status
	c.mu.Unlock()

	return status
}

// Handler returns an HTTP handler for health checks.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.Check()

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		if err := json.NewEncoder(w).Encode(status); err != nil && c.config.Logger != nil {
			c.config.Logger.Error("Failed to encode health check response", "error", err)
		}
	}
}
