package batch

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amorell/av1batch/internal/config"
	"github.com/amorell/av1batch/pkg/models"
)

// ParseShardPrefix parses the numeric filename prefix (base name with the
// extension stripped) and returns its shard assignment, prefix mod 10.
// A prefix that is not a non-negative integer returns a typed error so the
// runner can fail that single file instead of crashing the batch.
func ParseShardPrefix(name string) (int, error) {
	base := filepath.Base(name)
	prefix := strings.TrimSuffix(base, filepath.Ext(base))

	n, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidShardPrefix, prefix)
	}
	return int(n % config.ShardCount), nil
}
