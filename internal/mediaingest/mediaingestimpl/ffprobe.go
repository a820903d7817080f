package mediaingestimpl

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
)

// FFProbe shells out to ffprobe to read container metadata from the
// uploaded bytes on stdin.
type FFProbe struct {
	path   string
	logger logger.Logger
}

func NewFFProbe(path string, log logger.Logger) *FFProbe {
	return &FFProbe{
		path:   path,
		logger: log.WithComponent("FFProbe"),
	}
}

var _ mediaingest.Prober = (*FFProbe)(nil)

func (p *FFProbe) Duration(ctx context.Context, asset domain.RawAsset) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", "pipe:0",
	)
	cmd.Stdin = bytes.NewReader(asset.Data)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", asset.Name, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparseable duration %q: %w", strings.TrimSpace(string(out)), err)
	}

	p.logger.Debug("Probed video duration", "name", asset.Name, "seconds", seconds)
	return time.Duration(seconds * float64(time.Second)), nil
}
