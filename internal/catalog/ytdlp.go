package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const resolveTimeout = 2 * time.Minute

// YtDlpResolver enumerates playlist entries with the yt-dlp binary.
type YtDlpResolver struct {
	binaryPath string
}

// NewYtDlpResolver creates a resolver using the yt-dlp found on PATH.
func NewYtDlpResolver() *YtDlpResolver {
	return &YtDlpResolver{binaryPath: "yt-dlp"}
}

// Resolve runs yt-dlp in flat-playlist mode and returns entry URLs in
// playlist order.
func (r *YtDlpResolver) Resolve(ctx context.Context, playlistURL string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binaryPath,
		"--flat-playlist",
		"--print", "url",
		"--no-warnings",
		playlistURL,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp playlist resolve failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	var urls []string
	for _, line := range strings.Split(out.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, nil
}
