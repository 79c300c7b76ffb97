package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const extractTimeout = 30 * time.Minute

// YtDlpExtractor downloads media with the yt-dlp binary.
type YtDlpExtractor struct {
	binaryPath string
}

// NewYtDlpExtractor creates an extractor using the yt-dlp found on PATH.
func NewYtDlpExtractor() *YtDlpExtractor {
	return &YtDlpExtractor{binaryPath: "yt-dlp"}
}

// Extract invokes yt-dlp to write sourceURL's media to destPath.
func (e *YtDlpExtractor) Extract(ctx context.Context, sourceURL, destPath, format string) error {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	if format == "" {
		format = "best"
	}

	cmd := exec.CommandContext(ctx, e.binaryPath,
		"-f", format,
		"-o", destPath,
		"--no-warnings",
		"--no-progress",
		"--no-playlist",
		sourceURL,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("yt-dlp download failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
