package config

import (
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() {
	c.Paths.DownloadDir = expandPath(c.Paths.DownloadDir)
	c.Paths.TranscriptDir = expandPath(c.Paths.TranscriptDir)
	c.Paths.FallbackDir = expandPath(c.Paths.FallbackDir)
	c.Paths.LogDir = expandPath(c.Paths.LogDir)
	c.Store.RemoteRoot = expandPath(c.Store.RemoteRoot)

	c.Ledger.Prefix = strings.Trim(strings.TrimSpace(c.Ledger.Prefix), "/")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	for i := range c.Series {
		c.Series[i].Name = strings.TrimSpace(c.Series[i].Name)
		c.Series[i].PlaylistURL = strings.TrimSpace(c.Series[i].PlaylistURL)
	}

	langs := c.Sidecar.Languages[:0]
	for _, lang := range c.Sidecar.Languages {
		lang = strings.TrimSpace(lang)
		if lang != "" {
			langs = append(langs, lang)
		}
	}
	c.Sidecar.Languages = langs
	if len(c.Sidecar.Languages) == 0 {
		c.Sidecar.Languages = defaultSidecarLanguages()
	}
}

func expandPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			if trimmed == "~" {
				return home
			}
			return filepath.Join(home, trimmed[2:])
		}
	}
	return filepath.Clean(trimmed)
}
