package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateSeries()
}

func (c *Config) validatePaths() error {
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLedger() error {
	if !c.Ledger.Enabled {
		return nil
	}
	if c.Ledger.Prefix == "" {
		return errors.New("ledger.prefix must be set when the ledger is enabled")
	}
	if c.Ledger.StaleAfterSeconds <= 0 {
		return errors.New("ledger.stale_after_seconds must be positive")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Attempts <= 0 {
		return errors.New("fetch.attempts must be positive")
	}
	if c.Fetch.BaseDelaySeconds < 0 {
		return errors.New("fetch.base_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.RequireRemote && c.Store.RemoteRoot == "" {
		return errors.New("store.remote_root must be set when store.require_remote is enabled")
	}
	if !c.Store.RequireRemote && c.Store.RemoteRoot != "" && c.Paths.FallbackDir == "" {
		return errors.New("paths.fallback_dir must be set for non-strict remote storage")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if !c.Workflow.Sequential && c.Workflow.Workers <= 0 {
		return errors.New("workflow.workers must be positive in pooled mode")
	}
	if c.Workflow.EpisodeDelaySeconds < 0 {
		return errors.New("workflow.episode_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateSeries() error {
	seen := make(map[string]struct{}, len(c.Series))
	for i, series := range c.Series {
		if series.Name == "" {
			return fmt.Errorf("series[%d].name must be set", i)
		}
		if series.PlaylistURL == "" {
			return fmt.Errorf("series %q: playlist_url must be set", series.Name)
		}
		if _, ok := seen[series.Name]; ok {
			return fmt.Errorf("series %q is defined more than once", series.Name)
		}
		seen[series.Name] = struct{}{}
	}
	return nil
}
