package config

const (
	defaultDownloadDir   = "~/.local/share/reelvault/downloads"
	defaultTranscriptDir = "~/.local/share/reelvault/transcripts"
	defaultFallbackDir   = "~/.local/share/reelvault/fallback"
	defaultLogDir        = "~/.local/share/reelvault/logs"

	defaultLedgerPrefix   = "job_status"
	defaultStaleAfter     = 3600
	defaultFetchAttempts  = 5
	defaultFetchBaseDelay = 2
	defaultFetchFormat    = "best"
	defaultWorkers        = 4
	defaultEpisodeDelay   = 2
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

func defaultSidecarLanguages() []string {
	return []string{"English", "Urdu"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir:   defaultDownloadDir,
			TranscriptDir: defaultTranscriptDir,
			FallbackDir:   defaultFallbackDir,
			LogDir:        defaultLogDir,
		},
		Ledger: Ledger{
			Enabled:           true,
			Prefix:            defaultLedgerPrefix,
			StaleAfterSeconds: defaultStaleAfter,
		},
		Fetch: Fetch{
			Attempts:         defaultFetchAttempts,
			BaseDelaySeconds: defaultFetchBaseDelay,
			Format:           defaultFetchFormat,
		},
		Workflow: Workflow{
			Workers:             defaultWorkers,
			EpisodeDelaySeconds: defaultEpisodeDelay,
		},
		Sidecar: Sidecar{
			Languages: defaultSidecarLanguages(),
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
