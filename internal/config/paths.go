package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".streamsight"

// Paths holds resolved filesystem paths for StreamSight data.
type Paths struct {
	Base    string // ~/.streamsight
	Config  string // ~/.streamsight/config.yaml
	Data    string // ~/.streamsight/data
	Exports string // ~/.streamsight/exports
	Logs    string // ~/.streamsight/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If STREAMSIGHT_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("STREAMSIGHT_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:    base,
		Config:  filepath.Join(base, "config.yaml"),
		Data:    filepath.Join(base, "data"),
		Exports: filepath.Join(base, "exports"),
		Logs:    filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data, p.Exports, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// ArchivePath resolves the transcript database location: the configured path
// when set, otherwise <data>/transcripts.db.
func (p Paths) ArchivePath(cfg ArchiveConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(p.Data, "transcripts.db")
}
