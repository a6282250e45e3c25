package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths.
// Relative entries of PathsConfig are resolved against the working directory,
// the same place an operator drops the ИНН list.
type Paths struct {
	WorkingDir string
	InputFile  string
	OutputDir  string
	LogsDir    string
}

// GetPaths resolves cfg against the current working directory
func GetPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}
	return ResolvePaths(wd, cfg), nil
}

// ResolvePaths resolves cfg against base
func ResolvePaths(base string, cfg PathsConfig) *Paths {
	return &Paths{
		WorkingDir: base,
		InputFile:  resolve(base, cfg.InputFile),
		OutputDir:  resolve(base, cfg.OutputDir),
		LogsDir:    resolve(base, cfg.LogsDir),
	}
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetOutputPath returns the path for an exported file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution",
		slog.Group("paths",
			slog.String("working_dir", p.WorkingDir),
			slog.String("input_file", p.InputFile),
			slog.String("output_dir", p.OutputDir),
			slog.String("logs_dir", p.LogsDir),
		),
		slog.Bool("input_exists", FileExists(p.InputFile)),
	)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
