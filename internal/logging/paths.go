package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.findablescore/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".findablescore", "logs")
	}
	return filepath.Join(home, ".findablescore", "logs")
}

// DefaultLogPath returns the default auditctl log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "auditctl.log")
}

// CalibrateLogPath returns the path of the calibrate.log source, which the
// viewer reads alongside the per-invocation audit log when it exists. No
// auditctl command writes to this file.
func CalibrateLogPath() string {
	return filepath.Join(DefaultLogDir(), "calibrate.log")
}

// LogSource identifies which process wrote a given log file.
type LogSource string

const (
	// LogSourceMain is the auditctl CLI invocation log (default).
	LogSourceMain LogSource = "main"
	// LogSourceCalibrate is the calibrate.log source (see CalibrateLogPath).
	LogSourceCalibrate LogSource = "calibrate"
	// LogSourceAll combines all log sources.
	LogSourceAll LogSource = "all"
)

// FindLogFile attempts to find the log file for viewing.
// Priority:
// 1. Explicit path (if provided)
// 2. ~/.findablescore/logs/auditctl.log (global)
//
// Returns an error if no log file is found.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	globalPath := DefaultLogPath()
	if _, err := os.Stat(globalPath); err == nil {
		return globalPath, nil
	}

	return "", fmt.Errorf("no log file found. Run with --debug at least once.\nExpected at: %s", globalPath)
}

// FindLogFileBySource finds log files based on the source type.
// Returns a list of log file paths that exist.
func FindLogFileBySource(source LogSource, explicit string) ([]string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return []string{explicit}, nil
		}
		return nil, fmt.Errorf("log file not found: %s", explicit)
	}

	var paths []string
	var checked []string

	switch source {
	case LogSourceMain:
		p := DefaultLogPath()
		checked = append(checked, p)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}

	case LogSourceCalibrate:
		p := CalibrateLogPath()
		checked = append(checked, p)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}

	case LogSourceAll:
		main := DefaultLogPath()
		calib := CalibrateLogPath()
		checked = append(checked, main, calib)

		if _, err := os.Stat(main); err == nil {
			paths = append(paths, main)
		}
		if _, err := os.Stat(calib); err == nil {
			paths = append(paths, calib)
		}

	default:
		return nil, fmt.Errorf("unknown log source: %s (use: main, calibrate, all)", source)
	}

	if len(paths) == 0 {
		hint := getLogHint(source)
		return nil, fmt.Errorf("no log files found for source '%s'.\nChecked: %v\n\n%s", source, checked, hint)
	}

	return paths, nil
}

// ParseLogSource parses a string into a LogSource.
func ParseLogSource(s string) LogSource {
	switch s {
	case "calibrate":
		return LogSourceCalibrate
	case "all":
		return LogSourceAll
	default:
		return LogSourceMain
	}
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	dir := DefaultLogDir()
	return os.MkdirAll(dir, 0o755)
}

// getLogHint returns a helpful message on how to generate logs for the given source.
func getLogHint(source LogSource) string {
	switch source {
	case LogSourceMain:
		return "To generate logs:\n  auditctl --debug audit <site>"
	case LogSourceCalibrate:
		return "No auditctl command writes calibrate.log."
	case LogSourceAll:
		return "To generate logs:\n  auditctl --debug audit <site>"
	default:
		return ""
	}
}
