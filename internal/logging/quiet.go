package logging

import (
	"log/slog"
)

// SetupQuietMode initializes logging for commands that write a machine-
// readable report to stdout (e.g. "auditctl audit --format json").
// - Logs ONLY to file, never stdout/stderr
// - Uses JSON format for structured logs
// - Always enables debug level for complete diagnostics
//
// A log line written to stdout would corrupt the JSON a caller is piping
// into another tool, so WriteToStderr must stay false for the life of
// the command.
func SetupQuietMode() (func(), error) {
	cfg := Config{
		Level:         "debug",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	slog.Info("quiet mode logging initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level),
		slog.Bool("stderr_disabled", true))

	return cleanup, nil
}

// SetupQuietModeWithLevel initializes quiet-mode logging at a specific level.
func SetupQuietModeWithLevel(level string) (func(), error) {
	cfg := Config{
		Level:         level,
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return cleanup, nil
}
