// Package logging provides opt-in file-based logging with rotation for the
// findability audit pipeline. auditctl writes its logs to
// ~/.findablescore/logs/auditctl.log: at debug level when the --debug flag
// is set, at info level otherwise. It writes no log output to stderr.
package logging
