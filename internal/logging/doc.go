// Package logging provides the leveled logging used across notethumbs.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (decode passes, sample sizes)
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the program
//
// The level is read once from DEBUG or LOG_LEVEL and can be overridden at
// runtime with SetLevel. Output goes through the standard log package so the
// CLI can keep stdout clean for results while logs land on stderr.
package logging
