// Package kr holds the ambient, non-core adapters every cmd/ binary wires
// up: logging setup, terminal coloring, file persistence, and config-path
// plumbing. None of it is part of the DHM/RSA core - entropy, bitcodec,
// dhm, rsakeygen, rsacodec, and keyfile accept and return plain Go values
// only, never anything from this package.
package kr

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("")

var stderrFormat = logging.MustStringFormatter(
	`%{color}dhmrsa ▶ %{message}%{color:reset}`,
)

// SetupLogging installs a leveled stderr backend for every package logger
// registered under prefix, honoring the KR_LOG_LEVEL override the way the
// rest of this codebase's env-driven configuration does.
func SetupLogging(prefix string, defaultLogLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, prefix, 0)
	logging.SetFormatter(stderrFormat)

	leveled := logging.AddModuleLevel(backend)
	switch os.Getenv("KR_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLogLevel, "")
	}

	logging.SetBackend(leveled)
	return log
}
