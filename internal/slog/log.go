// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package slog wires up the package-level btclog.Logger instances exposed
// by blockchain, pow, mining/randomx and crypto/argon2hash, and manages the
// rotating log file backing them. It follows the same log.go shape used
// throughout the btcsuite family: a single btclog.Backend writing to both
// stdout and a size-rotated file, one named subsystem logger per package,
// and a debug-level string ("info", "POW=debug,CHAIN=trace", ...)
// parsed into per-subsystem levels.
package slog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/sylmnetwork/sylmd/blockchain"
	"github.com/sylmnetwork/sylmd/crypto/argon2hash"
	"github.com/sylmnetwork/sylmd/mining/randomx"
	"github.com/sylmnetwork/sylmd/pow"
)

// logRotator writes logged output to the log file as well as stdout, and
// rotates the file when it reaches a threshold size. It is nil until
// InitLogRotator is called, matching the rest of this tree's "disabled
// until configured" logging posture.
var logRotator *rotator.Rotator

// logWriter implements io.Writer and fans writes out to both stdout and
// the rotator, so operators see output on the console and get a durable
// file trail at the same time.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var backendLog = btclog.NewBackend(logWriter{})

var (
	chainLog = backendLog.Logger("CHAIN")
	powLog   = backendLog.Logger("POW")
	rndxLog  = backendLog.Logger("RNDX")
	argonLog = backendLog.Logger("ARGN")
	consLog  = backendLog.Logger("CONS")
)

func init() {
	blockchain.UseLogger(chainLog)
	pow.UseLogger(powLog)
	randomx.UseLogger(rndxLog)
	argon2hash.UseLogger(argonLog)
}

// subsystemLoggers maps each subsystem's shorthand identifier to its
// logger, for use by SetLogLevels and SupportedSubsystems.
var subsystemLoggers = map[string]btclog.Logger{
	"CHAIN": chainLog,
	"POW":   powLog,
	"RNDX":  rndxLog,
	"ARGN":  argonLog,
	"CONS":  consLog,
}

// ConsensusLog is the logger the consensus-core CLI harness itself (as
// opposed to a library package) should use.
func ConsensusLog() btclog.Logger {
	return consLog
}

// InitLogRotator initializes the logging rotator to write logs to
// logFile and create roll files in the same directory. It must be
// called before the package-level loggers are used if a log file is
// desired; if the log directory or the rotator cannot be created it
// prints the error to stderr and exits the process, matching the
// fatal-at-startup posture the rest of the ambient stack uses for
// unrecoverable configuration errors.
func InitLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}
	logRotator = r
}

// SetLogLevel sets the logging level for provided subsystem. Unknown
// subsystems and invalid levels are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystems, used to initialize
// logging at startup before per-subsystem overrides are applied.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems
// for logging purposes, for use in a command line's usage text.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// ParseAndSetDebugLevels attempts to parse the specified debug level and
// set the levels accordingly. It supports two formats: a single level,
// which sets the log level for all subsystems, and
// "subsystem=level,subsystem2=level2", which sets per-subsystem levels.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if _, ok := btclog.LevelFromString(debugLevel); !ok {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		if _, ok := subsystemLoggers[subsysID]; !ok {
			str := "the specified subsystem [%v] is invalid"
			return fmt.Errorf(str, subsysID)
		}
		if _, ok := btclog.LevelFromString(logLevel); !ok {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}
		SetLogLevel(subsysID, logLevel)
	}

	return nil
}
