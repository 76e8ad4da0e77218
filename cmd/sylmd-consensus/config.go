// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/sylmnetwork/sylmd/chaincfg"
	"github.com/sylmnetwork/sylmd/internal/slog"
	"github.com/sylmnetwork/sylmd/mining/randomx"
)

const (
	defaultConfigFilename  = "sylmd-consensus.conf"
	defaultLogFilename     = "sylmd-consensus.log"
	defaultLogLevel        = "info"
	defaultDataDirname     = "data"
	defaultRandomXPoolSize = randomx.DefaultMaxContexts
)

var (
	defaultHomeDir    = appDataDir("sylmd-consensus", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, "logs")
)

// config defines the command-line and config-file options this harness
// accepts, following the same jessevdk/go-flags struct-tag idiom the
// btcsuite family uses for its daemons.
type config struct {
	ShowVersion     bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile      string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir         string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir          string `long:"logdir" description:"Directory to log output."`
	TestNet         bool   `long:"testnet" description:"Use the test network"`
	RegressionTest  bool   `long:"regtest" description:"Use the regression test network"`
	DebugLevel      string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- Alternatively, specify <subsystem>=<level>,<subsystem2>=<level2>,... to set the log level for individual subsystems"`
	RandomXPoolSize int    `long:"randomxpoolsize" description:"Maximum number of concurrently held RandomX validation contexts"`

	activeNetParams *chaincfg.Params
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig reads the command line and config-file options and returns
// the resulting config along with any leftover command-line arguments.
// It follows the same initial-pass-for-config-file-path, second-pass-for
// the rest idiom the btcsuite daemons use.
func loadConfig() (*config, []string, error) {
	cfg := config{
		ConfigFile:      defaultConfigFile,
		DataDir:         defaultDataDir,
		LogDir:          defaultLogDir,
		DebugLevel:      defaultLogLevel,
		RandomXPoolSize: defaultRandomXPoolSize,
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	_, err := preParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	if preCfg.ShowVersion {
		fmt.Println("sylmd-consensus")
		os.Exit(0)
	}

	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		// A missing config file is fine unless the user explicitly
		// pointed at one.
		if _, ok := err.(*os.PathError); !ok || preCfg.ConfigFile != defaultConfigFile {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}

	remainingArgs, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	switch {
	case cfg.TestNet:
		cfg.activeNetParams = &chaincfg.TestNetParams
	case cfg.RegressionTest:
		cfg.activeNetParams = &chaincfg.RegressionNetParams
	default:
		cfg.activeNetParams = &chaincfg.MainNetParams
	}

	if err := slog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		str := "%s: %v"
		err := fmt.Errorf(str, "loadConfig", err)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	if cfg.RandomXPoolSize <= 0 {
		return nil, nil, fmt.Errorf("loadConfig: %w (randomxpoolsize=%d)",
			randomx.ErrExhausted, cfg.RandomXPoolSize)
	}

	return &cfg, remainingArgs, nil
}
