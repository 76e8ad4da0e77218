// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appDataDir returns an operating system specific directory to be used for
// storing application data for an application. The appName parameter is the
// name of the application. The roaming parameter only applies to Windows,
// where it selects the roaming profile (%APPDATA%) instead of the local one
// (%LOCALAPPDATA%) that is used by default.
func appDataDir(appName string, roaming bool) string {
	if appName == "" || appName == "." {
		return "."
	}

	appName = strings.TrimPrefix(appName, ".")
	appNameUpper := strings.ToUpper(appName[:1]) + appName[1:]
	appNameLower := strings.ToLower(appName[:1]) + appName[1:]

	var homeDir string
	usr, err := os.UserHomeDir()
	if err == nil {
		homeDir = usr
	}
	if homeDir == "" {
		if envHome := os.Getenv("HOME"); envHome != "" {
			homeDir = envHome
		}
	}

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if roaming {
			if v := os.Getenv("APPDATA"); v != "" {
				appData = v
			}
		}
		if appData != "" {
			return filepath.Join(appData, appNameUpper)
		}

	case "darwin":
		if homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support", appNameUpper)
		}

	case "plan9":
		if homeDir != "" {
			return filepath.Join(homeDir, appNameLower)
		}

	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appNameLower)
		}
		if homeDir != "" {
			return filepath.Join(homeDir, "."+appNameLower)
		}
	}

	return "."
}
