// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"fmt"
	"strconv"
	"strings"
)

// LogLevel is the verbosity rank compiled into the C library as LOG_LEVEL.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogError
	LogWarning
	LogInfo
	LogDebug
	LogSuperDebug
	LogUltraDebug
)

// Don't change the order, the rank of a name is its index.
var logLevelNames = [...]string{
	LogNone:       "NONE",
	LogError:      "ERROR",
	LogWarning:    "WARNING",
	LogInfo:       "INFO",
	LogDebug:      "DEBUG",
	LogSuperDebug: "SUPER_DEBUG",
	LogUltraDebug: "ULTRA_DEBUG",
}

func (l LogLevel) String() string {
	if l >= 0 && int(l) < len(logLevelNames) {
		return logLevelNames[l]
	}

	return strconv.Itoa(int(l))
}

// ParseLogLevel parses s as a level name, in any case, or as an integer.
// Surrounding white space is allowed around an integer only.
func ParseLogLevel(s string) (LogLevel, error) {
	u := strings.ToUpper(s)
	for i, v := range logLevelNames {
		if u == v {
			return LogLevel(i), nil
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ConfigurationError{
			Msg:   fmt.Sprintf("invalid log level, want an integer or one of %s", strings.Join(logLevelNames[:], ", ")),
			Value: s,
		}
	}

	return LogLevel(n), nil
}

// ResolveLogLevel returns the level for raw. If set is false, raw is ignored
// and the default is used: LogDebug when building for debugging, LogError
// otherwise.
func ResolveLogLevel(raw string, set, debug bool) (LogLevel, error) {
	if !set {
		if debug {
			return LogDebug, nil
		}

		return LogError, nil
	}

	return ParseLogLevel(raw)
}
