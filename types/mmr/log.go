// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"github.com/rs/zerolog"

	"gitlab.com/jaxnet/mmrd/corelog"
)

// log is the package logger, disabled by default so the library stays
// silent unless the host application opts in.
var log = corelog.Disabled

// UseLogger routes the package's diagnostics through the provided
// logger.
func UseLogger(logger zerolog.Logger) {
	log = logger
}

// DisableLog silences the package again.
func DisableLog() {
	log = corelog.Disabled
}
