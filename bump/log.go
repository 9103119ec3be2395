package bump

import "github.com/btcsuite/btclog"

// log is the package logger. Logging is disabled until a caller opts in
// with UseLogger; nothing is emitted by default.
var log btclog.Logger

// UseLogger sets the logger used by this package.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

func init() {
	DisableLog()
}
