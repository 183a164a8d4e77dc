package uritemplate

import (
	"log/slog"
	"sync/atomic"

	intlog "github.com/ivan-gammel/uritemplate/internal/log"
)

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(intlog.Noop)
}

// SetLogger installs the logger used for debug tracing of template expansion
// and builder finalization. Logging is disabled by default; passing nil
// disables it again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = intlog.Noop
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	return pkgLogger.Load()
}
