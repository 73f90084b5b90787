package retro

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MatusOllah/slogcolor"
	"github.com/fatih/color"
)

// Debug enables invariant assertions across the package. The library is
// total within its domain: correct callers never trip one of these. Flip
// Debug on while developing a new caller to turn an insert past MaxSize,
// a pop from an empty queue, or a map iterator stepped back past its first
// key into an immediate panic instead of silent corruption.
var Debug = false

var assertLogger = newAssertLogger()

func newAssertLogger() *slog.Logger {
	level := slog.LevelWarn
	if strings.EqualFold(os.Getenv("RETRO_LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	color.NoColor = os.Getenv("NO_COLOR") != ""
	return slog.New(slogcolor.NewHandler(os.Stderr, &slogcolor.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
	}))
}

// assertf panics with a formatted message when Debug is enabled and cond
// is false. It costs nothing when Debug is left off, which is the default.
func assertf(cond bool, format string, args ...any) {
	if cond || !Debug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	assertLogger.Error("invariant violated", "detail", msg)
	panic("retro: " + msg)
}
