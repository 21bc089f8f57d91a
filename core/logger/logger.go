package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init configures the global logger. Pretty output is for local development;
// production keeps raw JSON.
func Init(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out zerolog.Logger
	if pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		out = zerolog.New(os.Stdout)
	}
	log = out.Level(lvl).With().Timestamp().Logger()
}

func Debug(msg string, keyvals ...any) {
	emit(log.Debug(), msg, keyvals)
}

func Info(msg string, keyvals ...any) {
	emit(log.Info(), msg, keyvals)
}

func Warn(msg string, keyvals ...any) {
	emit(log.Warn(), msg, keyvals)
}

func Error(msg string, keyvals ...any) {
	emit(log.Error(), msg, keyvals)
}

func Fatal(msg string, keyvals ...any) {
	emit(log.Fatal(), msg, keyvals)
}

// emit attaches keyvals as fields. Values are expected in key/value pairs;
// a trailing unpaired value (commonly a bare error) lands under "error".
func emit(e *zerolog.Event, msg string, keyvals []any) {
	n := len(keyvals)
	for i := 0; i+1 < n; i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		switch v := keyvals[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	if n%2 == 1 {
		last := keyvals[n-1]
		if err, ok := last.(error); ok {
			e = e.Err(err)
		} else {
			e = e.Interface("detail", last)
		}
	}
	e.Msg(msg)
}
