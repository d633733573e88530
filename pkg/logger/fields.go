package logger

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field is a typed key/value pair attached to a log event.
type Field interface {
	addTo(event *zerolog.Event)
	key() string
	value() interface{}
}

type field struct {
	k   string
	v   interface{}
	add func(event *zerolog.Event)
}

func (f field) addTo(event *zerolog.Event) { f.add(event) }
func (f field) key() string                { return f.k }
func (f field) value() interface{}         { return f.v }

func String(key, v string) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Str(key, v) }}
}

func Strings(key string, v []string) Field {
	return String(key, strings.Join(v, ", "))
}

func Int(key string, v int) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Int(key, v) }}
}

func Int64(key string, v int64) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Int64(key, v) }}
}

func Float64(key string, v float64) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Float64(key, v) }}
}

func Bool(key string, v bool) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Bool(key, v) }}
}

func Duration(key string, v time.Duration) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Dur(key, v) }}
}

func Any(key string, v interface{}) Field {
	return field{k: key, v: v, add: func(e *zerolog.Event) { e.Interface(key, v) }}
}

func Error(err error) Field {
	return field{k: "error", v: err, add: func(e *zerolog.Event) { e.Err(err) }}
}
