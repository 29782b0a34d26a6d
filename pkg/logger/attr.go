package logger

import (
	"log/slog"
	"time"
)

// Error returns an "error" attribute, or an empty one for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// SessionRef expects a fingerprint, never the raw session identity.
func SessionRef(ref string) slog.Attr {
	if ref == "" {
		return slog.Attr{}
	}
	return slog.String("session_ref", ref)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Status(code int) slog.Attr {
	return slog.Int("status_code", code)
}
