package logfields

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeyBabyID  = "baby_id"
	KeyEventID = "event_id"
	KeyKind    = "kind"
	KeyDay     = "day"
	KeyPath    = "path"
	KeyBackend = "backend"
	KeyError   = "error"
)

func BabyID(id string) slog.Attr  { return slog.String(KeyBabyID, id) }
func EventID(id string) slog.Attr { return slog.String(KeyEventID, id) }
func Kind(k string) slog.Attr     { return slog.String(KeyKind, k) }
func Day(d string) slog.Attr      { return slog.String(KeyDay, d) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Backend(b string) slog.Attr  { return slog.String(KeyBackend, b) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
