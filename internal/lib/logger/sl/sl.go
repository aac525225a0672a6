package sl

import "log/slog"

func Err(er error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(er.Error()),
	}
}

// Values of up to secretHidden characters are masked completely, since a
// short code is a credential on its own.
const (
	secretVisible = 4
	secretHidden  = 8
)

// Secret masks value for logging, keeping a short prefix of long values.
func Secret(key, value string) slog.Attr {
	r := "?"
	if value != "" {
		r = "***"
	}
	if runes := []rune(value); len(runes) > secretHidden {
		r = string(runes[:secretVisible]) + "***"
	}

	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(r),
	}
}

func Module(mod string) slog.Attr {
	return slog.Attr{
		Key:   "mod",
		Value: slog.StringValue(mod),
	}
}
