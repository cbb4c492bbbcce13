package observability

import "log/slog"

// Level is an event severity. Values are OpenTelemetry SeverityNumbers, so
// each constant sits at the bottom of its OTel range.
type Level int

const (
	LevelVerbose Level = 5
	LevelInfo    Level = 9
	LevelWarning Level = 13
	LevelError   Level = 17
)

var severities = []struct {
	max  Level
	text string
	slog slog.Level
}{
	{4, "TRACE", slog.LevelDebug},
	{8, "DEBUG", slog.LevelDebug},
	{12, "INFO", slog.LevelInfo},
	{16, "WARN", slog.LevelWarn},
	{20, "ERROR", slog.LevelError},
}

func (l Level) severity() (string, slog.Level) {
	for _, s := range severities {
		if l <= s.max {
			return s.text, s.slog
		}
	}
	return "FATAL", slog.LevelError
}

// String returns the OTel severity text.
func (l Level) String() string {
	text, _ := l.severity()
	return text
}

func (l Level) SlogLevel() slog.Level {
	_, level := l.severity()
	return level
}
