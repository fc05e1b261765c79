package logger

import "strings"

// Level is the severity threshold of a subsystem logger. Messages below the
// configured level are discarded before they reach the backend.
type Level uint32

// The levels, ordered from noisiest to silent.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelStrs holds the three-letter tag printed for each level.
var levelStrs = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

var levelNames = map[string]Level{
	"trace":    LevelTrace,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"error":    LevelError,
	"critical": LevelCritical,
	"off":      LevelOff,
}

// LevelFromString parses a level from either its long name ("debug") or its
// three-letter tag ("DBG"), case insensitively. Unrecognized input yields the
// info level with ok set to false.
func LevelFromString(s string) (l Level, ok bool) {
	name := strings.ToLower(s)
	if level, ok := levelNames[name]; ok {
		return level, true
	}
	for i, tag := range levelStrs {
		if name == strings.ToLower(tag) {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// String returns the level's three-letter tag, or "OFF" for any value at or
// beyond the off level.
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelStrs[l]
}
