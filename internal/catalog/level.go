package catalog

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency level. Levels are ordered: A1 < A2 < ... < C2.
// LevelUnset is the zero value and compares below every real level, but
// scoring treats it as "no level" rather than as the easiest one.
type Level int

const (
	LevelUnset Level = iota
	LevelA1
	LevelA2
	LevelB1
	LevelB2
	LevelC1
	LevelC2
)

var levelNames = [...]string{"", "A1", "A2", "B1", "B2", "C1", "C2"}

// String returns the CEFR label, or "" for LevelUnset.
func (l Level) String() string {
	if l < LevelUnset || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// IsSet reports whether l is a real level.
func (l Level) IsSet() bool {
	return l > LevelUnset && int(l) < len(levelNames)
}

// ParseLevel parses a CEFR label such as "b1". An empty string yields
// LevelUnset with no error.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return LevelUnset, nil
	}
	for i, name := range levelNames {
		if i > 0 && name == s {
			return Level(i), nil
		}
	}
	return LevelUnset, fmt.Errorf("unknown level %q", s)
}
