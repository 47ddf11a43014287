package spacedrep

import (
	"fmt"

	fsrs "github.com/open-spaced-repetition/go-fsrs/v3"
)

// Rating is the learner's self-assessment of a recall.
type Rating int

const (
	Again Rating = 1
	Hard  Rating = 2
	Good  Rating = 3
	Easy  Rating = 4
)

// Valid reports whether r is on the 1..4 scale.
func (r Rating) Valid() bool {
	return r >= Again && r <= Easy
}

// Successful reports whether the recall counts as a success (Good or Easy).
func (r Rating) Successful() bool {
	return r >= Good && r <= Easy
}

func (r Rating) String() string {
	switch r {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

func (r Rating) fsrs() fsrs.Rating {
	switch r {
	case Again:
		return fsrs.Again
	case Hard:
		return fsrs.Hard
	case Good:
		return fsrs.Good
	default:
		return fsrs.Easy
	}
}
