// Package stats summarizes a learner's mistakes and how confident they were
// when making them.
package stats

import (
	"sort"
	"time"

	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// CategoryCount is the number of errors in one category.
type CategoryCount struct {
	Category diagnosis.Category `json:"category"`
	Count    int                `json:"count"`
}

// ReviewCounts is the number of ratings given in trailing windows.
type ReviewCounts struct {
	LastMonth       int `json:"last_month"`
	LastThreeMonths int `json:"last_three_months"`
	LastYear        int `json:"last_year"`
}

type ErrorStats struct {
	Total int `json:"total"`
	// ByCategory is ordered by count, highest first.
	ByCategory []CategoryCount    `json:"by_category"`
	MostCommon diagnosis.Category `json:"most_common,omitempty"`
	Reviews    ReviewCounts       `json:"reviews"`
}

// Errors counts errs by category. A non-empty only keeps that category.
// Reviews counts the ratings in records' logs relative to now.
func Errors(errs []grading.AnswerError, records []spacedrep.ReviewRecord, only diagnosis.Category, now time.Time) ErrorStats {
	counts := make(map[diagnosis.Category]int)
	var st ErrorStats
	for _, e := range errs {
		if only != "" && e.Category != only {
			continue
		}
		st.Total++
		counts[e.Category]++
	}
	st.ByCategory = sortedCounts(counts)
	if len(st.ByCategory) > 0 {
		st.MostCommon = st.ByCategory[0].Category
	}

	month, quarter, year := now.AddDate(0, 0, -30), now.AddDate(0, 0, -90), now.AddDate(0, 0, -365)
	for _, rec := range records {
		for _, l := range rec.Logs {
			if l.ReviewedAt.Before(year) {
				continue
			}
			st.Reviews.LastYear++
			if !l.ReviewedAt.Before(quarter) {
				st.Reviews.LastThreeMonths++
			}
			if !l.ReviewedAt.Before(month) {
				st.Reviews.LastMonth++
			}
		}
	}
	return st
}

func sortedCounts(counts map[diagnosis.Category]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
