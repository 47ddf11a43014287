package stats

import (
	"sort"

	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// CategoryConfidence splits a category's errors by the rating the learner
// last gave the item. ByRating is indexed by rating-1.
type CategoryConfidence struct {
	Category diagnosis.Category `json:"category"`
	Total    int                `json:"total"`
	ByRating [4]int             `json:"by_rating"`
}

// RatingBucket holds the errors on items last rated Rating.
type RatingBucket struct {
	Rating     spacedrep.Rating           `json:"rating"`
	Count      int                        `json:"count"`
	ByCategory map[diagnosis.Category]int `json:"by_category"`
}

// ConfidenceStats relates mistakes and correct answers to self-rated
// confidence. Ratings of Good or Easy count as high confidence.
type ConfidenceStats struct {
	ByCategory []CategoryConfidence `json:"by_category"`
	ByRating   [4]RatingBucket      `json:"by_rating"`

	HighConfidenceErrors  int `json:"high_confidence_errors"`
	LowConfidenceErrors   int `json:"low_confidence_errors"`
	HighConfidenceCorrect int `json:"high_confidence_correct"`
	LowConfidenceCorrect  int `json:"low_confidence_correct"`
}

// Confidence joins errs with the matching records. Errors on items without
// a record are ignored; errors on items never rated only count towards
// their category total.
func Confidence(errs []grading.AnswerError, records []spacedrep.ReviewRecord) ConfidenceStats {
	var st ConfidenceStats
	for i := range st.ByRating {
		st.ByRating[i] = RatingBucket{
			Rating:     spacedrep.Rating(i + 1),
			ByCategory: make(map[diagnosis.Category]int),
		}
	}

	byKey := make(map[spacedrep.Key]*spacedrep.ReviewRecord, len(records))
	for i := range records {
		byKey[records[i].Key] = &records[i]
	}

	cats := make(map[diagnosis.Category]*CategoryConfidence)
	for _, e := range errs {
		rec, ok := byKey[spacedrep.Key{UserID: e.UserID, Kind: e.Kind, ItemID: e.ItemID}]
		if !ok {
			continue
		}
		cc := cats[e.Category]
		if cc == nil {
			cc = &CategoryConfidence{Category: e.Category}
			cats[e.Category] = cc
		}
		cc.Total++

		r := rec.LastRating
		if !r.Valid() {
			continue
		}
		cc.ByRating[r-1]++
		st.ByRating[r-1].Count++
		st.ByRating[r-1].ByCategory[e.Category]++
		if r.Successful() {
			st.HighConfidenceErrors++
		} else {
			st.LowConfidenceErrors++
		}
	}

	for _, rec := range records {
		if rec.LastCorrect == nil || !*rec.LastCorrect || !rec.LastRating.Valid() {
			continue
		}
		if rec.LastRating.Successful() {
			st.HighConfidenceCorrect++
		} else {
			st.LowConfidenceCorrect++
		}
	}

	st.ByCategory = make([]CategoryConfidence, 0, len(cats))
	for _, cc := range cats {
		st.ByCategory = append(st.ByCategory, *cc)
	}
	sort.Slice(st.ByCategory, func(i, j int) bool {
		a, b := st.ByCategory[i], st.ByCategory[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	return st
}
