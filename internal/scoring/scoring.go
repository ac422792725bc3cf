// Package scoring validates and scores IPSS questionnaire submissions.
// Scoring is pure: no I/O, no randomness, identical output for identical
// input.
package scoring

import (
	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/models"
)

const (
	NumItems = 7

	ItemMin = 0
	ItemMax = 5
	QoLMin  = 0
	QoLMax  = 6

	// Severity thresholds over the summed item scores. Boundaries are
	// inclusive: a total of 7 is still Mild, 19 still Moderate.
	MildMax     = 7
	ModerateMax = 19
)

// Submission holds raw answers as received from the caller. Pointers
// distinguish a missing answer from a zero.
type Submission struct {
	Items [NumItems]*int
	QoL   *int
}

// Answers is a validated submission: seven item scores in [0,5] and one
// quality-of-life score in [0,6].
type Answers struct {
	Items [NumItems]int
	QoL   int
}

// Validate checks a raw submission as a bundle: any missing or
// out-of-range answer rejects the whole submission with a single
// validation error naming the offending field set.
func Validate(raw Submission) (Answers, error) {
	var out Answers
	for i, item := range raw.Items {
		if item == nil || *item < ItemMin || *item > ItemMax {
			return Answers{}, apperr.Newf(apperr.KindValidation,
				"q1..q%d must be integers between %d and %d", NumItems, ItemMin, ItemMax)
		}
		out.Items[i] = *item
	}
	if raw.QoL == nil || *raw.QoL < QoLMin || *raw.QoL > QoLMax {
		return Answers{}, apperr.Newf(apperr.KindValidation,
			"qol must be an integer between %d and %d", QoLMin, QoLMax)
	}
	out.QoL = *raw.QoL
	return out, nil
}

// Score sums the seven item scores and derives the severity category.
func Score(a Answers) (int, models.Category) {
	total := 0
	for _, item := range a.Items {
		total += item
	}
	return total, Categorize(total)
}

// Categorize maps a total score to its severity band.
func Categorize(total int) models.Category {
	switch {
	case total <= MildMax:
		return models.CategoryMild
	case total <= ModerateMax:
		return models.CategoryModerate
	default:
		return models.CategorySevere
	}
}
