package models

import "time"

type Category string

const (
	CategoryMild     Category = "Mild"
	CategoryModerate Category = "Moderate"
	CategorySevere   Category = "Severe"
)

// Assessment is one submitted IPSS questionnaire. Rows are append-only;
// TotalScore and Category are always recomputed from the item scores at
// write time, never taken from the caller.
type Assessment struct {
	ID         string
	UserID     string
	Items      [7]int
	QoL        int
	TotalScore int
	Category   Category
	Notes      *string
	Date       time.Time
}
