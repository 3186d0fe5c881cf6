package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "promotions"
	EntityName = "promotion"

	FieldID            = "id"
	FieldCode          = "code"
	FieldDescription   = "description"
	FieldDiscountType  = "discount_type"
	FieldDiscountValue = "discount_value"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldMaxUsage      = "max_usage"
	FieldIsActive      = "is_active"

	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type Promotion struct {
	ID            string    `db:"id"`
	Code          string    `db:"code"`
	Description   *string   `db:"description"`
	DiscountType  string    `db:"discount_type"`
	DiscountValue float64   `db:"discount_value"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	MaxUsage      int       `db:"max_usage"`
	IsActive      bool      `db:"is_active"`
	model.Metadata
	model.SoftDelete
}

// Window reports whether the promotion covers the given instant, treating
// end_date as inclusive through the end of that day.
func (p Promotion) Window(at time.Time) bool {
	return !at.Before(p.StartDate) && at.Before(p.EndDate.AddDate(0, 0, 1))
}
