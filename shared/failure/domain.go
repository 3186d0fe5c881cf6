package failure

import "net/http"

// Domain failures shared across services. Handlers translate them through
// GetCode, so every var carries its HTTP code here.
var (
	InvalidDateRange   = &Failure{Code: http.StatusBadRequest, Message: "check-out date must be after check-in date"}
	RoomUnavailable    = &Failure{Code: http.StatusConflict, Message: "room is not available for the requested dates"}
	InvalidTransition  = &Failure{Code: http.StatusConflict, Message: "booking status does not allow this transition"}
	PromotionNotFound  = &Failure{Code: http.StatusNotFound, Message: "promotion code not found"}
	PromotionExpired   = &Failure{Code: http.StatusBadRequest, Message: "promotion code is expired or inactive"}
	PromotionExhausted = &Failure{Code: http.StatusConflict, Message: "promotion code has no remaining uses"}
	ReviewNotAllowed   = &Failure{Code: http.StatusForbidden, Message: "booking is not eligible for review"}
	DuplicateReview    = &Failure{Code: http.StatusConflict, Message: "booking already has a review"}
)

// HasDependents returns a conflict Failure for deletions blocked by dependent
// records.
func HasDependents(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: msg,
	}
}
