package response

import (
	"errors"
	"log/slog"
	"net/http"

	"overtime-approval/services"
	"overtime-approval/validator"
)

// HandleError maps service errors to HTTP responses. Unknown errors are
// logged and reported as 500 without their message.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, services.ErrNIKNotFound):
		NotFound(w, "NIK not found")
	case errors.Is(err, services.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		NotFound(w, "Overtime category not found")
	case errors.Is(err, services.ErrSubmissionNotFound):
		NotFound(w, "Overtime submission not found")

	case errors.Is(err, services.ErrCategoryInactive):
		ValidationError(w, map[string]string{"category_id": "category is inactive"})

	case errors.Is(err, services.ErrSubmissionAlreadyProcessed):
		Conflict(w, "Overtime submission already processed")
	case errors.Is(err, services.ErrNIKExists):
		Conflict(w, "NIK already registered")
	case errors.Is(err, services.ErrProfileHasSubmissions):
		Conflict(w, "Profile has overtime submissions")

	case errors.Is(err, services.ErrNotApprover):
		Forbidden(w, "You are not the approver for this stage")
	case errors.Is(err, services.ErrForbidden):
		Forbidden(w, "You do not have access to this resource")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
