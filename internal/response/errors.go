package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrPlanNotFound ErrCode = "PLAN_NOT_FOUND"

	// ─── Catalog ───────────────────────────────────────────────────────
	ErrUnknownCohort      ErrCode = "UNKNOWN_COHORT"
	ErrUnknownCourse      ErrCode = "UNKNOWN_COURSE"
	ErrUnknownMajor       ErrCode = "UNKNOWN_MAJOR"
	ErrUnknownBlockCourse ErrCode = "UNKNOWN_BLOCK_COURSE"

	// ─── Plan-specific ─────────────────────────────────────────────────
	ErrCohortRequired       ErrCode = "COHORT_REQUIRED"
	ErrInvalidFinanceChoice ErrCode = "INVALID_FINANCE_CHOICE"
	ErrFinanceChoiceLocked  ErrCode = "FINANCE_CHOICE_LOCKED"
	ErrSnapshotsDisabled    ErrCode = "SNAPSHOTS_DISABLED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrPlanNotFound:
		return "Plan not found. It may have expired."

	// ─── Catalog ───────────────────────────────────────────────────────
	case ErrUnknownCohort:
		return "Unknown cohort."
	case ErrUnknownCourse:
		return "Course is not in the catalog."
	case ErrUnknownMajor:
		return "Major is not in the catalog."
	case ErrUnknownBlockCourse:
		return "Block course is not in the catalog."

	// ─── Plan-specific ─────────────────────────────────────────────────
	case ErrCohortRequired:
		return "Select a cohort before changing this part of the plan."
	case ErrInvalidFinanceChoice:
		return "Finance choice must be the 0.5 CU or the 1.0 CU corporate finance course."
	case ErrFinanceChoiceLocked:
		return "This cohort has a fixed corporate finance course."
	case ErrSnapshotsDisabled:
		return "Plan history is not enabled on this server."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
