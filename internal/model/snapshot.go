package model

import "time"

// PlanSnapshot is an archived copy of a plan taken after a mutation.
type PlanSnapshot struct {
	ID              int64     `json:"id"`
	PlanID          string    `json:"plan_id"`
	State           PlanState `json:"state"`
	TotalCredits    float64   `json:"total_credits"`
	GraduationReady bool      `json:"graduation_ready"`
	CreatedAt       time.Time `json:"created_at"`
}
