package planner_test

import "testing"

func TestScheduleConflicts_SharedSlotAndWeekend(t *testing.T) {
	e := bundledEngine(t)

	got := e.ScheduleConflicts(newPlan(phl, longFinance, "FNCE-7050", "MKTG-7780"))
	if len(got) != 1 {
		t.Fatalf("conflicts = %+v, want one", got)
	}
	c := got[0]
	if c.Course1 != "FNCE 7050" || c.Course2 != "MKTG 7780" {
		t.Errorf("courses = %q, %q", c.Course1, c.Course2)
	}
	if c.Slot != "A" || c.Weekend == nil || *c.Weekend != 0 {
		t.Errorf("slot = %q, weekend = %v", c.Slot, c.Weekend)
	}
	if c.Term != "T5" || c.TermName != "Fall 2026" || c.WeekendLabel != "Aug 27-29, 2026" {
		t.Errorf("term = %q (%q), weekend label = %q", c.Term, c.TermName, c.WeekendLabel)
	}
}

func TestScheduleConflicts_SlotTakesPrecedenceOverWeekends(t *testing.T) {
	e := bundledEngine(t)

	// Same term, same weekends, different slots.
	got := e.ScheduleConflicts(newPlan(phl, longFinance, "FNCE-7050", "FNCE-7170"))
	if len(got) != 0 {
		t.Errorf("conflicts = %+v, want none", got)
	}
}

func TestScheduleConflicts_DifferentTermsNeverConflict(t *testing.T) {
	e := bundledEngine(t)

	// MKTG-7110 runs T4 slot C, MGMT-8710 runs T5 slot C.
	got := e.ScheduleConflicts(newPlan(phl, longFinance, "MKTG-7110", "MGMT-8710"))
	if len(got) != 0 {
		t.Errorf("conflicts = %+v, want none", got)
	}
}

func TestScheduleConflicts_Symmetric(t *testing.T) {
	e := bundledEngine(t)

	ab := e.ScheduleConflicts(newPlan(phl, longFinance, "MGMT-8010", "LGST-8130"))
	ba := e.ScheduleConflicts(newPlan(phl, longFinance, "LGST-8130", "MGMT-8010"))
	if len(ab) != 1 || len(ba) != 1 {
		t.Fatalf("conflicts = %d vs %d, want one each", len(ab), len(ba))
	}
	if ab[0].Code1 != ba[0].Code2 || ab[0].Code2 != ba[0].Code1 {
		t.Errorf("pair mismatch: %+v vs %+v", ab[0], ba[0])
	}
	if ab[0].Slot != ba[0].Slot || *ab[0].Weekend != *ba[0].Weekend {
		t.Errorf("details differ: %+v vs %+v", ab[0], ba[0])
	}
	if *ab[0].Weekend != 4 {
		t.Errorf("weekend = %d, want 4", *ab[0].Weekend)
	}
}

func TestScheduleConflicts_TravelCourses(t *testing.T) {
	e := bundledEngine(t)

	got := e.ScheduleConflicts(newPlan(phl, longFinance, "MGMT-8970-INDIA", "WH-2120"))
	if len(got) != 1 {
		t.Fatalf("conflicts = %+v, want one", got)
	}
	c := got[0]
	if !c.Travel || c.Dates != "Mar 9-13, 2026" || c.Weekend != nil {
		t.Errorf("travel conflict = %+v", c)
	}

	// Different travel dates.
	if got := e.ScheduleConflicts(newPlan(phl, longFinance, "MGMT-8970-INDIA", "MGMT-8970-GERMANY")); len(got) != 0 {
		t.Errorf("different dates conflict: %+v", got)
	}
	// Travel against a weekend course in the same term.
	if got := e.ScheduleConflicts(newPlan(phl, longFinance, "MGMT-8970-INDIA", "MGMT-8010")); len(got) != 0 {
		t.Errorf("travel vs weekend conflict: %+v", got)
	}
}

func TestScheduleConflicts_FixedDates(t *testing.T) {
	e := bundledEngine(t)

	got := e.ScheduleConflicts(newPlan(phl, longFinance, "HCMG-8410", "REAL-8910", "LGST-XXXX"))
	if len(got) != 3 {
		t.Fatalf("conflicts = %+v, want three pairs", got)
	}
	for _, c := range got {
		if c.Travel || c.Dates != "Jun 15-18, 2026" {
			t.Errorf("fixed-date conflict = %+v", c)
		}
	}
}

func TestScheduleConflicts_CourseWithoutOffering(t *testing.T) {
	e := bundledEngine(t)

	// FNCE-7030 has no philadelphia offering.
	got := e.ScheduleConflicts(newPlan(phl, longFinance, "FNCE-7030", "FNCE-7050"))
	if len(got) != 0 {
		t.Errorf("conflicts = %+v, want none", got)
	}
}

func TestCourseConflicts(t *testing.T) {
	e := bundledEngine(t)

	p := newPlan(phl, longFinance, "FNCE-7050", "MKTG-7780", "MGMT-8010", "LGST-8130")
	if got := e.CourseConflicts(p, "fnce 7050"); len(got) != 1 || got[0].Code2 != "MKTG-7780" {
		t.Errorf("CourseConflicts(FNCE-7050) = %+v", got)
	}
	if got := e.CourseConflicts(p, "MGMT-6910"); len(got) != 0 {
		t.Errorf("CourseConflicts(unplanned) = %+v", got)
	}
}
