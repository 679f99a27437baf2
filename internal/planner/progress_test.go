package planner_test

import (
	"testing"

	"github.com/stemsi/pathway-planner/internal/model"
)

func TestMajorProgress_Generic(t *testing.T) {
	e := bundledEngine(t)

	p := newPlan(phl, longFinance)
	got := e.MajorProgress(p, "management")
	if !approx(got.CompletedCredits, 1.5) {
		t.Fatalf("core-only management = %v, want 1.5", got.CompletedCredits)
	}

	p = p.ToggleBlockCourse("MGMT-8710").AddCourse("MGMT-8010")
	got = e.MajorProgress(p, "management")
	if !approx(got.CompletedCredits, 2.5) {
		t.Errorf("management = %v, want 2.5", got.CompletedCredits)
	}
	if got.Complete || !approx(got.Remaining(), 1.5) {
		t.Errorf("Complete = %v, Remaining = %v", got.Complete, got.Remaining())
	}
	if got.Kind != model.RequirementGeneric || got.Details != nil {
		t.Errorf("Kind = %q, Details = %+v", got.Kind, got.Details)
	}
}

func TestMajorProgress_FinanceDependsOnChoice(t *testing.T) {
	e := bundledEngine(t)

	short := e.MajorProgress(newPlan(phl, shortFinance, "FNCE-7050"), "finance")
	long := e.MajorProgress(newPlan(phl, longFinance, "FNCE-7050"), "finance")
	if !approx(short.CompletedCredits, 2.0) {
		t.Errorf("short finance progress = %v, want 2.0", short.CompletedCredits)
	}
	if !approx(long.CompletedCredits, 3.0) {
		t.Errorf("long finance progress = %v, want 3.0", long.CompletedCredits)
	}
}

func TestMajorProgress_Capped(t *testing.T) {
	e := bundledEngine(t)

	p := newPlan(phl, longFinance, "MGMT-6910", "MGMT-7210", "MGMT-7990", "MGMT-8010")
	got := e.MajorProgress(p, "management")
	if !approx(got.CompletedCredits, got.RequiredCredits) {
		t.Errorf("CompletedCredits = %v, want cap %v", got.CompletedCredits, got.RequiredCredits)
	}
	if !got.Complete || got.Remaining() != 0 {
		t.Errorf("Complete = %v, Remaining = %v", got.Complete, got.Remaining())
	}
}

func TestMajorProgress_Unknown(t *testing.T) {
	e := bundledEngine(t)

	got := e.MajorProgress(newPlan(phl, longFinance), "astrology")
	if got.CompletedCredits != 0 || got.RequiredCredits != 0 {
		t.Errorf("unknown major = %+v", got)
	}

	all := e.AllMajorProgress(newPlan(phl, longFinance).ToggleMajor("astrology").ToggleMajor("finance"))
	if len(all) != 1 || all[0].MajorID != "finance" {
		t.Errorf("AllMajorProgress = %+v", all)
	}
}

func TestMajorProgress_StructuredBundled(t *testing.T) {
	e := bundledEngine(t)

	p := newPlan(phl, longFinance,
		"MKTG-7120", "OIDD-6360", "OIDD-6930", "OIDD-6670", "LGST-8980-VIETNAM", "LGST-8060")
	got := e.MajorProgress(p, "marketing_operations")
	if got.Details == nil {
		t.Fatal("Details = nil for structured major")
	}
	d := *got.Details

	if !approx(d.CoreA.Credits, 1) || !d.CoreA.HasRequiredCourse || !d.CoreA.HasOneOfCourse {
		t.Errorf("CoreA = %+v", d.CoreA)
	}
	if !approx(d.CoreB.Credits, 1) || d.CoreB.FromPlanned != 0 {
		t.Errorf("CoreB = %+v", d.CoreB)
	}
	if !d.Research.Met || d.Research.ViaPair {
		t.Errorf("Research = %+v", d.Research)
	}
	if !approx(d.Electives.Credits, 3.5) {
		t.Errorf("Electives.Credits = %v, want 3.5", d.Electives.Credits)
	}
	if !approx(d.Electives.DepartmentCredits["OIDD"], 2.5) {
		t.Errorf("OIDD elective credits = %v, want 2.5", d.Electives.DepartmentCredits["OIDD"])
	}
	if d.Electives.DepartmentCredits["MKTG"] != 0 {
		t.Errorf("MKTG elective credits = %v, want 0", d.Electives.DepartmentCredits["MKTG"])
	}
	if !approx(got.CompletedCredits, 6.5) {
		t.Errorf("CompletedCredits = %v, want 6.5", got.CompletedCredits)
	}
}

func TestMajorProgress_CoreBTopUpFromPlanned(t *testing.T) {
	e := fixtureEngine(t)

	got := e.MajorProgress(newPlan("east", "", "OIDD-6120", "OIDD-6360"), "mo")
	d := *got.Details

	if !approx(d.CoreB.Credits, 1) || !approx(d.CoreB.FromPlanned, 0.5) {
		t.Errorf("CoreB = %+v, want 1.0 with 0.5 from planned", d.CoreB)
	}
	if !approx(d.Electives.Credits, 1) {
		t.Errorf("Electives.Credits = %v, want 1.0", d.Electives.Credits)
	}
	if !approx(d.Electives.DepartmentCredits["OIDD"], 1) {
		t.Errorf("OIDD elective credits = %v, want 1.0", d.Electives.DepartmentCredits["OIDD"])
	}
	if !approx(d.CoreA.Credits, 0.5) || d.CoreA.HasOneOfCourse {
		t.Errorf("CoreA = %+v", d.CoreA)
	}
	if !approx(got.CompletedCredits, 2.5) {
		t.Errorf("CompletedCredits = %v, want 2.5", got.CompletedCredits)
	}
}

func TestMajorProgress_ResearchPair(t *testing.T) {
	e := fixtureEngine(t)

	full := e.MajorProgress(newPlan("east", "", "MKTG-9400", "MKTG-9410"), "mo").Details
	if !full.Research.Met || !full.Research.ViaPair || !approx(full.Research.Credits, 1) {
		t.Errorf("paired research = %+v", full.Research)
	}
	if full.Electives.Credits != 0 {
		t.Errorf("research courses counted as electives: %v", full.Electives.Credits)
	}

	half := e.MajorProgress(newPlan("east", "", "MKTG-9400"), "mo").Details
	if half.Research.Met || half.Research.Credits != 0 {
		t.Errorf("half pair research = %+v", half.Research)
	}
}

func TestMajorProgress_ElectiveEligibility(t *testing.T) {
	e := fixtureEngine(t)

	d := e.MajorProgress(newPlan("east", "", "LGST-8980-VIETNAM", "MGMT-6910"), "mo").Details
	if !approx(d.Electives.Credits, 0.5) {
		t.Errorf("Electives.Credits = %v, want 0.5", d.Electives.Credits)
	}
	if !approx(d.Electives.DepartmentCredits["OIDD"], 0.5) {
		t.Errorf("override not applied: %+v", d.Electives.DepartmentCredits)
	}
	if _, ok := d.Electives.DepartmentCredits["LGST"]; ok {
		t.Errorf("LGST credited despite override: %+v", d.Electives.DepartmentCredits)
	}
}
