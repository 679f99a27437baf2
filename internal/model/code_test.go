package model

import (
	"slices"
	"testing"
)

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"FNCE-7030":        "FNCE-7030",
		"fnce 7030":        "FNCE-7030",
		"  Fnce   7030 ":   "FNCE-7030",
		"oidd 8970 india":  "OIDD-8970-INDIA",
		"MGMT--8970-INDIA": "MGMT-8970-INDIA",
		"-wh 2120-":        "WH-2120",
		"":                 "",
		"   ":              "",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayCode(t *testing.T) {
	if got := DisplayCode("OIDD-8970-INDIA"); got != "OIDD 8970-INDIA" {
		t.Errorf("DisplayCode = %q", got)
	}
	if got := DisplayCode("FNCE-6110"); got != "FNCE 6110" {
		t.Errorf("DisplayCode = %q", got)
	}
}

func TestNormalizeCodes(t *testing.T) {
	got := NormalizeCodes([]string{"fnce 7030", "FNCE-7030", "", "mgmt 6910"})
	if !slices.Equal(got, []string{"FNCE-7030", "MGMT-6910"}) {
		t.Errorf("NormalizeCodes = %v", got)
	}
	if got := NormalizeCodes(nil); got == nil || len(got) != 0 {
		t.Errorf("NormalizeCodes(nil) = %#v, want empty non-nil", got)
	}
}

func TestRewriteAliases(t *testing.T) {
	aliases := map[string]string{"LGST-7820": "LGST-XXXX"}
	got := RewriteAliases([]string{"lgst 7820", "FNCE-7030"}, aliases)
	if !slices.Equal(got, []string{"LGST-XXXX", "FNCE-7030"}) {
		t.Errorf("RewriteAliases = %v", got)
	}
}

func TestDepartmentOf(t *testing.T) {
	if got := DepartmentOf("OIDD-8970-INDIA"); got != "OIDD" {
		t.Errorf("DepartmentOf = %q", got)
	}
}
