package spf

import "testing"

func TestParseNoRecord(t *testing.T) {
	got := Parse([]string{"some other txt record"})
	if got.Error != "No SPF record found" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseWorkedExample(t *testing.T) {
	records := []string{"v=spf1 include:_spf.google.com include:mail.example.com ip4:1.2.3.4 -all"}
	got := Parse(records)

	if got.LookupCount != 2 {
		t.Errorf("LookupCount = %d, want 2", got.LookupCount)
	}
	if got.AllMechanism != "-all" {
		t.Errorf("AllMechanism = %q, want -all", got.AllMechanism)
	}
	want := []string{"_spf.google.com", "mail.example.com"}
	if len(got.Includes) != len(want) {
		t.Fatalf("Includes = %v", got.Includes)
	}
	for i := range want {
		if got.Includes[i] != want[i] {
			t.Fatalf("Includes = %v, want %v", got.Includes, want)
		}
	}

	cats, ok := got.ProvidersByCategory["Email Workspaces"]
	if !ok {
		t.Fatalf("expected Email Workspaces category, got %v", got.ProvidersByCategory)
	}
	found := false
	for _, c := range cats {
		if c == "_spf.google.com" {
			found = true
		}
	}
	if !found {
		t.Fatalf("google include not categorized: %v", cats)
	}
}

func TestParseDefaultsAllMechanism(t *testing.T) {
	got := Parse([]string{"v=spf1 a mx"})
	if got.AllMechanism != "~all" {
		t.Errorf("AllMechanism = %q, want ~all default", got.AllMechanism)
	}
	// Bare "a"/"mx" carry no ":" value, so they are tagged unknown and do
	// not count toward the lookup budget.
	if got.LookupCount != 0 {
		t.Errorf("LookupCount = %d, want 0", got.LookupCount)
	}
}

func TestParseUnknownTokenAndProvider(t *testing.T) {
	got := Parse([]string{"v=spf1 include:unknownsender.example.net ptr ~all"})
	if len(got.ProvidersByCategory["unknown"]) != 1 {
		t.Fatalf("expected unknown category for unrecognized include, got %v", got.ProvidersByCategory)
	}
	hasUnknownTag := false
	for _, m := range got.Mechanisms {
		if m.Tag == "unknown" && m.Value == "ptr" {
			hasUnknownTag = true
		}
	}
	if !hasUnknownTag {
		t.Fatalf("expected ptr to be tagged unknown, got %v", got.Mechanisms)
	}
}
