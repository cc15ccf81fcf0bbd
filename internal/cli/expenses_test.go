package cli

import (
	"strings"
	"testing"
	"time"

	"outlay/internal/core"
	"outlay/internal/views"
)

func TestBuildDraft(t *testing.T) {
	draft, err := buildDraft("12.50", "Food", " lunch ", "2024-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Amount.String() != "12.5" || draft.Category != "Food" || draft.Note != "lunch" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if !draft.Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", draft.Date)
	}
}

func TestBuildDraftDefaultsToToday(t *testing.T) {
	draft, err := buildDraft("5", "Other", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Date.IsZero() {
		t.Fatal("expected default date")
	}
}

func TestBuildDraftCollectsProblems(t *testing.T) {
	_, err := buildDraft("-1", "Groceries", "", "05/01/2024")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"amount:", "category:", "date:"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestBuildDraftRejectsFutureDate(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")
	_, err := buildDraft("5", "Food", "", future)
	if err != core.ErrFutureDate {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}

func TestBuildViewState(t *testing.T) {
	state, err := buildViewState("coffee", "Food", "2024-01-01", "2024-01-31", "amount", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Search != "coffee" || state.Category != "Food" {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Field != views.SortAmount || state.Dir != views.Asc {
		t.Fatalf("unexpected sort: %+v", state)
	}
	// The end bound covers the whole day.
	endOfDay := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	if !state.To.Equal(endOfDay) {
		t.Fatalf("expected inclusive end of day, got %v", state.To)
	}
}

func TestBuildViewStateErrors(t *testing.T) {
	cases := []struct {
		name                                 string
		search, category, from, to, sortName string
	}{
		{"bad category", "", "Groceries", "", "", "date"},
		{"bad from", "", "", "Jan 1", "", "date"},
		{"bad to", "", "", "", "soon", "date"},
		{"bad sort", "", "", "", "", "price"},
	}
	for _, tc := range cases {
		if _, err := buildViewState(tc.search, tc.category, tc.from, tc.to, tc.sortName, false); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	want := []string{"login", "register", "logout", "whoami", "add", "list", "stats", "export"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing command %q", name)
		}
	}
}
