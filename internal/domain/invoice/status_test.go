package invoice

import "testing"

func TestStatusCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDraft:     {StatusSent, StatusCancelled},
		StatusSent:      {StatusPaid, StatusOverdue, StatusCancelled},
		StatusOverdue:   {StatusPaid},
		StatusPaid:      {},
		StatusCancelled: {},
	}

	all := []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled}

	for from, targets := range allowed {
		allowedSet := make(map[Status]bool, len(targets))
		for _, to := range targets {
			allowedSet[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			if got != allowedSet[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, allowedSet[to])
			}
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if !StatusPaid.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("paid and cancelled must be terminal")
	}
	if StatusDraft.IsTerminal() || StatusSent.IsTerminal() || StatusOverdue.IsTerminal() {
		t.Error("draft, sent and overdue must not be terminal")
	}
}

func TestStatusIsEditable(t *testing.T) {
	if !StatusDraft.IsEditable() {
		t.Error("draft must be editable")
	}
	for _, s := range []Status{StatusSent, StatusPaid, StatusOverdue, StatusCancelled} {
		if s.IsEditable() {
			t.Errorf("%s must not be editable", s)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled} {
		if !s.IsValid() {
			t.Errorf("%s must be valid", s)
		}
	}
	if Status("shipped").IsValid() {
		t.Error("unknown status must not be valid")
	}
}
