package goal

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from GoalStatus
		to   GoalStatus
		want bool
	}{
		{"ActiveToLocked", StatusActive, StatusLocked, true},
		{"ActiveToArchived", StatusActive, StatusArchived, true},
		{"LockedToActive", StatusLocked, StatusActive, true},
		{"LockedToArchived", StatusLocked, StatusArchived, true},
		{"ArchivedToActive", StatusArchived, StatusActive, true},
		{"ArchivedToLocked", StatusArchived, StatusLocked, false},
		{"SameState", StatusActive, StatusActive, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestCanAutoTransition(t *testing.T) {
	if !CanAutoTransition(StatusActive, StatusLocked) {
		t.Error("locking an active goal must be allowed automatically")
	}
	if CanAutoTransition(StatusLocked, StatusActive) {
		t.Error("unlock must never happen automatically")
	}
	if CanAutoTransition(StatusActive, StatusArchived) {
		t.Error("archiving must never happen automatically")
	}
}
