package model

import "testing"

func TestResultConstants(t *testing.T) {
	tests := []struct {
		result   Result
		want     string
		terminal bool
	}{
		{ResultPending, "pending", false},
		{ResultNegative, "negative", true},
		{ResultPositive, "positive", true},
		{ResultInvalid, "invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if string(tt.result) != tt.want {
				t.Errorf("Result = %q, want %q", tt.result, tt.want)
			}
			if tt.result.IsTerminal() != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", tt.result.IsTerminal(), tt.terminal)
			}
			if !tt.result.IsValid() {
				t.Errorf("IsValid() = false for %q", tt.result)
			}
		})
	}
}

func TestResultUnknown(t *testing.T) {
	for _, r := range []Result{"", "redeemed", "POSITIVE"} {
		if r.IsTerminal() {
			t.Errorf("%q.IsTerminal() = true, want false", r)
		}
		if r.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", r)
		}
	}
}

func TestNewPendingTestResult(t *testing.T) {
	r := NewPendingTestResult()
	if r.Result != ResultPending {
		t.Errorf("Result = %q, want %q", r.Result, ResultPending)
	}
	if r.DateTestCommunicated != "" || r.ReceivedAt != 0 || r.Acknowledged {
		t.Errorf("pending result should be empty, got %+v", r)
	}
}

func TestRegistrationHasToken(t *testing.T) {
	var nilReg *Registration
	if nilReg.HasToken() {
		t.Error("nil registration should not have token")
	}
	if (&Registration{}).HasToken() {
		t.Error("empty registration should not have token")
	}
	if !(&Registration{RegistrationToken: "0000000000001|2020-07-10"}).HasToken() {
		t.Error("registration with token should have token")
	}
}

func TestFakeRequestState(t *testing.T) {
	s := &FakeRequestState{Allowed: true, Doing: true, AmountOfFetches: 3, FetchIndex: 2}
	if !s.FetchesRemaining() {
		t.Error("FetchesRemaining() = false, want true")
	}
	s.FetchIndex = 3
	if s.FetchesRemaining() {
		t.Error("FetchesRemaining() = true, want false")
	}

	s.Reset()
	if s.Doing || s.AmountOfFetches != 0 || s.FetchIndex != 0 {
		t.Errorf("Reset() left state %+v", s)
	}
	if !s.Allowed {
		t.Error("Reset() must keep Allowed")
	}
}
