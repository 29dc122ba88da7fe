package store

import (
	"context"
	"testing"

	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

func TestMemoryStoreEmpty(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if reg, _ := m.GetRegistration(ctx); reg != nil {
		t.Errorf("GetRegistration = %+v, want nil", reg)
	}
	if r, _ := m.GetTestResult(ctx); r != nil {
		t.Errorf("GetTestResult = %+v, want nil", r)
	}
	if s, _ := m.GetFakeRequestState(ctx); s != nil {
		t.Errorf("GetFakeRequestState = %+v, want nil", s)
	}
	if s, _ := m.GetSubmission(ctx); s != nil {
		t.Errorf("GetSubmission = %+v, want nil", s)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	state := &model.FakeRequestState{Allowed: true, AmountOfFetches: 3}
	_ = m.SaveFakeRequestState(ctx, state)
	state.FetchIndex = 2

	got, _ := m.GetFakeRequestState(ctx)
	if got.FetchIndex != 0 {
		t.Errorf("FetchIndex = %d, want 0 (saved value must not alias caller)", got.FetchIndex)
	}
	got.Doing = true

	again, _ := m.GetFakeRequestState(ctx)
	if again.Doing {
		t.Error("returned value must not alias stored state")
	}
}

func TestMemoryStoreClearRegistration(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_ = m.SaveRegistration(ctx, &model.Registration{RegistrationToken: "t"})
	_ = m.SaveTestResult(ctx, model.NewPendingTestResult())
	_ = m.SaveSubmission(ctx, &model.SubmissionRecord{KeyCount: 1})

	if err := m.ClearRegistration(ctx); err != nil {
		t.Fatalf("ClearRegistration failed: %v", err)
	}
	if reg, _ := m.GetRegistration(ctx); reg != nil {
		t.Error("registration should be cleared")
	}
	if r, _ := m.GetTestResult(ctx); r != nil {
		t.Error("test result should be cleared")
	}
	if s, _ := m.GetSubmission(ctx); s == nil {
		t.Error("submission record should be kept")
	}
}
