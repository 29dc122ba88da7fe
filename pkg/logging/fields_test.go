package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithEventID(t *testing.T) {
	attr := WithEventID("FAKE_SEQ_START")
	if attr.Key != FieldEventID {
		t.Errorf("Key = %q, want %q", attr.Key, FieldEventID)
	}
	if attr.Value.String() != "FAKE_SEQ_START" {
		t.Errorf("Value = %q, want %q", attr.Value.String(), "FAKE_SEQ_START")
	}
}

func TestWithError(t *testing.T) {
	t.Run("With error", func(t *testing.T) {
		attr := WithError(errors.New("connection failed"))
		if attr.Key != FieldError {
			t.Errorf("Key = %q, want %q", attr.Key, FieldError)
		}
		if attr.Value.String() != "connection failed" {
			t.Errorf("Value = %q, want %q", attr.Value.String(), "connection failed")
		}
	})

	t.Run("With nil error", func(t *testing.T) {
		attr := WithError(nil)
		if attr.Value.String() != "" {
			t.Errorf("Value = %q, want empty string", attr.Value.String())
		}
	})
}

func TestWithLatency(t *testing.T) {
	attr := WithLatency(150)
	if attr.Key != FieldLatencyMs || attr.Value.Int64() != 150 {
		t.Errorf("WithLatency(150) = %v", attr)
	}
}

func TestWithHTTPStatus(t *testing.T) {
	attr := WithHTTPStatus(403)
	if attr.Key != FieldHTTPStatus || attr.Value.Int64() != 403 {
		t.Errorf("WithHTTPStatus(403) = %v", attr)
	}
}

func TestWithFake(t *testing.T) {
	attr := WithFake(true)
	if attr.Key != FieldFake || !attr.Value.Bool() {
		t.Errorf("WithFake(true) = %v", attr)
	}
}

func TestWithFetchProgress(t *testing.T) {
	fields := WithFetchProgress(2, 5)
	if len(fields) != 2 {
		t.Fatalf("len = %d, want 2", len(fields))
	}
	index, ok := fields[0].(slog.Attr)
	if !ok || index.Key != FieldFetchIndex || index.Value.Int64() != 2 {
		t.Errorf("fields[0] = %v", fields[0])
	}
	total, ok := fields[1].(slog.Attr)
	if !ok || total.Key != FieldFetchTotal || total.Value.Int64() != 5 {
		t.Errorf("fields[1] = %v", fields[1])
	}
}

func TestCommonFields(t *testing.T) {
	t.Run("Masking enabled", func(t *testing.T) {
		cf := NewCommonFields(NewMasker(true))
		if got := cf.WithTestID("123456789012345").Value.String(); got != "123**********45" {
			t.Errorf("WithTestID() = %q", got)
		}
		if got := cf.WithRegistrationToken("1234567890123|2020-07-10").Value.String(); got != "123*********3|2020-07-10" {
			t.Errorf("WithRegistrationToken() = %q", got)
		}
	})

	t.Run("Nil masker defaults to masking", func(t *testing.T) {
		cf := NewCommonFields(nil)
		if got := cf.WithTestID("123456789012345").Value.String(); got != "123**********45" {
			t.Errorf("WithTestID() = %q", got)
		}
	})

	t.Run("Registration fields", func(t *testing.T) {
		cf := NewCommonFields(NewMasker(false))
		fields := cf.RegistrationLogFields("TESTID_REGISTERED", "1234567890123|2020-07-10")
		if len(fields) != 2 {
			t.Fatalf("len = %d, want 2", len(fields))
		}
		token := fields[1].(slog.Attr)
		if token.Key != FieldRegistrationToken || token.Value.String() != "1234567890123|2020-07-10" {
			t.Errorf("token field = %v", token)
		}
	})
}
