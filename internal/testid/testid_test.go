package testid

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

// mod97 は15桁の数字文字列を97で割った余りを返す
func mod97(t *testing.T, s string) uint64 {
	t.Helper()
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		t.Fatalf("ParseUint(%q) failed: %v", s, err)
	}
	return n % 97
}

func TestGenerate(t *testing.T) {
	testID, err := Generate("2020-07-10")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(testID.ID) != IDLength {
		t.Errorf("len(ID) = %d, want %d", len(testID.ID), IDLength)
	}
	if len(testID.Checksum) != ChecksumLength {
		t.Errorf("len(Checksum) = %d, want %d", len(testID.Checksum), ChecksumLength)
	}
	if len(testID.FullString()) != FullLength {
		t.Errorf("len(FullString()) = %d, want %d", len(testID.FullString()), FullLength)
	}
	if testID.DatePatientInfectious != "2020-07-10" {
		t.Errorf("DatePatientInfectious = %q, want %q", testID.DatePatientInfectious, "2020-07-10")
	}
}

func TestGenerateChecksumProperty(t *testing.T) {
	for i := 0; i < 500; i++ {
		testID, err := Generate("2021-01-31")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if r := mod97(t, testID.FullString()); r != 0 {
			t.Fatalf("(id*100 + checksum) mod 97 = %d for %s", r, testID.FullString())
		}
		if _, err := Validate(testID.FullString()); err != nil {
			t.Fatalf("Validate(%s) failed: %v", testID.FullString(), err)
		}
	}
}

func TestGenerateInvalidDate(t *testing.T) {
	for _, date := range []string{"", "2020-13-01", "10.07.2020", "2020-07-10T00:00:00Z"} {
		if _, err := Generate(date); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Generate(%q) error = %v, want ErrInvalidDate", date, err)
		}
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		// 100 mod 97 = 3 → 94
		{name: "one", id: "0000000000001", want: "94"},
		{name: "zero", id: "0000000000000", want: "00"},
		// 9700 mod 97 = 0
		{name: "multiple of 97", id: "0000000000097", want: "00"},
		{name: "short", id: "123", wantErr: ErrInvalidLength},
		{name: "non numeric", id: "12345678901a3", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Checksum(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Checksum(%q) error = %v, want %v", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Checksum(%q) failed: %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Checksum(%q) = %q, want %q", tt.id, got, tt.want)
			}
			if r := mod97(t, tt.id+got); r != 0 {
				t.Errorf("mod 97 = %d, want 0", r)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "000000000000194"},
		{name: "valid zero", input: "000000000000000"},
		{name: "too short", input: "00000000000019", wantErr: ErrInvalidLength},
		{name: "too long", input: "0000000000001940", wantErr: ErrInvalidLength},
		{name: "empty", input: "", wantErr: ErrInvalidLength},
		{name: "letters", input: "00000000000A194", wantErr: ErrNonNumeric},
		{name: "sign", input: "+00000000000194", wantErr: ErrNonNumeric},
		{name: "multibyte", input: "０００００００００００１９４"[:15], wantErr: ErrNonNumeric},
		{name: "checksum mismatch", input: "000000000000195", wantErr: ErrChecksumMismatch},
		{name: "zero id checksum mismatch", input: "000000000000001", wantErr: ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				if got != nil {
					t.Errorf("Validate(%q) returned %+v, want nil", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) failed: %v", tt.input, err)
			}
			if got.FullString() != tt.input {
				t.Errorf("FullString() = %q, want %q", got.FullString(), tt.input)
			}
		})
	}
}

func TestRegistrationToken(t *testing.T) {
	testID, err := Generate("2020-07-10")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	parts := strings.Split(testID.RegistrationToken(), "|")
	if len(parts) != 2 {
		t.Fatalf("token parts = %d, want 2", len(parts))
	}
	if parts[0] != testID.ID {
		t.Errorf("parts[0] = %q, want %q", parts[0], testID.ID)
	}
	if parts[1] != testID.DatePatientInfectious {
		t.Errorf("parts[1] = %q, want %q", parts[1], testID.DatePatientInfectious)
	}
}

func TestParseRegistrationToken(t *testing.T) {
	original, err := Generate("2020-07-10")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	parsed, err := ParseRegistrationToken(original.RegistrationToken())
	if err != nil {
		t.Fatalf("ParseRegistrationToken failed: %v", err)
	}
	if *parsed != *original {
		t.Errorf("parsed = %+v, want %+v", parsed, original)
	}

	invalid := []string{
		"",
		"0000000000001",
		"0000000000001|2020-07-10|x",
		"000000000001|2020-07-10",
		"0000000000001|10.07.2020",
	}
	for _, token := range invalid {
		if _, err := ParseRegistrationToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ParseRegistrationToken(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestInfectiousDateFromSymptomOnset(t *testing.T) {
	onset := time.Date(2020, 3, 1, 15, 4, 5, 0, time.UTC)
	if got := InfectiousDateFromSymptomOnset(onset); got != "2020-02-28" {
		t.Errorf("InfectiousDateFromSymptomOnset() = %q, want %q", got, "2020-02-28")
	}
}
