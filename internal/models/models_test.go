package models

import (
	"testing"
)

func TestStringArray_Value(t *testing.T) {
	tests := []struct {
		name string
		arr  StringArray
		want string
	}{
		{"nil array", nil, "[]"},
		{"empty array", StringArray{}, "[]"},
		{"values", StringArray{"Go", "SQL"}, `["Go","SQL"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.arr.Value()
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if got := string(v.([]byte)); got != tt.want {
				t.Errorf("Value() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStringArray_Scan(t *testing.T) {
	var arr StringArray
	if err := arr.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(arr) != 2 || arr[0] != "a" || arr[1] != "b" {
		t.Errorf("Scan() = %v, want [a b]", arr)
	}

	if err := arr.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if arr != nil {
		t.Errorf("Scan(nil) = %v, want nil", arr)
	}

	if err := arr.Scan(42); err == nil {
		t.Error("Scan(int) error = nil, want error")
	}
}

func TestJobStatus_Valid(t *testing.T) {
	for _, s := range JobStatuses {
		if !s.Valid() {
			t.Errorf("JobStatus(%q).Valid() = false, want true", s)
		}
	}
	if JobStatus("archived").Valid() {
		t.Error(`JobStatus("archived").Valid() = true, want false`)
	}
}

func TestJobType_Valid(t *testing.T) {
	for _, typ := range JobTypes {
		if !typ.Valid() {
			t.Errorf("JobType(%q).Valid() = false, want true", typ)
		}
	}
	if JobType("Freelance").Valid() {
		t.Error(`JobType("Freelance").Valid() = true, want false`)
	}
}

func TestApplicationStatus_Valid(t *testing.T) {
	for _, s := range ApplicationStatuses {
		if !s.Valid() {
			t.Errorf("ApplicationStatus(%q).Valid() = false, want true", s)
		}
	}
	if ApplicationStatus("withdrawn").Valid() {
		t.Error(`ApplicationStatus("withdrawn").Valid() = true, want false`)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane@X.com", "jane@x.com"},
		{"  jane@x.com  ", "jane@x.com"},
		{"JANE@X.COM", "jane@x.com"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
