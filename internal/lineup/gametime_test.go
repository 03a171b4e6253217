package lineup

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFormatGameTime(t *testing.T) {
	summer := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		clock   string
		day     time.Time
		want    string
		wantErr bool
	}{
		{
			name:  "evening game during daylight saving",
			clock: "10:10pm",
			day:   summer,
			want:  "10:10pm ET, 7:10pm PT",
		},
		{
			name:  "evening game in standard time",
			clock: "10:10pm",
			day:   winter,
			want:  "10:10pm ET, 7:10pm PT",
		},
		{
			name:  "afternoon game",
			clock: "1:05 PM",
			day:   summer,
			want:  "1:05pm ET, 10:05am PT",
		},
		{
			name:  "midnight edge",
			clock: "12:15am",
			day:   summer,
			want:  "12:15am ET, 9:15pm PT",
		},
		{
			name:  "noon edge",
			clock: "12:00pm",
			day:   summer,
			want:  "12:00pm ET, 9:00am PT",
		},
		{
			name:  "clock embedded in a longer line",
			clock: "first pitch around 7:07pm tonight",
			day:   summer,
			want:  "7:07pm ET, 4:07pm PT",
		},
		{
			name:    "no clock token",
			clock:   "sometime tonight",
			day:     summer,
			wantErr: true,
		},
		{
			name:    "hour out of range",
			clock:   "13:10pm",
			day:     summer,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatGameTime(tt.clock, tt.day)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FormatGameTime() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatGameTimeISO(t *testing.T) {
	// 23:10 UTC on June 30 is 7:10pm EDT / 4:10pm PDT.
	got, err := FormatGameTimeISO("2025-06-30T23:10:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("7:10pm ET, 4:10pm PT", got); diff != "" {
		t.Errorf("FormatGameTimeISO() mismatch (-want +got):\n%s", diff)
	}

	if _, err := FormatGameTimeISO("not a timestamp"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}
