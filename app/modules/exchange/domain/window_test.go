package exchangedomain

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestFirstWindow(t *testing.T) {
	tests := []struct {
		name      string
		completed time.Time
		loc       *time.Location
		want      time.Time
	}{
		{
			name:      "afternoon completion",
			completed: time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
			loc:       time.UTC,
			want:      time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			name:      "just before midnight",
			completed: time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC),
			loc:       time.UTC,
			want:      time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			name:      "month rollover",
			completed: time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC),
			loc:       time.UTC,
			want:      time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstWindow(tt.completed, tt.loc); !got.Equal(tt.want) {
				t.Fatalf("FirstWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstWindow_LocalDay(t *testing.T) {
	chicago := mustLoad(t, "America/Chicago")
	// 03:00Z on June 2 is still June 1 in Chicago.
	got := FirstWindow(time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC), chicago)
	want := time.Date(2024, 6, 2, 8, 0, 0, 0, chicago)
	if !got.Equal(want) {
		t.Fatalf("FirstWindow() = %v, want %v", got, want)
	}
}

func TestNextWindow(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 6, d, h, 0, 0, 0, time.UTC) }
	tests := []struct {
		from time.Time
		want time.Time
	}{
		{from: day(2, 8), want: day(2, 12)},
		{from: day(2, 12), want: day(2, 16)},
		{from: day(2, 16), want: day(3, 8)},
	}
	for _, tt := range tests {
		if got := NextWindow(tt.from, time.UTC); !got.Equal(tt.want) {
			t.Fatalf("NextWindow(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestCutoff(t *testing.T) {
	got := Cutoff(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), time.UTC)
	want := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Cutoff() = %v, want %v", got, want)
	}

	got = Cutoff(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	want = time.Date(2024, 6, 30, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Cutoff() across month = %v, want %v", got, want)
	}
}
