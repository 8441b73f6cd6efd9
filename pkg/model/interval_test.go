package model

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2030, time.March, 4, hour, min, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "identical intervals",
			a:    Interval{Start: at(10, 0), End: at(11, 0)},
			b:    Interval{Start: at(10, 0), End: at(11, 0)},
			want: true,
		},
		{
			name: "partial overlap",
			a:    Interval{Start: at(10, 0), End: at(11, 0)},
			b:    Interval{Start: at(10, 30), End: at(11, 30)},
			want: true,
		},
		{
			name: "containment",
			a:    Interval{Start: at(9, 0), End: at(12, 0)},
			b:    Interval{Start: at(10, 0), End: at(11, 0)},
			want: true,
		},
		{
			name: "back to back does not overlap",
			a:    Interval{Start: at(10, 0), End: at(11, 0)},
			b:    Interval{Start: at(11, 0), End: at(12, 0)},
			want: false,
		},
		{
			name: "back to back reversed order",
			a:    Interval{Start: at(11, 0), End: at(12, 0)},
			b:    Interval{Start: at(10, 0), End: at(11, 0)},
			want: false,
		},
		{
			name: "disjoint",
			a:    Interval{Start: at(8, 0), End: at(9, 0)},
			b:    Interval{Start: at(14, 0), End: at(15, 0)},
			want: false,
		},
		{
			name: "one minute overlap at boundary",
			a:    Interval{Start: at(10, 0), End: at(11, 1)},
			b:    Interval{Start: at(11, 0), End: at(12, 0)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The predicate is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name    string
		i       Interval
		wantErr bool
	}{
		{"valid", Interval{Start: at(10, 0), End: at(11, 0)}, false},
		{"zero length", Interval{Start: at(10, 0), End: at(10, 0)}, true},
		{"inverted", Interval{Start: at(11, 0), End: at(10, 0)}, true},
		{"missing start", Interval{End: at(11, 0)}, true},
		{"missing end", Interval{Start: at(10, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.i.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
