package services

import (
	"testing"
	"time"
)

func utcHour(hour int) time.Time {
	return time.Date(2025, 6, 15, hour, 30, 0, 0, time.UTC)
}

func TestParseAutoStartMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AutoStartMode
		wantErr bool
	}{
		{"", AutoStartDisabled, false},
		{"disabled", AutoStartDisabled, false},
		{"login", AutoStartOnLogin, false},
		{"hourly", AutoStartHourly, false},
		{"daily", AutoStartDaily, false},
		{"weekly", AutoStartDisabled, true},
	}
	for _, tt := range tests {
		got, err := ParseAutoStartMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAutoStartMode(%q): err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAutoStartMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAutoStartHourlyFiresOnHourChange(t *testing.T) {
	var tracker autoStartTracker
	hours := []int{5, 5, 6, 6, 7}
	want := []bool{false, false, true, false, true}
	for i, h := range hours {
		if got := tracker.observe(AutoStartHourly, 0, utcHour(h)); got != want[i] {
			t.Errorf("observation %d (hour %d): fired = %v, want %v", i, h, got, want[i])
		}
	}
}

func TestAutoStartDailyFiresOnDayChange(t *testing.T) {
	var tracker autoStartTracker
	days := []time.Time{
		time.Date(2025, 6, 15, 23, 50, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 6, 16, 0, 5, 0, 0, time.UTC),
		time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC),
	}
	want := []bool{false, false, true, false}
	for i, now := range days {
		if got := tracker.observe(AutoStartDaily, 0, now); got != want[i] {
			t.Errorf("observation %d (%v): fired = %v, want %v", i, now, got, want[i])
		}
	}
}

func TestAutoStartLoginFiresOnWorldEntry(t *testing.T) {
	var tracker autoStartTracker
	steps := []struct {
		mapID int
		want  bool
	}{
		{0, false}, // still at character select
		{5, true},  // entered the world
		{7, false}, // map change, not a login
		{0, false}, // back to character select
		{3, true},  // entered again
	}
	now := utcHour(10)
	for i, step := range steps {
		if got := tracker.observe(AutoStartOnLogin, step.mapID, now); got != step.want {
			t.Errorf("step %d (map %d): fired = %v, want %v", i, step.mapID, got, step.want)
		}
	}
}

func TestAutoStartDisabledNeverFires(t *testing.T) {
	var tracker autoStartTracker
	// Hour change, day change and world entry all at once.
	tracker.observe(AutoStartDisabled, 0, time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC))
	if tracker.observe(AutoStartDisabled, 5, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Error("disabled mode must never fire")
	}
}

func TestAutoStartModeSwitchStartsPrimed(t *testing.T) {
	var tracker autoStartTracker
	// Signals are tracked even while disabled, so flipping to hourly does
	// not fire retroactively for an hour boundary already crossed.
	tracker.observe(AutoStartDisabled, 0, utcHour(5))
	tracker.observe(AutoStartDisabled, 0, utcHour(6))
	if tracker.observe(AutoStartHourly, 0, utcHour(6)) {
		t.Error("mode switch must not fire without a fresh boundary")
	}
	if !tracker.observe(AutoStartHourly, 0, utcHour(7)) {
		t.Error("next hour boundary after the switch must fire")
	}
}
