package domain

import (
	"testing"
	"time"
)

func validJob() *ScheduledJob {
	return &ScheduledJob{
		Name:       "daily occurrences",
		ReportType: ReportTypeOccurrences,
		Frequency:  FrequencyDaily,
		TimeOfDay:  "08:00",
		Format:     FormatExcel,
		IsActive:   true,
	}
}

func TestJobValidate(t *testing.T) {
	dow := 2
	dom := 31
	badDow := 7
	badDom := 32

	tests := []struct {
		name    string
		mutate  func(*ScheduledJob)
		wantErr bool
	}{
		{"valid daily", func(j *ScheduledJob) {}, false},
		{"missing name", func(j *ScheduledJob) { j.Name = "" }, true},
		{"bad frequency", func(j *ScheduledJob) { j.Frequency = "hourly" }, true},
		{"bad time", func(j *ScheduledJob) { j.TimeOfDay = "25:00" }, true},
		{"bad format", func(j *ScheduledJob) { j.Format = "pdf" }, true},
		{"weekly without day", func(j *ScheduledJob) { j.Frequency = FrequencyWeekly }, true},
		{"weekly with day", func(j *ScheduledJob) {
			j.Frequency = FrequencyWeekly
			j.DayOfWeek = &dow
		}, false},
		{"weekly day out of range", func(j *ScheduledJob) {
			j.Frequency = FrequencyWeekly
			j.DayOfWeek = &badDow
		}, true},
		{"monthly without day", func(j *ScheduledJob) { j.Frequency = FrequencyMonthly }, true},
		{"monthly day 31 allowed", func(j *ScheduledJob) {
			j.Frequency = FrequencyMonthly
			j.DayOfMonth = &dom
		}, false},
		{"monthly day out of range", func(j *ScheduledJob) {
			j.Frequency = FrequencyMonthly
			j.DayOfMonth = &badDom
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(job)
			err := job.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestJobIsDue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	job := validJob()
	if job.IsDue(now) {
		t.Error("job without next_run must not be due")
	}

	job.NextRun = &future
	if job.IsDue(now) {
		t.Error("job with future next_run must not be due")
	}

	job.NextRun = &past
	if !job.IsDue(now) {
		t.Error("job with past next_run must be due")
	}

	// Совпадение момента тоже считается наступившим.
	job.NextRun = &now
	if !job.IsDue(now) {
		t.Error("job due exactly now must be due")
	}

	job.IsActive = false
	if job.IsDue(now) {
		t.Error("inactive job must never be due")
	}
}

func TestRecordRun(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	next := now.Add(24 * time.Hour)

	job := validJob()
	job.RecordRun(now, next)

	if job.LastRun == nil || !job.LastRun.Equal(now) {
		t.Error("last_run not recorded")
	}
	if job.NextRun == nil || !job.NextRun.Equal(next) {
		t.Error("next_run not recorded")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"08:30", 8, 30, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"8", 0, 0, true},
		{"", 0, 0, true},
		{"ab:cd", 0, 0, true},
	}
	for _, tt := range tests {
		hour, minute, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (hour != tt.hour || minute != tt.minute) {
			t.Errorf("ParseTimeOfDay(%q) = %d:%d, want %d:%d", tt.in, hour, minute, tt.hour, tt.minute)
		}
	}
}
