package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deni-m/standupTracker/internal/core/model"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return rows
}

func fixedClock(moment time.Time) func() time.Time {
	return func() time.Time { return moment }
}

func TestAppendWritesHeaderAndRow(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

	activityLog := NewActivityLog(dir)
	activityLog.now = fixedClock(day)

	sample := model.ActiveSample{
		Process: "code",
		Title:   "main.go",
		Start:   day.Add(-90 * time.Second),
		End:     day,
	}
	if err := activityLog.Append(sample); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := activityLog.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rows := readRows(t, activityLog.LogPath(day))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one sample", len(rows))
	}
	wantHeader := []string{"start", "end", "duration_sec", "process", "title"}
	for index, name := range wantHeader {
		if rows[0][index] != name {
			t.Fatalf("header = %v, want %v", rows[0], wantHeader)
		}
	}
	row := rows[1]
	if row[0] != "09:58:30" || row[1] != "10:00:00" || row[2] != "90" || row[3] != "code" || row[4] != "main.go" {
		t.Errorf("sample row = %v", row)
	}
}

func TestSessionMarkersAndDailyTotal(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	activityLog := NewActivityLog(dir)
	activityLog.now = fixedClock(day)

	if err := activityLog.LogSessionStart(); err != nil {
		t.Fatalf("session start: %v", err)
	}
	sample := model.ActiveSample{Process: "code", Title: "main.go", Start: day, End: day.Add(2 * time.Minute)}
	if err := activityLog.Append(sample); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := activityLog.LogBreakStart(); err != nil {
		t.Fatalf("break start: %v", err)
	}
	if err := activityLog.LogSessionEndAndDailyTotal(); err != nil {
		t.Fatalf("session end: %v", err)
	}

	rows := readRows(t, activityLog.LogPath(day))
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}

	markers := []struct {
		row    []string
		marker string
	}{
		{rows[1], MarkerSessionStart},
		{rows[3], MarkerBreakStart},
		{rows[4], MarkerSessionEnd},
	}
	for _, check := range markers {
		if check.row[3] != check.marker || check.row[2] != "0" {
			t.Errorf("marker row = %v, want %s with zero duration", check.row, check.marker)
		}
	}

	total := rows[5]
	if total[3] != MarkerDailyTotal {
		t.Fatalf("last row = %v, want the daily total", total)
	}
	// The total lives in the end column; start stays a valid time of day.
	if total[1] != "120" {
		t.Errorf("daily total = %q, want 120", total[1])
	}
	if _, err := time.Parse("15:04:05", total[0]); err != nil {
		t.Errorf("total row start %q is not a time of day", total[0])
	}
}

func TestMidnightRolloverFinalizesOldFile(t *testing.T) {
	dir := t.TempDir()
	dayOne := time.Date(2026, 3, 2, 23, 50, 0, 0, time.Local)
	dayTwo := dayOne.Add(20 * time.Minute)

	activityLog := NewActivityLog(dir)
	activityLog.now = fixedClock(dayOne)

	sample := model.ActiveSample{Process: "code", Title: "a", Start: dayOne.Add(-time.Minute), End: dayOne}
	if err := activityLog.Append(sample); err != nil {
		t.Fatalf("append day one: %v", err)
	}

	activityLog.now = fixedClock(dayTwo)
	sample = model.ActiveSample{Process: "code", Title: "b", Start: dayTwo.Add(-time.Minute), End: dayTwo}
	if err := activityLog.Append(sample); err != nil {
		t.Fatalf("append day two: %v", err)
	}
	if err := activityLog.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	oldRows := readRows(t, activityLog.LogPath(dayOne))
	last := oldRows[len(oldRows)-1]
	if last[3] != MarkerDailyTotal || last[1] != "60" {
		t.Errorf("old file not finalized, last row = %v", last)
	}

	newRows := readRows(t, activityLog.LogPath(dayTwo))
	if len(newRows) != 2 {
		t.Fatalf("new file rows = %d, want header plus one sample", len(newRows))
	}
	if newRows[1][4] != "b" {
		t.Errorf("new file sample row = %v", newRows[1])
	}
}

func TestRestartRecoversRunningTotal(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)

	first := NewActivityLog(dir)
	first.now = fixedClock(day)
	sample := model.ActiveSample{Process: "code", Title: "a", Start: day.Add(-100 * time.Second), End: day}
	if err := first.Append(sample); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewActivityLog(dir)
	second.now = fixedClock(day.Add(time.Hour))
	sample = model.ActiveSample{Process: "code", Title: "b", Start: day.Add(time.Hour - 50*time.Second), End: day.Add(time.Hour)}
	if err := second.Append(sample); err != nil {
		t.Fatalf("append after restart: %v", err)
	}
	if err := second.LogSessionEndAndDailyTotal(); err != nil {
		t.Fatalf("session end: %v", err)
	}

	rows := readRows(t, second.LogPath(day))
	last := rows[len(rows)-1]
	if last[3] != MarkerDailyTotal {
		t.Fatalf("last row = %v, want the daily total", last)
	}
	if last[1] != "150" {
		t.Errorf("recovered total = %q, want 150", last[1])
	}
}

func TestLogPath(t *testing.T) {
	activityLog := NewActivityLog(filepath.Join("var", "logs"))
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	want := filepath.Join("var", "logs", "2026-03-02.csv")
	if got := activityLog.LogPath(date); got != want {
		t.Errorf("LogPath = %q, want %q", got, want)
	}
}
