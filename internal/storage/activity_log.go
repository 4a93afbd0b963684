// Package storage persists tracker data: YAML settings and the per-day CSV
// activity log consumed by the report generator.
package storage

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/deni-m/standupTracker/internal/core/model"
)

// Marker rows recognized by the report parser. Marker and total rows carry a
// zero duration.
const (
	MarkerSessionStart = "SESSION_START"
	MarkerBreakStart   = "BREAK_START"
	MarkerSessionEnd   = "SESSION_END"
	MarkerDailyTotal   = "#TOTAL_ACTIVE_SEC"
)

const timeLayout = "15:04:05"

var csvHeader = []string{"start", "end", "duration_sec", "process", "title"}

// ActivityLog writes one CSV file per day, named YYYY-MM-DD.csv, with one row
// per closed window sample plus session markers. Crossing midnight finalizes
// the old file with its daily total before the new one is opened.
type ActivityLog struct {
	mu          sync.Mutex
	dir         string
	day         string
	file        *os.File
	totalActive time.Duration
	now         func() time.Time
}

// NewActivityLog creates a log rooted at dir. The directory is created on
// first write.
func NewActivityLog(dir string) *ActivityLog {
	return &ActivityLog{dir: dir, now: time.Now}
}

// LogPath returns the file path for the given date.
func (activityLog *ActivityLog) LogPath(date time.Time) string {
	return filepath.Join(activityLog.dir, date.Format("2006-01-02")+".csv")
}

// Append writes one closed sample row and accumulates the daily total.
func (activityLog *ActivityLog) Append(sample model.ActiveSample) error {
	activityLog.mu.Lock()
	defer activityLog.mu.Unlock()

	if err := activityLog.rotateLocked(); err != nil {
		return err
	}

	duration := sample.Duration()
	if duration < 0 {
		duration = 0
	}
	err := activityLog.writeRowLocked(
		sample.Start.Format(timeLayout),
		sample.End.Format(timeLayout),
		strconv.Itoa(int(duration/time.Second)),
		sample.Process,
		sample.Title,
	)
	if err != nil {
		return err
	}
	activityLog.totalActive += duration
	return nil
}

// LogSessionStart writes the SESSION_START marker.
func (activityLog *ActivityLog) LogSessionStart() error {
	return activityLog.writeMarker(MarkerSessionStart)
}

// LogBreakStart writes the BREAK_START marker.
func (activityLog *ActivityLog) LogBreakStart() error {
	return activityLog.writeMarker(MarkerBreakStart)
}

// LogSessionEndAndDailyTotal writes the SESSION_END marker followed by the
// daily total row.
func (activityLog *ActivityLog) LogSessionEndAndDailyTotal() error {
	activityLog.mu.Lock()
	defer activityLog.mu.Unlock()

	if err := activityLog.rotateLocked(); err != nil {
		return err
	}
	now := activityLog.now().Format(timeLayout)
	if err := activityLog.writeRowLocked(now, now, "0", MarkerSessionEnd, ""); err != nil {
		return err
	}
	return activityLog.writeTotalLocked()
}

// Close finalizes the open file without writing markers.
func (activityLog *ActivityLog) Close() error {
	activityLog.mu.Lock()
	defer activityLog.mu.Unlock()
	return activityLog.closeFileLocked()
}

func (activityLog *ActivityLog) writeMarker(marker string) error {
	activityLog.mu.Lock()
	defer activityLog.mu.Unlock()

	if err := activityLog.rotateLocked(); err != nil {
		return err
	}
	now := activityLog.now().Format(timeLayout)
	return activityLog.writeRowLocked(now, now, "0", marker, "")
}

// rotateLocked ensures a file for the current day is open. On rollover the
// old file is closed with its total and the running total is reset.
func (activityLog *ActivityLog) rotateLocked() error {
	today := activityLog.now().Format("2006-01-02")
	if activityLog.file != nil && activityLog.day == today {
		return nil
	}

	if activityLog.file != nil {
		if err := activityLog.writeTotalLocked(); err != nil {
			return err
		}
		if err := activityLog.closeFileLocked(); err != nil {
			return err
		}
		activityLog.totalActive = 0
	}

	if err := os.MkdirAll(activityLog.dir, 0o755); err != nil {
		return errors.Wrap(err, "create log directory")
	}

	path := filepath.Join(activityLog.dir, today+".csv")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return errors.Wrap(err, "open daily log")
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return errors.Wrap(err, "stat daily log")
	}

	activityLog.file = file
	activityLog.day = today

	if info.Size() == 0 {
		if err := activityLog.writeRowLocked(csvHeader...); err != nil {
			return err
		}
		return nil
	}

	// Restarted mid-day: recover the accumulated total from existing rows.
	activityLog.totalActive = recoverTotal(file)
	return nil
}

func (activityLog *ActivityLog) writeTotalLocked() error {
	now := activityLog.now().Format(timeLayout)
	totalSeconds := strconv.Itoa(int(activityLog.totalActive / time.Second))
	return activityLog.writeRowLocked(now, totalSeconds, "0", MarkerDailyTotal, "")
}

func (activityLog *ActivityLog) writeRowLocked(fields ...string) error {
	writer := csv.NewWriter(activityLog.file)
	if err := writer.Write(fields); err != nil {
		return errors.Wrap(err, "write log row")
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "flush log row")
	}
	return nil
}

func (activityLog *ActivityLog) closeFileLocked() error {
	if activityLog.file == nil {
		return nil
	}
	err := activityLog.file.Close()
	activityLog.file = nil
	activityLog.day = ""
	if err != nil {
		return errors.Wrap(err, "close daily log")
	}
	return nil
}

// recoverTotal sums the duration column of regular sample rows in an already
// started daily file.
func recoverTotal(file *os.File) time.Duration {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	defer file.Seek(0, io.SeekEnd)

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var total time.Duration
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) < 4 {
			continue
		}
		switch record[3] {
		case MarkerSessionStart, MarkerBreakStart, MarkerSessionEnd, MarkerDailyTotal, "process":
			continue
		}
		seconds, err := strconv.Atoi(record[2])
		if err != nil {
			continue
		}
		total += time.Duration(seconds) * time.Second
	}
	return total
}
