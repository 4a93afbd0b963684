// Package report turns daily CSV activity logs into work/break reports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/deni-m/standupTracker/internal/storage"
)

// PeriodType classifies a timeline period.
type PeriodType string

const (
	PeriodWork  PeriodType = "work"
	PeriodBreak PeriodType = "break"
)

// Period is one contiguous work or break span within the day.
type Period struct {
	Start time.Time
	End   time.Time
	Type  PeriodType
}

// WindowStat aggregates time spent in one window title.
type WindowStat struct {
	Title   string
	Seconds int
	Percent float64
}

// AppStat aggregates time spent in one application.
type AppStat struct {
	Name    string
	Seconds int
	Percent float64
	Windows []WindowStat
}

// Day is the parsed result for one daily log.
type Day struct {
	Date              time.Time
	Exists            bool
	StartTime         time.Time
	EndTime           time.Time
	TotalWorkSeconds  int
	TotalBreakSeconds int
	Periods           []Period
	Apps              []AppStat
}

// Parser reads daily CSV logs from a logs folder.
type Parser struct {
	logsDir string
	now     func() time.Time
}

// NewParser creates a parser over the given logs folder.
func NewParser(logsDir string) *Parser {
	return &Parser{logsDir: logsDir, now: time.Now}
}

// LogPath returns the CSV path for a date.
func (parser *Parser) LogPath(date time.Time) string {
	return storage.NewActivityLog(parser.logsDir).LogPath(date)
}

// ParseDay extracts work/break periods and per-app statistics for one date.
// Rows before the first SESSION_START are skipped: entries carried over from
// before midnight belong to the previous day.
func (parser *Parser) ParseDay(date time.Time) (*Day, error) {
	day := &Day{Date: date}

	file, err := os.Open(parser.LogPath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return day, nil
		}
		return nil, errors.Wrap(err, "open daily log")
	}
	defer file.Close()

	day.Exists = true

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var (
		header         map[string]int
		sessionStarted bool
		inWork         bool
		periodStart    time.Time
		appTotals      = map[string]map[string]int{}
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if header == nil {
			header = indexHeader(record)
			continue
		}

		startText := field(record, header, "start")
		process := field(record, header, "process")
		if startText == "" {
			continue
		}
		rowTime, err := parseRowTime(date, startText)
		if err != nil {
			continue
		}
		if !sessionStarted && process != storage.MarkerSessionStart {
			continue
		}

		switch {
		case process == storage.MarkerSessionStart:
			sessionStarted = true
			if !periodStart.IsZero() {
				day.Periods = append(day.Periods, Period{Start: periodStart, End: rowTime, Type: periodType(inWork)})
			}
			periodStart = rowTime
			inWork = true
			if day.StartTime.IsZero() {
				day.StartTime = rowTime
			}
			day.EndTime = rowTime

		case process == storage.MarkerBreakStart:
			if !periodStart.IsZero() && inWork {
				day.Periods = append(day.Periods, Period{Start: periodStart, End: rowTime, Type: PeriodWork})
			}
			periodStart = rowTime
			inWork = false
			day.EndTime = rowTime

		case process == storage.MarkerSessionEnd:
			if !periodStart.IsZero() && inWork {
				day.Periods = append(day.Periods, Period{Start: periodStart, End: rowTime, Type: PeriodWork})
			}
			periodStart = time.Time{}
			inWork = false
			day.EndTime = rowTime

		case strings.HasPrefix(process, storage.MarkerDailyTotal):
			if total, err := strconv.Atoi(field(record, header, "end")); err == nil {
				day.TotalWorkSeconds = total
			}

		default:
			duration, _ := strconv.Atoi(field(record, header, "duration_sec"))
			if duration > 0 {
				appName := strings.TrimSuffix(process, ".exe")
				title := field(record, header, "title")
				if appTotals[appName] == nil {
					appTotals[appName] = map[string]int{}
				}
				appTotals[appName][title] += duration
			}
			if day.StartTime.IsZero() {
				day.StartTime = rowTime
			}
			day.EndTime = rowTime
		}
	}

	parser.closeOpenPeriod(day, periodStart, inWork)
	parser.finalizeTotals(day)
	day.Apps = buildAppStats(appTotals)
	return day, nil
}

// closeOpenPeriod caps a still-open period at the last activity, or at now
// for the ongoing day.
func (parser *Parser) closeOpenPeriod(day *Day, periodStart time.Time, inWork bool) {
	if periodStart.IsZero() {
		return
	}
	end := day.EndTime
	if sameDate(day.Date, parser.now()) {
		end = parser.now()
	} else if end.IsZero() {
		end = time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 23, 59, 59, 0, day.Date.Location())
	}
	day.Periods = append(day.Periods, Period{Start: periodStart, End: end, Type: periodType(inWork)})
}

func (parser *Parser) finalizeTotals(day *Day) {
	if day.TotalWorkSeconds == 0 {
		for _, period := range day.Periods {
			if period.Type == PeriodWork {
				day.TotalWorkSeconds += int(period.End.Sub(period.Start) / time.Second)
			}
		}
	}
	if day.StartTime.IsZero() || day.EndTime.IsZero() {
		return
	}
	last := day.EndTime
	if sameDate(day.Date, parser.now()) && parser.now().After(last) {
		last = parser.now()
		day.EndTime = last
	}
	daySeconds := int(last.Sub(day.StartTime) / time.Second)
	if breakSeconds := daySeconds - day.TotalWorkSeconds; breakSeconds > 0 {
		day.TotalBreakSeconds = breakSeconds
	}
}

func buildAppStats(appTotals map[string]map[string]int) []AppStat {
	var grandTotal int
	for _, windows := range appTotals {
		for _, seconds := range windows {
			grandTotal += seconds
		}
	}
	if grandTotal == 0 {
		return nil
	}

	apps := make([]AppStat, 0, len(appTotals))
	for name, windows := range appTotals {
		app := AppStat{Name: name}
		for title, seconds := range windows {
			app.Seconds += seconds
			if title != "" {
				app.Windows = append(app.Windows, WindowStat{Title: title, Seconds: seconds})
			}
		}
		app.Percent = 100 * float64(app.Seconds) / float64(grandTotal)
		for index := range app.Windows {
			app.Windows[index].Percent = 100 * float64(app.Windows[index].Seconds) / float64(app.Seconds)
		}
		sort.Slice(app.Windows, func(left, right int) bool {
			return app.Windows[left].Seconds > app.Windows[right].Seconds
		})
		apps = append(apps, app)
	}
	sort.Slice(apps, func(left, right int) bool {
		return apps[left].Seconds > apps[right].Seconds
	})
	return apps
}

func indexHeader(record []string) map[string]int {
	header := make(map[string]int, len(record))
	for index, name := range record {
		header[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = index
	}
	return header
}

func field(record []string, header map[string]int, name string) string {
	index, ok := header[name]
	if !ok || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func parseRowTime(date time.Time, text string) (time.Time, error) {
	clock, err := time.Parse("15:04:05", text)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location()), nil
}

func periodType(inWork bool) PeriodType {
	if inWork {
		return PeriodWork
	}
	return PeriodBreak
}

func sameDate(left, right time.Time) bool {
	return left.Year() == right.Year() && left.YearDay() == right.YearDay()
}

// FormatDuration renders seconds as HH:MM:SS.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
