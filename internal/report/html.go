package report

import (
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

type timelineView struct {
	Type         PeriodType
	Label        string
	LeftPercent  float64
	WidthPercent float64
}

type windowView struct {
	Title   string
	Time    string
	Percent float64
}

type appView struct {
	Name    string
	Time    string
	Percent float64
	Windows []windowView
}

type reportView struct {
	Title       string
	Date        string
	Missing     bool
	StartTime   string
	EndTime     string
	WorkTime    string
	BreakTime   string
	Timeline    []timelineView
	HourLabels  []string
	Apps        []appView
	GeneratedAt string
}

// DefaultOutputPath returns the report file path for a date under reportDir.
func DefaultOutputPath(reportDir string, date time.Time) string {
	return filepath.Join(reportDir, "report_"+date.Format("2006-01-02")+".html")
}

// RenderHTML writes the day report to outputPath, creating parent folders as
// needed, and returns the written path.
func RenderHTML(day *Day, outputPath string) (string, error) {
	view := buildView(day)

	parsed, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", errors.Wrap(err, "parse report template")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", errors.Wrap(err, "create report directory")
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return "", errors.Wrap(err, "create report file")
	}
	defer file.Close()

	if err := parsed.Execute(file, view); err != nil {
		return "", errors.Wrap(err, "render report")
	}
	return outputPath, nil
}

func buildView(day *Day) reportView {
	view := reportView{
		Title:       "Work / Break Report - " + day.Date.Format("2006-01-02"),
		Date:        day.Date.Format("2006-01-02"),
		Missing:     !day.Exists,
		StartTime:   "—",
		EndTime:     "—",
		WorkTime:    FormatDuration(day.TotalWorkSeconds),
		BreakTime:   FormatDuration(day.TotalBreakSeconds),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	if !day.StartTime.IsZero() {
		view.StartTime = day.StartTime.Format("15:04:05")
	}
	if !day.EndTime.IsZero() {
		view.EndTime = day.EndTime.Format("15:04:05")
	}

	for _, period := range day.Periods {
		start := minutesIntoDay(period.Start)
		end := minutesIntoDay(period.End)
		view.Timeline = append(view.Timeline, timelineView{
			Type:         period.Type,
			Label:        period.Start.Format("15:04:05") + " - " + period.End.Format("15:04:05"),
			LeftPercent:  100 * start / minutesPerDay,
			WidthPercent: 100 * (end - start) / minutesPerDay,
		})
	}

	for hour := 0; hour <= 24; hour += 2 {
		view.HourLabels = append(view.HourLabels, FormatDuration(hour*3600)[:5])
	}

	for _, app := range day.Apps {
		appEntry := appView{
			Name:    app.Name,
			Time:    FormatDuration(app.Seconds),
			Percent: app.Percent,
		}
		for _, window := range app.Windows {
			appEntry.Windows = append(appEntry.Windows, windowView{
				Title:   window.Title,
				Time:    FormatDuration(window.Seconds),
				Percent: window.Percent,
			})
		}
		view.Apps = append(view.Apps, appEntry)
	}
	return view
}

const minutesPerDay = 1440

func minutesIntoDay(moment time.Time) float64 {
	return float64(moment.Hour())*60 + float64(moment.Minute()) + float64(moment.Second())/60
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
	font-family: 'Segoe UI', Tahoma, sans-serif;
	background: linear-gradient(135deg, #1e1e2e 0%, #2a2a3e 100%);
	color: #e0e0e0;
	padding: 20px;
	min-height: 100vh;
}
.container { max-width: 1400px; margin: 0 auto; }
h1 { font-size: 28px; margin-bottom: 30px; color: #fff; font-weight: 400; }
h2 { font-size: 20px; color: #fff; font-weight: 400; margin-bottom: 20px; }
.stats-grid {
	display: grid;
	grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
	gap: 20px;
	margin-bottom: 40px;
}
.card {
	background: rgba(40, 40, 60, 0.6);
	border: 1px solid rgba(100, 100, 120, 0.3);
	border-radius: 8px;
	padding: 20px;
}
.stat-label {
	font-size: 13px;
	color: #a0a0b0;
	margin-bottom: 8px;
	text-transform: uppercase;
	letter-spacing: 0.5px;
}
.stat-value { font-size: 32px; color: #fff; font-weight: 300; font-family: Consolas, monospace; }
.timeline-bar {
	position: relative;
	width: 100%;
	height: 40px;
	background: rgba(30, 30, 40, 0.8);
	border-radius: 4px;
	margin-top: 20px;
}
.period { position: absolute; height: 100%; top: 0; border-radius: 2px; }
.period.work { background: linear-gradient(90deg, #4ade80 0%, #22c55e 100%); }
.period.break { background: linear-gradient(90deg, #fbbf24 0%, #f59e0b 100%); }
.timeline-labels {
	display: flex;
	justify-content: space-between;
	margin-top: 8px;
	font-size: 11px;
	color: #808090;
	font-family: Consolas, monospace;
}
.legend { display: flex; gap: 30px; margin-top: 20px; font-size: 13px; }
.legend-item { display: flex; align-items: center; gap: 8px; }
.legend-color { width: 20px; height: 12px; border-radius: 2px; }
.legend-color.work { background: #22c55e; }
.legend-color.break { background: #f59e0b; }
.note { margin-top: 20px; font-size: 12px; color: #808090; font-style: italic; }
.error {
	background: rgba(220, 38, 38, 0.1);
	border: 1px solid rgba(220, 38, 38, 0.3);
	color: #fca5a5;
	padding: 20px;
	border-radius: 8px;
}
.app-stats { margin-top: 40px; }
.app-item, .window-item {
	display: flex;
	align-items: center;
	background: rgba(50, 50, 70, 0.4);
	border-radius: 6px;
	padding: 10px 16px;
	margin-top: 6px;
	overflow: hidden;
}
.window-item { background: rgba(30, 30, 50, 0.4); margin-left: 32px; padding: 6px 12px; }
.app-name, .window-title {
	flex: 1;
	font-size: 14px;
	overflow: hidden;
	text-overflow: ellipsis;
	white-space: nowrap;
}
.window-title { color: #b0b0c0; font-size: 13px; }
.app-time, .window-time {
	color: #a0a0b0;
	font-family: Consolas, monospace;
	font-size: 13px;
	margin-right: 16px;
	min-width: 70px;
}
.bar {
	width: 200px;
	height: 18px;
	background: rgba(30, 30, 40, 0.8);
	border-radius: 9px;
	overflow: hidden;
	flex-shrink: 0;
}
.bar-fill { height: 100%; background: linear-gradient(90deg, #6366f1 0%, #8b5cf6 100%); }
.window-item .bar { width: 150px; height: 14px; }
.window-item .bar-fill { background: linear-gradient(90deg, #06b6d4 0%, #0891b2 100%); }
.percent { color: #808090; font-size: 12px; margin-left: 12px; min-width: 50px; text-align: right; }
</style>
</head>
<body>
<div class="container">
	<h1>Work / Break Report</h1>
{{if .Missing}}
	<div class="error">No log file found for {{.Date}}</div>
{{else}}
	<div class="stats-grid">
		<div class="card"><div class="stat-label">Start Time</div><div class="stat-value">{{.StartTime}}</div></div>
		<div class="card"><div class="stat-label">End Time</div><div class="stat-value">{{.EndTime}}</div></div>
		<div class="card"><div class="stat-label">Total Work Time</div><div class="stat-value">{{.WorkTime}}</div></div>
		<div class="card"><div class="stat-label">Total Break Time</div><div class="stat-value">{{.BreakTime}}</div></div>
	</div>
	<div class="card">
		<div class="timeline-bar">
{{range .Timeline}}			<div class="period {{.Type}}" style="left: {{printf "%.2f" .LeftPercent}}%; width: {{printf "%.2f" .WidthPercent}}%;" title="{{.Label}}"></div>
{{end}}		</div>
		<div class="timeline-labels">
{{range .HourLabels}}			<span>{{.}}</span>
{{end}}		</div>
		<div class="legend">
			<div class="legend-item"><div class="legend-color work"></div><span>Work Time</span></div>
			<div class="legend-item"><div class="legend-color break"></div><span>Break Time</span></div>
		</div>
		<div class="note">Report generated: {{.GeneratedAt}}</div>
	</div>
{{if .Apps}}
	<div class="card app-stats">
		<h2>Application Usage Statistics</h2>
{{range .Apps}}		<div class="app-item">
			<div class="app-name" title="{{.Name}}">{{.Name}}</div>
			<div class="app-time">{{.Time}}</div>
			<div class="bar"><div class="bar-fill" style="width: {{printf "%.1f" .Percent}}%;"></div></div>
			<div class="percent">{{printf "%.1f" .Percent}}%</div>
		</div>
{{range .Windows}}		<div class="window-item">
			<div class="window-title" title="{{.Title}}">{{.Title}}</div>
			<div class="window-time">{{.Time}}</div>
			<div class="bar"><div class="bar-fill" style="width: {{printf "%.1f" .Percent}}%;"></div></div>
			<div class="percent">{{printf "%.1f" .Percent}}%</div>
		</div>
{{end}}{{end}}	</div>
{{end}}
{{end}}
</div>
</body>
</html>
`
