// Package analytics shows trend summaries over the daily log and offers export and clear.
package analytics

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"visionary/internal/core/model"
	"visionary/internal/core/trends"
	"visionary/internal/storage"
)

// Journal is the log history the window reads and clears.
type Journal interface {
	History(ctx context.Context) ([]model.DailyLog, error)
	Clear(ctx context.Context) error
}

// Window is the analytics view.
type Window struct {
	window  fyne.Window
	journal Journal
	logger  *zap.Logger
	now     func() time.Time
	logs    []model.DailyLog

	empty       *widget.Label
	stats       *fyne.Container
	insight     *widget.Label
	chart       *fyne.Container
	chartLayout *barsLayout
	exportBtn   *widget.Button
	clearBtn    *widget.Button
}

// Stat is one labelled figure of the summary grid.
type Stat struct {
	Label  string
	Value  string
	Rating trends.Rating
}

var ratingColors = map[trends.Rating]color.NRGBA{
	trends.RatingGood: {R: 34, G: 197, B: 94, A: 255},
	trends.RatingFair: {R: 234, G: 179, B: 8, A: 255},
	trends.RatingPoor: {R: 239, G: 68, B: 68, A: 255},
}

// New creates the analytics window.
func New(app fyne.App, journal Journal, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	window := app.NewWindow("Visionary Analytics")
	analytics := &Window{
		window:      window,
		journal:     journal,
		logger:      logger.Named("analytics"),
		now:         time.Now,
		empty:       widget.NewLabel("Not enough data yet. Complete a session or check in to see your trends."),
		stats:       container.NewGridWithColumns(3),
		insight:     widget.NewLabel(""),
		chartLayout: &barsLayout{},
	}
	analytics.empty.Wrapping = fyne.TextWrapWord
	analytics.insight.Wrapping = fyne.TextWrapWord
	analytics.chart = container.New(analytics.chartLayout)
	analytics.exportBtn = widget.NewButton("Export JSON", analytics.export)
	analytics.clearBtn = widget.NewButton("Clear data", analytics.confirmClear)
	analytics.clearBtn.Importance = widget.DangerImportance

	body := container.NewVBox(
		analytics.empty,
		analytics.stats,
		widget.NewLabelWithStyle("Eye strain, last 7 entries", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		analytics.chart,
		analytics.insight,
	)
	buttons := container.NewHBox(analytics.exportBtn, layout.NewSpacer(), analytics.clearBtn)
	window.SetContent(container.NewBorder(nil, container.NewPadded(buttons), nil, nil, container.NewPadded(body)))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(620, 520))
	return analytics
}

// Show reloads the history and displays the window.
func (analytics *Window) Show() {
	if err := analytics.Reload(); err != nil {
		dialog.ShowError(err, analytics.window)
	}
	analytics.window.Show()
	analytics.window.RequestFocus()
}

// Reload reads the history and re-renders the summary.
func (analytics *Window) Reload() error {
	logs, err := analytics.journal.History(context.Background())
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	analytics.logs = logs
	analytics.render(trends.Summarize(logs))
	return nil
}

func (analytics *Window) render(summary trends.Summary, ok bool) {
	analytics.stats.RemoveAll()
	if !ok {
		analytics.empty.Show()
		analytics.stats.Hide()
		analytics.chart.Hide()
		analytics.insight.SetText("")
		analytics.exportBtn.Disable()
		analytics.clearBtn.Disable()
		return
	}

	analytics.empty.Hide()
	for _, stat := range Stats(summary) {
		analytics.stats.Add(statCard(stat))
	}
	analytics.stats.Show()
	analytics.stats.Refresh()

	analytics.chart.RemoveAll()
	analytics.chartLayout.values = analytics.chartLayout.values[:0]
	for _, log := range summary.Recent {
		bar := canvas.NewRectangle(ratingColors[trends.RateStrain(float64(log.EyeStrain))])
		analytics.chart.Add(bar)
		analytics.chartLayout.values = append(analytics.chartLayout.values, float32(log.EyeStrain))
	}
	analytics.chart.Show()
	analytics.chart.Refresh()

	analytics.insight.SetText(summary.Insight())
	analytics.exportBtn.Enable()
	analytics.clearBtn.Enable()
}

// Stats lays out the summary figures shown in the grid.
func Stats(summary trends.Summary) []Stat {
	improvement := Stat{Label: "Improvement", Value: fmt.Sprintf("%d%%", summary.Improvement)}
	if summary.InsufficientData {
		improvement.Value = "not enough data"
	} else if summary.Improvement > 5 {
		improvement.Rating = trends.RatingGood
	}
	return []Stat{
		{Label: "Avg eye strain", Value: fmt.Sprintf("%.1f", summary.AvgStrain), Rating: trends.RateStrain(summary.AvgStrain)},
		{Label: "Avg clarity", Value: fmt.Sprintf("%.1f", summary.AvgClarity), Rating: trends.RateClarity(summary.AvgClarity)},
		{Label: "Avg sleep", Value: fmt.Sprintf("%.1f", summary.AvgSleep)},
		{Label: "Avg screen time", Value: fmt.Sprintf("%.1f h", summary.AvgScreenTime)},
		improvement,
		{Label: "Days logged", Value: fmt.Sprintf("%d", summary.Days)},
	}
}

func statCard(stat Stat) fyne.CanvasObject {
	value := canvas.NewText(stat.Value, color.NRGBA{R: 241, G: 245, B: 249, A: 255})
	if rated, ok := ratingColors[stat.Rating]; ok {
		value.Color = rated
	}
	value.TextStyle = fyne.TextStyle{Bold: true}
	value.TextSize = 20
	return container.NewVBox(widget.NewLabel(stat.Label), value)
}

func (analytics *Window) export() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, analytics.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if err := storage.ExportJSON(writer, analytics.logs); err != nil {
			analytics.logger.Error("export failed", zap.Error(err))
			dialog.ShowError(err, analytics.window)
			return
		}
		analytics.logger.Info("journal exported", zap.String("uri", writer.URI().String()), zap.Int("days", len(analytics.logs)))
	}, analytics.window)
	save.SetFileName(storage.ExportFileName(analytics.now()))
	save.Show()
}

func (analytics *Window) confirmClear() {
	dialog.ShowConfirm("Clear data", "Delete every check-in and session record? This cannot be undone.", func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := analytics.clear(); err != nil {
			dialog.ShowError(err, analytics.window)
		}
	}, analytics.window)
}

func (analytics *Window) clear() error {
	if err := analytics.journal.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	analytics.logger.Info("journal cleared")
	return analytics.Reload()
}

// barsLayout draws one bar per value on a 0..10 scale.
type barsLayout struct {
	values []float32
}

func (layout *barsLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	slot := size.Width / float32(len(objects))
	gap := slot * 0.2
	for index, object := range objects {
		value := float32(0)
		if index < len(layout.values) {
			value = layout.values[index]
		}
		height := size.Height * value / 10
		object.Move(fyne.NewPos(float32(index)*slot+gap/2, size.Height-height))
		object.Resize(fyne.NewSize(slot-gap, height))
	}
}

func (layout *barsLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(280, 120)
}
