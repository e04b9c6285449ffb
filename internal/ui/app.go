// Package ui is the terminal front-end. It only consumes the controller
// surface: the scan tree, the drive list, and the progress event stream.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumipallolabs/diskscope/internal/core"
	"github.com/lumipallolabs/diskscope/internal/model"
	"github.com/lumipallolabs/diskscope/internal/scanner"
	"github.com/lumipallolabs/diskscope/internal/util"
)

// Config holds the scan request the app runs on startup.
type Config struct {
	Path    string
	Depth   int
	Options scanner.ScanOptions
}

// scanDoneMsg is sent when the scan resolves
type scanDoneMsg struct {
	root *model.DiskItem
	err  error
}

// eventMsg wraps one controller event
type eventMsg struct {
	event core.Event
	ok    bool
}

// App drives the scan-progress view. It quits once the scan resolves;
// the final tree is rendered by the caller.
type App struct {
	ctrl *core.Controller
	cfg  Config

	spin spinner.Model
	bar  progress.Model

	prog     scanner.Progress
	root     *model.DiskItem
	err      error
	width    int
	quitting bool
}

// NewApp creates the progress app for one scan request.
func NewApp(ctrl *core.Controller, cfg Config) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = TitleStyle

	return App{
		ctrl:  ctrl,
		cfg:   cfg,
		spin:  s,
		bar:   progress.New(progress.WithDefaultGradient()),
		width: 80,
	}
}

// Root returns the completed tree, if any.
func (a App) Root() *model.DiskItem { return a.root }

// Err returns the scan failure, if any.
func (a App) Err() error { return a.err }

func (a App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.startScan(), a.listenEvents())
}

func (a App) startScan() tea.Cmd {
	return func() tea.Msg {
		root, err := a.ctrl.ScanDirectory(context.Background(), a.cfg.Path, a.cfg.Depth, a.cfg.Options)
		return scanDoneMsg{root: root, err: err}
	}
}

// listenEvents waits for the next controller event
func (a App) listenEvents() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-a.ctrl.Events()
		return eventMsg{event: e, ok: ok}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.bar.Width = msg.Width - 10
		return a, nil

	case eventMsg:
		if !msg.ok {
			return a, nil
		}
		var cmds []tea.Cmd
		if pe, isProgress := msg.event.(core.ScanProgressEvent); isProgress {
			a.prog = pe.Progress
			cmds = append(cmds, a.bar.SetPercent(pe.Progress.Percent/100))
		}
		cmds = append(cmds, a.listenEvents())
		return a, tea.Batch(cmds...)

	case scanDoneMsg:
		a.root = msg.root
		a.err = msg.err
		a.quitting = true
		return a, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case progress.FrameMsg:
		barModel, cmd := a.bar.Update(msg)
		a.bar = barModel.(progress.Model)
		return a, cmd
	}

	return a, nil
}

func (a App) View() string {
	if a.quitting {
		return ""
	}

	mode := "fast"
	if !a.cfg.Options.FastMode {
		mode = "comprehensive"
	}

	header := TitleStyle.Render("diskscope") + MutedStyle.Render(
		"  scanning "+a.cfg.Path+" ("+mode+")")

	counts := MutedStyle.Render(
		util.FormatCount(a.prog.ProcessedItems) + " / " +
			util.FormatCount(a.prog.TotalItems) + " items")

	current := MutedStyle.Render(util.TruncateString(a.prog.CurrentPath, a.width-4))

	return "\n " + a.spin.View() + header + "\n\n " +
		a.bar.View() + "  " + counts + "\n " + current + "\n\n " +
		MutedStyle.Render("press q to cancel") + "\n"
}
