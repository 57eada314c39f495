package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "bespec.dev/pkg/bespec/internal/model"
)

// TUI implements UI with an interactive Bubble Tea report viewer. Live run
// callbacks fall through to plain line output.
type TUI struct {
	*SimpleUI

	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(output), output: output}
}

// DisplayReport shows the report in a scrollable viewer. Reports that fit on
// screen are printed directly without starting a program.
func (t *TUI) DisplayReport(ctx context.Context, report m.RunReport, options ...DisplayOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := DisplayConfig{}
	for _, option := range options {
		option(&config)
	}

	model := newReportModel(report, config)

	// Get initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	// If the report fits on screen, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.content())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// reportReloadedMsg carries a freshly loaded report into the running viewer.
type reportReloadedMsg struct {
	report m.RunReport
}

// FollowReport shows the report and reloads it whenever updates fires. The
// caller owns the updates channel; closing it stops the reload loop.
func (t *TUI) FollowReport(ctx context.Context, report m.RunReport, load func() (m.RunReport, error), updates <-chan struct{}, options ...DisplayOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := DisplayConfig{}
	for _, option := range options {
		option(&config)
	}

	model := newReportModel(report, config)
	model.following = true

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-updates:
				if !ok {
					return
				}

				fresh, err := load()
				if err != nil {
					slog.Warn("reloading report", "error", err)
					continue
				}

				program.Send(reportReloadedMsg{report: fresh})
			}
		}
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// reportStyles holds the lipgloss styles for the viewer.
type reportStyles struct {
	title  lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	skip   lipgloss.Style
	footer lipgloss.Style
}

func defaultReportStyles() reportStyles {
	return reportStyles{
		title:  lipgloss.NewStyle().Bold(true),
		pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		skip:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		footer: lipgloss.NewStyle().Faint(true),
	}
}

// reportModel is the Bubble Tea model for the report viewer.
type reportModel struct {
	report    m.RunReport
	config    DisplayConfig
	styles    reportStyles
	viewport  viewport.Model
	width     int
	height    int
	ready     bool
	following bool
	status    string
	quitting  bool
}

func newReportModel(report m.RunReport, config DisplayConfig) reportModel {
	return reportModel{
		report: report,
		config: config,
		styles: defaultReportStyles(),
	}
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.layout()

		return rm, nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)

	case reportReloadedMsg:
		rm.report = msg.report
		rm.status = fmt.Sprintf("reloaded %s", time.Now().Format("15:04:05"))

		if rm.ready {
			rm.viewport.SetContent(rm.content())
		}

		return rm, nil
	}

	if rm.ready {
		var cmd tea.Cmd
		rm.viewport, cmd = rm.viewport.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

//nolint:exhaustive // We only handle the quit and jump keys; the viewport owns the rest
func (rm reportModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		rm.quitting = true
		return rm, tea.Quit
	default:
		// Handle other key types in the string switch below
	}

	switch msg.String() {
	case "q":
		rm.quitting = true
		return rm, tea.Quit

	case "f":
		rm.config.failuresOnly = !rm.config.failuresOnly
		if rm.ready {
			rm.viewport.SetContent(rm.content())
			rm.viewport.GotoTop()
		}

		return rm, nil

	case "g", "home":
		rm.viewport.GotoTop()
		return rm, nil

	case "G", "end":
		rm.viewport.GotoBottom()
		return rm, nil
	}

	// j/k, d/u and the page keys are handled by the viewport keymap.
	var cmd tea.Cmd
	rm.viewport, cmd = rm.viewport.Update(msg)

	return rm, cmd
}

// layout sizes or resizes the viewport beneath the header and footer rows.
func (rm *reportModel) layout() {
	// Reserve one line for the header and one for the footer.
	contentHeight := rm.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	if !rm.ready {
		rm.viewport = viewport.New(rm.width, contentHeight)
		rm.viewport.SetContent(rm.content())
		rm.ready = true

		return
	}

	rm.viewport.Width = rm.width
	rm.viewport.Height = contentHeight
}

// needsPagination reports whether the rendered report is too tall for the
// terminal. Unknown terminal size means no pagination.
func (rm reportModel) needsPagination() bool {
	if rm.height == 0 {
		return false
	}

	lines := strings.Count(rm.content(), "\n") + 1

	return lines > rm.height
}

func (rm reportModel) View() string {
	if rm.quitting {
		return ""
	}

	if !rm.ready {
		return "loading report..."
	}

	return fmt.Sprintf("%s\n%s\n%s", rm.headerView(), rm.viewport.View(), rm.footerView())
}

func (rm reportModel) headerView() string {
	title := fmt.Sprintf("bespec · run %s", rm.report.Info.ID)
	if rm.following {
		title += " · following"
	}

	return rm.styles.title.Render(title)
}

func (rm reportModel) footerView() string {
	help := "↑/k up · ↓/j down · d/u page · g/G top/bottom · f failures · q quit"
	if rm.status != "" {
		help = rm.status + " · " + help
	}

	return rm.styles.footer.Render(fmt.Sprintf("%s · %3.0f%%", help, rm.viewport.ScrollPercent()*100))
}

// content renders the styled report text shown inside the viewport.
func (rm reportModel) content() string {
	renderer := lineRenderer{
		pass: func(s string) string { return rm.styles.pass.Render(s) },
		fail: func(s string) string { return rm.styles.fail.Render(s) },
		skip: func(s string) string { return rm.styles.skip.Render(s) },
	}

	return renderReport(rm.report, rm.config, renderer)
}
