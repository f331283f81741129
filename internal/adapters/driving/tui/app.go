package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/coursa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
)

// statusInterval is how often the running view polls planner progress.
const statusInterval = 250 * time.Millisecond

// planDoneMsg carries the outcome of the planning run.
type planDoneMsg struct {
	plan *domain.Plan
	err  error
}

// statusTickMsg triggers a progress refresh while the run is in flight.
type statusTickMsg struct{}

// App is the planning progress TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// spinner animates while the run is in flight.
	spinner spinner.Model

	// status is the latest progress snapshot.
	status driving.RunStatus

	// plan is the finished plan, nil while running.
	plan *domain.Plan

	// err holds the run error, if any.
	err error

	// done indicates the run has finished.
	done bool

	// width and height are terminal dimensions.
	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		spinner: sp,
	}, nil
}

// WithContext sets the context used for the planning run.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the planning run and the progress ticker.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.runPlan(), a.tick(), a.spinner.Tick)
}

// runPlan executes the planning run in the background.
func (a *App) runPlan() tea.Cmd {
	return func() tea.Msg {
		plan, err := a.ports.Planner.Plan(a.ctx)
		return planDoneMsg{plan: plan, err: err}
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// Update handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return a, tea.Quit
		}
		if a.done {
			return a, tea.Quit
		}
		return a, nil

	case planDoneMsg:
		a.done = true
		a.plan = msg.plan
		a.err = msg.err
		return a, nil

	case statusTickMsg:
		if a.done {
			return a, nil
		}
		a.status = a.ports.Planner.Status()
		return a, a.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View renders the current state.
func (a *App) View() string {
	if a.err != nil {
		return a.styles.Error.Render(fmt.Sprintf("Planning failed: %v", a.err)) +
			a.styles.Help.Render("\n\nPress any key to exit.\n")
	}
	if a.done && a.plan != nil {
		return a.reportView()
	}
	return a.runningView()
}

func (a *App) runningView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Classifying corpus"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d folders, %d files classified\n",
		a.spinner.View(), a.status.FoldersClassified, a.status.FilesClassified))
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf(
		"  %d model calls, %d answered from cache", a.status.OracleCalls, a.status.CachedDecisions)))
	b.WriteString("\n")
	if a.status.Errors > 0 {
		b.WriteString(a.styles.Warning.Render(fmt.Sprintf("  %d degraded paths", a.status.Errors)))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("\nq to cancel\n"))
	return b.String()
}

func (a *App) reportView() string {
	report := a.plan.Report

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Plan complete"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Success.Render(fmt.Sprintf("  %d planned moves", len(a.plan.Mappings))))
	b.WriteString("\n\n")

	categories := make([]domain.Category, 0, len(report.FilesByCategory))
	for c := range report.FilesByCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		b.WriteString(fmt.Sprintf("  %-9s %d\n", c.String()+":", report.FilesByCategory[c]))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Folders:     %d decided, %d escalated\n",
		report.FoldersDecided, report.FoldersEscalated))
	b.WriteString(fmt.Sprintf("  Model calls: %d (%d answered from cache)\n",
		report.OracleCalls, report.CachedDecisions))

	if len(report.Fallbacks) > 0 {
		b.WriteString(a.styles.Warning.Render(fmt.Sprintf(
			"  %d files need manual review", len(report.Fallbacks))))
		b.WriteString("\n")
	}
	if len(report.StalePaths) > 0 {
		b.WriteString(a.styles.Muted.Render(fmt.Sprintf(
			"  %d stale records (coursa stale)", len(report.StalePaths))))
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("\nPress any key to exit.\n"))
	return b.String()
}
