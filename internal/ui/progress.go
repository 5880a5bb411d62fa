// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fuhao/internal/buildpipeline"
)

const labelWidth = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	elapsedStyle = lipgloss.NewStyle().Faint(true)
)

// row — состояние одного файла сборки.
type row struct {
	path    string
	stage   buildpipeline.Stage
	status  buildpipeline.Status
	elapsed time.Duration
}

func (r row) finished() bool {
	switch r.status {
	case buildpipeline.StatusDone, buildpipeline.StatusCached, buildpipeline.StatusError:
		return true
	}
	return false
}

// label: для работающего файла показываем стадию, иначе статус.
func (r row) label() string {
	if r.status == buildpipeline.StatusWorking {
		if s, ok := stageVerbs[r.stage]; ok {
			return s
		}
	}
	return string(r.status)
}

func (r row) style() lipgloss.Style {
	switch r.status {
	case buildpipeline.StatusDone, buildpipeline.StatusCached:
		return okStyle
	case buildpipeline.StatusError:
		return failStyle
	case buildpipeline.StatusWorking:
		return activeStyle
	}
	return idleStyle
}

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageScan:      "scanning",
	buildpipeline.StageParse:     "parsing",
	buildpipeline.StageTransform: "lowering",
	buildpipeline.StageEmit:      "emitting",
	buildpipeline.StageWrite:     "writing",
}

// stageWeight — доля работы файла, уже сделанная к началу стадии.
var stageWeight = map[buildpipeline.Stage]float64{
	buildpipeline.StageScan:      0.1,
	buildpipeline.StageParse:     0.3,
	buildpipeline.StageTransform: 0.5,
	buildpipeline.StageEmit:      0.7,
	buildpipeline.StageWrite:     0.9,
}

type progressModel struct {
	title  string
	events <-chan buildpipeline.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []row
	byPath map[string]int
	phase  string
	width  int
	closed bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model for a build over files. It
// reads events until the channel is closed and then quits.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(activeStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))

	m := &progressModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    bar,
		rows:   make([]row, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = row{path: f, status: buildpipeline.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	}
	return m, nil
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		// события без файла описывают всю сборку
		if ev.Status == buildpipeline.StatusWorking {
			m.phase = stageVerbs[ev.Stage]
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	r.status, r.stage = ev.Status, ev.Stage
	if r.finished() {
		r.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

// percent: завершённые файлы идут целиком, остальные по весу стадии.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		if r.finished() {
			sum++
		} else if r.status == buildpipeline.StatusWorking {
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, cached, failed int) {
	for _, r := range m.rows {
		if !r.finished() {
			continue
		}
		finished++
		switch r.status {
		case buildpipeline.StatusCached:
			cached++
		case buildpipeline.StatusError:
			failed++
		}
	}
	return finished, cached, failed
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	header := m.title
	if m.phase != "" && !m.closed {
		header += " (" + m.phase + ")"
	}
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spin.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-labelWidth-16, 20)
	for _, r := range m.rows {
		label := r.style().Render(fmt.Sprintf("%*s", labelWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s", label, truncate(r.path, nameWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(elapsedStyle.Render(fmt.Sprintf(" %.1fms", float64(r.elapsed.Microseconds())/1000)))
		}
		b.WriteByte('\n')
	}

	finished, cached, failed := m.counts()
	fmt.Fprintf(&b, "\n  %d/%d files, %d cached, %d failed\n", finished, len(m.rows), cached, failed)
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// truncate укорачивает путь до width колонок терминала; "..." входит в width.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
