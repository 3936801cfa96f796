package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/basinmap/internal/basin"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const barWidth = 50

type progressMsg struct {
	done, total int
}

type doneMsg struct {
	m   *basin.Map
	err error
}

// liveModel drives a render in the background and draws its progress.
type liveModel struct {
	title  string
	done   int
	total  int
	start  time.Time
	msgs   chan tea.Msg
	cancel context.CancelFunc

	result *basin.Map
	err    error
}

func (m liveModel) Init() tea.Cmd {
	return m.wait()
}

func (m liveModel) wait() tea.Cmd {
	return func() tea.Msg { return <-m.msgs }
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, nil // doneMsg with ctx.Err() follows
		}
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		return m, m.wait()
	case doneMsg:
		m.result, m.err = msg.m, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m liveModel) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("basinmap render: "+m.title) + "\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.done) / float64(m.total)
	}
	filled := int(frac * barWidth)
	bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
	sb.WriteString(fmt.Sprintf("%s %5.1f%%\n\n", bar, 100*frac))

	elapsed := time.Since(m.start).Round(100 * time.Millisecond)
	sb.WriteString(labelStyle.Render("rows") + valueStyle.Render(fmt.Sprintf("%d / %d", m.done, m.total)) + "\n")
	sb.WriteString(labelStyle.Render("elapsed") + valueStyle.Render(elapsed.String()) + "\n")
	if m.done > 0 && m.done < m.total {
		perRow := time.Since(m.start) / time.Duration(m.done)
		eta := (time.Duration(m.total-m.done) * perRow).Round(time.Second)
		sb.WriteString(labelStyle.Render("eta") + valueStyle.Render(eta.String()) + "\n")
	}
	sb.WriteString(helpStyle.Render("q: cancel"))
	return sb.String()
}

// RunLive renders with a terminal progress view and returns the finished map.
// Cancelling from the keyboard aborts the render and returns the context
// error.
func RunLive(ctx context.Context, title string, r *basin.Renderer, cfg basin.Config) (*basin.Map, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan tea.Msg, 64)
	r.OnProgress(func(done, total int) {
		select {
		case msgs <- progressMsg{done, total}:
		default: // drop updates rather than stall workers
		}
	})

	go func() {
		m, err := r.Render(ctx, cfg)
		msgs <- doneMsg{m, err}
	}()

	model := liveModel{
		title:  title,
		total:  cfg.GridSize,
		start:  time.Now(),
		msgs:   msgs,
		cancel: cancel,
	}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	lm := final.(liveModel)
	if lm.err != nil {
		return nil, lm.err
	}
	return lm.result, nil
}
