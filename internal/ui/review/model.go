package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	schedulingdto "srs/internal/modules/scheduling/dto"
	"srs/internal/ui/theme"
)

// SchedulerPort is what the review loop needs from the scheduler.
type SchedulerPort interface {
	Due(ctx context.Context, days, limit int) ([]schedulingdto.StateOutput, error)
	Preview(ctx context.Context, itemID string) (schedulingdto.PreviewOutput, error)
	Review(ctx context.Context, itemID, response string) (schedulingdto.ReviewOutput, error)
}

type QueueLoadedMsg struct {
	Items []schedulingdto.StateOutput
	Err   error
}

type PreviewLoadedMsg struct {
	Preview schedulingdto.PreviewOutput
	Err     error
}

type ReviewedMsg struct {
	Out schedulingdto.ReviewOutput
	Err error
}

type keyMap struct {
	Again key.Binding
	Hard  key.Binding
	Good  key.Binding
	Easy  key.Binding
	Skip  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Again: key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1/a", "again")),
		Hard:  key.NewBinding(key.WithKeys("2", "h"), key.WithHelp("2/h", "hard")),
		Good:  key.NewBinding(key.WithKeys("3", "g", " "), key.WithHelp("3/g", "good")),
		Easy:  key.NewBinding(key.WithKeys("4", "e"), key.WithHelp("4/e", "easy")),
		Skip:  key.NewBinding(key.WithKeys("s", "right"), key.WithHelp("s", "skip")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Again, k.Hard, k.Good, k.Easy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Again, k.Hard, k.Good, k.Easy},
		{k.Skip, k.Help, k.Quit},
	}
}

// Model walks the due queue one item at a time. Each answer is sent to the
// scheduler and acknowledged before the next item is shown.
type Model struct {
	port     SchedulerPort
	days     int
	limit    int
	keys     keyMap
	help     help.Model
	showHelp bool

	queue    []schedulingdto.StateOutput
	preview  schedulingdto.PreviewOutput
	pending  bool
	reviewed int
	status   string
	err      error
	width    int
}

func NewModel(port SchedulerPort, days, limit int) Model {
	return Model{port: port, days: days, limit: limit, keys: defaultKeys(), help: help.New(), pending: true}
}

func (m Model) Init() tea.Cmd {
	return m.loadQueue()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case QueueLoadedMsg:
		m.pending = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.queue = msg.Items
		return m, m.loadPreview()

	case PreviewLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.preview = msg.Preview
		return m, nil

	case ReviewedMsg:
		m.pending = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.reviewed++
		m.status = fmt.Sprintf("%s: %s, next in %d days (%s)", msg.Out.ItemID, msg.Out.Response, msg.Out.Interval, msg.Out.Due.Format("2006-01-02"))
		if len(m.queue) > 0 {
			m.queue = m.queue[1:]
		}
		m.preview = schedulingdto.PreviewOutput{}
		return m, m.loadPreview()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}
	if m.pending || len(m.queue) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Again):
		return m.answer("again")
	case key.Matches(msg, m.keys.Hard):
		return m.answer("hard")
	case key.Matches(msg, m.keys.Good):
		return m.answer("good")
	case key.Matches(msg, m.keys.Easy):
		return m.answer("easy")
	case key.Matches(msg, m.keys.Skip):
		m.queue = append(m.queue[1:], m.queue[0])
		m.preview = schedulingdto.PreviewOutput{}
		return m, m.loadPreview()
	}
	return m, nil
}

func (m Model) answer(response string) (tea.Model, tea.Cmd) {
	m.pending = true
	itemID := m.queue[0].ItemID
	port := m.port
	return m, func() tea.Msg {
		out, err := port.Review(context.Background(), itemID, response)
		return ReviewedMsg{Out: out, Err: err}
	}
}

func (m Model) loadQueue() tea.Cmd {
	port, days, limit := m.port, m.days, m.limit
	return func() tea.Msg {
		items, err := port.Due(context.Background(), days, limit)
		return QueueLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) loadPreview() tea.Cmd {
	if len(m.queue) == 0 {
		return nil
	}
	port, itemID := m.port, m.queue[0].ItemID
	return func() tea.Msg {
		preview, err := port.Preview(context.Background(), itemID)
		return PreviewLoadedMsg{Preview: preview, Err: err}
	}
}

// Current is the item waiting for an answer, if any.
func (m Model) Current() (schedulingdto.StateOutput, bool) {
	if len(m.queue) == 0 {
		return schedulingdto.StateOutput{}, false
	}
	return m.queue[0], true
}

func (m Model) Reviewed() int { return m.reviewed }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("srs review"))
	b.WriteString(theme.Muted.Render(fmt.Sprintf("  %d due, %d reviewed", len(m.queue), m.reviewed)))
	b.WriteString("\n\n")

	switch {
	case m.pending && len(m.queue) == 0:
		b.WriteString(theme.Muted.Render("loading queue..."))
	case len(m.queue) == 0:
		b.WriteString(theme.Good.Render("Nothing left to review."))
	default:
		b.WriteString(m.renderCurrent())
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + theme.Error.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + theme.Muted.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return theme.App.Render(b.String())
}

func (m Model) renderCurrent() string {
	item := m.queue[0]
	lines := []string{
		theme.Hot.Render(item.ItemID),
		theme.Muted.Render(fmt.Sprintf("due %s · interval %dd · ease %d · reps %d · lapses %d",
			item.Due.Format("2006-01-02"), item.Interval, item.Ease, item.Repetitions, item.Lapses)),
	}
	if len(m.preview.Options) > 0 && m.preview.ItemID == item.ItemID {
		buttons := make([]string, 0, len(m.preview.Options))
		for i, opt := range m.preview.Options {
			label := fmt.Sprintf("%d %s · %dd", i+1, opt.Response, opt.Interval)
			buttons = append(buttons, theme.ResponseStyle(opt.Response).Render(label))
		}
		lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(buttons, "   ")))
	}
	return theme.PaneActive.Render(strings.Join(lines, "\n"))
}
