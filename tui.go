package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"foe/config"
	"foe/log"
	"foe/playback"
)

// Player is the part of the playback controller the page drives.
type Player interface {
	Start() bool
	Stop(reason playback.StopReason) bool
	State() playback.State
}

type button int

const (
	btnFriend button = iota
	btnEnemy
	btnReset
	buttonCount
)

func (b button) String() string {
	switch b {
	case btnFriend:
		return "friend"
	case btnEnemy:
		return "enemy"
	case btnReset:
		return "reset"
	default:
		return "unknown"
	}
}

type panelState int

const (
	panelHidden panelState = iota
	panelEntering
	panelShown
	panelLeaving
)

type panelKind int

const (
	kindFriend panelKind = iota
	kindEnemy
)

// TUI message types
type pressReleaseMsg struct{ seq int }
type panelSettleMsg struct{ seq int }
type enemyStartMsg struct{ epoch int }

type pageModel struct {
	cfg    *config.Config
	player Player
	events <-chan playback.Event

	focus    button
	pressed  button
	pressing bool
	pressSeq int

	panel    panelState
	kind     panelKind
	message  []string
	panelSeq int

	// enemyEpoch is bumped by anything that cancels a pending enemy start.
	enemyEpoch int

	loops         int
	choices       int
	width, height int
	modeLine      string
	deviceLine    string
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

func newPageModel(cfg *config.Config, player Player, events <-chan playback.Event) pageModel {
	return pageModel{
		cfg:    cfg,
		player: player,
		events: events,
		focus:  btnFriend,
	}
}

func NewTUIProgram(m pageModel) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
}

func (m pageModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m pageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.enemyEpoch++
			m.player.Stop(playback.StopUnload)
			return m, tea.Quit
		case "f":
			return m.activate(btnFriend)
		case "e":
			return m.activate(btnEnemy)
		case "r":
			return m.activate(btnReset)
		case "left", "h", "shift+tab":
			m.focus = (m.focus + buttonCount - 1) % buttonCount
		case "right", "l", "tab":
			m.focus = (m.focus + 1) % buttonCount
		case "enter", " ":
			return m.activate(m.focus)
		}

	case tea.BlurMsg:
		// Terminal lost focus: the page is hidden.
		m.enemyEpoch++
		m.player.Stop(playback.StopHidden)

	case pressReleaseMsg:
		if msg.seq == m.pressSeq {
			m.pressing = false
		}

	case panelSettleMsg:
		if msg.seq != m.panelSeq {
			break
		}
		switch m.panel {
		case panelEntering:
			m.panel = panelShown
		case panelLeaving:
			m.panel = panelHidden
			m.message = nil
		}

	case enemyStartMsg:
		if msg.epoch == m.enemyEpoch {
			m.player.Start()
		}

	case playbackEventMsg:
		switch msg.Type {
		case playback.EventStarted:
			m.loops = 0
		case playback.EventLoop, playback.EventStopped:
			m.loops = msg.Loop
		}
		return m, waitForEvent(m.events)
	}
	return m, nil
}

func (m pageModel) activate(b button) (tea.Model, tea.Cmd) {
	log.Choice(b.String())
	m.choices++
	m.focus = b
	m.pressed = b
	m.pressing = true
	m.pressSeq++
	seq := m.pressSeq
	cmds := []tea.Cmd{after(m.cfg.PressDuration(), pressReleaseMsg{seq: seq})}

	switch b {
	case btnFriend:
		m.enemyEpoch++
		m.player.Stop(playback.StopRequested)
		cmds = append(cmds, m.show(kindFriend, []string{m.cfg.Page.FriendMessage}))
	case btnEnemy:
		lines := []string{m.cfg.Page.EnemyMessage, m.cfg.Page.EnemyTaunt, m.cfg.Page.EnemyNote}
		cmds = append(cmds, m.show(kindEnemy, lines))
		cmds = append(cmds, after(m.cfg.EnemyDelay(), enemyStartMsg{epoch: m.enemyEpoch}))
	case btnReset:
		m.enemyEpoch++
		m.player.Stop(playback.StopRequested)
		cmds = append(cmds, m.hide())
	}
	return m, tea.Batch(cmds...)
}

// show puts the panel in its entering style; it settles after the show delay.
func (m *pageModel) show(kind panelKind, lines []string) tea.Cmd {
	m.kind = kind
	m.message = lines
	m.panel = panelEntering
	m.panelSeq++
	return after(m.cfg.ShowDelay(), panelSettleMsg{seq: m.panelSeq})
}

func (m *pageModel) hide() tea.Cmd {
	if m.panel == panelHidden {
		return nil
	}
	m.panel = panelLeaving
	m.panelSeq++
	return after(m.cfg.HideDelay(), panelSettleMsg{seq: m.panelSeq})
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	focusStyle    = buttonStyle.BorderForeground(lipgloss.Color("255")).Bold(true)
	pressedStyle  = buttonStyle.Reverse(true)
	friendPanel   = lipgloss.NewStyle().Padding(1, 3).Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("42")).Foreground(lipgloss.Color("120"))
	enemyPanel    = lipgloss.NewStyle().Padding(1, 3).Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("196")).Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var buttonLabels = [buttonCount]string{"🤝 Friend", "⚔️ Enemy", "↺ Reset"}

func (m pageModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Friend or Foe?") + "\n")
	b.WriteString(questionStyle.Render("Will you be my friend, or my enemy?") + "\n\n")

	buttons := make([]string, 0, buttonCount)
	for i := button(0); i < buttonCount; i++ {
		style := buttonStyle
		switch {
		case m.pressing && m.pressed == i:
			style = pressedStyle
		case m.focus == i:
			style = focusStyle
		}
		buttons = append(buttons, style.Render(buttonLabels[i]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...) + "\n")

	if panel := m.renderPanel(); panel != "" {
		b.WriteString(panel + "\n")
	}

	b.WriteString("\n" + m.statusLine() + "\n")
	if m.modeLine != "" {
		b.WriteString(dimStyle.Render(m.modeLine) + "\n")
	}
	if m.deviceLine != "" {
		b.WriteString(dimStyle.Render(m.deviceLine) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("f friend · e enemy · r reset · ←/→ + enter · q quit · foe "+version))
	return b.String()
}

func (m pageModel) renderPanel() string {
	if m.panel == panelHidden || len(m.message) == 0 {
		return ""
	}
	style := friendPanel
	if m.kind == kindEnemy {
		style = enemyPanel
	}

	lines := m.message
	if m.kind == kindEnemy && len(lines) > 2 {
		note := lipgloss.NewStyle().Italic(true).Faint(true).Render(lines[len(lines)-1])
		lines = append(append([]string{}, lines[:len(lines)-1]...), note)
	}
	body := strings.Join(lines, "\n")

	switch m.panel {
	case panelEntering, panelLeaving:
		// Offset and faded while sliding in or out.
		return style.MarginTop(1).Faint(true).Render(body)
	default:
		return style.Render(body)
	}
}

func (m pageModel) statusLine() string {
	if m.player.State() == playback.StatePlaying {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Render(fmt.Sprintf("♪ BATTLE THEME  loop %d", m.loops+1))
	}
	return dimStyle.Render("○ SILENCE")
}
