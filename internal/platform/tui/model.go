package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/game"
	"github.com/vovakirdan/twenty48/internal/search"
	"github.com/vovakirdan/twenty48/internal/storage"
)

// HumanPlayer is the agent name stored for hand-played games.
const HumanPlayer = "human"

const (
	DefaultTick = 150 * time.Millisecond
	minTick     = 10 * time.Millisecond
	maxTick     = 2 * time.Second
)

// Options configures a play or watch screen.
type Options struct {
	// Seed for the first game; 0 picks a random seed.
	Seed int64
	// Agent, when set, plays the game and the screen only watches.
	Agent agent.Agent
	// Search backs the hint key.
	Search search.Options
	// Store receives one record per finished game. May be nil.
	Store *storage.Store
	// Tick is the delay between agent moves.
	Tick   time.Duration
	Logger *log.Logger
}

// Model is the Bubble Tea model for a single 2048 session.
type Model struct {
	sess     *game.Session
	agent    agent.Agent
	searcher *search.Searcher
	store    *storage.Store
	logger   *log.Logger
	keys     KeyMap
	help     help.Model

	tick    time.Duration
	paused  bool
	started time.Time

	steps   int
	moved   int
	invalid int
	best    int
	saved   bool

	last     string
	hint     string
	width    int
	height   int
	quitting bool
}

// NewModel creates a model with a freshly reset session.
func NewModel(opts Options) Model {
	seed := opts.Seed
	if seed == 0 {
		seed = game.RandomSeed()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Search == (search.Options{}) {
		opts.Search = search.DefaultOptions()
	}

	m := Model{
		sess:     game.NewSession(seed),
		agent:    opts.Agent,
		searcher: search.New(opts.Search),
		store:    opts.Store,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		tick:     tick,
		started:  time.Now(),
		width:    40,
		height:   20,
	}
	m.best = m.loadBest()
	return m
}

// Player returns the name results are stored under.
func (m Model) Player() string {
	if m.agent != nil {
		return m.agent.Name()
	}
	return HumanPlayer
}

// Session returns the session being played.
func (m Model) Session() *game.Session {
	return m.sess
}

// Watching reports whether an agent drives the game.
func (m Model) Watching() bool {
	return m.agent != nil
}

// Init starts the agent clock in watch mode.
func (m Model) Init() tea.Cmd {
	if m.Watching() {
		return tickCmd(m.tick)
	}
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return m, nil
	case key.Matches(msg, m.keys.Hint):
		d := m.searcher.Decide(m.sess.Board(), m.sess.Score())
		if d.Legal[d.Direction] {
			m.hint = fmt.Sprintf("hint: %s (%.1f)", d.Direction, d.Value)
		} else {
			m.hint = "hint: no moves left"
		}
		return m, nil
	}

	if m.Watching() {
		switch {
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.tick = max(minTick, m.tick/2)
		case key.Matches(msg, m.keys.Slower):
			m.tick = min(maxTick, m.tick*2)
		}
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok {
		m.play(dir)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.Watching() {
		return m, nil
	}
	if !m.paused && !m.sess.Done() {
		m.play(m.agent.Choose(m.sess))
	}
	return m, tickCmd(m.tick)
}

// play advances the session by one move and records the game once it
// ends.
func (m *Model) play(dir game.Direction) {
	if m.sess.Done() {
		return
	}
	res, err := m.sess.Step(dir)
	if err != nil {
		m.last = err.Error()
		return
	}

	m.steps++
	m.hint = ""
	if res.Info.InvalidMove {
		m.invalid++
		m.last = fmt.Sprintf("%s: no change", dir)
	} else {
		m.moved++
		m.last = fmt.Sprintf("%s +%d", dir, res.Reward)
	}

	if res.Done {
		m.saveResult()
	}
}

func (m *Model) restart() {
	m.sess.ResetWithSeed(game.RandomSeed())
	m.steps, m.moved, m.invalid = 0, 0, 0
	m.saved = false
	m.paused = false
	m.last, m.hint = "", ""
	m.started = time.Now()
}

// saveResult stores the finished game. Errors are logged, not fatal.
func (m *Model) saveResult() {
	if m.saved {
		return
	}
	m.saved = true
	m.best = max(m.best, m.sess.Score())
	if m.store == nil {
		return
	}

	elapsed := time.Since(m.started)
	_, err := m.store.SaveGame(storage.GameRecord{
		Agent:        m.Player(),
		Seed:         m.sess.Seed(),
		FinalScore:   m.sess.Score(),
		MaxTile:      m.sess.Board().MaxTile(),
		Steps:        m.steps,
		InvalidCount: m.invalid,
		MovedSteps:   m.moved,
		DurationMS:   float64(elapsed) / float64(time.Millisecond),
	})
	if err != nil {
		m.logger.Warn("could not save game", "error", err)
	}
}

func (m Model) loadBest() int {
	if m.store == nil {
		return 0
	}
	best, err := m.store.HighScore(m.Player())
	if err != nil {
		m.logger.Warn("could not load high score", "error", err)
		return 0
	}
	return best
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "2048"
	if m.Watching() {
		title = fmt.Sprintf("2048 - watching %s", m.agent.Name())
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(renderHUD(m.sess.Score(), m.best, m.sess.Board().MaxTile(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerBlock(RenderBoard(m.sess.Board()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.statusLine(), m.width))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.sess.Done():
		return overStyle.Render(fmt.Sprintf("Game over after %d moves. Press r for a new game.", m.steps))
	case m.sess.Won() && !m.Watching():
		return wonStyle.Render("You reached 2048! Keep going.")
	case m.paused:
		return statusStyle.Render("paused")
	case m.hint != "":
		return statusStyle.Render(m.hint)
	case m.Watching():
		return statusStyle.Render(fmt.Sprintf("move %d  %s  every %s", m.steps, m.last, m.tick))
	}
	return statusStyle.Render(m.last)
}

// Run plays or watches a session until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
