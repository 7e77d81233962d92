package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorum-sh/quorum/internal/api"
	"github.com/quorum-sh/quorum/internal/config"
	"github.com/quorum-sh/quorum/internal/draft"
	"github.com/quorum-sh/quorum/internal/realtime"
	"github.com/quorum-sh/quorum/internal/schedule"
	"github.com/quorum-sh/quorum/internal/tui/commands"
	"github.com/quorum-sh/quorum/internal/tui/theme"
)

// Screen identifies the active screen.
type Screen int

const (
	ScreenCreate Screen = iota // drafting a new event
	ScreenRoom                 // live collaborative view
)

// Focus identifies which control receives keystrokes.
type Focus int

const (
	FocusGrid Focus = iota
	FocusEventName
	FocusUserName
	FocusAbsentReason
)

// Canned excuses offered in the absence input before free text.
var excuses = []string{
	"I'm not available during these times.",
	"I no longer plan on attending this.",
}

// dateStripDays is how many upcoming days the create screen offers.
const dateStripDays = 28

// Model is the main TUI model.
type Model struct {
	// Dependencies
	cfg    *config.Config
	client *api.Client
	store  *draft.Store

	// Theme and styles
	palette *theme.Palette
	styles  *Styles

	// Engine state
	data       *schedule.Data
	reconciler *schedule.Reconciler
	selection  *schedule.Selection

	// Realtime session
	channel   *realtime.Channel
	events    chan tea.Msg
	debounce  *realtime.Debouncer
	connState realtime.State

	// Room identity
	roomUID string
	isOwner bool

	screen Screen
	focus  Focus

	// Create screen: cursor into the upcoming-days strip
	stripStart  time.Time
	dateCursor  int
	creating    bool // waiting on the create round-trip
	excuseIndex int  // cycled in the absence input; -1 = free text

	// Inputs
	eventName    textinput.Model
	userName     textinput.Model
	absentReason textinput.Model

	// Hover state
	hovered   int // hoverNone, hoverSelf, or 1+other index
	hoverCell *schedule.Point

	confirmDelete bool

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string
	statusIsErr bool
	statusTime  time.Time
}

// New creates a model on the create screen.
func New(cfg *config.Config, client *api.Client, store *draft.Store) Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	p := theme.NewPalette(t)

	eventName := textinput.New()
	eventName.Placeholder = "Event name"
	eventName.CharLimit = 120
	eventName.Width = 40

	userName := textinput.New()
	userName.Placeholder = "Your name"
	userName.CharLimit = 60
	userName.Width = 30

	absentReason := textinput.New()
	absentReason.Placeholder = "Why can't you make it?"
	absentReason.CharLimit = 200
	absentReason.Width = 44

	data := schedule.New()
	return Model{
		cfg:          cfg,
		client:       client,
		store:        store,
		palette:      p,
		styles:       NewStyles(p),
		data:         data,
		reconciler:   schedule.NewReconciler(data, nil),
		selection:    &schedule.Selection{},
		events:       make(chan tea.Msg, 64),
		stripStart:   time.Now().UTC().Truncate(24 * time.Hour),
		hovered:      hoverNone,
		excuseIndex:  -1,
		connState:    realtime.StateDisconnected,
		eventName:    eventName,
		userName:     userName,
		absentReason: absentReason,
	}
}

// NewJoin creates a model that joins an existing room.
func NewJoin(cfg *config.Config, client *api.Client, store *draft.Store, roomUID string) Model {
	m := New(cfg, client, store)
	m.roomUID = roomUID
	m.screen = ScreenRoom
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.screen == ScreenRoom {
		return commands.JoinRoom(m.client, m.roomUID)
	}
	return commands.LoadDraft(m.store)
}

// shareURL is the link handed to other participants.
func (m Model) shareURL() string {
	return m.cfg.ShareURL(m.roomUID)
}

// stripDate returns the date behind strip position i.
func (m Model) stripDate(i int) time.Time {
	return m.stripStart.AddDate(0, 0, i)
}

// Run starts the TUI on the create screen.
func Run(cfg *config.Config, client *api.Client, store *draft.Store, debug bool) error {
	return run(New(cfg, client, store), debug)
}

// RunJoin starts the TUI joined to an existing room.
func RunJoin(cfg *config.Config, client *api.Client, store *draft.Store, roomUID string, debug bool) error {
	return run(NewJoin(cfg, client, store, roomUID), debug)
}

func run(m Model, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.channel != nil {
		fm.channel.Close()
	}
	return err
}
