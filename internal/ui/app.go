package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/catalog"
	"github.com/five82/discografia/internal/prefs"
	"github.com/five82/discografia/internal/session"
	"github.com/five82/discografia/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewArtists View = iota
	ViewTypes
	ViewLogs
)

type screen int

const (
	screenAuth screen = iota
	screenMain
)

// Session is what the UI needs from the signed-in session.
type Session interface {
	Validate() bool
	Status() session.Status
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, in session.RegisterInput) (bool, error)
	Logout() error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Services  catalog.Services
	Session   Session
	Store     *state.Store
	Logger    *logrus.Entry
	LogPath   string
	PollTick  time.Duration
	ThemeName string
	StartView string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	services  catalog.Services
	session   Session
	store     *state.Store
	logger    *logrus.Entry
	logPath   string
	prefsPath string
	startView string
	pollTick  time.Duration

	keys        keyMap
	theme       Theme
	spinner     spinner.Model
	screen      screen
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snapshot state.Snapshot
	// minChecks drops snapshots read before the UI published its own sign-in.
	minChecks int

	auth    authScreen
	artists *artistPane
	types   *artistTypePane

	logViewport viewport.Model
	logState    logState
}

// New creates the model. A valid session opens the main screen directly.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = logrus.NewEntry(l)
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		services:  opts.Services,
		session:   opts.Session,
		store:     opts.Store,
		logger:    logger.WithField("component", "ui"),
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		startView: opts.StartView,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		spinner:   sp,
		auth:      newAuthScreen(authLogin, ""),
	}
	m.initLogState()
	if opts.StartView == prefs.ViewTypes {
		m.currentView = ViewTypes
	}
	if m.session != nil && m.session.Validate() {
		m.mountSections()
	}
	return m
}

// mountSections builds fresh list controllers for a new session.
func (m *Model) mountSections() {
	m.unmountSections()
	m.artists = newArtistPane(m.ctx, catalog.NewArtistList(m.services, m.session, m.logger))
	m.types = newArtistTypePane(m.ctx, catalog.NewArtistTypeList(m.services, m.session, m.logger))
	m.screen = screenMain
	m.showHelp = false
}

func (m *Model) unmountSections() {
	for _, s := range m.sections() {
		s.close()
	}
	m.artists = nil
	m.types = nil
}

func (m Model) sections() []section {
	var out []section
	if m.artists != nil {
		out = append(out, m.artists)
	}
	if m.types != nil {
		out = append(out, m.types)
	}
	return out
}

// active returns the section of the current view, or nil for the log view.
func (m Model) active() section {
	switch {
	case m.currentView == ViewArtists && m.artists != nil:
		return m.artists
	case m.currentView == ViewTypes && m.types != nil:
		return m.types
	}
	return nil
}

func (m Model) busy() bool {
	for _, s := range m.sections() {
		if s.busy() {
			return true
		}
	}
	return false
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if s := m.active(); s != nil {
		cmds = append(cmds, s.load())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authResultMsg:
		return m.handleAuthResult(msg)

	case sessionLostMsg:
		if m.screen != screenMain {
			return m, nil
		}
		if m.store != nil {
			m.store.Update(false, api.User{}, time.Time{}, session.ErrExpired)
			m.minChecks = m.store.Snapshot().Checks
		}
		m.signOut("Tu sesión expiró. Iniciá sesión nuevamente.")
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	for _, s := range m.sections() {
		if cmd, ok := s.update(msg); ok {
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}
	if m.screen == screenAuth {
		return m.renderAuth()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if s := m.active(); s != nil && s.modalOpen() {
		if modal := s.renderModal(m); modal != "" {
			return modal
		}
	}
	return m.renderMain()
}

// handleKey routes keyboard input. Open modals and text inputs see keys
// before the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.screen == screenAuth {
		return m.handleAuthKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	s := m.active()
	if s != nil && s.modalOpen() {
		return m, s.handleKey(msg, m.keys)
	}
	if m.currentView == ViewLogs && m.logState.searchActive {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		m.logout()
		return m, nil
	case key.Matches(msg, m.keys.ViewArtists):
		return m.switchView(ViewArtists)
	case key.Matches(msg, m.keys.ViewTypes):
		return m.switchView(ViewTypes)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.currentView + 1) % 3)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.currentView + 2) % 3)
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	if s != nil {
		return m, s.handleKey(msg, m.keys)
	}
	return m, nil
}

// switchView mounts v. Record views reload on entry; stale rows stay visible
// until the fetch lands.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == m.currentView {
		return m, nil
	}
	m.currentView = v
	if v == ViewLogs {
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, m.refreshLogs()
	}
	if s := m.active(); s != nil {
		return m, s.load()
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.logState.contentVersion++
	m.updateLogViewport()
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, StartView: m.startView}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.WithError(err).Warn("save preferences")
	}
}

func (m *Model) logout() {
	if m.session != nil {
		if err := m.session.Logout(); err != nil {
			m.logger.WithError(err).Warn("logout")
		}
	}
	if m.store != nil {
		m.store.Update(false, api.User{}, time.Time{}, nil)
		m.minChecks = m.store.Snapshot().Checks
	}
	m.logger.Info("signed out")
	m.signOut("Sesión cerrada.")
}

// signOut tears the record views down and shows the login screen.
func (m *Model) signOut(info string) {
	email := m.snapshot.User.Email
	m.unmountSections()
	m.screen = screenAuth
	m.showHelp = false
	m.auth = newAuthScreen(authLogin, email)
	m.auth.info = info
	m.snapshot = state.Snapshot{}
}

// startSession publishes the new session and mounts the record views.
func (m Model) startSession() (tea.Model, tea.Cmd) {
	if m.session != nil && m.store != nil {
		st := m.session.Status()
		m.store.Update(st.Authenticated, st.User, st.ExpiresAt, nil)
		m.snapshot = m.store.Snapshot()
		m.minChecks = m.snapshot.Checks
	}
	m.mountSections()
	m.logger.WithField("user", m.snapshot.User.Email).Info("signed in")
	if s := m.active(); s != nil {
		return m, s.load()
	}
	if m.currentView == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.screen == screenMain && m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// handleSnapshot returns to the login screen once the watcher reports the
// session gone.
func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	if snap.Checks < m.minChecks {
		return m, nil
	}
	if m.screen == screenMain && snap.SignedOut() {
		info := "Sesión cerrada."
		if snap.LastError != nil {
			info = "Tu sesión expiró. Iniciá sesión nuevamente."
		}
		m.logger.WithField("checks", snap.Checks).Info("session ended")
		m.snapshot = snap
		m.signOut(info)
		return m, nil
	}
	if m.screen == screenMain {
		m.snapshot = snap
	}
	return m, nil
}

// renderMain renders the header, command bar and current view.
func (m Model) renderMain() string {
	content := ""
	switch m.currentView {
	case ViewLogs:
		content = m.renderLogs()
	default:
		if s := m.active(); s != nil {
			content = s.render(m, m.width, m.height-2)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderCommandBar(), content)
}

type tickMsg time.Time

type snapshotMsg state.Snapshot

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
