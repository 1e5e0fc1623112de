package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/discografia/internal/session"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// authScreen is the login or register form shown without a session.
type authScreen struct {
	mode   authMode
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
	info   string
	busy   bool
}

type authResultMsg struct {
	mode     authMode
	signedIn bool
	email    string
	err      error
}

func newAuthScreen(mode authMode, email string) authScreen {
	a := authScreen{mode: mode}
	add := func(label, placeholder string, secret bool) {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = 32
		ti.Prompt = ""
		if secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		a.labels = append(a.labels, label)
		a.inputs = append(a.inputs, ti)
	}
	if mode == authRegister {
		add("Nombre", "Juan", false)
		add("Apellido", "Pérez", false)
	}
	add("Email", "tu@email.com", false)
	add("Contraseña", "••••••••", true)
	if mode == authRegister {
		add("Confirmar", "Confirmá tu contraseña", true)
	}
	if email != "" {
		a.inputs[a.index("Email")].SetValue(email)
	}
	a.setFocus(0)
	return a
}

func (a *authScreen) index(label string) int {
	for i, l := range a.labels {
		if l == label {
			return i
		}
	}
	return -1
}

func (a *authScreen) value(label string) string {
	if i := a.index(label); i >= 0 {
		return a.inputs[i].Value()
	}
	return ""
}

func (a *authScreen) setFocus(i int) {
	n := len(a.inputs)
	a.focus = ((i % n) + n) % n
	for idx := range a.inputs {
		if idx == a.focus {
			a.inputs[idx].Focus()
		} else {
			a.inputs[idx].Blur()
		}
	}
}

// focusField moves the cursor to the input an InputError names.
func (a *authScreen) focusField(field string) {
	labels := map[string]string{
		"name":            "Nombre",
		"lastname":        "Apellido",
		"email":           "Email",
		"password":        "Contraseña",
		"confirmPassword": "Confirmar",
	}
	if i := a.index(labels[field]); i >= 0 {
		a.setFocus(i)
	}
}

func (a *authScreen) registerInput() session.RegisterInput {
	return session.RegisterInput{
		Name:            a.value("Nombre"),
		Lastname:        a.value("Apellido"),
		Email:           a.value("Email"),
		Password:        a.value("Contraseña"),
		ConfirmPassword: a.value("Confirmar"),
	}
}

// handleAuthKey drives the login and register screens.
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := &m.auth
	switch {
	case msg.String() == "ctrl+r":
		if a.busy {
			return m, nil
		}
		next := authRegister
		if a.mode == authRegister {
			next = authLogin
		}
		m.auth = newAuthScreen(next, a.value("Email"))
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		if a.mode == authRegister && !a.busy {
			m.auth = newAuthScreen(authLogin, a.value("Email"))
		}
		return m, nil
	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		a.setFocus(a.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		a.setFocus(a.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.submitAuth()
		return m, cmd
	}

	if a.busy {
		return m, nil
	}
	var cmd tea.Cmd
	before := a.inputs[a.focus].Value()
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	if a.inputs[a.focus].Value() != before {
		a.err = ""
	}
	return m, cmd
}

// submitAuth validates locally and starts the backend call.
func (m *Model) submitAuth() tea.Cmd {
	a := &m.auth
	if a.busy || m.session == nil {
		return nil
	}
	a.info = ""

	var err error
	if a.mode == authRegister {
		err = session.ValidateRegister(a.registerInput())
	} else {
		err = session.ValidateLogin(a.value("Email"), a.value("Contraseña"))
	}
	if err != nil {
		a.err = err.Error()
		var inErr *session.InputError
		if errors.As(err, &inErr) {
			a.focusField(inErr.Field)
		}
		return nil
	}

	a.err = ""
	a.busy = true
	sess, ctx, mode := m.session, m.ctx, a.mode
	email := strings.TrimSpace(a.value("Email"))
	password := a.value("Contraseña")
	in := a.registerInput()
	return func() tea.Msg {
		if mode == authRegister {
			ok, err := sess.Register(ctx, in)
			return authResultMsg{mode: mode, signedIn: ok && err == nil, email: email, err: err}
		}
		err := sess.Login(ctx, email, password)
		return authResultMsg{mode: mode, signedIn: err == nil, email: email, err: err}
	}
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.auth.busy = false
	switch {
	case msg.err != nil:
		m.auth.err = msg.err.Error()
		m.logger.WithError(msg.err).Warn("authentication failed")
		return m, nil
	case msg.signedIn:
		return m.startSession()
	default:
		m.auth = newAuthScreen(authLogin, msg.email)
		m.auth.info = "Cuenta creada. Iniciá sesión para continuar."
		return m, nil
	}
}

// renderAuth renders the login or register screen.
func (m Model) renderAuth() string {
	styles := m.theme.Styles()
	a := m.auth

	title := "Iniciar sesión"
	if a.mode == authRegister {
		title = "Crear cuenta nueva"
	}

	var b strings.Builder
	b.WriteString(styles.Logo.Render("discografia"))
	b.WriteString("\n\n")
	for i, label := range a.labels {
		l := padRight(label+":", 13)
		if i == a.focus {
			b.WriteString(styles.AccentText.Bold(true).Render(l))
		} else {
			b.WriteString(styles.MutedText.Render(l))
		}
		b.WriteString(a.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case a.busy:
		label := "Ingresando..."
		if a.mode == authRegister {
			label = "Creando cuenta..."
		}
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render(label))
		b.WriteString("\n\n")
	case a.err != "":
		b.WriteString(styles.DangerText.Render(a.err))
		b.WriteString("\n\n")
	case a.info != "":
		b.WriteString(styles.SuccessText.Render(a.info))
		b.WriteString("\n\n")
	}

	if a.mode == authRegister {
		b.WriteString(m.renderHints("enter", "Crear cuenta", "esc", "Volver", "ctrl+c", "Salir"))
	} else {
		b.WriteString(m.renderHints("enter", "Ingresar", "ctrl+r", "Crear cuenta", "ctrl+c", "Salir"))
	}
	return m.renderModal(title, b.String(), 56, "")
}
