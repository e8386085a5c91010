package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringUsername step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoading
	stepBrowsing
	stepPurchasing
)

const requestTimeout = 10 * time.Second

type model struct {
	api          *client
	price        int
	step         step
	cursor       int
	username     string
	password     string
	currentInput string
	user         *profile
	dorms        []dorm
	palettes     []palette
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ user *profile }
type catalogLoadedMsg struct {
	dorms    []dorm
	palettes []palette
}
type purchaseSuccessMsg struct {
	palette  string
	newTotal int
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *client, price int) model {
	return model{
		api:   api,
		price: price,
		step:  stepEnteringUsername,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(api *client, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		user, err := api.login(ctx, username, password)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{user: user}
	}
}

func loadCatalog(api *client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		dorms, err := api.standings(ctx)
		if err != nil {
			return errMsg{err}
		}
		palettes, err := api.palettes(ctx)
		if err != nil {
			return errMsg{err}
		}
		return catalogLoadedMsg{dorms: dorms, palettes: palettes}
	}
}

func purchasePalette(api *client, username, name string, price int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		total, err := api.purchase(ctx, username, name, price)
		if err != nil {
			return errMsg{err}
		}
		return purchaseSuccessMsg{palette: name, newTotal: total}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "q":
			if m.step == stepBrowsing {
				m.quitting = true
				return m, tea.Quit
			}
			m.appendInput(msg)

		case "up", "k":
			if m.step == stepBrowsing && m.cursor > 0 {
				m.cursor--
			} else {
				m.appendInput(msg)
			}

		case "down", "j":
			if m.step == stepBrowsing && m.cursor < len(m.palettes)-1 {
				m.cursor++
			} else {
				m.appendInput(msg)
			}

		case "r":
			if m.step == stepBrowsing {
				m.step = stepLoading
				return m, loadCatalog(m.api)
			}
			m.appendInput(msg)

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case "enter":
			switch m.step {
			case stepEnteringUsername:
				if m.currentInput != "" {
					m.username = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					m.password = m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, loginUser(m.api, m.username, m.password)
				}

			case stepBrowsing:
				if len(m.palettes) > 0 {
					name := m.palettes[m.cursor].OfferingName
					m.step = stepPurchasing
					m.message = fmt.Sprintf("Buying %s for %d points...", name, m.price)
					return m, purchasePalette(m.api, m.username, name, m.price)
				}
			}

		default:
			m.appendInput(msg)
		}

	case loginSuccessMsg:
		m.user = msg.user
		m.password = ""
		m.step = stepLoading
		m.message = successStyle.Render("✓ Logged in as " + m.username)
		return m, loadCatalog(m.api)

	case catalogLoadedMsg:
		m.dorms = msg.dorms
		m.palettes = msg.palettes
		if m.cursor >= len(m.palettes) {
			m.cursor = 0
		}
		m.step = stepBrowsing

	case purchaseSuccessMsg:
		m.user.SpendablePoints = msg.newTotal
		m.step = stepBrowsing
		m.message = successStyle.Render(fmt.Sprintf("✓ Bought %s, %d points left", msg.palette, msg.newTotal))

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		switch m.step {
		case stepLoggingIn:
			m.step = stepEnteringUsername
			if errors.Is(msg.err, errInvalidCredentials) {
				m.message = errorStyle.Render("✗ Invalid credentials, try again")
			}
		case stepPurchasing, stepLoading:
			if m.user != nil {
				m.step = stepBrowsing
			}
		}
	}

	return m, nil
}

func (m *model) appendInput(msg tea.KeyMsg) {
	if m.step == stepEnteringUsername || m.step == stepEnteringPassword {
		m.currentInput += msg.String()
	}
}

func swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color("#" + hex)).Render("  ")
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("EcoWattch Rewards\n\n"))

	switch m.step {
	case stepEnteringUsername:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn, stepLoading, stepPurchasing:
		s.WriteString(m.message + "\n")

	case stepBrowsing:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		dormName := "no dorm"
		if m.user.DormName != nil {
			dormName = *m.user.DormName
		}
		s.WriteString(fmt.Sprintf("%s (%s) - %d points\n\n", m.user.Username, dormName, m.user.SpendablePoints))

		s.WriteString(promptStyle.Render("Standings\n"))
		for i, d := range m.dorms {
			s.WriteString(fmt.Sprintf("  %d. %-10s %d\n", i+1, d.DormName, d.TotalPoints))
		}

		s.WriteString("\n" + promptStyle.Render(fmt.Sprintf("Palettes (%d points each)\n", m.price)))
		if len(m.palettes) == 0 {
			s.WriteString(mutedStyle.Render("  no palettes available\n"))
		}
		for i, p := range m.palettes {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			var colors strings.Builder
			for _, hex := range p.colors() {
				colors.WriteString(swatch(hex))
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n", cursor, style.Render(p.OfferingName), colors.String()))
		}

		s.WriteString(mutedStyle.Render("\n↑/↓ select, Enter buy, r refresh, q quit\n"))
	}

	return s.String()
}
