package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m model, text string) model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	return m
}

func press(m model, key tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(model), cmd
}

func send(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func TestModel_LoginFlow(t *testing.T) {
	m := initialModel(newClient("http://localhost:3000"), 50)

	m = typeText(m, "jqk")
	assert.Equal(t, "jqk", m.currentInput)
	m, _ = press(m, tea.KeyBackspace)
	assert.Equal(t, "jq", m.currentInput)

	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, stepEnteringPassword, m.step)
	assert.Equal(t, "jq", m.username)

	m = typeText(m, "pw")
	assert.Contains(t, m.View(), "••")
	m, cmd = press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, stepLoggingIn, m.step)

	m = send(m, errMsg{errInvalidCredentials})
	assert.Equal(t, stepEnteringUsername, m.step)
	assert.Contains(t, m.View(), "Invalid credentials")
}

func TestModel_Browsing(t *testing.T) {
	m := initialModel(newClient("http://localhost:3000"), 50)
	m.username = "alice"
	m.step = stepLoggingIn

	dormName := "Tinsley"
	m = send(m, loginSuccessMsg{user: &profile{Username: "alice", DormName: &dormName, SpendablePoints: 100}})
	assert.Equal(t, stepLoading, m.step)

	m = send(m, catalogLoadedMsg{
		dorms:    []dorm{{DormName: "Tinsley", TotalPoints: 13}},
		palettes: []palette{{OfferingName: "Sunset"}, {OfferingName: "Forest", ColorHex1: "2D6A4F"}},
	})
	require.Equal(t, stepBrowsing, m.step)
	view := m.View()
	assert.Contains(t, view, "alice (Tinsley) - 100 points")
	assert.Contains(t, view, "Forest")

	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor)
	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor)

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, stepPurchasing, m.step)
	assert.Contains(t, m.message, "Forest")

	m = send(m, purchaseSuccessMsg{palette: "Forest", newTotal: 50})
	assert.Equal(t, stepBrowsing, m.step)
	assert.Equal(t, 50, m.user.SpendablePoints)

	m.step = stepPurchasing
	m = send(m, errMsg{errors.New("Insufficient points")})
	assert.Equal(t, stepBrowsing, m.step)
	assert.Contains(t, m.View(), "Insufficient points")
}
