package main

import (
	"bytes"
	"pairchat/domain"
	"pairchat/presenter"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	req := require.New(t)

	cmd, ok := parseCommand("  USERS  ali  ce ")
	req.True(ok)
	req.Equal("users", cmd.name)
	req.Equal([]string{"ali", "ce"}, cmd.args)

	_, ok = parseCommand("   ")
	req.False(ok)
}

func TestFormatMessage(t *testing.T) {
	req := require.New(t)
	defer noColors()()

	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)
	m := domain.Message{ID: "m1", SenderID: "u1", SenderName: "Alice", Text: "hi", Timestamp: at.UnixMilli()}

	req.Equal("15:04:05 me: hi", formatMessage(m, "u1"))
	req.Equal("15:04:05 Alice: hi", formatMessage(m, "u2"))
}

func TestRenderUsers(t *testing.T) {
	req := require.New(t)
	defer noColors()()

	var out bytes.Buffer
	renderUsers(&out, nil)
	req.Equal("No users found\n", out.String())

	out.Reset()
	renderUsers(&out, []domain.User{{UID: "u2", DisplayName: "Bob", Email: "bob@example.com", Status: domain.StatusOnline}})
	req.Contains(out.String(), "Bob")
	req.Contains(out.String(), "bob@example.com")
	// Initial as avatar placeholder
	req.Regexp(`(?m)^\s*B\s+u2`, out.String())
}

func TestPrintNew_Reports_Each_Error_Once(t *testing.T) {
	req := require.New(t)
	defer noColors()()
	var out bytes.Buffer
	c := &cli{out: &out, printed: make(map[string]struct{})}
	stamped := domain.Message{ID: "m1", SenderID: "u2", SenderName: "Bob", Text: "hey", Timestamp: 1}

	// Given a failed send, the error shows up
	c.printNew("u1", presenter.ChatState{Error: "unavailable"})
	// When later snapshots still carry it
	c.printNew("u1", presenter.ChatState{Error: "unavailable"})
	c.printNew("u1", presenter.ChatState{Error: "unavailable", Messages: []domain.Message{stamped}})

	// Then it was printed once, the message once
	req.Equal(1, strings.Count(out.String(), "unavailable"))
	req.Equal(1, strings.Count(out.String(), "hey"))

	// And a new failure after a cleared error is reported again
	c.printNew("u1", presenter.ChatState{})
	c.printNew("u1", presenter.ChatState{Error: "unavailable"})
	req.Equal(2, strings.Count(out.String(), "unavailable"))
}

func TestArg(t *testing.T) {
	req := require.New(t)
	req.Equal("a", arg([]string{"a"}, 0))
	req.Equal("", arg([]string{"a"}, 1))
}

func noColors() func() {
	prev := color.Enable
	color.Enable = false
	return func() { color.Enable = prev }
}
