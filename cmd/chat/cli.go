package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"pairchat/contract"
	"pairchat/domain"
	"pairchat/presenter"
	"pairchat/services"
	"pairchat/session"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const usage = `Commands:
  signup <name> <email> <password> <confirm>
  signin <email> <password>
  users [query]
  chat <uid>        then type messages, /back to leave
  signout
  quit`

type command struct {
	name string
	args []string
}

func parseCommand(line string) (command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, false
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

// cli drives the screens from stdin lines: the current route decides
// which commands are accepted.
type cli struct {
	out       io.Writer
	session   *session.Session
	directory services.IDirectoryService
	messages  services.IMessageService

	home *presenter.Home
	chat *presenter.Chat

	mu        sync.Mutex
	printed   map[string]struct{}
	lastError string
}

func newCLI(out io.Writer, sess *session.Session, store contract.IDocumentStore) *cli {
	return &cli{
		out:       out,
		session:   sess,
		directory: services.NewDirectoryService(store),
		messages:  services.NewMessageService(store),
	}
}

func (c *cli) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	c.waitForSession(ctx)
	fmt.Fprintln(c.out, usage)
	c.prompt()

	for {
		select {
		case <-ctx.Done():
			c.leaveChat()
			return nil
		case line, ok := <-lines:
			if !ok {
				c.leaveChat()
				return nil
			}
			if quit := c.handle(ctx, line); quit {
				c.leaveChat()
				return nil
			}
			c.prompt()
		}
	}
}

func (c *cli) waitForSession(ctx context.Context) {
	for presenter.RouteFor(c.session.State()) == presenter.RouteSplash {
		select {
		case <-ctx.Done():
			return
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func (c *cli) prompt() {
	route := presenter.RouteFor(c.session.State())
	label := route.String()
	if c.chat != nil {
		label = "chat"
	}
	fmt.Fprint(c.out, color.Cyan.Sprintf("%s> ", label))
}

func (c *cli) handle(ctx context.Context, line string) bool {
	if c.chat != nil {
		c.handleChatLine(ctx, line)
		return false
	}

	cmd, ok := parseCommand(line)
	if !ok {
		return false
	}
	switch cmd.name {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(c.out, usage)
	case "signin":
		c.signIn(ctx, cmd.args)
	case "signup":
		c.signUp(ctx, cmd.args)
	case "users":
		c.users(ctx, strings.Join(cmd.args, " "))
	case "chat":
		c.openChat(ctx, cmd.args)
	case "signout":
		c.home = nil
		c.report(c.session.Logout(ctx))
	default:
		c.fail(fmt.Sprintf("unknown command %q, type help", cmd.name))
	}
	return false
}

func (c *cli) signIn(ctx context.Context, args []string) {
	form := presenter.SignInForm{Email: arg(args, 0), Password: arg(args, 1)}
	if err := form.Validate(); err != nil {
		c.fail(err.Error())
		return
	}
	if err := c.session.Login(ctx, form.Email, form.Password); err != nil {
		c.fail(err.Error())
		return
	}
	c.greet()
}

func (c *cli) signUp(ctx context.Context, args []string) {
	form := presenter.SignUpForm{
		Name:            arg(args, 0),
		Email:           arg(args, 1),
		Password:        arg(args, 2),
		ConfirmPassword: arg(args, 3),
	}
	if err := form.Validate(); err != nil {
		c.fail(err.Error())
		return
	}
	if err := c.session.Register(ctx, form.Email, form.Password, form.Name); err != nil {
		c.fail(err.Error())
		return
	}
	c.greet()
}

func (c *cli) greet() {
	color.Green.Fprintf(c.out, "Signed in as %s\n", presenter.SenderName(c.session.User()))
}

func (c *cli) users(ctx context.Context, query string) {
	user := c.requireUser()
	if user == nil {
		return
	}
	if c.home == nil {
		c.home = presenter.NewHome(c.directory, user.UID)
	}
	if err := c.home.Load(ctx); err != nil {
		c.fail(err.Error())
		return
	}
	renderUsers(c.out, c.home.Search(query))
}

func renderUsers(out io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"", "UID", "Name", "Email", "Status"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	for _, u := range users {
		status := u.Status
		if u.IsOnline() {
			status = color.Green.Sprint(status)
		}
		table.Append([]string{color.Bold.Sprint(u.Initial()), u.UID, u.DisplayName, u.Email, status})
	}
	table.Render()
}

func (c *cli) openChat(ctx context.Context, args []string) {
	user := c.requireUser()
	if user == nil {
		return
	}
	otherUID := arg(args, 0)
	if otherUID == "" {
		c.fail("usage: chat <uid>")
		return
	}

	c.mu.Lock()
	c.printed = make(map[string]struct{})
	c.lastError = ""
	c.mu.Unlock()

	chat := presenter.NewChat(c.messages, user, otherUID)
	chat.OnChange(func(state presenter.ChatState) { c.printNew(user.UID, state) })
	c.chat = chat
	if err := chat.Open(ctx); err != nil {
		c.fail(err.Error())
		c.leaveChat()
	}
}

func (c *cli) handleChatLine(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "/back" {
		c.leaveChat()
		return
	}
	// Failures come back through the chat state, see printNew
	c.chat.Send(ctx, line)
}

func (c *cli) leaveChat() {
	if c.chat != nil {
		c.chat.Close()
		c.chat = nil
	}
}

// printNew prints messages once, when the backend has stamped them, and an
// error only when it changes.
func (c *cli) printNew(selfUID string, state presenter.ChatState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range state.Messages {
		if m.Timestamp == 0 {
			continue
		}
		if _, done := c.printed[m.ID]; done {
			continue
		}
		c.printed[m.ID] = struct{}{}
		fmt.Fprintln(c.out, formatMessage(m, selfUID))
	}
	if state.Error != c.lastError {
		c.lastError = state.Error
		if state.Error != "" {
			c.fail(state.Error)
		}
	}
}

func formatMessage(m domain.Message, selfUID string) string {
	at := time.UnixMilli(m.Timestamp).Format(time.TimeOnly)
	if m.IsFrom(selfUID) {
		return fmt.Sprintf("%s %s %s", color.Gray.Sprint(at), color.Blue.Sprint("me:"), m.Text)
	}
	return fmt.Sprintf("%s %s %s", color.Gray.Sprint(at), color.Magenta.Sprintf("%s:", m.SenderName), m.Text)
}

func (c *cli) requireUser() *contract.AuthUser {
	user := c.session.User()
	if user == nil {
		c.fail("sign in first")
	}
	return user
}

func (c *cli) report(err error) {
	if err != nil {
		c.fail(err.Error())
	}
}

func (c *cli) fail(msg string) {
	color.Red.Fprintln(c.out, msg)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
