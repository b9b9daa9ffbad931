package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isLocked() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Posts(ctx context.Context) error
	AddPost(ctx context.Context) error
	Like(ctx context.Context, arg string) error
	DeletePost(ctx context.Context, arg string) error
	Messages(ctx context.Context) error
	SendMessage(ctx context.Context) error
	Stories(ctx context.Context) error
	AddStory(ctx context.Context) error
	Novels(ctx context.Context) error
	AddNovel(ctx context.Context) error
	Profile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	SetPin(ctx context.Context) error
	RemovePin(ctx context.Context) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	Admin(ctx context.Context, args []string) error
	Export(ctx context.Context, arg string) error
}

const (
	helpGuest  = "Available commands: register, login, exit"
	helpLocked = "Available commands: unlock, logout, exit"
	helpUser   = "Available commands: posts, post, like <n>, delpost <n>, messages, send, stories, story, " +
		"novels, novel, profile, passwd, setpin, nopin, lock, admin, export [file], logout, exit"
)

// runREPL starts a simple read–eval–print loop for the MJ36 CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The commands on offer depend on the state:
// a guest can only register or log in, and while the app is locked only
// unlock and logout are accepted. The loop exits on EOF, when ctx is done
// or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("mj36%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch {
	case !a.isLoggedIn():
		switch cmd {
		case "help":
			printlnFn(helpGuest)
		case "register":
			return a.Register(ctx)
		case "login":
			return a.Login(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
		return nil

	case a.isLocked():
		switch cmd {
		case "help":
			printlnFn(helpLocked)
		case "unlock":
			return a.Unlock(ctx)
		case "logout":
			return a.Logout(ctx)
		default:
			printlnFn("MJ36 is locked. Type 'unlock' to continue.")
		}
		return nil
	}

	switch cmd {
	case "help":
		printlnFn(helpUser)
	case "posts":
		return a.Posts(ctx)
	case "post":
		return a.AddPost(ctx)
	case "like":
		return a.Like(ctx, arg)
	case "delpost":
		return a.DeletePost(ctx, arg)
	case "messages":
		return a.Messages(ctx)
	case "send":
		return a.SendMessage(ctx)
	case "stories":
		return a.Stories(ctx)
	case "story":
		return a.AddStory(ctx)
	case "novels":
		return a.Novels(ctx)
	case "novel":
		return a.AddNovel(ctx)
	case "profile":
		return a.Profile(ctx)
	case "passwd":
		return a.ChangePassword(ctx)
	case "setpin":
		return a.SetPin(ctx)
	case "nopin":
		return a.RemovePin(ctx)
	case "lock":
		return a.Lock(ctx)
	case "admin":
		return a.Admin(ctx, args)
	case "export":
		return a.Export(ctx, arg)
	case "logout":
		return a.Logout(ctx)
	case "login", "register":
		printlnFn("Already logged in. Type 'logout' first.")
	default:
		printlnFn("Unknown command:", cmd)
	}
	return nil
}

func (a *App) getStatus() string {
	u := a.session.CurrentUser()
	if u == nil {
		return ""
	}
	s := u.Username
	if a.isLocked() {
		s += " locked"
	}
	return fmt.Sprintf(" (%s)", s)
}

// Root runs the REPL on the app's input until exit.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to MJ36 (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
