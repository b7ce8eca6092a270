package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/gymnastic-app/gymcli/internal/client/workflow"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	isTrainerOrAdmin() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Profile(ctx context.Context) error
	UpdateField(ctx context.Context, field workflow.Field) error
	UploadImage(ctx context.Context) error
	Classes(ctx context.Context) error
	ScheduledClasses(ctx context.Context) error
	ScheduleClass(ctx context.Context) error
	Users(ctx context.Context) error
	SetUserRole(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the gymcli client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The REPL is the session gate: while signed out only login/register are
// reachable, while signed in those two redirect to the profile view, and
// admin commands are refused for everyone else. Commands run synchronously,
// so at most one request per logical action is ever in flight.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gym> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printHelp(a)

		case "login":
			if a.isLoggedIn() {
				printlnFn("Already signed in, taking you to your profile")
				_ = a.Profile(ctx)
				continue
			}
			_ = a.Login(ctx)

		case "register":
			if a.isLoggedIn() {
				printlnFn("Already signed in, taking you to your profile")
				_ = a.Profile(ctx)
				continue
			}
			_ = a.Register(ctx)

		case "profile", "whoami":
			if !requireLogin(a) {
				continue
			}
			_ = a.Profile(ctx)

		case "update":
			if !requireLogin(a) {
				continue
			}
			if len(args) == 0 {
				printlnFn("Usage: update name|email|password")
				continue
			}
			field, ok := parseField(args[0])
			if !ok {
				printlnFn("Unknown field:", args[0])
				continue
			}
			_ = a.UpdateField(ctx, field)

		case "photo":
			if !requireLogin(a) {
				continue
			}
			_ = a.UploadImage(ctx)

		case "classes":
			if !requireLogin(a) {
				continue
			}
			_ = a.Classes(ctx)

		case "scheduled":
			if !requireLogin(a) {
				continue
			}
			_ = a.ScheduledClasses(ctx)

		case "schedule":
			if !requireLogin(a) {
				continue
			}
			if !a.isTrainerOrAdmin() {
				printlnFn("Only trainers and admins can schedule classes")
				continue
			}
			_ = a.ScheduleClass(ctx)

		case "users":
			if !requireLogin(a) {
				continue
			}
			if !a.isAdmin() {
				printlnFn("Admins only")
				continue
			}
			_ = a.Users(ctx)

		case "setrole":
			if !requireLogin(a) {
				continue
			}
			if !a.isAdmin() {
				printlnFn("Admins only")
				continue
			}
			_ = a.SetUserRole(ctx)

		case "delete-account":
			if !requireLogin(a) {
				continue
			}
			_ = a.DeleteAccount(ctx)

		case "logout":
			if !requireLogin(a) {
				continue
			}
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func requireLogin(a execIface) bool {
	if !a.isLoggedIn() {
		printlnFn("Please log in first (type 'login')")
		return false
	}
	return true
}

func parseField(s string) (workflow.Field, bool) {
	switch strings.ToLower(s) {
	case "name":
		return workflow.FieldName, true
	case "email":
		return workflow.FieldEmail, true
	case "password":
		return workflow.FieldPassword, true
	default:
		return "", false
	}
}

func printHelp(a execIface) {
	if !a.isLoggedIn() {
		printlnFn("Available commands: login, register, exit")
		return
	}
	cmds := "profile, update name|email|password, photo, classes, scheduled"
	if a.isTrainerOrAdmin() {
		cmds += ", schedule"
	}
	if a.isAdmin() {
		cmds += ", users, setrole"
	}
	cmds += ", delete-account, logout, exit"
	printlnFn("Available commands: " + cmds)
}
