package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the userauth CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The remaining tokens are passed to commands
// that take a record id. The loop exits on EOF or when the user types
// "exit" or "quit". Prompts issued by commands share the same reader.
//
// Prompt & Commands
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          authenticate
//	  - (l)ist         list user records
//	  - show <id>      show a single record
//	  - exit | quit     leave the program
//
//	Logged in, additionally:
//	  - update <id>    change name and occupation of a record
//	  - delete <id>    remove a record
//	  - logout         forget the access token
//
// Errors returned by command handlers are ignored here; handlers print their
// own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ua %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show <id>, update <id>, delete <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, (l)ist, show <id>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "update":
			_ = a.Update(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
