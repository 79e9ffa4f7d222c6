package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the main menu dispatches to. App
// satisfies it; tests use a lightweight stub.
type execIface interface {
	Create(ctx context.Context) error
	Update(ctx context.Context) error
	Check(ctx context.Context) error
	List(ctx context.Context) error
	Transaction(ctx context.Context) error
	Remove(ctx context.Context) error
	Owner(ctx context.Context) error
	History(ctx context.Context) error
	Export(ctx context.Context) error
}

const mainMenu = `
======= ATM =======
[1] create       Create a new account
[2] update       Update account information
[3] check        Check account details
[4] list         List owned accounts
[5] transaction  Make a transaction
[6] remove       Remove existing account
[7] owner        Transfer ownership
[8] exit         Exit
    history      Account history
    export       Write a snapshot
    help         Show this menu`

// report prints a failed command. Known outcomes print their message,
// anything else is an internal failure.
func report(err error) {
	switch {
	case errors.Is(err, common.ErrIntegrity):
		printlnFn("Internal error: the bank data is inconsistent, nothing was changed")
	case isUserError(err):
		printlnFn("Error:", err.Error())
	default:
		printlnFn("Internal error:", err.Error())
	}
}

var userErrors = []error{
	common.ErrDuplicateUser, common.ErrUserNotFound, common.ErrInvalidUserName,
	common.ErrAuthenticationFailed, common.ErrAlreadyAuthenticated,
	common.ErrAccountNotFound, common.ErrOwnerNotFound, common.ErrNotOwner, common.ErrSameOwner,
	common.ErrInvalidAmount, common.ErrInsufficientFunds, common.ErrSameAccount,
	common.ErrIncorrectMetadata, errCancelled,
}

func isUserError(err error) bool {
	for _, e := range userErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// runREPL reads one command per line from r and dispatches it to a until
// exit, EOF, or an invalid selection. Commands may be given by number or
// by name. A failing command is reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	printlnFn(mainMenu)
	for {
		printlnFn(fmt.Sprintf("atm> %s > ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(mainMenu)
		case "1", "create":
			cmdErr = a.Create(ctx)
		case "2", "update":
			cmdErr = a.Update(ctx)
		case "3", "check":
			cmdErr = a.Check(ctx)
		case "4", "list":
			cmdErr = a.List(ctx)
		case "5", "transaction":
			cmdErr = a.Transaction(ctx)
		case "6", "remove":
			cmdErr = a.Remove(ctx)
		case "7", "owner":
			cmdErr = a.Owner(ctx)
		case "history":
			cmdErr = a.History(ctx)
		case "export":
			cmdErr = a.Export(ctx)
		case "8", "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Invalid operation:", cmd)
			return
		}

		if cmdErr != nil {
			report(cmdErr)
		}
	}
}
