package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/common"
)

// getSimpleText, getPassword and getMetadata are indirections used to
// facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMetadata = GetMetadata

// errExit ends the run without an error status.
var errExit = errors.New("exit")

const initMenu = `
======= ATM =======
[1] login
[2] register
[3] exit`

// authenticate runs the init menu until the operator has a session.
// A failed login re-prompts; a locked authenticator or an invalid selection
// returns errExit.
func (a *App) authenticate(ctx context.Context) error {
	for {
		choice, err := a.prompt(initMenu)
		if err != nil {
			return err
		}

		switch choice {
		case "1", "login":
			err = a.Login(ctx)
		case "2", "register":
			err = a.Register(ctx)
		case "3", "exit", "quit":
			return errExit
		default:
			printlnFn("Insert a valid operation!")
			return errExit
		}

		if err == nil {
			return nil
		}
		report(err)
		if errors.Is(err, common.ErrTooManyAttempts) {
			return errExit
		}
	}
}

func (a *App) credentials() (string, []byte, error) {
	name, err := a.prompt("Enter user name")
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return name, password, nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	name, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Login(ctx, name, password)
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) && !errors.Is(err, common.ErrTooManyAttempts) {
			return fmt.Errorf("%w (%d of %d attempts left)", err,
				a.auth.MaxAttempts()-a.auth.Attempts(), a.auth.MaxAttempts())
		}
		return err
	}

	a.session = s
	printlnFn(fmt.Sprintf("Welcome, %s!", s.User))
	return nil
}

// Register prompts for credentials, creates the user and logs it in.
func (a *App) Register(ctx context.Context) error {
	name, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Register(ctx, name, password)
	if err != nil {
		return err
	}

	a.session = s
	printlnFn(fmt.Sprintf("Registered. Welcome, %s!", s.User))
	return nil
}
