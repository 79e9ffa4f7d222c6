package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/atm/models"
	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/cryptox"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

const DefaultMaxLoginAttempts = 3

type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateAuthenticating
	StateAuthenticated
	StateLocked
)

func (s AuthState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Authenticator gates the run behind a single successful login or
// registration. After maxAttempts failed logins it locks for the rest of
// the run.
type Authenticator struct {
	creds       *CredentialStore
	log         logging.Logger
	maxAttempts int
	now         func() time.Time

	mu       sync.Mutex
	state    AuthState
	attempts int
	session  models.Session
}

func NewAuthenticator(creds *CredentialStore, log logging.Logger, maxAttempts int) *Authenticator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	return &Authenticator{
		creds:       creds,
		log:         log.With("component", "auth"),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// gate must be called with mu held.
func (a *Authenticator) gate() error {
	switch a.state {
	case StateAuthenticated:
		return common.ErrAlreadyAuthenticated
	case StateLocked:
		return common.ErrTooManyAttempts
	}
	return nil
}

// Login checks name and password. Unknown users and wrong passwords fail
// the same way and both count against the attempt limit.
func (a *Authenticator) Login(ctx context.Context, name string, password []byte) (session models.Session, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer logResult(ctx, a.log, "login", &err, "user", name)

	if err := a.gate(); err != nil {
		return models.Session{}, err
	}
	a.state = StateAuthenticating

	ok, err := a.creds.VerifyPassword(ctx, name, password)
	switch {
	case errors.Is(err, common.ErrUserNotFound):
		// spend the same work as a real check
		cryptox.HashPassword(password, cryptox.NewSalt())
	case err != nil:
		a.state = StateUnauthenticated
		return models.Session{}, err
	}

	if !ok {
		a.attempts++
		if a.attempts >= a.maxAttempts {
			a.state = StateLocked
			return models.Session{}, common.ErrTooManyAttempts
		}
		return models.Session{}, common.ErrAuthenticationFailed
	}

	return a.authenticate(name), nil
}

// Register creates the user and authenticates it straight away.
func (a *Authenticator) Register(ctx context.Context, name string, password []byte) (session models.Session, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer logResult(ctx, a.log, "register", &err, "user", name)

	if err := a.gate(); err != nil {
		return models.Session{}, err
	}

	if _, err := a.creds.CreateUser(ctx, name, password); err != nil {
		return models.Session{}, err
	}
	return a.authenticate(name), nil
}

func (a *Authenticator) authenticate(name string) models.Session {
	a.state = StateAuthenticated
	a.session = models.Session{User: name, StartedAt: a.now().UTC()}
	return a.session
}

func (a *Authenticator) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Attempts returns the number of failed logins so far.
func (a *Authenticator) Attempts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attempts
}

func (a *Authenticator) MaxAttempts() int { return a.maxAttempts }

func (a *Authenticator) Session() (models.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session, a.state == StateAuthenticated
}
