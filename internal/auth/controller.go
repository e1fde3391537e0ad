package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/storage"
)

// State is the position in the auth flow.
type State string

const (
	StateAnonymous           State = "anonymous"
	StatePendingVerification State = "pendingVerification"
	StateAuthenticated       State = "authenticated"
)

// Routes the controller navigates to.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// Outcomes reported to an Observer.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// API is the subset of the remote client used by the auth flow.
type API interface {
	Login(ctx context.Context, email, password string) (*neoapi.LoginResponse, error)
	Register(ctx context.Context, req neoapi.RegisterRequest) error
	Verify(ctx context.Context, email, code string) error
	ResendCode(ctx context.Context, email string) error
	DeleteAccount(ctx context.Context) error
	SetToken(token string)
}

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Observer receives one call per finished auth action.
type Observer interface {
	ObserveAuth(action, outcome string)
}

// PendingRegistration is the draft kept between register and verify.
type PendingRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Profile is the identity kept in local storage.
type Profile struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Controller drives login, registration, verification and logout.
type Controller struct {
	api      API
	store    storage.Store
	nav      Navigator
	bus      *Bus
	observer Observer
	log      *slog.Logger

	mu      sync.Mutex
	state   State
	pending *PendingRegistration
}

// Option configures a Controller.
type Option func(*Controller)

func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// NewController creates a controller in the anonymous state. Call Restore to
// pick up a session saved by an earlier process.
func NewController(api API, store storage.Store, nav Navigator, bus *Bus, opts ...Option) *Controller {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if bus == nil {
		bus = NewBus()
	}

	c := &Controller{
		api:   api,
		store: store,
		nav:   nav,
		bus:   bus,
		log:   slog.With("component", "auth"),
		state: StateAnonymous,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bus returns the bus auth-changed events are published on.
func (c *Controller) Bus() *Bus {
	return c.bus
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Login exchanges credentials for a token, persists the session and navigates
// home. Nothing is stored when the call fails or returns no token.
func (c *Controller) Login(ctx context.Context, email, password string) (err error) {
	defer func() { c.observe("login", err) }()

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.log.Warn("Login failed", "email", email, "error", err)
		return err
	}
	if resp == nil || resp.Token == "" {
		c.log.Error("Login returned no token", "email", email)
		return ErrNoToken
	}

	if err := c.store.Delete(storage.KeyUserName, storage.KeyUserEmail); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	// The token goes last: Restore trusts a stored token, so it must never
	// outlive a failed profile write.
	if err := c.storeSession(resp); err != nil {
		if cleanupErr := c.store.Delete(storage.KeyToken, storage.KeyUserName, storage.KeyUserEmail); cleanupErr != nil {
			c.log.Error("Failed to clear partial session", "error", cleanupErr)
		}
		return err
	}

	c.api.SetToken(resp.Token)

	c.mu.Lock()
	c.state = StateAuthenticated
	c.mu.Unlock()

	c.log.Info("Logged in", "email", email, "user_id", resp.User.ID)
	c.bus.Publish(Event{Kind: EventAuthChanged, State: StateAuthenticated})
	c.nav.Navigate(RouteHome)
	return nil
}

func (c *Controller) storeSession(resp *neoapi.LoginResponse) error {
	if resp.User.Name != "" {
		if err := c.store.Set(storage.KeyUserName, resp.User.Name); err != nil {
			return fmt.Errorf("failed to store user name: %w", err)
		}
	}
	if resp.User.Email != "" {
		if err := c.store.Set(storage.KeyUserEmail, resp.User.Email); err != nil {
			return fmt.Errorf("failed to store user email: %w", err)
		}
	}
	if err := c.store.Set(storage.KeyToken, resp.Token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Register creates the account and keeps the credentials until the emailed
// code is verified.
func (c *Controller) Register(ctx context.Context, email, password, name string) (err error) {
	defer func() { c.observe("register", err) }()

	if err := c.api.Register(ctx, neoapi.RegisterRequest{Email: email, Password: password, Name: name}); err != nil {
		c.log.Warn("Registration failed", "email", email, "error", err)
		return err
	}

	pending := &PendingRegistration{Email: email, Password: password, Name: name}
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to encode pending registration: %w", err)
	}
	if err := c.store.Set(storage.KeyPendingVerification, string(data)); err != nil {
		return fmt.Errorf("failed to store pending registration: %w", err)
	}

	c.mu.Lock()
	c.pending = pending
	c.state = StatePendingVerification
	c.mu.Unlock()

	c.log.Info("Registration pending verification", "email", email)
	return nil
}

// VerifyCode confirms the pending registration and logs in with its
// credentials. The pending record is kept if any step fails.
func (c *Controller) VerifyCode(ctx context.Context, code string) (err error) {
	defer func() { c.observe("verify", err) }()

	pending, err := c.loadPending()
	if err != nil {
		return err
	}

	if err := c.api.Verify(ctx, pending.Email, code); err != nil {
		c.log.Warn("Verification failed", "email", pending.Email, "error", err)
		return err
	}
	if err := c.Login(ctx, pending.Email, pending.Password); err != nil {
		return err
	}

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	if err := c.store.Delete(storage.KeyPendingVerification); err != nil {
		return fmt.Errorf("failed to clear pending registration: %w", err)
	}
	return nil
}

// ResendCode asks for a new code for the pending registration.
func (c *Controller) ResendCode(ctx context.Context) (err error) {
	defer func() { c.observe("resend_code", err) }()

	pending, err := c.loadPending()
	if err != nil {
		return err
	}
	return c.api.ResendCode(ctx, pending.Email)
}

// PendingEmail returns the address awaiting verification, if any.
func (c *Controller) PendingEmail() string {
	pending, err := c.loadPending()
	if err != nil {
		return ""
	}
	return pending.Email
}

// CancelRegistration forgets the pending registration.
func (c *Controller) CancelRegistration() error {
	c.mu.Lock()
	c.pending = nil
	if c.state == StatePendingVerification {
		c.state = StateAnonymous
	}
	c.mu.Unlock()

	if err := c.store.Delete(storage.KeyPendingVerification); err != nil {
		return fmt.Errorf("failed to clear pending registration: %w", err)
	}
	return nil
}

// Logout clears the stored session and the client token, then navigates to
// the login view. In-memory state is reset even when storage fails.
func (c *Controller) Logout() (err error) {
	defer func() { c.observe("logout", err) }()

	storeErr := c.store.Delete(storage.KeyToken, storage.KeyUserName, storage.KeyUserEmail)
	c.api.SetToken("")

	c.mu.Lock()
	c.state = StateAnonymous
	c.mu.Unlock()

	c.log.Info("Logged out")
	c.bus.Publish(Event{Kind: EventAuthChanged, State: StateAnonymous})
	c.nav.Navigate(RouteLogin)

	if storeErr != nil {
		return fmt.Errorf("failed to clear session: %w", storeErr)
	}
	return nil
}

// DeleteAccount removes the remote profile and logs out.
func (c *Controller) DeleteAccount(ctx context.Context) (err error) {
	defer func() { c.observe("delete_account", err) }()

	if c.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}
	if err := c.api.DeleteAccount(ctx); err != nil {
		c.log.Error("Failed to delete account", "error", err)
		return err
	}
	return c.Logout()
}

// Restore rehydrates the session from storage: a stored token authenticates
// the client, otherwise a stored draft resumes verification.
func (c *Controller) Restore() (State, error) {
	token, err := c.store.Get(storage.KeyToken)
	switch {
	case err == nil && token != "":
		c.api.SetToken(token)
		c.mu.Lock()
		c.state = StateAuthenticated
		c.mu.Unlock()
		c.log.Debug("Session restored")
		return StateAuthenticated, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return StateAnonymous, fmt.Errorf("failed to read token: %w", err)
	}

	if _, err := c.loadPending(); err == nil {
		c.mu.Lock()
		c.state = StatePendingVerification
		c.mu.Unlock()
		return StatePendingVerification, nil
	} else if !errors.Is(err, ErrSessionExpired) {
		return StateAnonymous, err
	}

	c.mu.Lock()
	c.state = StateAnonymous
	c.mu.Unlock()
	return StateAnonymous, nil
}

// Profile returns the stored identity.
func (c *Controller) Profile() (Profile, error) {
	var p Profile

	token, err := c.getOptional(storage.KeyToken)
	if err != nil {
		return p, err
	}
	p.Authenticated = token != ""

	if p.Name, err = c.getOptional(storage.KeyUserName); err != nil {
		return p, err
	}
	if p.Email, err = c.getOptional(storage.KeyUserEmail); err != nil {
		return p, err
	}
	return p, nil
}

// loadPending returns the pending registration from memory, falling back to
// storage. A missing or unreadable record is ErrSessionExpired.
func (c *Controller) loadPending() (*PendingRegistration, error) {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()
	if pending != nil {
		return pending, nil
	}

	raw, err := c.store.Get(storage.KeyPendingVerification)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending registration: %w", err)
	}

	var stored PendingRegistration
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Email == "" {
		c.log.Warn("Discarding unreadable pending registration", "error", err)
		return nil, ErrSessionExpired
	}

	c.mu.Lock()
	c.pending = &stored
	c.mu.Unlock()
	return &stored, nil
}

func (c *Controller) getOptional(key string) (string, error) {
	v, err := c.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

func (c *Controller) observe(action string, err error) {
	if c.observer == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.observer.ObserveAuth(action, outcome)
}
