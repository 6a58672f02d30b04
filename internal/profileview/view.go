package profileview

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

const (
	SignInPath = "/signin"
	TokenKey   = "token"
)

// Client is the remote profile API.
type Client interface {
	GetProfile(ctx context.Context, token string) (Profile, error)
	UpdateProfile(ctx context.Context, token string, p Profile) (Profile, error)
	Logout(ctx context.Context) error
}

// Storage is local persistent key-value storage. A missing key reads as "".
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	RemoveItem(ctx context.Context, key string) error
}

type Navigator interface {
	Navigate(path string)
}

// State is a snapshot of what the view renders.
type State struct {
	Profile Profile
	Loading bool
	Err     string
	Editing bool
}

func (s State) ShowLoading() bool { return s.Loading }
func (s State) ShowError() bool   { return !s.Loading && s.Err != "" }
func (s State) ShowProfile() bool { return !s.Loading && s.Err == "" }

type Option func(*View)

func WithLogger(l *zap.Logger) Option {
	return func(v *View) { v.log = l }
}

// WithState seeds the view, for front ends that rebuild it on every request.
func WithState(s State) Option {
	return func(v *View) { v.state = s }
}

// View drives the profile screen. It holds no UI code: front ends call its
// operations and render State.
//
// The load path takes its token from the location's query string while
// edits take theirs from Storage. The two sources are never reconciled.
type View struct {
	client  Client
	storage Storage
	nav     Navigator
	log     *zap.Logger

	mu    sync.Mutex
	state State
}

func New(client Client, storage Storage, nav Navigator, opts ...Option) *View {
	v := &View{
		client:  client,
		storage: storage,
		nav:     nav,
		log:     zap.NewNop(),
		state:   State{Loading: true},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load fetches the profile with the token found in query. Without a token the
// view navigates to sign-in and the API is never contacted.
func (v *View) Load(ctx context.Context, query url.Values) {
	token := query.Get(TokenKey)
	if token == "" {
		v.nav.Navigate(SignInPath)
		return
	}

	p, err := v.client.GetProfile(ctx, token)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		v.log.Debug("profile load failed", zap.Error(err))
		v.state.Err = err.Error()
		return
	}
	v.state.Profile = p
	v.state.Err = ""
}

func (v *View) Edit() {
	v.mu.Lock()
	v.state.Editing = true
	v.mu.Unlock()
}

// CancelEdit closes the edit form without sending anything.
func (v *View) CancelEdit() {
	v.mu.Lock()
	v.state.Editing = false
	v.mu.Unlock()
}

// SubmitEdit sends p with the stored token. On failure the form stays as it
// was and the error is shown.
func (v *View) SubmitEdit(ctx context.Context, p Profile) {
	updated, err := v.submit(ctx, p)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.log.Error("error updating user profile", zap.Error(err))
		v.state.Err = err.Error()
		return
	}
	v.state.Profile = updated
	v.state.Editing = false
	v.state.Err = ""
}

func (v *View) submit(ctx context.Context, p Profile) (Profile, error) {
	token, err := v.storage.GetItem(ctx, TokenKey)
	if err != nil {
		return Profile{}, err
	}
	return v.client.UpdateProfile(ctx, token, p)
}

// Logout ends the session. The stored token is removed and the view goes to
// sign-in whatever the API answers; failures are only logged.
func (v *View) Logout(ctx context.Context) {
	if err := v.client.Logout(ctx); err != nil {
		v.log.Error("error logging out", zap.Error(err))
	}
	if err := v.storage.RemoveItem(ctx, TokenKey); err != nil {
		v.log.Error("failed to clear stored token", zap.Error(err))
	}
	v.nav.Navigate(SignInPath)
}
