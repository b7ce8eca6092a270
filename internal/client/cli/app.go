package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gymnastic-app/gymcli/internal/client/api"
	"github.com/gymnastic-app/gymcli/internal/client/config"
	"github.com/gymnastic-app/gymcli/internal/client/models"
	"github.com/gymnastic-app/gymcli/internal/client/roles"
	"github.com/gymnastic-app/gymcli/internal/client/services"
	"github.com/gymnastic-app/gymcli/internal/client/session"
	"github.com/gymnastic-app/gymcli/internal/filex"
	"github.com/gymnastic-app/gymcli/internal/logging"

	_ "modernc.org/sqlite"
)

// State is the session-gated view state of the app. Unknown lasts only
// until the first read of the persisted session completes.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

// App wires the services together and carries the view state of the REPL.
//
// The epoch counter guards against stale responses: it is bumped whenever
// the session is invalidated, and any in-flight call that started under an
// older epoch discards its result instead of applying it.
type App struct {
	config       *config.Config
	authService  services.AuthService
	classService services.ClassService
	userAdmin    services.UserAdminService
	log          logging.Logger
	reader       *bufio.Reader

	mu    sync.Mutex
	state State
	user  *models.User
	epoch uint64
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	dbPath, err := filex.EnsureParentDir(cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing session database", "err", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout, store.Token)

	as := services.NewAuthService(apiClient, store, cfg.BaseURL)
	cs := services.NewClassService(apiClient)
	ua := services.NewUserAdminService(apiClient)

	return &App{
		config:       cfg,
		authService:  as,
		classService: cs,
		userAdmin:    ua,
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		state:        StateUnknown,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	a.evaluateSession(ctx)

	go a.StartSessionWatcher(ctx, a.config.SessionWatchInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) isLoggedIn() bool {
	return a.State() == StateAuthenticated
}

func (a *App) isAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateAuthenticated || a.user == nil {
		return false
	}
	return roles.Normalize(a.user.Role).IsAdmin()
}

func (a *App) isTrainerOrAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateAuthenticated || a.user == nil {
		return false
	}
	return roles.Normalize(a.user.Role).IsTrainerOrAdmin()
}

func (a *App) currentEpoch() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.epoch
}

// applyLogin installs the signed-in user unless the session was invalidated
// while the request was in flight.
func (a *App) applyLogin(epoch uint64, user *models.User) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch {
		return false
	}
	a.state = StateAuthenticated
	a.user = user
	return true
}

// handleSessionError reacts to a session-affecting failure from an
// authenticated call. A token the server rejected is not retried: the whole
// persisted session is cleared and the view drops to unauthenticated.
// Returns true when err was such a failure and has been handled.
func (a *App) handleSessionError(ctx context.Context, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}

	_ = a.authService.Logout(ctx)
	a.invalidateSession()
	a.log.Warn(ctx, "token rejected by server, signing out", "err", err)
	printlnFn("Session ended, please log in again")
	return true
}

// invalidateSession drops the view to unauthenticated and bumps the epoch
// so in-flight responses are discarded rather than applied to a stale view.
func (a *App) invalidateSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.epoch++
	a.state = StateUnauthenticated
	a.user = nil
}

// evaluateSession performs the one startup read of the persisted session
// that moves the app out of StateUnknown.
func (a *App) evaluateSession(ctx context.Context) {
	authenticated, err := a.authService.Authenticated(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to read session", "err", err)
		authenticated = false
	}

	if authenticated {
		expired, err := a.authService.TokenExpired(ctx)
		if err == nil && expired {
			a.log.Warn(ctx, "stored session expired, signing out")
			_ = a.authService.Logout(ctx)
			authenticated = false
		}
	}

	a.mu.Lock()
	if authenticated {
		a.state = StateAuthenticated
	} else {
		a.state = StateUnauthenticated
	}
	a.mu.Unlock()

	if authenticated {
		a.refreshUser(ctx)
	}
}

// refreshUser re-fetches the signed-in user's record for display. The
// result is dropped if the session changed while the request was running.
func (a *App) refreshUser(ctx context.Context) {
	epoch := a.currentEpoch()

	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if a.handleSessionError(ctx, err) {
			return
		}
		a.log.Error(ctx, "failed to load user", "err", err)
		return
	}

	a.mu.Lock()
	if epoch == a.epoch && a.state == StateAuthenticated {
		a.user = user
	}
	a.mu.Unlock()
}

// StartSessionWatcher polls the persisted session so external changes are
// observed: a logout in another process or an expired token forces the
// transition to unauthenticated. The app never assumes it owns the only
// writer of session state.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			a.checkSession(checkCtx)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkSession(ctx context.Context) {
	authenticated, err := a.authService.Authenticated(ctx)
	if err != nil {
		a.log.Error(ctx, "session check failed", "err", err)
		return
	}

	if authenticated {
		expired, err := a.authService.TokenExpired(ctx)
		if err == nil && expired {
			a.log.Warn(ctx, "session expired, signing out")
			_ = a.authService.Logout(ctx)
			authenticated = false
		}
	}

	a.mu.Lock()
	adopted := false
	switch {
	case a.state == StateAuthenticated && !authenticated:
		a.epoch++
		a.state = StateUnauthenticated
		a.user = nil
		printlnFn("Session ended, please log in again")
	case a.state == StateUnauthenticated && authenticated:
		// Another process signed in; adopt its session.
		a.epoch++
		a.state = StateAuthenticated
		adopted = true
	}
	a.mu.Unlock()

	// An adopted session starts with no cached user, which would leave the
	// role checks answering false; fetch the record right away.
	if adopted {
		a.refreshUser(ctx)
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateAuthenticated:
		if a.user == nil {
			return "(signed in)"
		}
		role := roles.Normalize(a.user.Role)
		s := a.user.Name
		if g := role.Glyph(); g != "" {
			s += " " + g
		}
		return fmt.Sprintf("(%s)", s)
	case StateUnknown:
		return "(...)"
	default:
		return ""
	}
}
