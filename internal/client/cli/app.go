package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmitrijs2005/magicletters/internal/client/client"
	"github.com/dmitrijs2005/magicletters/internal/client/config"
	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/users"
	"github.com/dmitrijs2005/magicletters/internal/client/services"
	"github.com/dmitrijs2005/magicletters/internal/logging"
)

type App struct {
	config        *config.Config
	authService   services.AuthService
	adminService  services.AdminService
	letterService services.LetterService
	syncService   services.SyncService
	log           logging.Logger
	user          *models.User
	reader        *bufio.Reader
	out           io.Writer
}

// NewApp builds the services over an opened store and a remote client.
func NewApp(c *config.Config, db *sql.DB, api client.Client, log logging.Logger) *App {
	return &App{
		config:        c,
		authService:   services.NewAuthService(db),
		adminService:  services.NewAdminService(users.NewSQLiteRepository(db)),
		letterService: services.NewLetterService(db),
		syncService:   services.NewSyncService(api, db, log),
		log:           log,
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
	}
}

// Run resumes a previous session, if any, and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.log.Error(ctx, "restore session", "error", err)
	}
	a.user = u
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) isAdmin() bool {
	return a.user != nil && a.user.Role == models.RoleAdmin
}

func (a *App) phone() string {
	if a.user == nil {
		return ""
	}
	return a.user.Phone
}
