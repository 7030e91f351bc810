package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/magicletters/internal/common"
)

// getSimpleText and getMultiline are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline

// Login authenticates by phone number, taken from args or prompted for.
func (a *App) Login(ctx context.Context, args []string) error {
	var phone string
	if len(args) > 0 {
		phone = args[0]
	} else {
		var err error
		if phone, err = getSimpleText(a.reader, "Enter phone number", a.out); err != nil {
			return err
		}
	}

	u, err := a.authService.LoginByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no user is registered with phone %s", phone)
		}
		return err
	}

	a.user = u
	a.log.Info(ctx, "logged in", "user_id", u.ID, "role", string(u.Role))
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	return nil
}

// Logout closes the session. Local letters stay on the device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		a.user = nil
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s) phone=%s email=%s\n", u.Name, u.Role, u.Phone, u.Email)
	return nil
}
