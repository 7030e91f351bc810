package cli

import (
	"context"
	"fmt"
)

// Techs handles "techs", "techs add", "techs update <id>" and "techs del <id>".
func (a *App) Techs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listTechs(ctx)
	}
	switch {
	case args[0] == "add" && len(args) == 1:
		name, phone, email, err := a.promptUser()
		if err != nil {
			return err
		}
		u, err := a.adminService.CreateTechnician(ctx, name, phone, email)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Technician %s created (%s)\n", u.Name, u.ID)
	case args[0] == "update" && len(args) == 2:
		name, phone, email, err := a.promptUser()
		if err != nil {
			return err
		}
		if err := a.adminService.UpdateUser(ctx, args[1], name, phone, email); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Technician updated")
	case args[0] == "del" && len(args) == 2:
		if err := a.adminService.DeleteUser(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Technician deleted")
	default:
		return usage("techs [add | update <id> | del <id>]")
	}
	return nil
}

func (a *App) listTechs(ctx context.Context) error {
	list, err := a.adminService.ListTechnicians(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No technicians")
	}
	for _, u := range list {
		fmt.Fprintf(a.out, "%s  %-24s %-16s %s\n", u.ID, u.Name, u.Phone, u.Email)
	}
	return nil
}

func (a *App) promptUser() (name, phone, email string, err error) {
	if name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return
	}
	if phone, err = getSimpleText(a.reader, "Phone", a.out); err != nil {
		return
	}
	email, err = getSimpleText(a.reader, "Email (optional)", a.out)
	return
}
