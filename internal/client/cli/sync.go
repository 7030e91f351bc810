package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/magicletters/internal/client/services"
)

func (a *App) Sync(ctx context.Context) error {
	res, err := a.syncService.Sync(ctx, a.phone())
	a.printPush(res.Push)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Received %d assigned letters\n", res.Pulled)
	return nil
}

func (a *App) Pull(ctx context.Context) error {
	n, err := a.syncService.Pull(ctx, a.phone())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Received %d assigned letters\n", n)
	return nil
}

func (a *App) Push(ctx context.Context) error {
	rep, err := a.syncService.Push(ctx)
	a.printPush(rep)
	return err
}

func (a *App) printPush(rep services.PushReport) {
	if rep.Attempted == 0 {
		return
	}
	fmt.Fprintf(a.out, "Uploaded %d of %d letters\n", rep.Synced, rep.Attempted)
	ids := make([]string, 0, len(rep.Failures))
	for id := range rep.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(a.out, "  %s: %v\n", id, rep.Failures[id])
	}
}

// Status prints when this device last pulled and pushed letters.
func (a *App) Status(ctx context.Context) error {
	st, err := a.syncService.LastSync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Last pull: %s\n", syncTime(st.Pull))
	fmt.Fprintf(a.out, "Last push: %s\n", syncTime(st.Push))
	return nil
}

func syncTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
