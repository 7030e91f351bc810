package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

func (a *App) Create(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("create <child-code>")
	}
	id, err := a.letterService.Create(ctx, args[0], a.phone())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created letter %s\n", id)
	return nil
}

// List shows the user's actionable letters, or all of them with "all".
func (a *App) List(ctx context.Context, args []string) error {
	all := len(args) > 0 && args[0] == "all"
	list, err := a.letterService.List(ctx, a.phone(), !all)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No letters")
		return nil
	}
	for i := range list {
		fmt.Fprintln(a.out, summary(&list[i]))
	}
	return nil
}

func summary(l *models.Letter) string {
	due := l.DueDate
	if due == "" {
		due = "-"
	}
	mark := func(ok bool) string {
		if ok {
			return "x"
		}
		return " "
	}
	return fmt.Sprintf("%-28s %-12s %-13s due %-10s [%s] message [%d] photos [%s] drawing",
		l.LocalID, l.ChildCode, l.Status, due, mark(l.HasMessage), l.PhotosCount, mark(l.HasDrawing))
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	d, err := a.letterService.Detail(ctx, args[0])
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("letter %s not found", args[0])
	}

	l := d.Letter
	fmt.Fprintln(a.out, summary(&l))
	fmt.Fprintf(a.out, "Child:   %s %s (%s)\n", l.ChildCode, l.ChildName, l.Village)
	if l.ServerID != "" {
		fmt.Fprintf(a.out, "Server:  %s slip %s contact %s\n", l.ServerID, l.SlipID, l.ContactName)
	}
	if l.ReturnReason != "" {
		fmt.Fprintf(a.out, "Returned: %s\n", l.ReturnReason)
	}
	fmt.Fprintf(a.out, "Message:\n%s\n", l.Message)
	for _, p := range d.Photos {
		fmt.Fprintf(a.out, "Photo %d: %s\n", p.Slot, p.Path)
	}
	if d.Drawing != nil {
		switch d.Drawing.Kind {
		case models.DrawingRaster:
			fmt.Fprintf(a.out, "Drawing: %s\n", d.Drawing.Content)
		default:
			strokes, err := d.Drawing.Strokes()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Drawing: %d strokes\n", len(strokes))
		}
	}
	fmt.Fprintf(a.out, "Ready to submit: %t\n", l.ReadyToSubmit())
	return nil
}

func (a *App) Message(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("message <id>")
	}
	text, err := getMultiline(a.reader, "Write the message", a.out)
	if err != nil {
		return err
	}
	if err := a.letterService.SaveMessage(ctx, args[0], text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Message saved")
	return nil
}

// Photo handles "photo add <id> <path>" and "photo del <id> <slot>".
func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usage("photo add <id> <path> | photo del <id> <slot>")
	}
	switch args[0] {
	case "add":
		slot, err := a.letterService.AddPhoto(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Photo stored in slot %d\n", slot)
	case "del":
		slot, err := strconv.Atoi(args[2])
		if err != nil {
			return usage("photo del <id> <slot>")
		}
		if err := a.letterService.DeletePhoto(ctx, args[1], slot); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Slot %d cleared\n", slot)
	default:
		return usage("photo add <id> <path> | photo del <id> <slot>")
	}
	return nil
}

// Drawing handles "drawing <id> <file>" and "drawing <id> clear". A .json
// file holds vector strokes; anything else is a rendered image.
func (a *App) Drawing(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("drawing <id> <file.png|strokes.json> | drawing <id> clear")
	}
	id, arg := args[0], args[1]

	if arg == "clear" {
		if err := a.letterService.ClearDrawing(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Drawing cleared")
		return nil
	}

	var d models.Drawing
	if strings.EqualFold(filepath.Ext(arg), ".json") {
		data, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		var strokes []models.Stroke
		if err := json.Unmarshal(data, &strokes); err != nil {
			return fmt.Errorf("read strokes: %w", err)
		}
		if d, err = models.NewVectorDrawing(id, strokes); err != nil {
			return err
		}
	} else {
		d = models.NewRasterDrawing(id, arg)
	}

	if err := a.letterService.SaveDrawing(ctx, d); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Drawing saved")
	return nil
}

func (a *App) Complete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("complete <id>")
	}
	if err := a.letterService.MarkComplete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Letter is ready to sync")
	return nil
}
