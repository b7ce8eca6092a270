package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gymnastic-app/gymcli/internal/client/models"
	"github.com/gymnastic-app/gymcli/internal/client/services"
)

// Classes lists the gym class catalog.
func (a *App) Classes(ctx context.Context) error {
	classes, err := a.classService.Classes(ctx)
	if err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not load classes: " + err.Error())
		return err
	}

	if len(classes) == 0 {
		printlnFn("No classes yet")
		return nil
	}

	for _, c := range classes {
		printlnFn(fmt.Sprintf("%s — %s (%s, %s)", c.Name, c.Description, c.Duration, c.Schedule))
	}
	return nil
}

// ScheduledClasses lists the scheduled class sessions.
func (a *App) ScheduledClasses(ctx context.Context) error {
	classes, err := a.classService.ScheduledClasses(ctx)
	if err != nil {
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not load scheduled classes: " + err.Error())
		return err
	}

	if len(classes) == 0 {
		printlnFn("Nothing scheduled")
		return nil
	}

	for _, c := range classes {
		printlnFn(fmt.Sprintf("%s on %s at %s (%s) — %s <%s>",
			c.ClassName, c.Date, c.Time, c.Duration, c.Trainer, c.TrainerEmail))
	}
	return nil
}

// ScheduleClass interactively schedules a new class session. All fields are
// required; incomplete submissions never reach the server.
func (a *App) ScheduleClass(ctx context.Context) error {
	var class models.ScheduledClass

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Trainer name", &class.Trainer},
		{"Trainer email", &class.TrainerEmail},
		{"Class name", &class.ClassName},
		{"Duration", &class.Duration},
		{"Time", &class.Time},
		{"Date", &class.Date},
	}

	for _, p := range prompts {
		value, err := getSimpleText(a.reader, p.label, os.Stdout)
		if err != nil {
			return err
		}
		*p.dst = value
	}

	if err := a.classService.Schedule(ctx, class); err != nil {
		if errors.Is(err, services.ErrIncompleteClass) {
			printlnFn("All fields are required")
			return nil
		}
		if a.handleSessionError(ctx, err) {
			return nil
		}
		printlnFn("Could not schedule class: " + err.Error())
		a.log.Warn(ctx, "class scheduling failed", "err", err)
		return nil
	}

	printlnFn("Class scheduled")
	return nil
}
