package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/log"
	"github.com/cwarden/theine/internal/parser"
	"github.com/cwarden/theine/internal/refresh"
	"github.com/cwarden/theine/internal/relative"
)

var (
	listAt     string
	listFollow bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the schedule and exit",
	Long: `Print every activity with when it starts relative to now and how long it
lasts. With --follow the list is reprinted every minute until interrupted.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listAt, "at", "", `Pretend it is this time ("tomorrow 7am", "in 3 hours")`)
	listCmd.Flags().BoolVarP(&listFollow, "follow", "f", false, "Reprint every minute")
	rootCmd.AddCommand(listCmd)
}

// resolveNow returns the instant named by an --at flag, or the current time.
func resolveNow(at string) (time.Time, error) {
	if at == "" {
		return time.Now(), nil
	}
	now, err := parser.NewTimeParser().ParseInstant(at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at: %w", err)
	}
	return now, nil
}

func runList(cmd *cobra.Command, args []string) error {
	now, err := resolveNow(listAt)
	if err != nil {
		return err
	}

	container, err := loadContainer()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printList(out, container.Snapshot().Activities, now, cfg.TimeFormat)

	if !listFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A pinned --at instant advances with the wall clock.
	offset := now.Sub(time.Now())
	trigger, err := refresh.Start(refresh.EveryMinute, func() {
		if fresh, err := loadContainer(); err == nil {
			container = fresh
		} else {
			log.Error("reload state", err, "path", cfg.StateFile)
		}
		acts := container.Snapshot().Activities
		fmt.Fprintln(out)
		printList(out, acts, time.Now().Add(offset), cfg.TimeFormat)
	})
	if err != nil {
		return err
	}
	defer trigger.Stop()

	<-ctx.Done()
	return nil
}

func printList(w io.Writer, acts []activity.Activity, now time.Time, clock int) {
	layout := "Mon 3:04 PM"
	if clock == 24 {
		layout = "Mon 15:04"
	}

	fmt.Fprintf(w, "Schedule as of %s:\n", now.Format(layout))
	if len(acts) == 0 {
		fmt.Fprintln(w, "No activities found.")
		return
	}

	for _, a := range acts {
		line := fmt.Sprintf("  %s  %-18s %s", a.StartTime.Format(layout), a.Type.Title(), relative.Until(a.StartTime, now))
		if span, ok := relative.FormatSpan(a.Duration); ok {
			line += ", " + span
		}
		fmt.Fprintln(w, line)
	}
}
