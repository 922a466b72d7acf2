package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/log"
	"github.com/cwarden/theine/internal/parser"
	"github.com/cwarden/theine/internal/state"
)

var (
	inputTZ            int
	inputSleepStart    string
	inputSleepDuration string
	inputBreakfast     string
	inputLunch         string
	inputDinner        string
	inputRecalculate   bool
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Show or change the schedule inputs",
	Long: `Without flags, print the stored inputs. Flags change them and mark the
schedule as needing recalculation. Meal times accept "none" to clear them.`,
	Example: `  theine input --tz 9 --sleep-start 11pm --sleep-duration 7h30m
  theine input --lunch none --recalculate`,
	RunE: runInput,
}

func init() {
	f := inputCmd.Flags()
	f.IntVar(&inputTZ, "tz", 0, "Hours to shift, positive when travelling east")
	f.StringVar(&inputSleepStart, "sleep-start", "", `Usual bedtime ("11pm", "23:00")`)
	f.StringVar(&inputSleepDuration, "sleep-duration", "", `Usual sleep length ("8h", "PT7H30M")`)
	f.StringVar(&inputBreakfast, "breakfast", "", "Usual breakfast time")
	f.StringVar(&inputLunch, "lunch", "", "Usual lunch time")
	f.StringVar(&inputDinner, "dinner", "", "Usual dinner time")
	f.BoolVar(&inputRecalculate, "recalculate", false, "Run the configured calculator afterwards")
	rootCmd.AddCommand(inputCmd)
}

func runInput(cmd *cobra.Command, args []string) error {
	container, err := loadContainer()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	changed := flags.Changed("tz") || flags.Changed("sleep-start") || flags.Changed("sleep-duration") ||
		flags.Changed("breakfast") || flags.Changed("lunch") || flags.Changed("dinner")

	if changed {
		update, err := parseInputFlags(flags.Changed)
		if err != nil {
			return err
		}
		if err := container.UpdateInput(update); err != nil {
			return err
		}
	}

	if inputRecalculate {
		calc, err := calculator()
		if err != nil {
			return err
		}
		if calc == nil {
			return fmt.Errorf("no calculator configured (set calculator in theinerc)")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Recalculate(ctx, calc); err != nil {
			return err
		}
	}

	if changed || inputRecalculate {
		if err := state.Save(cfg.StateFile, container.Snapshot()); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		log.Debug("state saved", "path", cfg.StateFile)
	}

	printInput(cmd.OutOrStdout(), container.Snapshot())
	return nil
}

// parseInputFlags parses every changed flag up front and returns the edit
// to apply. Nothing is returned unless all of them parse.
func parseInputFlags(changed func(name string) bool) (func(in *state.Input), error) {
	var edits []func(in *state.Input)

	if changed("tz") {
		tz := inputTZ
		edits = append(edits, func(in *state.Input) { in.TimeZoneDifference = tz })
	}
	if changed("sleep-start") {
		st, err := parser.ParseClock(inputSleepStart)
		if err != nil {
			return nil, fmt.Errorf("--sleep-start: %w", err)
		}
		edits = append(edits, func(in *state.Input) { in.NormalSleepingHoursStart = st })
	}
	if changed("sleep-duration") {
		d, err := parser.ParseSpan(inputSleepDuration)
		if err != nil {
			return nil, fmt.Errorf("--sleep-duration: %w", err)
		}
		edits = append(edits, func(in *state.Input) { in.NormalSleepingHoursDuration = d })
	}

	meals := []struct {
		flag  string
		value string
		dest  func(in *state.Input) **activity.SimpleTime
	}{
		{"breakfast", inputBreakfast, func(in *state.Input) **activity.SimpleTime { return &in.NormalBreakfastStart }},
		{"lunch", inputLunch, func(in *state.Input) **activity.SimpleTime { return &in.NormalLunchStart }},
		{"dinner", inputDinner, func(in *state.Input) **activity.SimpleTime { return &in.NormalDinnerStart }},
	}
	for _, m := range meals {
		if !changed(m.flag) {
			continue
		}
		st, err := parseMeal(m.value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", m.flag, err)
		}
		dest := m.dest
		edits = append(edits, func(in *state.Input) { *dest(in) = st })
	}

	return func(in *state.Input) {
		for _, edit := range edits {
			edit(in)
		}
	}, nil
}

func parseMeal(value string) (*activity.SimpleTime, error) {
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return nil, nil
	}
	st, err := parser.ParseClock(value)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func printInput(w io.Writer, s state.State) {
	in := s.Input
	meal := func(st *activity.SimpleTime) string {
		if st == nil {
			return "-"
		}
		return st.String()
	}

	fmt.Fprintf(w, "Time zone difference: %+d hours\n", in.TimeZoneDifference)
	fmt.Fprintf(w, "Sleep:                %s for %s\n", in.NormalSleepingHoursStart, state.FormatDuration(in.NormalSleepingHoursDuration))
	fmt.Fprintf(w, "Breakfast:            %s\n", meal(in.NormalBreakfastStart))
	fmt.Fprintf(w, "Lunch:                %s\n", meal(in.NormalLunchStart))
	fmt.Fprintf(w, "Dinner:               %s\n", meal(in.NormalDinnerStart))
	fmt.Fprintf(w, "Activities:           %d\n", len(s.Activities))
	if in.Fresh {
		fmt.Fprintln(w, "Inputs changed since the last calculation.")
	}
}
