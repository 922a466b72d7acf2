package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cwarden/theine/internal/activity"
	"github.com/cwarden/theine/internal/log"
)

type calculatorInputJSON struct {
	TimeZoneDifference          int                 `json:"timeZoneDifference"`
	NormalSleepingHoursStart    activity.SimpleTime `json:"normalSleepingHoursStart"`
	NormalSleepingHoursDuration string              `json:"normalSleepingHoursDuration"`
}

// ExecCalculator runs an external program as the schedule calculator. The
// input is written to its stdin as a JSON object and it must print a JSON
// array of activities in the persisted document format.
type ExecCalculator struct {
	Command string
	Args    []string
}

// NewExecCalculator splits a command line on whitespace.
func NewExecCalculator(commandLine string) (*ExecCalculator, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("calculator command is empty")
	}
	return &ExecCalculator{Command: fields[0], Args: fields[1:]}, nil
}

func (e *ExecCalculator) Calculate(ctx context.Context, in CalculatorInput) ([]activity.Activity, error) {
	payload, err := json.Marshal(calculatorInputJSON{
		TimeZoneDifference:          in.TimeZoneDifference,
		NormalSleepingHoursStart:    in.NormalSleepingHoursStart,
		NormalSleepingHoursDuration: FormatDuration(in.NormalSleepingHoursDuration),
	})
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("running calculator", "command", e.Command)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", e.Command, err, strings.TrimSpace(stderr.String()))
	}

	var raw []activityJSON
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("%s: decode output: %w", e.Command, err)
	}
	return decodeActivities(raw)
}
