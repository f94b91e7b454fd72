package power

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/oshokin/ubuntu-bootstrap/internal/runner"
)

// rebootMessage is broadcast to logged-in users by shutdown.
const rebootMessage = "Rebooting to finish provisioning. Cancel with: shutdown -c"

// ScheduleReboot schedules a delayed system reboot via the standard
// shutdown tool: `shutdown -r +<minutes>`. The command returns immediately
// after registering the timer, and the operator can cancel the pending
// reboot with `shutdown -c` until it fires.
// It returns the approximate time the reboot will happen.
func ScheduleReboot(ctx context.Context, r runner.Runner, delayMinutes int) (time.Time, error) {
	if _, err := r.Run(ctx, runner.Options{
		Name: "shutdown",
		Args: []string{"-r", "+" + strconv.Itoa(delayMinutes), rebootMessage},
	}); err != nil {
		return time.Time{}, fmt.Errorf("schedule reboot: %w", err)
	}

	return time.Now().Add(time.Duration(delayMinutes) * time.Minute), nil
}

// CancelReboot cancels a pending scheduled reboot.
func CancelReboot(ctx context.Context, r runner.Runner) error {
	if _, err := r.Run(ctx, runner.Options{
		Name: "shutdown",
		Args: []string{"-c"},
	}); err != nil {
		return fmt.Errorf("cancel reboot: %w", err)
	}

	return nil
}
