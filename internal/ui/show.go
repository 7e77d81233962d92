package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quorum-sh/quorum/internal/schedule"
)

const requestTimeout = 15 * time.Second

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show <room>",
		Short: "Print a room's availability without joining",
		Long: `Fetch a room and print its current availability as a table.

Each cell shows how many participants are free in that slot. Useful for
a quick glance, or for piping into other tools with --no-color.`,
		Example: `  quorum show 9f2c81d4
  quorum show https://cmon.rsvp/9f2c81d4 --no-color`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			d, err := a.fetchRoom(RoomUIDFromArg(args[0]))
			if err != nil {
				return err
			}
			PrintRoom(d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}

// fetchRoom authenticates and pulls one snapshot.
func (a *App) fetchRoom(uid string) (*schedule.Data, error) {
	if uid == "" {
		return nil, fmt.Errorf("missing room UID")
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := a.client.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}
	snap, err := a.client.GetRoom(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("fetching room %s: %w", uid, err)
	}
	d, err := snap.ScheduleData()
	if err != nil {
		return nil, fmt.Errorf("reading room %s: %w", uid, err)
	}
	return d, nil
}
