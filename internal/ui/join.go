package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quorum-sh/quorum/internal/tui"
)

func (a *App) joinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room>",
		Short: "Join an existing room",
		Long: `Join a room someone shared with you and mark your availability.

Accepts either the bare room UID or the full share link.`,
		Example: `  quorum join 9f2c81d4
  quorum join https://cmon.rsvp/9f2c81d4`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			uid := RoomUIDFromArg(args[0])
			if uid == "" {
				return fmt.Errorf("cannot find a room UID in %q", args[0])
			}
			return tui.RunJoin(a.config, a.client, a.store, uid, a.debug)
		},
	}
}
