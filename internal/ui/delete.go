package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quorum-sh/quorum/internal/api"
)

func (a *App) deleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <room>",
		Short: "Delete a room you own",
		Long: `Delete a room for everyone.

Only the room's creator can delete it. Every connected participant is
notified and dropped. This cannot be undone.`,
		Example: `  quorum delete 9f2c81d4
  quorum delete 9f2c81d4 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			uid := RoomUIDFromArg(args[0])
			if uid == "" {
				return fmt.Errorf("cannot find a room UID in %q", args[0])
			}

			if !force && !confirm(fmt.Sprintf("Delete room %s for everyone?", uid)) {
				fmt.Println("Aborted.")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if err := a.client.Authenticate(ctx); err != nil {
				return fmt.Errorf("authenticating: %w", err)
			}
			err := a.client.DeleteRoom(ctx, uid)
			switch {
			case errors.Is(err, api.ErrNotOwner):
				return fmt.Errorf("room %s belongs to someone else", uid)
			case errors.Is(err, api.ErrRoomNotFound):
				return fmt.Errorf("room %s does not exist", uid)
			case err != nil:
				return fmt.Errorf("deleting room %s: %w", uid, err)
			}

			fmt.Printf("Deleted room %s.\n", uid)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
