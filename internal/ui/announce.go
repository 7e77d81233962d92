package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorum-sh/quorum/internal/llm"
	"github.com/quorum-sh/quorum/internal/schedule"
)

func (a *App) announceCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "announce <room>",
		Short: "Draft an announcement of the best time",
		Long: `Pick the slots most people can make and draft a short announcement
message you can paste into chat.

With an LLM provider configured (see quorum config), the draft is
written by the model; otherwise a plain template is used.`,
		Example: `  quorum announce 9f2c81d4
  quorum announce https://cmon.rsvp/9f2c81d4`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			d, err := a.fetchRoom(RoomUIDFromArg(args[0]))
			if err != nil {
				return err
			}
			return a.runAnnounce(d)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}

func (a *App) runAnnounce(d *schedule.Data) error {
	best := schedule.BestSlots(d, 3)
	if len(best) == 0 {
		return fmt.Errorf("nobody has marked availability yet")
	}
	slots := make([]string, len(best))
	for i, b := range best {
		slots[i] = b.Describe(d)
	}

	client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	if err != nil {
		return fmt.Errorf("configuring llm: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	text, err := llm.DraftAnnouncement(ctx, client, d.EventName, slots)
	if err != nil {
		// A dead provider still yields the template draft.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	fmt.Println(formatHeader("Announcement draft"))
	fmt.Println()
	fmt.Println(text)
	fmt.Println()
	fmt.Println(formatMuted("Candidate slots:"))
	for _, s := range slots {
		fmt.Printf("  %s %s\n", formatConsensus("•"), s)
	}
	return nil
}
