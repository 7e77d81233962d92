// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorum-sh/quorum/internal/api"
	"github.com/quorum-sh/quorum/internal/config"
	"github.com/quorum-sh/quorum/internal/draft"
	"github.com/quorum-sh/quorum/internal/realtime"
	"github.com/quorum-sh/quorum/internal/schedule"
)

const requestTimeout = 15 * time.Second

// RoomCreatedMsg is sent when the server has registered a new room.
type RoomCreatedMsg struct {
	UID string
}

// SnapshotMsg carries the authoritative room state fetched at join time.
type SnapshotMsg struct {
	UID     string
	Data    *schedule.Data
	IsOwner bool
}

// ChannelOpenedMsg is sent when the realtime channel is live.
type ChannelOpenedMsg struct {
	Channel *realtime.Channel
}

// PatchMsg carries one remote update from the realtime channel.
type PatchMsg struct {
	Patch schedule.Patch
}

// ConnStateMsg reports a realtime connection state change.
type ConnStateMsg struct {
	State realtime.State
}

// AbsentReasonMsg carries a debounced absence reason back onto the
// update loop, where the send can read the current user name safely.
type AbsentReasonMsg struct {
	Reason *string
}

// RoomDeletedACKMsg is sent after the user's own delete request succeeds.
type RoomDeletedACKMsg struct {
	UID string
}

// DraftLoadedMsg carries a recovered create-flow draft (Data may be nil).
type DraftLoadedMsg struct {
	Data *schedule.Data
}

// CopiedMsg is sent after the share link lands on the clipboard.
type CopiedMsg struct {
	URL string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// CreateRoom authenticates and registers the drafted room.
func CreateRoom(client *api.Client, d *schedule.Data) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := client.Authenticate(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		uid, err := client.CreateRoom(ctx, d)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return RoomCreatedMsg{UID: uid}
	}
}

// JoinRoom authenticates and fetches the room snapshot.
func JoinRoom(client *api.Client, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := client.Authenticate(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return fetch(ctx, client, uid, 1)
	}
}

// FetchCreatedRoom fetches the snapshot for a room we just registered.
// The uid is already known, so transient fetch failures retry.
func FetchCreatedRoom(client *api.Client, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fetch(ctx, client, uid, 3)
	}
}

func fetch(ctx context.Context, client *api.Client, uid string, attempts int) tea.Msg {
	snap, err := client.GetRoomRetry(ctx, uid, attempts)
	if err != nil {
		return ErrMsg{Err: err}
	}
	data, err := snap.ScheduleData()
	if err != nil {
		return ErrMsg{Err: err}
	}
	return SnapshotMsg{UID: uid, Data: data, IsOwner: snap.IsOwner}
}

// OpenChannel dials the room's websocket. Remote patches and state
// changes are forwarded into events; the model drains them with
// WaitForEvent. A full events buffer drops the patch (the next
// editSchedule broadcast carries complete state again).
func OpenChannel(cfg *config.Config, client *api.Client, uid string, events chan<- tea.Msg, logger realtime.Logger) tea.Cmd {
	return func() tea.Msg {
		push := func(msg tea.Msg) {
			select {
			case events <- msg:
			default:
				if logger != nil {
					logger.Log("tui_event_dropped", nil)
				}
			}
		}

		ch := realtime.NewChannel(realtime.Options{
			URL:           cfg.WebSocketURL(uid),
			Jar:           client.Cookies(),
			BaseDelay:     time.Duration(cfg.Realtime.ReconnectBaseMS) * time.Millisecond,
			MaxDelay:      time.Duration(cfg.Realtime.ReconnectMaxMS) * time.Millisecond,
			Logger:        logger,
			OnStateChange: func(s realtime.State) { push(ConnStateMsg{State: s}) },
		})
		for _, t := range []schedule.PatchType{
			schedule.PatchEditSchedule,
			schedule.PatchEditUserName,
			schedule.PatchEditEventName,
			schedule.PatchOtherSetAbsentReason,
			schedule.PatchUserSetAbsentReason,
			schedule.PatchRoomDeleted,
		} {
			ch.AddMessageHandler(t, func(p schedule.Patch) { push(PatchMsg{Patch: p}) })
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := ch.Open(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return ChannelOpenedMsg{Channel: ch}
	}
}

// WaitForEvent delivers the next channel event to the update loop. The
// model re-arms it after every delivery.
func WaitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// DeleteRoom asks the server to remove an owned room.
func DeleteRoom(client *api.Client, uid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.DeleteRoom(ctx, uid); err != nil {
			return ErrMsg{Err: err}
		}
		return RoomDeletedACKMsg{UID: uid}
	}
}

// CopyShareLink puts the room's share link on the clipboard.
func CopyShareLink(url string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return ErrMsg{Err: err}
		}
		return CopiedMsg{URL: url}
	}
}

// LoadDraft recovers a persisted create-flow draft, if any.
func LoadDraft(store *draft.Store) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return DraftLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		d, err := store.Load(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DraftLoadedMsg{Data: d}
	}
}

// SaveDraft persists the create-flow state. Failures surface as errors
// but never block editing.
func SaveDraft(store *draft.Store, d *schedule.Data) tea.Cmd {
	if store == nil {
		return nil
	}
	snapshot := *d
	snapshot.UserSchedule = d.UserSchedule.Clone()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := store.Save(ctx, &snapshot); err != nil {
			return ErrMsg{Err: err}
		}
		return nil
	}
}

// ClearDraft removes the persisted draft after a successful create.
func ClearDraft(store *draft.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := store.Clear(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return nil
	}
}
