package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/quorum-sh/quorum/internal/schedule"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotOwner     = errors.New("only the room owner can do that")
)

const defaultTimeout = 10 * time.Second

// Client talks to the room server's REST endpoints. Authentication is a
// server-issued cookie, so a Client must be reused across calls for the
// session to hold together.
type Client struct {
	baseURL string
	http    *http.Client

	// Delay between snapshot retries after a successful create.
	retryDelay time.Duration
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		retryDelay: 500 * time.Millisecond,
	}, nil
}

// Cookies exposes the session jar so the websocket dial can present the
// same auth cookie.
func (c *Client) Cookies() http.CookieJar {
	return c.http.Jar
}

// Authenticate obtains a session cookie. Idempotent: if the jar already
// holds a valid cookie the server leaves it alone.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authenticate: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// CreateRoom registers a new room and returns its uid.
func (c *Client) CreateRoom(ctx context.Context, d *schedule.Data) (string, error) {
	body, err := json.Marshal(NewCreateRoomRequest(d))
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/rooms", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create room: unexpected status %d", resp.StatusCode)
	}

	var created CreateRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("create room: decode: %w", err)
	}
	if created.RoomUID == "" {
		return "", errors.New("create room: empty room_uid")
	}
	return created.RoomUID, nil
}

// GetRoom fetches the authoritative snapshot for uid.
func (c *Client) GetRoom(ctx context.Context, uid string) (*RoomSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/rooms/"+uid, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrRoomNotFound
	default:
		return nil, fmt.Errorf("get room: unexpected status %d", resp.StatusCode)
	}

	var snap RoomSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("get room: decode: %w", err)
	}
	return &snap, nil
}

// GetRoomRetry is GetRoom with a few retries for transient failures.
// Safe because snapshot fetches have no side effects; used right after a
// create so a flaky fetch does not strand an already-registered room.
func (c *Client) GetRoomRetry(ctx context.Context, uid string, attempts int) (*RoomSnapshot, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		snap, err := c.GetRoom(ctx, uid)
		if err == nil {
			return snap, nil
		}
		if errors.Is(err, ErrRoomNotFound) {
			return nil, err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return nil, lastErr
}

// DeleteRoom removes the room. The server enforces ownership.
func (c *Client) DeleteRoom(ctx context.Context, uid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/rooms/"+uid, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrRoomNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrNotOwner
	default:
		return fmt.Errorf("delete room: unexpected status %d", resp.StatusCode)
	}
}
