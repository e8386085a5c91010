package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var errInvalidCredentials = errors.New("invalid credentials")

type profile struct {
	Username        string  `json:"Username"`
	DormName        *string `json:"DormName"`
	SpendablePoints int     `json:"SpendablePoints"`
}

type dorm struct {
	DormName    string `json:"DormName"`
	TotalPoints int    `json:"TotalPoints"`
}

type palette struct {
	OfferingName string `json:"OfferingName"`
	ColorHex1    string `json:"ColorHex1"`
	ColorHex2    string `json:"ColorHex2"`
	ColorHex3    string `json:"ColorHex3"`
	ColorHex4    string `json:"ColorHex4"`
	ColorHex5    string `json:"ColorHex5"`
	ColorHex6    string `json:"ColorHex6"`
	ColorHex7    string `json:"ColorHex7"`
}

func (p palette) colors() []string {
	return []string{p.ColorHex1, p.ColorHex2, p.ColorHex3, p.ColorHex4, p.ColorHex5, p.ColorHex6, p.ColorHex7}
}

// envelope is the common response shape of the rewards API.
type envelope struct {
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	User          *profile  `json:"user"`
	Dorms         []dorm    `json:"dorms"`
	Palettes      []palette `json:"palettes"`
	NewPointTotal int       `json:"newPointTotal"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 {
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return nil, errors.New(env.Message)
	}
	return &env, nil
}

func (c *client) login(ctx context.Context, username, password string) (*profile, error) {
	env, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"usernames": username,
		"passwords": password,
	})
	if err != nil {
		return nil, err
	}
	if env.Status != "success" || env.User == nil {
		return nil, errInvalidCredentials
	}
	return env.User, nil
}

func (c *client) standings(ctx context.Context) ([]dorm, error) {
	env, err := c.do(ctx, http.MethodGet, "/dorm_points", nil)
	if err != nil {
		return nil, err
	}
	return env.Dorms, nil
}

func (c *client) palettes(ctx context.Context) ([]palette, error) {
	env, err := c.do(ctx, http.MethodGet, "/palettes", nil)
	if err != nil {
		return nil, err
	}
	return env.Palettes, nil
}

func (c *client) purchase(ctx context.Context, username, paletteName string, price int) (int, error) {
	env, err := c.do(ctx, http.MethodPost, "/purchase_palette", map[string]any{
		"username":       username,
		"paletteName":    paletteName,
		"pointsToDeduct": price,
	})
	if err != nil {
		return 0, err
	}
	return env.NewPointTotal, nil
}
