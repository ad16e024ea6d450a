package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type TVDBConfig struct {
	APIKey   string
	UserKey  string
	Username string

	LoginURI   string
	RefreshURI string
	SeriesURI  string
}

// TVDB is the secondary catalog client. It only knows how to log in,
// refresh a token and read air times, the token itself lives in a
// CredentialStore.
type TVDB struct {
	cfg TVDBConfig
	up  *upstream
}

// AirTime is the part of a secondary catalog series record we use.
type AirTime struct {
	ID            int    `json:"id"`
	AirsDayOfWeek string `json:"airsDayOfWeek"`
	AirsTime      string `json:"airsTime"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

var errNoToken = errors.New("response doesn't contain a token")

func NewTVDB(cfg TVDBConfig, o Options) *TVDB {
	cfg.SeriesURI = strings.TrimRight(cfg.SeriesURI, "/")

	return &TVDB{
		cfg: cfg,
		up:  newUpstream("tvdb", o),
	}
}

// Login exchanges the account credentials for a new token.
func (t *TVDB) Login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"apikey":   t.cfg.APIKey,
		"userkey":  t.cfg.UserKey,
		"username": t.cfg.Username,
	})
	if err != nil {
		return "", err
	}

	body, err := t.up.do(ctx, "login", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.LoginURI, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", err
	}

	return decodeToken(body)
}

// Refresh trades the current token for a fresh one.
func (t *TVDB) Refresh(ctx context.Context, current string) (string, error) {
	var res tokenResponse

	if err := t.up.getJSON(ctx, "refresh", t.cfg.RefreshURI, current, &res); err != nil {
		return "", err
	}

	if res.Token == "" {
		return "", errNoToken
	}

	return res.Token, nil
}

// Series returns the air time record of the series with the given id.
func (t *TVDB) Series(ctx context.Context, id int, bearer string) (*AirTime, error) {
	var res struct {
		Data AirTime `json:"data"`
	}

	if err := t.up.getJSON(ctx, "series", t.cfg.SeriesURI+"/"+strconv.Itoa(id), bearer, &res); err != nil {
		return nil, err
	}

	return &res.Data, nil
}

func decodeToken(body []byte) (string, error) {
	var res tokenResponse

	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("failed to decode token response, %w", err)
	}

	if res.Token == "" {
		return "", errNoToken
	}

	return res.Token, nil
}
