package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
)

// Performer sends action sequences to a WebDriver remote end.
type Performer struct {
	// Executor is the URL prefix of the remote end, as passed to
	// selenium.NewRemote.
	Executor string
	// Client is used for requests; http.DefaultClient when nil.
	Client *http.Client
}

// NewPerformer returns a Performer for the remote end at executor.
func NewPerformer(executor string) *Performer {
	return &Performer{Executor: executor}
}

func (p *Performer) url(sessionID string) string {
	return strings.TrimSuffix(p.Executor, "/") + "/session/" + sessionID + "/actions"
}

// Perform executes the actions queued in b.
func (p *Performer) Perform(ctx context.Context, sessionID string, b *Builder) error {
	body, err := json.Marshal(b.Encode())
	if err != nil {
		return err
	}
	return p.do(ctx, http.MethodPost, p.url(sessionID), body)
}

// Release releases all keys and buttons held by earlier actions.
func (p *Performer) Release(ctx context.Context, sessionID string) error {
	return p.do(ctx, http.MethodDelete, p.url(sessionID), nil)
}

// remoteError is the error payload of a W3C response.
type remoteError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p *Performer) do(ctx context.Context, method, url string, body []byte) error {
	if p.Executor == "" {
		return errors.New("actions: no executor URL")
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %v", method, url, err)
	}
	if resp.StatusCode < 400 {
		return nil
	}

	var reply struct {
		Value remoteError `json:"value"`
	}
	if err := json.Unmarshal(buf, &reply); err != nil || reply.Value.Error == "" {
		return fmt.Errorf("bad server reply status: %s", resp.Status)
	}
	if reply.Value.Message == "" {
		return errors.New(reply.Value.Error)
	}
	return fmt.Errorf("%s: %s", reply.Value.Error, reply.Value.Message)
}
