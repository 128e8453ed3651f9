// Package mailchimp is a thin client for the Mailchimp marketing API v3,
// covering only what the newsletter endpoints need: add a member, change a
// member's status, look a member up. The provider is the system of record,
// the API keeps no copy of the list.
package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrMemberExists  = errors.New("mailchimp: member already exists")
	ErrInvalidEmail  = errors.New("mailchimp: invalid email address")
	ErrNotFound      = errors.New("mailchimp: member not found")
	ErrNotConfigured = errors.New("mailchimp: api key not configured")
)

// Member is a normalized view of a list member.
type Member struct {
	ID            string
	Email         string
	Status        string
	FirstName     string
	LastName      string
	SubscribeDate string
	Tags          []string
}

// SubscribeParams carries the fields forwarded on signup.
type SubscribeParams struct {
	Email     string
	FirstName string
	LastName  string
}

type Client struct {
	apiKey     string
	listID     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client from an API key of the form "<key>-<dc>"; the
// datacenter suffix selects the API host. An empty key leaves the client in
// development mode where every operation succeeds without a network call.
func NewClient(apiKey, listID string) *Client {
	c := &Client{
		apiKey: apiKey,
		listID: listID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	if apiKey != "" {
		dc := "us1"
		if i := strings.LastIndex(apiKey, "-"); i >= 0 && i < len(apiKey)-1 {
			dc = apiKey[i+1:]
		}
		c.baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", dc)
	}

	return c
}

// Configured reports whether a live API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.listID != ""
}

// SubscriberHash derives Mailchimp's per-member addressing key: the MD5 of
// the lowercased email address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

type apiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type memberResponse struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
	MergeFields  struct {
		FNAME string `json:"FNAME"`
		LNAME string `json:"LNAME"`
	} `json:"merge_fields"`
	TimestampSignup string `json:"timestamp_signup"`
	Tags            []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

func (r *memberResponse) toMember() *Member {
	m := &Member{
		ID:            r.ID,
		Email:         r.EmailAddress,
		Status:        r.Status,
		FirstName:     r.MergeFields.FNAME,
		LastName:      r.MergeFields.LNAME,
		SubscribeDate: r.TimestampSignup,
	}
	for _, t := range r.Tags {
		m.Tags = append(m.Tags, t.Name)
	}
	return m
}

// Subscribe adds a member to the list. Returns ErrMemberExists when the
// address is already on the list and ErrInvalidEmail when the provider
// rejects the address itself.
func (c *Client) Subscribe(ctx context.Context, params SubscribeParams) (*Member, error) {
	if !c.Configured() {
		logrus.Warn("Mailchimp not configured - recording subscription in development mode")
		return &Member{Email: params.Email, Status: "subscribed"}, nil
	}

	payload := map[string]interface{}{
		"email_address": params.Email,
		"status":        "subscribed",
		"tags":          []string{"Spa Newsletter", "Website Signup"},
	}

	merge := map[string]string{}
	if params.FirstName != "" {
		merge["FNAME"] = params.FirstName
	}
	if params.LastName != "" {
		merge["LNAME"] = params.LastName
	}
	if len(merge) > 0 {
		payload["merge_fields"] = merge
	}

	var member memberResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/lists/%s/members", c.listID), payload, &member)
	if err != nil {
		return nil, err
	}

	return member.toMember(), nil
}

// Unsubscribe flips an existing member's status to unsubscribed.
func (c *Client) Unsubscribe(ctx context.Context, email string) (*Member, error) {
	if !c.Configured() {
		logrus.Warn("Mailchimp not configured - recording unsubscription in development mode")
		return &Member{Email: email, Status: "unsubscribed"}, nil
	}

	payload := map[string]string{"status": "unsubscribed"}
	path := fmt.Sprintf("/lists/%s/members/%s", c.listID, SubscriberHash(email))

	var member memberResponse
	if err := c.do(ctx, http.MethodPatch, path, payload, &member); err != nil {
		return nil, err
	}

	return member.toMember(), nil
}

// GetMember looks a member up by email. Returns ErrNotConfigured without a
// live key since there is nothing sensible to report in development mode.
func (c *Client) GetMember(ctx context.Context, email string) (*Member, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	path := fmt.Sprintf("/lists/%s/members/%s", c.listID, SubscriberHash(email))

	var member memberResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &member); err != nil {
		return nil, err
	}

	return member.toMember(), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling Mailchimp: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("error parsing response: %w", err)
		}
	}

	return nil
}

// mapError normalizes the provider's error vocabulary into the taxonomy the
// domain handlers switch on.
func (c *Client) mapError(status int, raw []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(raw, &apiErr)

	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest && apiErr.Title == "Member Exists":
		return ErrMemberExists
	case status == http.StatusBadRequest && apiErr.Title == "Invalid Resource":
		return ErrInvalidEmail
	}

	return fmt.Errorf("mailchimp API error: status %d: %s", status, apiErr.Title)
}
