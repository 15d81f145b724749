// Package mailer sends transactional email through the SendGrid v3 API.
package mailer

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const sendEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Client sends templated messages from a fixed sender address.
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	sender   string
}

func NewClient(apiKey, sender string) *Client {
	return &Client{
		http:     resty.New(),
		endpoint: sendEndpoint,
		apiKey:   apiKey,
		sender:   sender,
	}
}

type address struct {
	Email string `json:"email"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

// Send delivers a single HTML message. Any transport failure or non-2xx
// status is reported as an error.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(sendRequest{
			Personalizations: []personalization{{To: []address{{Email: to}}}},
			From:             address{Email: c.sender},
			Subject:          subject,
			Content:          []content{{Type: "text/html", Value: html}},
		}).
		Post(c.endpoint)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("sendgrid send failed: status %d", resp.StatusCode())
	}
	return nil
}
