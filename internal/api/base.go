package api

import "time"

// DefaultBaseURL is the CRM data service the CLI targets when nothing else is configured.
const DefaultBaseURL = "http://localhost:3300"

// NewDefaultClient builds a client pointed at the default data service URL.
func NewDefaultClient(token string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, token, timeout...)
}
