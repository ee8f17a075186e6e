package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// GraphQLPath is the endpoint path appended to the base URL.
const GraphQLPath = "/graphql"

// Client wraps GraphQL calls to the CRM data service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, token string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// SetToken updates the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return NewClient(c.baseURL, c.token, timeout)
}

// BaseURL reports the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CloseIdleConnections drops keep-alive connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message    string  `json:"message"`
	Path       []any   `json:"path,omitempty"`
	Extensions JSONMap `json:"extensions,omitempty"`
}

// do executes one GraphQL operation and decodes the root field into out.
func (c *Client) do(ctx context.Context, op operation, vars map[string]any, out any) error {
	data, err := json.Marshal(graphQLRequest{
		OperationName: op.name,
		Query:         op.document,
		Variables:     vars,
	})
	if err != nil {
		return goerr.Wrap(err, "marshal body", goerr.V("operation", op.name))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GraphQLPath, bytes.NewReader(data))
	if err != nil {
		return goerr.Wrap(err, "create request", goerr.V("operation", op.name))
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("operation", op.name))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "read response", goerr.V("operation", op.name), goerr.V("status", resp.StatusCode))
	}

	var envelope graphQLResponse
	decodeErr := json.Unmarshal(respBody, &envelope)
	if decodeErr == nil {
		if msg, ok := joinGraphQLErrors(envelope.Errors); ok {
			return goerr.New(msg, goerr.V("operation", op.name), goerr.V("status", resp.StatusCode))
		}
	}
	if resp.StatusCode >= 400 {
		return goerr.New(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
			goerr.V("operation", op.name))
	}
	if decodeErr != nil {
		return goerr.Wrap(decodeErr, "decode response", goerr.V("operation", op.name))
	}
	if out == nil {
		return nil
	}
	return decodeRoot(envelope.Data, op.root, out)
}

// decodeRoot pulls the operation's root field out of the data object.
func decodeRoot(data json.RawMessage, root string, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "decode data", goerr.V("field", root))
	}
	raw, ok := fields[root]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "decode field", goerr.V("field", root))
	}
	return nil
}

func joinGraphQLErrors(errs []GraphQLError) (string, bool) {
	if len(errs) == 0 {
		return "", false
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if msg := strings.TrimSpace(e.Message); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return "unknown error", true
	}
	return strings.Join(msgs, "; "), true
}
