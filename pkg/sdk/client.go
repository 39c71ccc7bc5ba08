package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is the normalized error for any non-2xx response. Msg carries
// the server's {"msg": ...} body when one was present so callers can show
// it verbatim.
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token attached to every subsequent request.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) request(method, path string, body interface{}, target interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(resp.Body)
	var payload struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Msg != "" {
		apiErr.Msg = payload.Msg
	} else if msg := strings.TrimSpace(string(raw)); msg != "" {
		apiErr.Msg = msg
	}

	return apiErr
}

func (c *Client) get(path string, target interface{}) error {
	return c.request(http.MethodGet, path, nil, target)
}

func (c *Client) post(path string, body interface{}, target interface{}) error {
	return c.request(http.MethodPost, path, body, target)
}

func (c *Client) put(path string, body interface{}, target interface{}) error {
	return c.request(http.MethodPut, path, body, target)
}

func (c *Client) delete(path string) error {
	return c.request(http.MethodDelete, path, nil, nil)
}
