package likestate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// APIError is a failed interaction result.
type APIError struct {
	Status  int    `json:"-"`
	Kind    string `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("interaction api: %d %s: %s", e.Status, e.Kind, e.Message)
}

// HTTPClient implements Client against the JSON API.
type HTTPClient struct {
	BaseURL string
	// Token is the visitor's anonymous identity token, empty for sessions.
	Token string
	HTTP  *http.Client
}

var _ Client = (*HTTPClient)(nil)

type likeResponse struct {
	OK    bool      `json:"ok"`
	Liked bool      `json:"liked"`
	Count int64     `json:"count"`
	Error *APIError `json:"error"`
}

func (c *HTTPClient) endpoint(ref Ref) string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/likes/" + url.PathEscape(ref.ContentType) + "/" + url.PathEscape(ref.ContentID)
}

func (c *HTTPClient) Toggle(ctx context.Context, ref Ref) (Result, error) {
	form := url.Values{}
	if c.Token != "" {
		form.Set("anon_token", c.Token)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(ref), strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return Result{}, err
	}
	return Result{Liked: body.Liked, Count: body.Count}, nil
}

func (c *HTTPClient) HasLiked(ctx context.Context, ref Ref) (bool, error) {
	u := c.endpoint(ref)
	if c.Token != "" {
		u += "?anon_token=" + url.QueryEscape(c.Token)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}

	body, err := c.do(req)
	if err != nil {
		return false, err
	}
	return body.Liked, nil
}

func (c *HTTPClient) do(req *http.Request) (*likeResponse, error) {
	req.Header.Set("Accept", "application/json")
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body likeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode interaction response (%d): %w", resp.StatusCode, err)
	}
	if !body.OK {
		if body.Error == nil {
			body.Error = &APIError{}
		}
		body.Error.Status = resp.StatusCode
		return nil, body.Error
	}
	return &body, nil
}
