package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apierrors "qareport/internal/errors"
	"qareport/internal/stringutils"
	"qareport/internal/telemetry"
)

// Client handles Confluence API interactions.
type Client struct {
	BaseURL    string
	Email      string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a new Confluence client authenticating with an account
// email and API token.
func NewClient(baseURL, email, apiToken string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Email:    email,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.Email, c.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// GetPage fetches a page by id with body, version, space and ancestors
// expanded.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	u := fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage,version,space,ancestors", c.BaseURL, url.PathEscape(pageID))

	req, err := c.newRequest(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	telemetry.CountWikiRequest("get_page")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apierrors.NewAPIError("confluence", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode page response: %w", err)
	}
	return &page, nil
}

// FindPageByTitle searches the space for a page whose title equals the given
// title after trimming, ignoring case. Returns nil when no page matches.
func (c *Client) FindPageByTitle(ctx context.Context, spaceKey, title string) (*Page, error) {
	q := url.Values{}
	q.Set("spaceKey", spaceKey)
	q.Set("title", strings.TrimSpace(title))
	q.Set("expand", "version")
	u := fmt.Sprintf("%s/rest/api/content?%s", c.BaseURL, q.Encode())

	req, err := c.newRequest(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	telemetry.CountWikiRequest("search")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apierrors.NewAPIError("confluence", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Results []Page `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	want := stringutils.NormalizeKey(title)
	for i := range result.Results {
		if stringutils.NormalizeKey(result.Results[i].Title) == want {
			return &result.Results[i], nil
		}
	}
	return nil, nil
}

// CreatePage creates a new page in the space. ancestorID may be empty.
// The returned page's version defaults to 1 when the response omits it.
func (c *Client) CreatePage(ctx context.Context, spaceKey, title, body, ancestorID string) (*Page, error) {
	page := Page{
		Type:  "page",
		Title: title,
		Space: &Space{Key: spaceKey},
		Body: &Body{Storage: Storage{
			Value:          body,
			Representation: "storage",
		}},
	}
	if ancestorID != "" {
		page.Ancestors = []Ancestor{{ID: ancestorID}}
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create payload: %w", err)
	}

	u := c.BaseURL + "/rest/api/content"
	req, err := c.newRequest(ctx, "POST", u, payload)
	if err != nil {
		return nil, err
	}

	telemetry.CountWikiRequest("create_page")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, apierrors.NewAPIError("confluence", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var created Page
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("create response is missing the page id")
	}
	if created.Version == nil {
		created.Version = &Version{Number: 1}
	}
	return &created, nil
}

// UpdatePage replaces a page's body, submitting the given version number.
// The caller is responsible for passing the current version plus one.
func (c *Client) UpdatePage(ctx context.Context, pageID, title, body string, version int) (*Page, error) {
	page := Page{
		Type:    "page",
		Title:   title,
		Version: &Version{Number: version},
		Body: &Body{Storage: Storage{
			Value:          body,
			Representation: "storage",
		}},
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update payload: %w", err)
	}

	u := fmt.Sprintf("%s/rest/api/content/%s", c.BaseURL, url.PathEscape(pageID))
	req, err := c.newRequest(ctx, "PUT", u, payload)
	if err != nil {
		return nil, err
	}

	telemetry.CountWikiRequest("update_page")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, apierrors.NewAPIError("confluence", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var updated Page
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}
	if updated.ID == "" {
		return nil, fmt.Errorf("update response is missing the page id")
	}
	return &updated, nil
}
