package azdo

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
	"qareport/internal/telemetry"
)

const apiVersion = "7.0"

// batchSize is the work-items-batch endpoint's maximum id count per request.
const batchSize = 200

// closedWorkItemTypes restricts the closed-items query to the types that show
// up in the QA report.
var closedWorkItemTypes = []string{"Bug", "User Story"}

// continuationHeader carries the next page token on paginated responses.
const continuationHeader = "x-ms-continuationtoken"

// Client handles Azure DevOps API interactions.
type Client struct {
	OrgURL     string
	Project    string
	Team       string
	PAT        string
	HTTPClient *http.Client
}

// NewClient creates a new Azure DevOps client.
func NewClient(orgURL, project, team, pat string) *Client {
	return &Client{
		OrgURL:  strings.TrimRight(orgURL, "/"),
		Project: project,
		Team:    team,
		PAT:     pat,
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
	// Azure DevOps PATs go through basic auth with an empty username.
	req.SetBasicAuth("", c.PAT)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) teamURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/_apis/%s", c.OrgURL, url.PathEscape(c.Project), url.PathEscape(c.Team), path)
}

func (c *Client) projectURL(path string) string {
	return fmt.Sprintf("%s/%s/_apis/%s", c.OrgURL, url.PathEscape(c.Project), path)
}

// Iterations lists the team's iterations. A non-empty timeframe scopes the
// listing (past/current/future); if the service rejects the scoped form the
// call falls back to an unscoped listing.
func (c *Client) Iterations(ctx context.Context, timeframe string) ([]Iteration, error) {
	iterations, err := c.iterations(ctx, timeframe)
	if err != nil && timeframe != "" && apierrors.IsClientRejection(err) {
		return c.iterations(ctx, "")
	}
	return iterations, err
}

func (c *Client) iterations(ctx context.Context, timeframe string) ([]Iteration, error) {
	u := c.teamURL("work/teamsettings/iterations") + "?api-version=" + apiVersion
	if timeframe != "" {
		u += "&$timeframe=" + url.QueryEscape(timeframe)
	}

	req, err := c.newRequest(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	telemetry.CountTrackerRequest("iterations")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apierrors.NewAPIError("azure devops", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Value []Iteration `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode iterations response: %w", err)
	}

	return result.Value, nil
}

// ClosedWorkItems returns the work items closed within [start, finish],
// restricted to the reportable work item types. Items without a numeric id
// are dropped.
func (c *Client) ClosedWorkItems(ctx context.Context, start, finish time.Time) ([]WorkItem, error) {
	ids, err := c.queryClosedIDs(ctx, start, finish)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.workItemsBatch(ctx, ids)
}

func (c *Client) queryClosedIDs(ctx context.Context, start, finish time.Time) ([]int, error) {
	types := "'" + strings.Join(closedWorkItemTypes, "', '") + "'"
	wiql := fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = @project"+
			" AND [System.WorkItemType] IN (%s)"+
			" AND [Microsoft.VSTS.Common.ClosedDate] >= '%s'"+
			" AND [Microsoft.VSTS.Common.ClosedDate] <= '%s'",
		types, start.Format("2006-01-02"), finish.Format("2006-01-02"))

	payload, err := json.Marshal(map[string]string{"query": wiql})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wiql payload: %w", err)
	}

	u := c.teamURL("wit/wiql") + "?api-version=" + apiVersion
	req, err := c.newRequest(ctx, "POST", u, payload)
	if err != nil {
		return nil, err
	}

	telemetry.CountTrackerRequest("wiql")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apierrors.NewAPIError("azure devops", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		WorkItems []struct {
			ID int `json:"id"`
		} `json:"workItems"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode wiql response: %w", err)
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, ref := range result.WorkItems {
		if ref.ID > 0 {
			ids = append(ids, ref.ID)
		}
	}
	return ids, nil
}

func (c *Client) workItemsBatch(ctx context.Context, ids []int) ([]WorkItem, error) {
	fields := []string{"System.Id", "System.Title", "System.AssignedTo", "Microsoft.VSTS.Common.ClosedDate"}

	var items []WorkItem
	for len(ids) > 0 {
		chunk := ids
		if len(chunk) > batchSize {
			chunk = ids[:batchSize]
		}
		ids = ids[len(chunk):]

		payload, err := json.Marshal(map[string]interface{}{
			"ids":    chunk,
			"fields": fields,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal batch payload: %w", err)
		}

		u := fmt.Sprintf("%s/_apis/wit/workitemsbatch?api-version=%s", c.OrgURL, apiVersion)
		req, err := c.newRequest(ctx, "POST", u, payload)
		if err != nil {
			return nil, err
		}

		telemetry.CountTrackerRequest("workitemsbatch")
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		var result struct {
			Value []WorkItem `json:"value"`
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, apierrors.NewAPIError("azure devops", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode batch response: %w", err)
		}

		for _, item := range result.Value {
			if item.ID > 0 {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

// TestPlans returns one page of the project's test plans plus the
// continuation token for the next page ("" when exhausted).
func (c *Client) TestPlans(ctx context.Context, continuationToken string) ([]TestPlan, string, error) {
	u := c.projectURL("testplan/plans") + "?api-version=" + apiVersion
	if continuationToken != "" {
		u += "&continuationToken=" + url.QueryEscape(continuationToken)
	}

	req, err := c.newRequest(ctx, "GET", u, nil)
	if err != nil {
		return nil, "", err
	}

	telemetry.CountTrackerRequest("testplans")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", apierrors.NewAPIError("azure devops", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Value []TestPlan `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode test plans response: %w", err)
	}

	return result.Value, resp.Header.Get(continuationHeader), nil
}

// TestSuites returns one page of a plan's suite tree with children expanded,
// plus the continuation token for the next page ("" when exhausted).
func (c *Client) TestSuites(ctx context.Context, planID int, continuationToken string) ([]TestSuite, string, error) {
	u := c.projectURL(fmt.Sprintf("testplan/Plans/%d/suites", planID)) + "?api-version=" + apiVersion + "&expand=children"
	if continuationToken != "" {
		u += "&continuationToken=" + url.QueryEscape(continuationToken)
	}

	req, err := c.newRequest(ctx, "GET", u, nil)
	if err != nil {
		return nil, "", err
	}

	telemetry.CountTrackerRequest("testsuites")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", apierrors.NewAPIError("azure devops", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Value []TestSuite `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode test suites response: %w", err)
	}

	return result.Value, resp.Header.Get(continuationHeader), nil
}
