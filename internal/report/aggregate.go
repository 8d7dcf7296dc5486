package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"qareport/internal/azdo"
	"qareport/internal/sprint"
)

// Row is one line of the QA report.
type Row struct {
	ID            int
	AssignedTo    string
	TestSuiteLink string
}

// unassignedName is used when a work item carries no resolvable assignee.
const unassignedName = "Unassigned"

// ItemSource fetches the work items closed within a window. Implemented by
// *azdo.Client.
type ItemSource interface {
	ClosedWorkItems(ctx context.Context, start, finish time.Time) ([]azdo.WorkItem, error)
}

// LinkFinder resolves a test-suite link by suite title. Implemented by
// *testplan.SuiteIndex.
type LinkFinder interface {
	FindLinkByTitle(ctx context.Context, title string) (string, error)
}

// GatherRows fetches closed work items for each window, deduplicates them by
// id across overlapping windows (first occurrence wins), resolves assignee
// and suite link per item, and returns the rows sorted by assignee then id.
func GatherRows(ctx context.Context, windows []sprint.Window, src ItemSource, links LinkFinder) ([]Row, error) {
	seen := map[int]bool{}
	var rows []Row

	for _, w := range windows {
		items, err := src.ClosedWorkItems(ctx, w.Start, w.Finish)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch closed work items for %q: %w", w.Name, err)
		}

		for _, item := range items {
			if item.ID <= 0 || seen[item.ID] {
				continue
			}
			seen[item.ID] = true

			// Manual test suites are titled with the work item id.
			link, err := links.FindLinkByTitle(ctx, strconv.Itoa(item.ID))
			if err != nil {
				return nil, err
			}

			rows = append(rows, Row{
				ID:            item.ID,
				AssignedTo:    resolveAssignee(item.Fields["System.AssignedTo"]),
				TestSuiteLink: link,
			})
		}
	}

	// Assignees are ordered byte-wise; locale collation is not applied.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AssignedTo != rows[j].AssignedTo {
			return rows[i].AssignedTo < rows[j].AssignedTo
		}
		return rows[i].ID < rows[j].ID
	})

	return rows, nil
}

// resolveAssignee picks a display name out of the raw assignee field: a
// structured identity's displayName, then uniqueName; a plain string is used
// directly; anything else is Unassigned.
func resolveAssignee(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]interface{}:
		if name, _ := v["displayName"].(string); strings.TrimSpace(name) != "" {
			return name
		}
		if name, _ := v["uniqueName"].(string); strings.TrimSpace(name) != "" {
			return name
		}
	}
	return unassignedName
}

// Values returns the row as a placeholder-name map for the renderer.
func (r Row) Values() map[string]interface{} {
	return map[string]interface{}{
		"id":             r.ID,
		"assigned_to":    r.AssignedTo,
		"test_plan_link": r.TestSuiteLink,
	}
}
