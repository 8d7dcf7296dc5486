package testplan

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"qareport/internal/azdo"
)

// PlanSource lists test plans and suite-tree pages. Implemented by
// *azdo.Client.
type PlanSource interface {
	TestPlans(ctx context.Context, continuationToken string) ([]azdo.TestPlan, string, error)
	TestSuites(ctx context.Context, planID int, continuationToken string) ([]azdo.TestSuite, string, error)
}

// SuiteIndex maps trimmed suite titles to deep links into the test plan
// runner. The index is built lazily on first lookup and at most once per
// instance; duplicate titles keep the first link recorded.
type SuiteIndex struct {
	src     PlanSource
	orgURL  string
	project string

	built bool
	links map[string]string
}

// NewSuiteIndex creates an index over the project's test plans.
func NewSuiteIndex(src PlanSource, orgURL, project string) *SuiteIndex {
	return &SuiteIndex{
		src:     src,
		orgURL:  strings.TrimRight(orgURL, "/"),
		project: project,
		links:   map[string]string{},
	}
}

// FindLinkByTitle returns the execute link for the suite with the given
// title, or "" when no suite matches or the title is empty. The first call
// walks every plan's suite tree; later calls hit the built index.
func (x *SuiteIndex) FindLinkByTitle(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil
	}

	if !x.built {
		if err := x.build(ctx); err != nil {
			return "", err
		}
		x.built = true
	}

	return x.links[title], nil
}

func (x *SuiteIndex) build(ctx context.Context) error {
	token := ""
	for {
		plans, next, err := x.src.TestPlans(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to list test plans: %w", err)
		}

		for _, plan := range plans {
			if err := x.indexPlan(ctx, plan.ID); err != nil {
				return err
			}
		}

		if next == "" {
			return nil
		}
		token = next
	}
}

func (x *SuiteIndex) indexPlan(ctx context.Context, planID int) error {
	token := ""
	for {
		suites, next, err := x.src.TestSuites(ctx, planID, token)
		if err != nil {
			return fmt.Errorf("failed to list suites for plan %d: %w", planID, err)
		}

		for _, suite := range suites {
			x.visit(planID, suite)
		}

		if next == "" {
			return nil
		}
		token = next
	}
}

func (x *SuiteIndex) visit(planID int, suite azdo.TestSuite) {
	title := strings.TrimSpace(suite.Name)
	if title != "" {
		if _, exists := x.links[title]; !exists {
			x.links[title] = x.executeLink(planID, suite.ID)
		}
	}
	for _, child := range suite.Children {
		x.visit(planID, child)
	}
}

func (x *SuiteIndex) executeLink(planID, suiteID int) string {
	return fmt.Sprintf("%s/%s/_testPlans/execute?planId=%d&suiteId=%d",
		x.orgURL, url.PathEscape(x.project), planID, suiteID)
}
