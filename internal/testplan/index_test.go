package testplan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qareport/internal/azdo"
)

// fakePlanSource serves plan and suite pages from canned data and counts how
// often the tree is walked.
type fakePlanSource struct {
	planPages  map[string]planPage
	suitePages map[int]map[string]suitePage
	planCalls  int
	suiteCalls int
	err        error
}

type planPage struct {
	plans []azdo.TestPlan
	next  string
}

type suitePage struct {
	suites []azdo.TestSuite
	next   string
}

func (f *fakePlanSource) TestPlans(_ context.Context, token string) ([]azdo.TestPlan, string, error) {
	f.planCalls++
	if f.err != nil {
		return nil, "", f.err
	}
	page := f.planPages[token]
	return page.plans, page.next, nil
}

func (f *fakePlanSource) TestSuites(_ context.Context, planID int, token string) ([]azdo.TestSuite, string, error) {
	f.suiteCalls++
	if f.err != nil {
		return nil, "", f.err
	}
	page := f.suitePages[planID][token]
	return page.suites, page.next, nil
}

func newFakeSource() *fakePlanSource {
	return &fakePlanSource{
		planPages: map[string]planPage{
			"":   {plans: []azdo.TestPlan{{ID: 1, Name: "Regression"}}, next: "p2"},
			"p2": {plans: []azdo.TestPlan{{ID: 2, Name: "Smoke"}}},
		},
		suitePages: map[int]map[string]suitePage{
			1: {
				"": {suites: []azdo.TestSuite{
					{ID: 10, Name: "Regression", Children: []azdo.TestSuite{
						{ID: 11, Name: " 1042 "},
						{ID: 12, Name: "1043", Children: []azdo.TestSuite{{ID: 13, Name: "1043-sub"}}},
					}},
				}, next: "s2"},
				"s2": {suites: []azdo.TestSuite{{ID: 14, Name: "1044"}}},
			},
			2: {
				"": {suites: []azdo.TestSuite{
					{ID: 20, Name: "1042"}, // duplicate title, must not win
					{ID: 21, Name: "   "},  // blank title, must be skipped
				}},
			},
		},
	}
}

func TestSuiteIndex_FindLinkByTitle(t *testing.T) {
	src := newFakeSource()
	idx := NewSuiteIndex(src, "https://dev.azure.com/acme/", "Web Shop")

	link, err := idx.FindLinkByTitle(context.Background(), "1042")
	require.NoError(t, err)
	assert.Equal(t, "https://dev.azure.com/acme/Web%20Shop/_testPlans/execute?planId=1&suiteId=11", link)

	t.Run("titles are trimmed on both sides", func(t *testing.T) {
		link, err := idx.FindLinkByTitle(context.Background(), "  1042  ")
		require.NoError(t, err)
		assert.Contains(t, link, "suiteId=11")
	})

	t.Run("children and later pages are walked", func(t *testing.T) {
		link, err := idx.FindLinkByTitle(context.Background(), "1043-sub")
		require.NoError(t, err)
		assert.Contains(t, link, "suiteId=13")

		link, err = idx.FindLinkByTitle(context.Background(), "1044")
		require.NoError(t, err)
		assert.Contains(t, link, "suiteId=14")
	})

	t.Run("first occurrence wins on duplicate titles", func(t *testing.T) {
		link, err := idx.FindLinkByTitle(context.Background(), "1042")
		require.NoError(t, err)
		assert.Contains(t, link, "planId=1")
	})

	t.Run("unknown and empty titles return empty links", func(t *testing.T) {
		link, err := idx.FindLinkByTitle(context.Background(), "9999")
		require.NoError(t, err)
		assert.Empty(t, link)

		link, err = idx.FindLinkByTitle(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, link)
	})

	t.Run("the tree is walked at most once", func(t *testing.T) {
		planCalls, suiteCalls := src.planCalls, src.suiteCalls
		_, err := idx.FindLinkByTitle(context.Background(), "1042")
		require.NoError(t, err)
		assert.Equal(t, planCalls, src.planCalls)
		assert.Equal(t, suiteCalls, src.suiteCalls)
	})
}

func TestSuiteIndex_BuildFailurePropagates(t *testing.T) {
	src := &fakePlanSource{err: errors.New("upstream down")}
	idx := NewSuiteIndex(src, "https://dev.azure.com/acme", "WebShop")

	_, err := idx.FindLinkByTitle(context.Background(), "1042")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}
