package azdo

import "time"

// Iteration is a team iteration (sprint) as returned by the work API.
type Iteration struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Path       string              `json:"path"`
	Attributes IterationAttributes `json:"attributes"`
}

// IterationAttributes carries the iteration's date window.
type IterationAttributes struct {
	StartDate  *time.Time `json:"startDate"`
	FinishDate *time.Time `json:"finishDate"`
	TimeFrame  string     `json:"timeFrame"`
}

// WorkItem is a tracker work item. Fields is the raw field map keyed by
// reference name (System.AssignedTo, Microsoft.VSTS.Common.ClosedDate, ...).
type WorkItem struct {
	ID     int                    `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// TestPlan identifies a manual test plan.
type TestPlan struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TestSuite is a node in a plan's suite tree. Children are populated when the
// suite listing is requested with children expanded.
type TestSuite struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Children []TestSuite `json:"children"`
}
