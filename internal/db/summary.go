package db

import "time"

// StatementType describes what kind of statement a query was.
type StatementType int

const (
	StatementTypeUnknown StatementType = iota
	StatementTypeReadOnly
	StatementTypeReadWrite
	StatementTypeWriteOnly
	StatementTypeSchemaWrite
)

// Counters reports what a query changed.
type Counters struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
	LabelsAdded          int
	LabelsRemoved        int
	IndexesAdded         int
	IndexesRemoved       int
	ConstraintsAdded     int
	ConstraintsRemoved   int
	SystemUpdates        int
}

// ContainsUpdates reports whether the query changed any user data.
func (c Counters) ContainsUpdates() bool {
	return c.NodesCreated > 0 || c.NodesDeleted > 0 ||
		c.RelationshipsCreated > 0 || c.RelationshipsDeleted > 0 ||
		c.PropertiesSet > 0 || c.LabelsAdded > 0 || c.LabelsRemoved > 0 ||
		c.IndexesAdded > 0 || c.IndexesRemoved > 0 ||
		c.ConstraintsAdded > 0 || c.ConstraintsRemoved > 0
}

// ContainsSystemUpdates reports whether the query changed the system graph.
func (c Counters) ContainsSystemUpdates() bool {
	return c.SystemUpdates > 0
}

// InputPosition points at a location within a query text.
type InputPosition struct {
	// Offset is measured in characters from the start of the query.
	Offset int
	Line   int
	Column int
}

// Notification is a hint or warning the server attached to a query execution.
type Notification struct {
	Code        string
	Title       string
	Description string
	Position    *InputPosition
	Severity    string
	Category    string
}

// Plan is one operator of an estimated query execution plan.
type Plan struct {
	Operator    string
	Arguments   map[string]any
	Identifiers []string
	Children    []Plan
}

// ProfiledPlan is one operator of an executed, profiled query plan.
type ProfiledPlan struct {
	Operator    string
	Arguments   map[string]any
	Identifiers []string
	DbHits      int64
	Records     int64
	Children    []ProfiledPlan
}

// Summary is the raw end-of-stream report delivered by the server.
type Summary struct {
	// Bookmark of the transaction, only set for auto-commit streams.
	Bookmark      string
	StmtType      StatementType
	Counters      Counters
	Plan          *Plan
	Profile       *ProfiledPlan
	Notifications []Notification
	// TFirst is the time until the first record was available.
	TFirst time.Duration
	// TLast is the time until the summary was available.
	TLast    time.Duration
	Database string
}
