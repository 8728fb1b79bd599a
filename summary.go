package norvik

import (
	"time"

	"github.com/norvikdb/norvik-go/internal/db"
)

// Record is one row of a result stream.
type Record = db.Record

// Counters reports the write effects of a statement.
type Counters = db.Counters

// Notification is a server hint or warning attached to a statement.
type Notification = db.Notification

// InputPosition points into the statement text.
type InputPosition = db.InputPosition

// Plan is the server's execution plan for a statement, available when the
// statement was prefixed with EXPLAIN.
type Plan = db.Plan

// ProfiledPlan is an executed plan with per-operator cost figures, available
// when the statement was prefixed with PROFILE.
type ProfiledPlan = db.ProfiledPlan

// StatementType classifies a statement by the kind of work it performed.
type StatementType = db.StatementType

const (
	StatementTypeUnknown     = db.StatementTypeUnknown
	StatementTypeReadOnly    = db.StatementTypeReadOnly
	StatementTypeReadWrite   = db.StatementTypeReadWrite
	StatementTypeWriteOnly   = db.StatementTypeWriteOnly
	StatementTypeSchemaWrite = db.StatementTypeSchemaWrite
)

// ResultSummary describes the server-side execution of a statement. It is
// available once the statement's stream has been fully consumed.
type ResultSummary struct {
	// Query is the statement text and parameters as sent.
	Query Query
	// StatementType is the kind of work the statement performed.
	StatementType StatementType
	// Counters reports the write effects.
	Counters Counters
	// Plan is set for EXPLAIN statements.
	Plan *Plan
	// Profile is set for PROFILE statements.
	Profile *ProfiledPlan
	// Notifications holds server hints and warnings, if any.
	Notifications []Notification
	// ResultAvailableAfter is the time between sending the statement and
	// the first records becoming available.
	ResultAvailableAfter time.Duration
	// ResultConsumedAfter is the time between the first records becoming
	// available and the whole stream being consumed.
	ResultConsumedAfter time.Duration
	// Database is the name of the database the statement ran against.
	Database string
}

// Query is the text and parameters of a single statement.
type Query struct {
	Text       string
	Parameters map[string]any
}

func newSummary(query Query, s *db.Summary) *ResultSummary {
	if s == nil {
		return &ResultSummary{Query: query}
	}
	return &ResultSummary{
		Query:                query,
		StatementType:        s.StmtType,
		Counters:             s.Counters,
		Plan:                 s.Plan,
		Profile:              s.Profile,
		Notifications:        s.Notifications,
		ResultAvailableAfter: s.TFirst,
		ResultConsumedAfter:  s.TLast,
		Database:             s.Database,
	}
}
