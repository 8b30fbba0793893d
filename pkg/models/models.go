/*
Package models defines the JSON data structures shared by the HTTP API, the
command-line JSON output and partition plan files.

Counts and ranks can exceed any fixed-width integer, so they always travel as
decimal strings. Combinations travel as arrays of zero-based indices.
*/
package models

// CountResponse is the result of counting a space.
type CountResponse struct {
	N int `json:"n"`
	K int `json:"k"`
	// Count is C(n, k) in decimal.
	Count string `json:"count"`
	// Digits is the number of decimal digits of Count.
	Digits int `json:"digits"`
	// Approx is a floating point estimate of Count, for display only.
	Approx float64 `json:"approx"`
	// Counter names the counter that produced Count.
	Counter string `json:"counter,omitempty"`
	// Duration is the formatted time taken to count.
	Duration string `json:"duration,omitempty"`
}

// RankResponse is the rank of one combination.
type RankResponse struct {
	N           int    `json:"n"`
	K           int    `json:"k"`
	Combination []int  `json:"combination"`
	Rank        string `json:"rank"`
}

// UnrankResponse is the combination found at one rank.
type UnrankResponse struct {
	N           int    `json:"n"`
	K           int    `json:"k"`
	Rank        string `json:"rank"`
	Combination []int  `json:"combination"`
}

// RangePlan is the share of the rank space assigned to one worker. The range
// is half-open: [Start, End).
type RangePlan struct {
	Worker int    `json:"worker"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Size   string `json:"size"`
	// First is the worker's first combination, omitted for an empty range.
	First []int `json:"first,omitempty"`
}

// PartitionPlan describes how a space is split across workers. Written to disk,
// it lets a caller resume or distribute the enumeration later, since each
// worker's generator can be rebuilt from its start rank alone.
type PartitionPlan struct {
	N            int         `json:"n"`
	K            int         `json:"k"`
	Total        string      `json:"total"`
	Workers      int         `json:"workers"`
	MaxRangeSize string      `json:"max_range_size"`
	Ranges       []RangePlan `json:"ranges"`
	// Generated is the RFC3339 creation time, set when the plan is saved.
	Generated string `json:"generated,omitempty"`
}

// WorkerSummary is one worker's share of a completed sweep.
type WorkerSummary struct {
	Worker   int    `json:"worker"`
	Emitted  uint64 `json:"emitted"`
	First    []int  `json:"first,omitempty"`
	Last     []int  `json:"last,omitempty"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// SweepSummary is the outcome of enumerating a whole space across workers.
type SweepSummary struct {
	N        int             `json:"n"`
	K        int             `json:"k"`
	Total    string          `json:"total"`
	Emitted  string          `json:"emitted"`
	Workers  []WorkerSummary `json:"workers"`
	Duration string          `json:"duration"`
	Valid    bool            `json:"valid"`
	Problems []string        `json:"problems,omitempty"`
}

// CountersResponse lists the registered counters.
type CountersResponse struct {
	Counters []string `json:"counters"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}
