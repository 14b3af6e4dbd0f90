// Package quota contains the client print-allowance aggregate.
//
// A ClientQuota tracks one client's consumption for one monthly period on
// two independent channels, black & white and color. The effective allowance
// is the base limit plus the period's Topup grants; the aggregate exposes
// the availability math, deduction with re-check, clamped refunds and the
// one-shot threshold alert latches. Persistence-level concurrency control
// (row locking) lives in the adapters; the aggregate only guarantees that a
// deduction re-validates against the counters it currently holds.
package quota
