// Package order contains the Order aggregate and its Status state machine.
//
// An order is admitted against the owning client's monthly print quota:
// quota is checked and deducted exactly once, at creation, so quantities are
// immutable afterwards and status changes never interact with quota. The
// lifecycle is a fixed forward-only workflow (pending → validated →
// processing → completed) enforced by an explicit allowed-transition table.
//
// Agent assignment is an independent axis: orders may be assigned, reassigned
// or unassigned at any point without affecting the lifecycle status.
package order
