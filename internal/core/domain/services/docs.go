// Package services provides domain services that orchestrate business rules
// across multiple domain entities in the print workflow. It implements
// decisions that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AdmissionPolicy: role gating and the agent workload-limit decision
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
