// Package kernel contains shared value objects used across all domain aggregates.
//
// The kernel provides:
//   - UUID: validated identifier value object wrapping github.com/google/uuid
//   - Period: calendar month value object, normalized to its first day,
//     used to key monthly quota records
//
// Kernel types are immutable value objects with validated constructors.
// They carry no behavior beyond identity, comparison and formatting, and
// depend on nothing outside internal/pkg/errs.
package kernel
