// Package models defines the value types of the group expense ledger.
//
// # Ledger Model
//
//   - Group: members in insertion order plus the append-only Expense and
//     Payment sequences
//   - Expense: one payment by one member, split Equal or Custom
//   - Payment: a real-world transfer recorded against the group
//   - Money: exact amounts in integer minor units
//
// # Derived Values
//
// Balances, MemberBalance and Transfer are computed by the calculator package
// from a Group snapshot. They have no identity of their own and are never
// stored or mutated in place; they are recomputed on every request.
//
// # Relationships
//
// Members are plain identifiers. Expenses and payments reference members by
// identifier only, never by pointer, so a Group can be copied as a value.
package models
