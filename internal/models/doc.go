// Package models defines the core domain models for the bill splitter.
//
// # Bill State
//
// A bill lives entirely in one explicit value, BillState, which the client
// holds and sends with every request:
//   - Participant: a person splitting the bill
//   - LineItem: a priced, quantified entry assigned to a set of participants
//   - Settings: discount, service charge, tax and currency settings
//
// Nothing here is persisted. Mutations are pure functions in package bill
// and every total is derived on demand by package calculator.
//
// # Derived Values
//
//   - Totals: every stage of the bill-level computation
//   - PersonShare: one participant's share of each stage
//   - Transfer: a suggested payment when settling up
//
// # Design Principles
//
//  1. Plain values: no pointers between entities, relationships use ID strings
//  2. Money is decimal.Decimal, never float64
//  3. Derived values are never stored on the state
package models
