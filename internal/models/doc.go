// Package models defines the core domain models for split-money.
//
// The entities mirror the relational schema:
//   - User: a registered account, identified by email
//   - Group: a named set of members who share expenses
//   - Member: the (group, user) membership relation
//   - Expense: one shared payment, owning a set of Splits
//   - Split: one user's monetary share of one expense
//
// Relationships are expressed with ID strings (and *string for optional
// ones) rather than pointers to avoid circular references. An Expense with
// a nil GroupID is a personal expense that belongs to no group. Timestamps
// are Unix seconds.
package models
