// Package models defines the core domain models for partio.
//
// # Models
//
//   - Member: a person in the group, optionally carrying a payout key
//   - Expense: money one member paid on behalf of the group, with a split
//   - Payment: a direct transfer between two members
//   - Snapshot: the three collections together, as persisted and exported
//
// # Design Principles
//
//  1. **IDs, not pointers**: every cross-reference (payer, participant, payment
//     source/destination) is a member ID string that may fail to resolve.
//  2. **Tagged splits**: an Expense carries a Split that is either EqualSplit
//     or CustomSplit, each holding only the fields it needs.
//  3. **Derived balances**: balances are never stored; they are recomputed from
//     the collections on demand.
package models
