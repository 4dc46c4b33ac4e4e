// Package models defines the core domain models for Esusu.
//
// # Models
//
//   - Group: one rotating savings circle, the aggregate root. A group owns
//     its Members, Contributions, and PayoutEntries; they are always loaded
//     and saved together with the group for atomicity.
//   - Member: a participant holding a fixed payout slot.
//   - Contribution: one member's reported payment for a specific cycle.
//   - PayoutEntry: the scheduled pooled payout for one slot.
//   - User: a registered account (identity provider side).
//
// # Design Principles
//
// 1. **Single aggregate**: contributions and payout entries are never
// queried independently of their owning group.
// 2. **Append-only history**: contributions are immutable once recorded;
// members only transition Active -> Left, never removed.
// 3. **No raw mutation**: state transitions live in the engine package;
// models expose constructors and read-only lookups.
// 4. **Exact money**: all amounts are decimal.Decimal, persisted as text.
package models
