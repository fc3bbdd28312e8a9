// Package models defines the core domain records for KhataPlus.
//
// # Records
//
//   - Contact: a party the user tracks a running balance with
//   - Entry: an immutable "gave"/"got" financial event on one contact
//   - InventoryItem: a stock-tracked item, personally or group owned
//   - InventoryMovement: an immutable stock in/out event on one item
//   - InventorySyncGroup / GroupMember: shared-inventory membership
//   - User: a registered account
//   - InvoiceSummary: an invoice aggregate reconstructed from movements
//
// # Design Principles
//
// 1. **Immutable event streams**: entries and movements are append-style
// records; balances and stock levels are always derived, never stored.
// 2. **Exact arithmetic**: every amount, quantity and rate is a
// decimal.Decimal. Floats are never used for money or stock.
// 3. **Avoid circular references**: records reference each other by ID
// strings, not pointers.
// 4. **Exclusive scoping**: inventory records belong to either a single
// owner (GroupID empty) or a sync group, never both.
package models
