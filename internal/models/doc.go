// Package models defines the core domain models for tabscan.
//
// # Model Overview
//
//   - Session: one receipt-scanning session — roster, payer, entered total,
//     and line items. The immutable input to the settlement engine.
//   - LineItem: a single line on the receipt, with a tagged Assignment
//     describing who shares it.
//   - Settlement: a directed payment obligation produced by the engine,
//     with human-readable derivation text.
//   - User: a registered account that creates and owns sessions.
//
// # Design Principles
//
//  1. **Money is integer cents** (Cents, int64). No float ever reaches a
//     persisted or returned amount.
//  2. **Participants are name strings** scoped to a session. Accounts exist
//     for session ownership, not for the roster.
//  3. **Assignment is a tagged variant**, not a sentinel string hidden in a
//     participant list. The legacy "All" wire marker is translated at the
//     boundary by ParseAssignment and produced back by Wire.
//  4. **Avoid circular references**: relationships use ID strings, not
//     pointers.
package models
