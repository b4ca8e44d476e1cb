// Package models defines the data types of the expense ledger.
//
// An Activity is one shared expense: a payer and the participants who owe the
// payer a share of it. Each Participant carries a paid flag so debts can be
// settled one record at a time. A Settlement is an ephemeral suggestion
// produced by the solver in package calculator.
//
// # Sign convention
//
// An owed participant's Amount is the positive magnitude they owe the payer.
// In the ledger's net-balance map, each unpaid obligation adds Amount to the
// payer and subtracts it from the participant, so a positive net balance means
// the person is owed money and a negative one means they owe money.
//
// # Errors
//
// Every error in this module wraps one of ErrFormat, ErrValidation, ErrState
// or ErrIO. Use errors.Is to branch on the kind, or Kind to label it.
//
// # Persistence
//
// Activities flatten to a single delimiter-separated line (see Fields and
// DecodeActivity). Storage backends in package storage build on that form.
package models
