// Package aggregates implements the coursework store on gorm.
//
// Reads go through the table repos in internal/data/repos. Every write that
// guards an invariant runs in its own transaction via executeWrite, which
// also maps driver errors onto the codes in internal/domain/aggregates.
package aggregates
