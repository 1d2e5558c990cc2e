// Package aggregates declares the coursework store boundary and the error
// codes that cross it.
//
// Nothing here knows about gorm or HTTP. internal/data/aggregates implements
// the store; internal/http/response turns codes into status codes.
package aggregates
