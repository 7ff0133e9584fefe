package apperrors

import "errors"

// ErrInvalidRequest indicates caller-fixable input: missing fields, bad
// amounts, payments exceeding the routed debt.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound indicates that a referenced user, household, expense, or
// payment does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrForbidden indicates the entity exists but belongs to a different
// household. Kept distinct from ErrNotFound so cross-tenant requests are
// rejected without pretending the entity is absent.
var ErrForbidden = errors.New("forbidden")

// ErrInternalConsistency indicates the zero-sum invariant was violated
// upstream (the planner found residue after one side was exhausted). It is
// never caller-fixable and must surface as a 500.
var ErrInternalConsistency = errors.New("internal consistency violation")
