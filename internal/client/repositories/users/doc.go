// Package users persists local accounts: the seeded administrator and the
// technicians it registers. Phones are unique; a duplicate is reported as
// common.ErrAlreadyExists rather than a raw constraint error.
package users
