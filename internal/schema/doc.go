// Package schema infers table definitions from sample records and renders
// the DDL that creates them.
//
// The functions here are pure and deterministic. Nothing in this package
// touches a database; internal/store executes what it renders.
package schema
