// Package types defines the value model, schema types, predicates, result
// sets, and standard error taxonomy shared by the storage engine, parser,
// and executor.
package types
