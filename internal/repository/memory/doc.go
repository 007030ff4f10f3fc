// Package memory holds in-memory repositories. They back service tests and
// honour the same uniqueness rules as the PostgreSQL repositories.
package memory
