// Package kvstore implements the domain repositories on top of a database.Gateway.
// Each collection is one JSON document stored under a fixed key.
package kvstore

const (
	KeyEmployees = "employees"
	KeySettings  = "settings"
)
