// Package models holds the GORM models of the postgres record store.
// Domain documents are converted at the repository boundary so the domain
// package never carries gorm tags.
package models
