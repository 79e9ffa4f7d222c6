// Package models defines the GophBank entities: users, accounts and their
// metadata, the operator session, and the transaction journal. Users and
// accounts refer to each other only by name and id; the storage layer keeps
// the two sides of that relation consistent.
package models
