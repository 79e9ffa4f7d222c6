// Package services implements the GophBank core: the credential store, the
// account ledger, the authenticator, the transaction engine, the ownership
// manager and the snapshotter.
//
// Every mutation runs inside one storage.Storage.Write call, so a failed
// operation leaves no partial state behind. Services return sentinel errors
// from package common and never print or exit; the console decides what the
// operator sees.
package services
