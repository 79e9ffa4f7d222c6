// Package users persists the credential store: one row per registered user
// plus the owned_accounts link table that holds each user's set of account
// ids. Account ids are unique in the link table, so an account can be linked
// to at most one user.
//
// Typical usage
//
//	repo := users.NewSQLRepository(tx, dbx.Question)
//	_ = repo.Create(ctx, &models.User{Name: "alice", Salt: salt, PasswordHash: hash})
//	_ = repo.AddOwnedAccount(ctx, "alice", accountID)
//	u, _ := repo.GetByName(ctx, "alice")
package users
