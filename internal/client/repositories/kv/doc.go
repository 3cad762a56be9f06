// Package kv is a string-keyed byte store persisted in the local SQLite
// database. The session layer keeps the access token and the serialized
// user profile here.
//
// SQLiteRepository runs over dbx.DBTX, so the same code serves plain
// connections and transactions:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := kv.NewSQLiteRepository(tx)
//	    if err := repo.Set(ctx, "access_token", tok); err != nil {
//	        return err
//	    }
//	    return repo.Set(ctx, "user", profileJSON)
//	})
//
// Get returns (nil, nil) for a missing key.
package kv
