package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cryptown/internal/dbx"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/posts"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/sessiontokens"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/subposts"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pool or an
// open transaction, so services can choose per call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	SessionTokens(db dbx.DBTX) sessiontokens.Repository
	Posts(db dbx.DBTX) posts.Repository
	SubPosts(db dbx.DBTX) subposts.Repository
}
