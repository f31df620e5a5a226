package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contacthub/internal/dbx"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX (connection or
// transaction) and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
