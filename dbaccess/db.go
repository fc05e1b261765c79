package dbaccess

import (
	"github.com/emberchain/emberd/database"
	"github.com/emberchain/emberd/database/ldb"
)

// DatabaseContext represents a context in which all database queries run
type DatabaseContext struct {
	db database.Database
	*noTxContext
}

// New creates a new DatabaseContext with database in the specified `path`
func New(path string) (*DatabaseContext, error) {
	db, err := ldb.NewLevelDB(path)
	if err != nil {
		return nil, err
	}

	databaseContext := &DatabaseContext{db: db}
	databaseContext.noTxContext = &noTxContext{backend: databaseContext}

	return databaseContext, nil
}

// Close closes the DatabaseContext's connection, if it's open
func (ctx *DatabaseContext) Close() error {
	return ctx.db.Close()
}

// Context is an interface type representing the context in which a query runs,
// currently relating to the existence or non-existence of a database transaction
type Context interface {
	accessor() (database.DataAccessor, error)
}

type noTxContext struct {
	backend *DatabaseContext
}

func (ctx *noTxContext) accessor() (database.DataAccessor, error) {
	return ctx.backend.db, nil
}

// NewTx returns an instance of TxContext with a new database transaction
func (ctx *DatabaseContext) NewTx() (*TxContext, error) {
	dbTransaction, err := ctx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &TxContext{dbTransaction: dbTransaction}, nil
}

// TxContext represents a database context with an attached database transaction
type TxContext struct {
	dbTransaction database.Transaction
}

func (ctx *TxContext) accessor() (database.DataAccessor, error) {
	return ctx.dbTransaction, nil
}

// Commit commits the transaction attached to this TxContext
func (ctx *TxContext) Commit() error {
	return ctx.dbTransaction.Commit()
}

// Rollback rolls-back the transaction attached to this TxContext
func (ctx *TxContext) Rollback() error {
	return ctx.dbTransaction.Rollback()
}

// RollbackUnlessClosed rolls-back the transaction attached to this TxContext,
// unless the transaction had already been closed using either Rollback or Commit.
func (ctx *TxContext) RollbackUnlessClosed() error {
	return ctx.dbTransaction.RollbackUnlessClosed()
}

// IsNotFoundError checks whether an error is an ErrNotFound.
func IsNotFoundError(err error) bool {
	return database.IsNotFoundError(err)
}
