package tododb

import (
	"database/sql"
	"errors"

	"github.com/pingcap/log"
)

// TxnRollback is meant to be deferred right after BeginTx. A rollback after a
// successful commit is not logged.
func TxnRollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Error(err.Error())
	}
}
