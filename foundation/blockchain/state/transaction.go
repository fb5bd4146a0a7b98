package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// SubmitTransaction adds a transaction to the end of the mempool and returns
// the new size of the mempool. Only the shape of the transaction is checked,
// no balance or authorization checks are performed, so any caller can submit
// a transaction from any account. A registered worker is signaled to start
// mining.
func (s *State) SubmitTransaction(tx database.Tx) (int, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitTransaction: tx[%s]: mempool[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return n, nil
}
