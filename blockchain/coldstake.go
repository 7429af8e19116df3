// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"

	"github.com/NeblioTeam/neblio-sub002/txscript"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

// TxColdStakeChecker decides whether a transaction is a valid staking spend of
// a cold stake output.  A cold stake output may only be spent by the staker
// key in a coinstake transaction that returns the staked value to the same
// locking script.
type TxColdStakeChecker struct {
	tx       *wire.MsgTx
	prevOuts PrevOutputFetcher
}

// Ensure TxColdStakeChecker implements the txscript.ColdStakeChecker
// interface.
var _ txscript.ColdStakeChecker = (*TxColdStakeChecker)(nil)

// NewTxColdStakeChecker returns a checker bound to the passed transaction.
// When prevOuts is nil the outputs spent by the transaction are not examined.
func NewTxColdStakeChecker(tx *wire.MsgTx, prevOuts PrevOutputFetcher) *TxColdStakeChecker {
	return &TxColdStakeChecker{tx: tx, prevOuts: prevOuts}
}

// CheckColdStake returns whether the transaction is a coinstake whose inputs
// all spend outputs locked by script and whose outputs after the coinstake
// marker all pay script.
func (c *TxColdStakeChecker) CheckColdStake(script []byte) bool {
	return c.check(script, false)
}

// CheckPoolColdStake returns the same as CheckColdStake except that, when there
// are more than two outputs, the last one may pay the staking pool its fee.
func (c *TxColdStakeChecker) CheckPoolColdStake(script []byte) bool {
	return c.check(script, true)
}

func (c *TxColdStakeChecker) check(script []byte, poolFee bool) bool {
	tx := c.tx
	if tx == nil || !tx.IsCoinStake() {
		log.Tracef("Cold stake check failed: not a coinstake")
		return false
	}

	if c.prevOuts != nil {
		for _, txIn := range tx.TxIn {
			prevOut, err := c.prevOuts.FetchPrevOutput(txIn.PreviousOutPoint)
			if err != nil || prevOut == nil ||
				!bytes.Equal(prevOut.PkScript, script) {

				log.Tracef("Cold stake check failed: input %v of %v "+
					"does not spend the staked script",
					txIn.PreviousOutPoint, tx.TxHash())
				return false
			}
		}
	}

	end := len(tx.TxOut)
	if poolFee && end > 2 {
		end--
	}
	for i := 1; i < end; i++ {
		if !bytes.Equal(tx.TxOut[i].PkScript, script) {
			log.Tracef("Cold stake check failed: output %d of %v "+
				"does not return to the staked script", i,
				tx.TxHash())
			return false
		}
	}

	return true
}
