// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// OwnershipType describes the relationship between a key store and an output.
type OwnershipType byte

const (
	// NotMine is an output the key store can't spend or stake.
	NotMine OwnershipType = iota

	// Spendable is an output the key store can spend.
	Spendable

	// ColdStaking is a cold stake output for which the key store holds
	// only the staking key.
	ColdStaking

	// SpendableDelegated is a cold stake output whose owner key the key
	// store holds.
	SpendableDelegated
)

var ownershipTypeStrings = []string{
	NotMine:            "notmine",
	Spendable:          "spendable",
	ColdStaking:        "coldstaking",
	SpendableDelegated: "spendabledelegated",
}

// String returns the OwnershipType as a human-readable name.
func (o OwnershipType) String() string {
	if int(o) >= len(ownershipTypeStrings) {
		return "Invalid"
	}
	return ownershipTypeStrings[o]
}

// IsMine classifies pkScript by the keys and scripts ks holds.  Multisig
// outputs are only spendable when every key is held, and a pay-to-script-hash
// output is judged by its redeem script, which must not be pay-to-script-hash
// itself.
func IsMine(ks KeyStore, pkScript []byte) OwnershipType {
	return isMine(ks, pkScript, false)
}

func isMine(ks KeyStore, pkScript []byte, inRedeemScript bool) OwnershipType {
	class, solution := Solver(pkScript, noDataCarrierLimit)
	switch class {
	case PubKeyTy:
		if ks.HaveKey(hash160(solution[0])) {
			return Spendable
		}

	case PubKeyHashTy:
		if ks.HaveKey(solution[0]) {
			return Spendable
		}

	case ScriptHashTy:
		if inRedeemScript {
			return NotMine
		}
		redeemScript, ok := ks.GetScript(solution[0])
		if !ok {
			return NotMine
		}
		return isMine(ks, redeemScript, true)

	case MultiSigTy:
		for _, pubKey := range solution[1 : len(solution)-1] {
			if !ks.HaveKey(hash160(pubKey)) {
				return NotMine
			}
		}
		return Spendable

	case ColdStakeTy, PoolColdStakeTy:
		if ks.HaveKey(solution[1]) {
			return SpendableDelegated
		}
		if ks.HaveKey(solution[0]) {
			return ColdStaking
		}

	case NonStandardTy, NullDataTy:
	}

	return NotMine
}
