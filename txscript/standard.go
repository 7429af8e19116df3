// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/NeblioTeam/neblio-sub002/chaincfg"
)

// noDataCarrierLimit is the data carrier size used when the caller has no
// height to derive one from.  Every push a script can hold fits under it.
const noDataCarrierLimit = MaxScriptSize

var (
	// ErrUnsupportedAddress is returned when an address has no locking
	// script form.
	ErrUnsupportedAddress = errors.New("unsupported address type")

	// ErrNoDestination is returned when a script does not pay a single
	// address.
	ErrNoDestination = errors.New("script does not pay a single destination")
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment known about in the blockchain.
const (
	NonStandardTy   ScriptClass = iota // None of the recognized forms.
	PubKeyTy                           // Pay pubkey.
	PubKeyHashTy                       // Pay pubkey hash.
	ScriptHashTy                       // Pay to script hash.
	MultiSigTy                         // Multi signature.
	NullDataTy                         // Empty data-only (provably prunable).
	ColdStakeTy                        // Cold stake delegation.
	PoolColdStakeTy                    // Cold stake delegation to a pool.
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy:   "nonstandard",
	PubKeyTy:        "pubkey",
	PubKeyHashTy:    "pubkeyhash",
	ScriptHashTy:    "scripthash",
	MultiSigTy:      "multisig",
	NullDataTy:      "nulldata",
	ColdStakeTy:     "coldstake",
	PoolColdStakeTy: "poolcoldstake",
}

// String implements the Stringer interface by returning the name of
// the enum script class.  If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// Placeholder tokens of script templates.  They lie outside the byte range so
// they never collide with a literal opcode.
const (
	tmplPubKey       = 0x100 + iota // One 33 to 120 byte push.
	tmplPubKeys                     // Zero or more tmplPubKey pushes.
	tmplPubKeyHash                  // One 20 byte push.
	tmplSmallInteger                // OP_0 or OP_1 through OP_16.
	tmplSmallData                   // One push within the data carrier size.
)

// scriptTemplate is a standard script shape: literal opcodes mixed with
// placeholder tokens.
type scriptTemplate struct {
	class  ScriptClass
	tokens []int
}

// standardTemplates are tried in order by Solver.  Pay-to-script-hash is
// recognized before any of them.
var standardTemplates = []scriptTemplate{
	{PubKeyTy, []int{tmplPubKey, OP_CHECKSIG}},
	{PubKeyHashTy, []int{OP_DUP, OP_HASH160, tmplPubKeyHash, OP_EQUALVERIFY,
		OP_CHECKSIG}},
	{MultiSigTy, []int{tmplSmallInteger, tmplPubKeys, tmplSmallInteger,
		OP_CHECKMULTISIG}},
	{ColdStakeTy, []int{OP_DUP, OP_HASH160, OP_ROT, OP_IF,
		OP_CHECKCOLDSTAKEVERIFY, tmplPubKeyHash, OP_ELSE, tmplPubKeyHash,
		OP_ENDIF, OP_EQUALVERIFY, OP_CHECKSIG}},
	{PoolColdStakeTy, []int{OP_DUP, OP_HASH160, OP_ROT, OP_IF,
		OP_CHECKPOOLCOLDSTAKEVERIFY, tmplPubKeyHash, OP_ELSE, tmplPubKeyHash,
		OP_ENDIF, OP_EQUALVERIFY, OP_CHECKSIG}},
	{NullDataTy, []int{OP_RETURN, tmplSmallData}},
}

// isPubKeyPush returns whether data is sized like a serialized public key.
func isPubKeyPush(data []byte) bool {
	return len(data) >= 33 && len(data) <= 120
}

// matchTemplate walks script and tokens in lock-step and returns the material
// captured by the placeholders when every token matches and both run out
// together.
func matchTemplate(script []byte, tokens []int, maxDataCarrier int) ([][]byte, bool) {
	var solution [][]byte
	tokenizer := MakeScriptTokenizer(script)
	haveOp := tokenizer.Next()
	for _, token := range tokens {
		// The greedy key list consumes pushes and then hands the current
		// opcode to the next token.
		if token == tmplPubKeys {
			for haveOp && isPubKeyPush(tokenizer.Data()) {
				solution = append(solution, tokenizer.Data())
				haveOp = tokenizer.Next()
			}
			continue
		}
		if !haveOp {
			return nil, false
		}

		op, data := tokenizer.Opcode(), tokenizer.Data()
		switch token {
		case tmplPubKey:
			if !isPubKeyPush(data) {
				return nil, false
			}
			solution = append(solution, data)

		case tmplPubKeyHash:
			if len(data) != 20 {
				return nil, false
			}
			solution = append(solution, data)

		case tmplSmallInteger:
			switch {
			case op == OP_0:
				solution = append(solution, []byte{0})
			case op >= OP_1 && op <= OP_16:
				solution = append(solution, []byte{op - (OP_1 - 1)})
			default:
				return nil, false
			}

		case tmplSmallData:
			// Non-push opcodes carry no data and always fit.
			if len(data) > maxDataCarrier {
				return nil, false
			}

		default:
			if op != byte(token) || len(data) != 0 {
				return nil, false
			}
		}
		haveOp = tokenizer.Next()
	}

	if haveOp || tokenizer.Err() != nil {
		return nil, false
	}
	return solution, true
}

// Solver classifies pkScript and returns the material a spender needs from
// it: the public key, the key or script hash, the multisig threshold
// followed by the keys and key count, or the staker and owner key hashes.
// Null data pushes may be at most maxDataCarrier bytes.  Scripts matching no
// standard template are NonStandardTy with no solution.
func Solver(pkScript []byte, maxDataCarrier int) (ScriptClass, [][]byte) {
	// Shortcut for pay-to-script-hash, which are more constrained than the
	// other types: it is always OP_HASH160 20 [20 byte hash] OP_EQUAL.
	if IsPayToScriptHash(pkScript) {
		return ScriptHashTy, [][]byte{pkScript[2:22]}
	}

	for _, tmpl := range standardTemplates {
		solution, ok := matchTemplate(pkScript, tmpl.tokens, maxDataCarrier)
		if !ok {
			continue
		}

		if tmpl.class == MultiSigTy {
			m := int(solution[0][0])
			n := int(solution[len(solution)-1][0])
			if m < 1 || n < 1 || m > n || n > MaxPubKeysPerMultiSig ||
				len(solution)-2 != n {

				return NonStandardTy, nil
			}
		}
		return tmpl.class, solution
	}

	return NonStandardTy, nil
}

// SolverAtHeight is Solver with the null data limit in force on the network
// at the given block height.
func SolverAtHeight(pkScript []byte, params *chaincfg.Params, height int32) (ScriptClass, [][]byte) {
	return Solver(pkScript, params.MaxDataCarrierSize(height))
}

// GetScriptClass returns the class of the script passed.  Null data is
// recognized at any size.
func GetScriptClass(script []byte) ScriptClass {
	class, _ := Solver(script, noDataCarrierLimit)
	return class
}

// ScriptSigArgsExpected returns the number of stack items an unlocking script
// of the given class pushes, or -1 for classes that can't be spent or whose
// count is unknown.  A pay-to-script-hash spend pushes one more item for the
// redeem script in addition to what the redeem script itself needs.
func ScriptSigArgsExpected(class ScriptClass, solution [][]byte) int {
	switch class {
	case PubKeyTy:
		return 1

	case PubKeyHashTy:
		return 2

	case ScriptHashTy:
		return 1

	case MultiSigTy:
		if len(solution) < 1 || len(solution[0]) < 1 {
			return -1
		}
		// The extra item is the value consumed by the CHECKMULTISIG
		// off-by-one.
		return int(solution[0][0]) + 1

	case ColdStakeTy, PoolColdStakeTy:
		return 3

	case NonStandardTy, NullDataTy:
		return -1
	}

	return -1
}

// ExtractDestination returns the single address pkScript pays.  Cold stake
// scripts pay the staker when useStaker is set and the owner otherwise.
// Multisig, null data and non-standard scripts have no single destination
// and return ErrNoDestination.
func ExtractDestination(pkScript []byte, useStaker bool, params *chaincfg.Params) (btcutil.Address, error) {
	netParams := params.AddressParams()
	class, solution := Solver(pkScript, noDataCarrierLimit)
	switch class {
	case PubKeyTy:
		return btcutil.NewAddressPubKey(solution[0], netParams)

	case PubKeyHashTy:
		return btcutil.NewAddressPubKeyHash(solution[0], netParams)

	case ScriptHashTy:
		return btcutil.NewAddressScriptHashFromHash(solution[0], netParams)

	case ColdStakeTy, PoolColdStakeTy:
		if useStaker {
			return btcutil.NewAddressPubKeyHash(solution[0], netParams)
		}
		return btcutil.NewAddressPubKeyHash(solution[1], netParams)

	case MultiSigTy, NullDataTy, NonStandardTy:
		return nil, ErrNoDestination
	}

	return nil, ErrNoDestination
}

// ExtractDestinations returns the script class, the addresses pkScript pays
// and the number of signatures required to spend it.  Multisig scripts list
// every key, and cold stake scripts list the staker followed by the owner.
// Keys that fail to parse are skipped.  Null data and non-standard scripts
// return no addresses.
func ExtractDestinations(pkScript []byte, params *chaincfg.Params) (ScriptClass, []btcutil.Address, int, error) {
	netParams := params.AddressParams()
	class, solution := Solver(pkScript, noDataCarrierLimit)

	var addrs []btcutil.Address
	var requiredSigs int
	switch class {
	case PubKeyTy, PubKeyHashTy, ScriptHashTy:
		requiredSigs = 1
		addr, err := ExtractDestination(pkScript, false, params)
		if err != nil {
			return class, nil, 0, err
		}
		addrs = append(addrs, addr)

	case ColdStakeTy, PoolColdStakeTy:
		requiredSigs = 1
		for _, hash := range solution {
			addr, err := btcutil.NewAddressPubKeyHash(hash, netParams)
			if err != nil {
				return class, nil, 0, err
			}
			addrs = append(addrs, addr)
		}

	case MultiSigTy:
		requiredSigs = int(solution[0][0])
		for _, pubKey := range solution[1 : len(solution)-1] {
			addr, err := btcutil.NewAddressPubKey(pubKey, netParams)
			if err != nil {
				log.Debugf("Skipping unparsable multisig key %x: %v",
					pubKey, err)
				continue
			}
			addrs = append(addrs, addr)
		}

	case NullDataTy, NonStandardTy:
		// Null data transactions and non-standard scripts have no
		// addresses or required signatures.
	}

	return class, addrs, requiredSigs, nil
}

// PayToPubKeyScript creates a new script to pay a transaction output to the
// passed serialized public key.
func PayToPubKeyScript(serializedPubKey []byte) ([]byte, error) {
	if err := IsCanonicalPubKey(serializedPubKey); err != nil {
		return nil, err
	}
	return NewScriptBuilder().AddData(serializedPubKey).
		AddOp(OP_CHECKSIG).Script(), nil
}

// PayToPubKeyHashScript creates a new script to pay a transaction output to a
// 20-byte pubkey hash.
func PayToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != 20 {
		return nil, fmt.Errorf("pubkey hash is %d bytes, not 20",
			len(pubKeyHash))
	}
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).
		Script(), nil
}

// PayToScriptHashScript creates a new script to pay a transaction output to a
// script hash.
func PayToScriptHashScript(scriptHash []byte) ([]byte, error) {
	if len(scriptHash) != 20 {
		return nil, fmt.Errorf("script hash is %d bytes, not 20",
			len(scriptHash))
	}
	return NewScriptBuilder().AddOp(OP_HASH160).AddData(scriptHash).
		AddOp(OP_EQUAL).Script(), nil
}

// payToColdStakeScript builds a cold stake script guarded by verifyOp.
func payToColdStakeScript(verifyOp byte, stakerHash, ownerHash []byte) ([]byte, error) {
	if len(stakerHash) != 20 || len(ownerHash) != 20 {
		return nil, fmt.Errorf("cold stake key hashes are %d and %d "+
			"bytes, not 20", len(stakerHash), len(ownerHash))
	}
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddOp(OP_ROT).AddOp(OP_IF).AddOp(verifyOp).AddData(stakerHash).
		AddOp(OP_ELSE).AddData(ownerHash).AddOp(OP_ENDIF).
		AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).Script(), nil
}

// PayToColdStakeScript creates a script delegating staking of an output to
// the key hashing to stakerHash while only the key hashing to ownerHash may
// spend it otherwise.
func PayToColdStakeScript(stakerHash, ownerHash []byte) ([]byte, error) {
	return payToColdStakeScript(OP_CHECKCOLDSTAKEVERIFY, stakerHash,
		ownerHash)
}

// PayToPoolColdStakeScript is PayToColdStakeScript for a staking pool, which
// may take a fee output when staking.
func PayToPoolColdStakeScript(stakerHash, ownerHash []byte) ([]byte, error) {
	return payToColdStakeScript(OP_CHECKPOOLCOLDSTAKEVERIFY, stakerHash,
		ownerHash)
}

// MultiSigScript returns a valid script for a multisignature redemption where
// nrequired of the keys in pubkeys are required to have signed the
// transaction for success.  An error is returned if nrequired is larger than
// the number of keys provided or the script would not be standard.
func MultiSigScript(pubKeys [][]byte, nrequired int) ([]byte, error) {
	if nrequired < 1 || len(pubKeys) < nrequired {
		return nil, fmt.Errorf("unable to generate multisig script "+
			"with %d required signatures when there are only %d "+
			"public keys available", nrequired, len(pubKeys))
	}
	if len(pubKeys) > 16 {
		return nil, fmt.Errorf("unable to generate multisig script "+
			"with %d public keys", len(pubKeys))
	}

	builder := NewScriptBuilder().AddInt64(int64(nrequired))
	for _, key := range pubKeys {
		if err := IsCanonicalPubKey(key); err != nil {
			return nil, err
		}
		builder.AddData(key)
	}
	builder.AddInt64(int64(len(pubKeys)))
	builder.AddOp(OP_CHECKMULTISIG)

	return builder.Script(), nil
}

// NullDataScript creates a provably-prunable script containing OP_RETURN
// followed by the passed data.
func NullDataScript(data []byte) ([]byte, error) {
	if len(data) > MaxScriptSize-5 {
		return nil, fmt.Errorf("data size %d is larger than a script "+
			"can hold", len(data))
	}
	return NewScriptBuilder().AddOp(OP_RETURN).AddData(data).Script(), nil
}

// PayToAddrScript creates a new script to pay a transaction output to the
// specified address.
func PayToAddrScript(addr btcutil.Address) ([]byte, error) {
	switch addr := addr.(type) {
	case *btcutil.AddressPubKeyHash:
		if addr == nil {
			return nil, ErrUnsupportedAddress
		}
		return PayToPubKeyHashScript(addr.ScriptAddress())

	case *btcutil.AddressScriptHash:
		if addr == nil {
			return nil, ErrUnsupportedAddress
		}
		return PayToScriptHashScript(addr.ScriptAddress())

	case *btcutil.AddressPubKey:
		if addr == nil {
			return nil, ErrUnsupportedAddress
		}
		return PayToPubKeyScript(addr.ScriptAddress())
	}

	return nil, ErrUnsupportedAddress
}
