// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/NeblioTeam/neblio-sub002/wire"
)

var (
	// ErrUnsupportedScriptType is returned when asked to sign a script that
	// is not of a standard spendable type.
	ErrUnsupportedScriptType = errors.New("unsupported script type")

	// ErrKeyNotFound is returned when the key store lacks a key or script
	// needed to sign.
	ErrKeyNotFound = errors.New("key not found in key store")

	// ErrNestedScriptHash is returned when a redeem script is itself a
	// pay-to-script-hash script.
	ErrNestedScriptHash = errors.New("redeem script is pay-to-script-hash")

	// ErrIncompleteSignature is returned along with a partial multisig
	// unlocking script when the store holds fewer keys than required.
	ErrIncompleteSignature = errors.New("not enough keys to complete signature")
)

// KeyStore provides the keys and redeem scripts needed to sign.  Keys are
// looked up by the hash160 of their serialized public key and scripts by the
// hash160 of the script.
type KeyStore interface {
	// HaveKey reports whether the private key for keyID is held.
	HaveKey(keyID []byte) bool

	// GetKey returns the private key for keyID along with whether its
	// public key is serialized compressed.
	GetKey(keyID []byte) (*btcec.PrivateKey, bool, bool)

	// GetPubKey returns the serialized public key for keyID.
	GetPubKey(keyID []byte) ([]byte, bool)

	// GetScript returns the redeem script hashing to scriptID.
	GetScript(scriptID []byte) ([]byte, bool)
}

// signWithKey signs hash with the key for keyID and returns the signature with
// hashType appended and the matching serialized public key.
func signWithKey(ks KeyStore, keyID, hash []byte, hashType SigHashType) ([]byte, []byte, error) {
	key, compressed, ok := ks.GetKey(keyID)
	if !ok {
		return nil, nil, ErrKeyNotFound
	}

	sig := ecdsa.Sign(key, hash)
	pubKey := key.PubKey().SerializeUncompressed()
	if compressed {
		pubKey = key.PubKey().SerializeCompressed()
	}
	return append(sig.Serialize(), byte(hashType)), pubKey, nil
}

// SignHash produces an unlocking script for pkScript by signing hash with the
// keys ks holds.  When useStaker is set, cold stake outputs are signed with the
// staking key instead of the owner key.
//
// For pay-to-script-hash outputs the returned bytes are the redeem script
// itself, which the caller must solve and sign in turn.  A multisig script
// for which too few keys are held is returned partially signed together with
// ErrIncompleteSignature.
func SignHash(ks KeyStore, pkScript []byte, hash []byte, hashType SigHashType,
	useStaker bool) ([]byte, ScriptClass, error) {

	class, solution := Solver(pkScript, noDataCarrierLimit)
	switch class {
	case PubKeyTy:
		sig, _, err := signWithKey(ks, hash160(solution[0]), hash, hashType)
		if err != nil {
			return nil, class, err
		}
		return NewScriptBuilder().AddData(sig).Script(), class, nil

	case PubKeyHashTy:
		sig, pubKey, err := signWithKey(ks, solution[0], hash, hashType)
		if err != nil {
			return nil, class, err
		}
		return NewScriptBuilder().AddData(sig).AddData(pubKey).Script(),
			class, nil

	case ScriptHashTy:
		redeemScript, ok := ks.GetScript(solution[0])
		if !ok {
			return nil, class, ErrKeyNotFound
		}
		return redeemScript, class, nil

	case MultiSigTy:
		script, err := signMultiSig(ks, solution, hash, hashType)
		return script, class, err

	case ColdStakeTy, PoolColdStakeTy:
		keyID, selector := solution[1], byte(OP_FALSE)
		if useStaker {
			keyID, selector = solution[0], OP_TRUE
		}
		sig, pubKey, err := signWithKey(ks, keyID, hash, hashType)
		if err != nil {
			return nil, class, err
		}
		return NewScriptBuilder().AddData(sig).AddOp(selector).
			AddData(pubKey).Script(), class, nil

	case NonStandardTy, NullDataTy:
		return nil, class, ErrUnsupportedScriptType
	}

	return nil, class, ErrUnsupportedScriptType
}

// signMultiSig signs with the held keys in the order the script lists them
// until the threshold is reached.
func signMultiSig(ks KeyStore, solution [][]byte, hash []byte,
	hashType SigHashType) ([]byte, error) {

	nRequired := int(solution[0][0])

	// The leading OP_0 is consumed by the extra pop of OP_CHECKMULTISIG.
	builder := NewScriptBuilder().AddOp(OP_0)
	signed := 0
	for _, pubKey := range solution[1 : len(solution)-1] {
		if signed == nRequired {
			break
		}
		sig, _, err := signWithKey(ks, hash160(pubKey), hash, hashType)
		if err != nil {
			continue
		}
		builder.AddData(sig)
		signed++
	}

	if signed < nRequired {
		return builder.Script(), ErrIncompleteSignature
	}
	return builder.Script(), nil
}

// SignTxInput signs input idx of tx, which spends an output locked by
// pkScript, and stores the unlocking script in the input.  Pay-to-script-hash
// outputs are signed through their redeem script, which must not itself be
// pay-to-script-hash.  A complete unlocking script is verified against
// pkScript under StandardVerifyFlags.
//
// An input that could only be partially signed keeps its partial unlocking
// script and ErrIncompleteSignature is returned, so that another signer's
// contribution can be merged with CombineSignatures.
func SignTxInput(ks KeyStore, pkScript []byte, tx *wire.MsgTx, idx int,
	hashType SigHashType, useStaker bool, opts ...EngineOption) error {

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is out of range",
			idx)
		return scriptError(ErrInvalidIndex, str)
	}

	hash := CalcSignatureHash(pkScript, hashType, tx, idx)
	sigScript, class, err := SignHash(ks, pkScript, hash, hashType, useStaker)
	if err != nil && !errors.Is(err, ErrIncompleteSignature) {
		return err
	}

	if class == ScriptHashTy {
		// The redeem script is what the spender signs and reveals, and
		// recursion stops after one level.
		redeemScript := sigScript
		if IsPayToScriptHash(redeemScript) {
			return ErrNestedScriptHash
		}
		hash = CalcSignatureHash(redeemScript, hashType, tx, idx)
		sigScript, _, err = SignHash(ks, redeemScript, hash, hashType,
			useStaker)
		if err != nil && !errors.Is(err, ErrIncompleteSignature) {
			return err
		}
		sigScript = appendDataPush(sigScript, redeemScript)
	}

	tx.TxIn[idx].SignatureScript = sigScript
	if err != nil {
		log.Debugf("Input %d of %v is partially signed", idx, tx.TxHash())
		return err
	}

	return VerifyScript(sigScript, pkScript, tx, idx, StandardVerifyFlags, 0,
		opts...)
}

// pushAll returns a script pushing every element of stk in order.
func pushAll(stk [][]byte) []byte {
	var script []byte
	for _, data := range stk {
		script = appendDataPush(script, data)
	}
	return script
}

// CombineSignatures merges two unlocking scripts for input idx of tx, each a
// possibly partial solution of pkScript, into the most complete unlocking
// script the two provide together.
func CombineSignatures(pkScript []byte, tx *wire.MsgTx, idx int, sigScript1,
	sigScript2 []byte, opts ...EngineOption) []byte {

	// Unlocking scripts are push only, so evaluating them merely collects
	// the pushed items.  A script that fails to evaluate contributes none.
	stack1, err := EvalScript(nil, sigScript1, tx, idx, 0, 0, opts...)
	if err != nil {
		log.Debugf("Discarding first unlocking script: %v", err)
		stack1 = nil
	}
	stack2, err := EvalScript(nil, sigScript2, tx, idx, 0, 0, opts...)
	if err != nil {
		log.Debugf("Discarding second unlocking script: %v", err)
		stack2 = nil
	}

	class, solution := Solver(pkScript, noDataCarrierLimit)
	return pushAll(combineStacks(pkScript, class, solution, tx, idx, stack1,
		stack2, opts))
}

// combineStacks merges the stacks produced by two unlocking scripts for
// pkScript, which is of the passed class and solution.
func combineStacks(pkScript []byte, class ScriptClass, solution [][]byte,
	tx *wire.MsgTx, idx int, stack1, stack2 [][]byte, opts []EngineOption) [][]byte {

	switch class {
	case NonStandardTy, NullDataTy:
		// Nothing is known about these, so assume the larger one is
		// more complete.
		if len(stack1) >= len(stack2) {
			return stack1
		}
		return stack2

	case PubKeyTy, PubKeyHashTy, ColdStakeTy, PoolColdStakeTy:
		// Signatures are bigger than placeholders or empty scripts.
		if len(stack1) == 0 || len(stack1[0]) == 0 {
			return stack2
		}
		return stack1

	case ScriptHashTy:
		if len(stack1) == 0 || len(stack1[len(stack1)-1]) == 0 {
			return stack2
		}
		if len(stack2) == 0 || len(stack2[len(stack2)-1]) == 0 {
			return stack1
		}

		// Both sides reveal a redeem script.  Recurse once into it.
		redeemScript := stack1[len(stack1)-1]
		subClass, subSolution := Solver(redeemScript, noDataCarrierLimit)
		if subClass == ScriptHashTy {
			return stack1
		}
		merged := combineStacks(redeemScript, subClass, subSolution, tx, idx,
			stack1[:len(stack1)-1], stack2[:len(stack2)-1], opts)
		result := make([][]byte, 0, len(merged)+1)
		result = append(result, merged...)
		return append(result, redeemScript)

	case MultiSigTy:
		return combineMultiSig(pkScript, solution, tx, idx, stack1, stack2,
			opts)
	}

	return stack1
}

// combineMultiSig matches the signatures of both stacks to the public keys of
// a multisig script and rebuilds the stack with the signatures in key order,
// padding missing ones with empty items.
func combineMultiSig(pkScript []byte, solution [][]byte, tx *wire.MsgTx,
	idx int, stack1, stack2 [][]byte, opts []EngineOption) [][]byte {

	// Collect the distinct non-empty signatures.  Sorting makes the
	// matching order independent of which side supplied what.
	seen := make(map[string]struct{})
	var allSigs [][]byte
	for _, stk := range [][][]byte{stack1, stack2} {
		for _, sig := range stk {
			if len(sig) == 0 {
				continue
			}
			if _, ok := seen[string(sig)]; ok {
				continue
			}
			seen[string(sig)] = struct{}{}
			allSigs = append(allSigs, sig)
		}
	}
	sort.Slice(allSigs, func(i, j int) bool {
		return bytes.Compare(allSigs[i], allSigs[j]) < 0
	})

	vm := Engine{tx: tx, txIdx: idx}
	for _, opt := range opts {
		opt(&vm)
	}

	nRequired := int(solution[0][0])
	pubKeys := solution[1 : len(solution)-1]
	sigForKey := make([][]byte, len(pubKeys))
	for _, sig := range allSigs {
		for i, pubKey := range pubKeys {
			if sigForKey[i] != nil {
				continue
			}
			if vm.checkSig(sig, pubKey, pkScript) {
				sigForKey[i] = sig
				break
			}
		}
	}

	// The leading empty item is consumed by the extra pop of
	// OP_CHECKMULTISIG.
	result := [][]byte{nil}
	for _, sig := range sigForKey {
		if len(result)-1 == nRequired {
			break
		}
		if sig != nil {
			result = append(result, sig)
		}
	}
	for len(result)-1 < nRequired {
		result = append(result, nil)
	}
	return result
}
