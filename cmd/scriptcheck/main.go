// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// scriptcheck verifies the input scripts of a raw transaction against the
// outputs it spends.
package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/blockchain"
	"github.com/NeblioTeam/neblio-sub002/blockchain/utxostore"
	"github.com/NeblioTeam/neblio-sub002/internal/log"
	"github.com/NeblioTeam/neblio-sub002/internal/version"
	"github.com/NeblioTeam/neblio-sub002/txscript"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

var chckLog = log.ChckLog

// scriptFlags returns the script verification flags selected by cfg.
func scriptFlags(cfg *config) txscript.ScriptFlags {
	flags := txscript.StandardVerifyFlags
	if cfg.NoP2SH {
		flags &^= txscript.ScriptBip16
	}
	if cfg.NoStrict {
		flags &^= txscript.ScriptVerifyStrictEncoding
	}
	return flags
}

// loadUtxoStore opens the unspent output store and records the outputs given
// on the command line.
func loadUtxoStore(cfg *config) (utxostore.Repo, error) {
	if cfg.DbType != utxostore.TypeMemory {
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, errors.Wrap(err, "failed to create data directory")
		}
	}
	repo, err := utxostore.Open(cfg.DbType, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	for op, txOut := range cfg.spent {
		entry := &utxostore.Entry{
			Amount:   txOut.Value,
			PkScript: txOut.PkScript,
		}
		if err := repo.Put(op, entry); err != nil {
			repo.Close()
			return nil, errors.Wrapf(err, "failed to store output %v", op)
		}
	}
	return repo, nil
}

// checkInputs logs the script pair and the verdict of every input and returns
// the number of inputs that failed.  Unlike ValidateTransactionScripts it
// honours hashType and keeps going after a failure.
func checkInputs(tx *wire.MsgTx, prevOuts blockchain.PrevOutputFetcher,
	flags txscript.ScriptFlags, hashType txscript.SigHashType,
	opts []txscript.EngineOption) int {

	var failed int
	for i, txIn := range tx.TxIn {
		if txIn.PreviousOutPoint.IsNull() {
			continue
		}
		sigDisasm, _ := txscript.DisasmString(txIn.SignatureScript)
		chckLog.Debugf("Input %d spends %v: %s", i, txIn.PreviousOutPoint,
			sigDisasm)

		prevOut, err := prevOuts.FetchPrevOutput(txIn.PreviousOutPoint)
		if err != nil || prevOut == nil {
			chckLog.Warnf("Input %d: spent output %v is unknown", i,
				txIn.PreviousOutPoint)
			failed++
			continue
		}
		pkDisasm, _ := txscript.DisasmString(prevOut.PkScript)
		chckLog.Debugf("Input %d locked by %s (%v)", i, pkDisasm,
			txscript.GetScriptClass(prevOut.PkScript))

		inputOpts := append([]txscript.EngineOption{
			txscript.WithColdStakeChecker(
				blockchain.NewTxColdStakeChecker(tx, prevOuts)),
		}, opts...)
		err = txscript.VerifyScript(txIn.SignatureScript, prevOut.PkScript,
			tx, i, flags, hashType, inputOpts...)
		if err != nil {
			chckLog.Infof("Input %d: invalid: %v", i, err)
			failed++
			continue
		}
		chckLog.Infof("Input %d: valid", i)
	}
	return failed
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := log.InitLogRotator(filepath.Join(cfg.LogDir,
		defaultLogFilename)); err != nil {
		return err
	}
	defer log.LogRotator.Close()
	log.SetLogLevels(cfg.DebugLevel)

	chckLog.Infof("Version %s on %s", version.String(), cfg.params.Name)

	repo, err := loadUtxoStore(cfg)
	if err != nil {
		chckLog.Errorf("Failed to load utxo store: %v", err)
		return err
	}
	defer repo.Close()

	tx := cfg.tx
	txHash := tx.TxHash()
	prevOuts := utxostore.NewPrevOutputFetcher(repo)
	flags := scriptFlags(cfg)
	opts := []txscript.EngineOption{
		txscript.WithSigCache(txscript.NewSigCache(int(cfg.SigCacheMaxEntries))),
		txscript.WithChainParams(cfg.params),
	}

	failed := checkInputs(tx, prevOuts, flags,
		txscript.SigHashType(cfg.HashType), opts)

	err = blockchain.ValidateTransactionScripts(tx, prevOuts, flags, nil,
		opts...)
	if err != nil {
		chckLog.Errorf("Transaction %v is invalid: %v", txHash, err)
		return err
	}
	if failed > 0 {
		err := errors.Errorf("%d %s failed verification with "+
			"hash type %#x", failed, log.PickNoun(uint64(failed),
			"input", "inputs"), cfg.HashType)
		chckLog.Errorf("Transaction %v is invalid: %v", txHash, err)
		return err
	}

	numInputs := uint64(len(tx.TxIn))
	chckLog.Infof("Transaction %v is valid (%d %s)", txHash, numInputs,
		log.PickNoun(numInputs, "input", "inputs"))
	return nil
}

func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
