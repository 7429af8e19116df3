// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/NeblioTeam/neblio-sub002/blockchain/utxostore"
	"github.com/NeblioTeam/neblio-sub002/chaincfg"
	"github.com/NeblioTeam/neblio-sub002/internal/log"
	"github.com/NeblioTeam/neblio-sub002/wire"
)

const (
	defaultDbType             = utxostore.TypeMemory
	defaultLogLevel           = "info"
	defaultLogFilename        = "scriptcheck.log"
	defaultSigCacheMaxEntries = 100000
)

var (
	scriptcheckHomeDir = btcutil.AppDataDir("neblio-scriptcheck", false)
	defaultDataDir     = filepath.Join(scriptcheckHomeDir, "data")
	defaultLogDir      = filepath.Join(scriptcheckHomeDir, "logs")
	knownDbTypes       = utxostore.SupportedTypes()
)

// config defines the configuration options for scriptcheck.
//
// See loadConfig for details on the configuration load process.
type config struct {
	DataDir            string   `short:"b" long:"datadir" description:"Directory to store the unspent output database"`
	DbType             string   `long:"dbtype" description:"Database backend to use for unspent outputs"`
	DebugLevel         string   `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	HashType           uint8    `long:"hashtype" description:"Require every signature to commit to this hash type -- Use 0 to accept any"`
	LogDir             string   `long:"logdir" description:"Directory to log output"`
	NoP2SH             bool     `long:"nop2sh" description:"Do not evaluate pay-to-script-hash redeem scripts"`
	NoStrict           bool     `long:"nostrict" description:"Do not require strict signature and public key encodings"`
	PrevOuts           []string `long:"prevout" description:"Output spent by the transaction as txid:index:value:pkscripthex -- May be repeated"`
	RawTx              string   `short:"t" long:"rawtx" description:"Hex encoded transaction to verify"`
	RegressionTest     bool     `long:"regtest" description:"Use the regression test network"`
	SigCacheMaxEntries uint     `long:"sigcachemaxentries" description:"The maximum number of entries in the signature verification cache"`
	TestNet            bool     `long:"testnet" description:"Use the test network"`

	params *chaincfg.Params
	tx     *wire.MsgTx
	spent  map[wire.OutPoint]*wire.TxOut
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// parsePrevOut decodes an output given as txid:index:value:pkscripthex.
func parsePrevOut(s string) (wire.OutPoint, *wire.TxOut, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 4 {
		return wire.OutPoint{}, nil, errors.Errorf("malformed output %q "+
			"-- expected txid:index:value:pkscripthex", s)
	}

	hash, err := chainhash.NewHashFromStr(fields[0])
	if err != nil {
		return wire.OutPoint{}, nil, errors.Wrapf(err, "bad txid %q", fields[0])
	}
	index, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return wire.OutPoint{}, nil, errors.Wrapf(err, "bad index %q", fields[1])
	}
	value, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || value < 0 {
		return wire.OutPoint{}, nil, errors.Errorf("bad value %q", fields[2])
	}
	pkScript, err := hex.DecodeString(fields[3])
	if err != nil {
		return wire.OutPoint{}, nil, errors.Wrapf(err, "bad script %q",
			fields[3])
	}

	return *wire.NewOutPoint(hash, uint32(index)), wire.NewTxOut(value,
		pkScript), nil
}

// parseRawTx decodes a hex encoded transaction.
func parseRawTx(rawTx string) (*wire.MsgTx, error) {
	serialized, err := hex.DecodeString(strings.TrimSpace(rawTx))
	if err != nil {
		return nil, errors.Wrap(err, "transaction is not hex")
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(serialized)); err != nil {
		return nil, errors.Wrap(err, "malformed transaction")
	}
	return &tx, nil
}

// parseConfig parses args over the default config and validates the result.
func parseConfig(args []string) (*config, *flags.Parser, error) {
	// Default config.
	cfg := config{
		DataDir:            defaultDataDir,
		DbType:             defaultDbType,
		DebugLevel:         defaultLogLevel,
		LogDir:             defaultLogDir,
		SigCacheMaxEntries: defaultSigCacheMaxEntries,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, parser, err
	}

	// Multiple networks can't be selected simultaneously.
	funcName := "loadConfig"
	numNets := 0
	cfg.params = &chaincfg.MainNetParams
	if cfg.TestNet {
		numNets++
		cfg.params = &chaincfg.TestNetParams
	}
	if cfg.RegressionTest {
		numNets++
		cfg.params = &chaincfg.RegressionNetParams
	}
	if numNets > 1 {
		str := "%s: The testnet and regtest params can't be used " +
			"together -- choose one of the two"
		return nil, parser, fmt.Errorf(str, funcName)
	}

	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "%s: The specified database type [%v] is invalid -- " +
			"supported types %v"
		return nil, parser, fmt.Errorf(str, funcName, cfg.DbType,
			knownDbTypes)
	}

	// Validate debug log level.
	if !log.ValidLogLevel(cfg.DebugLevel) {
		str := "%s: The specified debug level [%v] is invalid"
		return nil, parser, fmt.Errorf(str, funcName, cfg.DebugLevel)
	}

	if cfg.RawTx == "" {
		return nil, parser, fmt.Errorf("%s: a transaction must be given "+
			"with --rawtx", funcName)
	}
	tx, err := parseRawTx(cfg.RawTx)
	if err != nil {
		return nil, parser, fmt.Errorf("%s: %v", funcName, err)
	}
	cfg.tx = tx

	cfg.spent = make(map[wire.OutPoint]*wire.TxOut, len(cfg.PrevOuts))
	for _, s := range cfg.PrevOuts {
		op, txOut, err := parsePrevOut(s)
		if err != nil {
			return nil, parser, fmt.Errorf("%s: %v", funcName, err)
		}
		cfg.spent[op] = txOut
	}

	// Namespace the data and log directories per network.
	cfg.DataDir = filepath.Join(cfg.DataDir, cfg.params.Name)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.params.Name)

	return &cfg, parser, nil
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	cfg, parser, err := parseConfig(os.Args[1:])
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, err
		}
		if _, ok := err.(*flags.Error); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		parser.WriteHelp(os.Stderr)
		return nil, err
	}
	return cfg, nil
}
