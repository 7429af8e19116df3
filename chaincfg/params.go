// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"

	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
	btcwire "github.com/btcsuite/btcd/wire"
)

// NeblioNet represents which network a message belongs to.
type NeblioNet uint32

const (
	// MainNet represents the main network.
	MainNet NeblioNet = 0xd3e6eaf7

	// TestNet represents the test network.
	TestNet NeblioNet = 0x1b1a1e05

	// RegTest represents the regression test network.
	RegTest NeblioNet = 0xdab5bffa
)

// Params defines a Neblio network by its parameters.  These parameters may be
// used by applications to differentiate networks as well as addresses and keys
// for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net NeblioNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// CLTVActivationTime is the transaction timestamp from which
	// OP_CHECKLOCKTIMEVERIFY is enforced.  Transactions stamped earlier
	// treat the opcode as OP_NOP2.
	CLTVActivationTime uint32

	// DataCarrierForkHeight is the block height from which null data
	// outputs may carry MaxDataCarrierSizeAfterFork bytes instead of
	// MaxDataCarrierSizeBeforeFork.
	DataCarrierForkHeight        int32
	MaxDataCarrierSizeBeforeFork int
	MaxDataCarrierSizeAfterFork  int

	// Address encoding magics
	PubKeyHashAddrID byte // First byte of a P2PKH address
	ScriptHashAddrID byte // First byte of a P2SH address
	PrivateKeyID     byte // First byte of a WIF private key
}

// MaxDataCarrierSize returns the largest push a standard null data output may
// carry at the given block height.
func (p *Params) MaxDataCarrierSize(height int32) int {
	if height >= p.DataCarrierForkHeight {
		return p.MaxDataCarrierSizeAfterFork
	}
	return p.MaxDataCarrierSizeBeforeFork
}

// AddressParams returns the address version bytes of the network in the form
// expected by the btcutil address and WIF types.
func (p *Params) AddressParams() *btcchaincfg.Params {
	return &btcchaincfg.Params{
		Name:             p.Name,
		Net:              btcwire.BitcoinNet(p.Net),
		DefaultPort:      p.DefaultPort,
		PubKeyHashAddrID: p.PubKeyHashAddrID,
		ScriptHashAddrID: p.ScriptHashAddrID,
		PrivateKeyID:     p.PrivateKeyID,
	}
}

var (
	// ErrDuplicateNet describes an error where the parameters for a Neblio
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate Neblio network")

	// ErrUnknownNet describes an error where no registered network carries
	// the requested name.
	ErrUnknownNet = errors.New("unknown Neblio network")
)

var (
	registeredNets = make(map[NeblioNet]*Params)
	netsByName     = make(map[string]*Params)
)

// Register registers the network parameters for a Neblio network.  This may
// error with ErrDuplicateNet if the network is already registered (either
// due to a previous Register call, or the network being one of the default
// networks).
//
// Network parameters should be registered into this package by a main package
// as early as possible.  Then, library packages may lookup networks or network
// parameters based on inputs and work regardless of the network being standard
// or not.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	if _, ok := netsByName[params.Name]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = params
	netsByName[params.Name] = params
	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error.  This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ByName returns the registered network parameters with the given name.
func ByName(name string) (*Params, error) {
	params, ok := netsByName[name]
	if !ok {
		return nil, ErrUnknownNet
	}
	return params, nil
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}
