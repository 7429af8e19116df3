// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// TestNetParams defines the network parameters for the test Neblio network.
var TestNetParams = Params{
	Name:        "testnet",
	Net:         TestNet,
	DefaultPort: "16325",

	// OP_CHECKLOCKTIMEVERIFY enforcement, 2018-08-01 00:00:00 UTC.
	CLTVActivationTime: 1533081600,

	DataCarrierForkHeight:        220000,
	MaxDataCarrierSizeBeforeFork: 80,
	MaxDataCarrierSizeAfterFork:  4096,

	// Address encoding magics
	PubKeyHashAddrID: 0x41, // starts with T
	ScriptHashAddrID: 0x7f, // starts with t
	PrivateKeyID:     0xc1,
}

// RegressionNetParams defines the network parameters for the regression test
// Neblio network.  Every soft fork is active from genesis.
var RegressionNetParams = Params{
	Name:        "regtest",
	Net:         RegTest,
	DefaultPort: "26325",

	CLTVActivationTime: 0,

	DataCarrierForkHeight:        0,
	MaxDataCarrierSizeBeforeFork: 80,
	MaxDataCarrierSizeAfterFork:  4096,

	// Address encoding magics
	PubKeyHashAddrID: 0x41, // starts with T
	ScriptHashAddrID: 0x7f, // starts with t
	PrivateKeyID:     0xc1,
}
