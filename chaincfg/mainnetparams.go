// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// MainNetParams defines the network parameters for the main Neblio network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         MainNet,
	DefaultPort: "6325",

	// OP_CHECKLOCKTIMEVERIFY enforcement, 2018-10-20 00:00:00 UTC.
	CLTVActivationTime: 1539993600,

	DataCarrierForkHeight:        387000,
	MaxDataCarrierSizeBeforeFork: 80,
	MaxDataCarrierSizeAfterFork:  4096,

	// Address encoding magics
	PubKeyHashAddrID: 0x35, // starts with N
	ScriptHashAddrID: 0x70, // starts with n
	PrivateKeyID:     0xb5, // starts with 7 (uncompressed) or T (compressed)
}
