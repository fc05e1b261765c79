// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"time"

	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

const (
	// mainPowMaxBits is the highest proof of work target on mainnet in
	// compact form.
	mainPowMaxBits = 0x1d00ffff

	// simnetPowMaxBits is the highest proof of work target on simnet in
	// compact form. It is practically unreachable so that simulation
	// blocks can be produced without mining.
	simnetPowMaxBits = 0x207fffff
)

// genesisMerkleRoot is the hash of the single coinbase transaction in the
// genesis block for the main network.
var genesisMerkleRoot = chainhash.Hash{
	0x3b, 0xa3, 0xed, 0xfd, 0x7a, 0x7b, 0x12, 0xb2,
	0x7a, 0xc7, 0x2c, 0x3e, 0x67, 0x76, 0x8f, 0x61,
	0x7f, 0xc8, 0x1b, 0xc3, 0x88, 0x8a, 0x51, 0x32,
	0x3a, 0x9f, 0xb8, 0xaa, 0x4b, 0x1e, 0x5e, 0x4a,
}

// genesisBlock defines the genesis block of the tree which serves as the
// public transaction ledger for the main network.
var genesisBlock = domainmessage.MsgBlock{
	Header: domainmessage.BlockHeader{
		Version:    1,
		ParentHash: chainhash.ZeroHash,
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(0x5ed36f30, 0),
		Bits:       mainPowMaxBits,
		Nonce:      0x7c2bac1d,
	},
}

// genesisHash is the hash of the first block in the tree for the main
// network (genesis block).
var genesisHash = genesisBlock.BlockHash()

// simnetGenesisBlock defines the genesis block of the tree for the
// simulation test network.
var simnetGenesisBlock = domainmessage.MsgBlock{
	Header: domainmessage.BlockHeader{
		Version:    1,
		ParentHash: chainhash.ZeroHash,
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(0x5ed36f30, 0),
		Bits:       simnetPowMaxBits,
		Nonce:      0,
	},
}

// simnetGenesisHash is the hash of the first block in the tree for the
// simulation test network.
var simnetGenesisHash = simnetGenesisBlock.BlockHash()
