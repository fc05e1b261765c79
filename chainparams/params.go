// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

// Params defines an ember network by its parameters. These parameters may be
// used by ember applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// DefaultRPCPort defines the default rpc port for this network.
	DefaultRPCPort string

	// GenesisBlock defines the first block of the tree.
	GenesisBlock *domainmessage.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowMax defines the highest allowed proof of work target for a
	// block, in compact form.
	PowMax uint32

	// FinalizationDepth is the default number of blocks behind the active
	// tip at which the finality point automatically advances. Zero
	// disables automatic finalization.
	FinalizationDepth uint64
}

// MainnetParams defines the network parameters for the main ember network.
var MainnetParams = Params{
	Name:           "mainnet",
	DefaultRPCPort: "9432",

	GenesisBlock: &genesisBlock,
	GenesisHash:  &genesisHash,
	PowMax:       mainPowMaxBits,

	FinalizationDepth: 10,
}

// SimnetParams defines the network parameters for the simulation test
// network. This network is similar to the normal network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	Name:           "simnet",
	DefaultRPCPort: "9532",

	GenesisBlock: &simnetGenesisBlock,
	GenesisHash:  &simnetGenesisHash,
	PowMax:       simnetPowMaxBits,

	FinalizationDepth: 10,
}
