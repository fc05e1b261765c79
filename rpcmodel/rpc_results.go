// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcmodel

// GetBlockHeaderVerboseResult models the data from the getBlockHeader command
// when the verbose flag is set. When the verbose flag is not set,
// getBlockHeader returns a hex-encoded string.
type GetBlockHeaderVerboseResult struct {
	Hash              string `json:"hash"`
	Confirmations     int64  `json:"confirmations"`
	Height            uint64 `json:"height"`
	Version           int32  `json:"version"`
	MerkleRoot        string `json:"merkleroot"`
	Time              int64  `json:"time"`
	Bits              string `json:"bits"`
	Nonce             uint64 `json:"nonce"`
	Status            string `json:"status"`
	PreviousBlockHash string `json:"previousblockhash,omitempty"`
	NextBlockHash     string `json:"nextblockhash,omitempty"`
}

// GetChainTipsResult models the data of one tip returned by the getChainTips
// command.
type GetChainTipsResult struct {
	Height    uint64 `json:"height"`
	Hash      string `json:"hash"`
	BranchLen uint64 `json:"branchlen"`
	Status    string `json:"status"`
}

// SubmitResult models the data returned by the submitBlock and submitHeader
// commands.
type SubmitResult struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

// VersionResult models objects included in the version response. In the
// actual result, these objects are keyed by the program or API name.
type VersionResult struct {
	VersionString string `json:"versionString"`
	Major         uint32 `json:"major"`
	Minor         uint32 `json:"minor"`
	Patch         uint32 `json:"patch"`
}
