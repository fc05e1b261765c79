package rpc

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/emberchain/emberd/rpcmodel"
)

// handleGetBlockHeader implements the getBlockHeader command.
func handleGetBlockHeader(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.GetBlockHeaderCmd)

	hash, err := parseHash(c.Hash)
	if err != nil {
		return nil, err
	}

	header, err := s.blockTree.HeaderByHash(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not fetch header")
	}

	// When the verbose flag is not set, simply return the serialized
	// header as a hex-encoded string.
	if c.Verbose != nil && !*c.Verbose {
		headerBuf := &bytes.Buffer{}
		err := header.Serialize(headerBuf)
		if err != nil {
			return nil, internalRPCError(err.Error(),
				"Could not serialize header")
		}
		return hex.EncodeToString(headerBuf.Bytes()), nil
	}

	height, err := s.blockTree.BlockHeightByHash(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not fetch block height")
	}
	confirmations, err := s.blockTree.BlockConfirmations(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not count confirmations")
	}
	status, err := s.blockTree.BlockStatus(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not fetch block status")
	}

	result := &rpcmodel.GetBlockHeaderVerboseResult{
		Hash:          hash.String(),
		Confirmations: confirmations,
		Height:        height,
		Version:       header.Version,
		MerkleRoot:    header.MerkleRoot.String(),
		Time:          header.Timestamp.Unix(),
		Bits:          strconv.FormatInt(int64(header.Bits), 16),
		Nonce:         header.Nonce,
		Status:        status.String(),
	}
	if !header.IsGenesis() {
		result.PreviousBlockHash = header.ParentHash.String()
	}

	// The next block hash is only defined for blocks on the selected
	// chain that are not the selected tip.
	if confirmations > 1 {
		nextHash, err := s.blockTree.SelectedChainHashByHeight(height + 1)
		if err == nil {
			result.NextBlockHash = nextHash.String()
		}
	}
	return result, nil
}
