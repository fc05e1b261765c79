package rpc

import (
	"bytes"
	"encoding/hex"

	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/rpcmodel"
)

// handleSubmitHeader implements the submitHeader command.
func handleSubmitHeader(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.SubmitHeaderCmd)

	// Deserialize the submitted header.
	hexStr := c.HexHeader
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	serializedHeader, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, rpcDecodeHexError(hexStr)
	}

	header := &domainmessage.BlockHeader{}
	err = header.Deserialize(bytes.NewReader(serializedHeader))
	if err != nil {
		return nil, rpcmodel.NewRPCError(rpcmodel.ErrRPCDeserialization,
			"Header decode failed: "+err.Error())
	}

	err = s.blockTree.ProcessHeader(header)
	if err != nil {
		return nil, convertRuleError(err, "Could not process header")
	}

	headerHash := header.BlockHash()
	status, err := s.blockTree.BlockStatus(&headerHash)
	if err != nil {
		return nil, convertRuleError(err, "Could not query header status")
	}

	log.Infof("Accepted header %s via submitHeader", headerHash)
	return &rpcmodel.SubmitResult{
		Hash:   headerHash.String(),
		Status: status.String(),
	}, nil
}
