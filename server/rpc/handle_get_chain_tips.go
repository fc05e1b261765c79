package rpc

import (
	"github.com/emberchain/emberd/blocktree"
	"github.com/emberchain/emberd/rpcmodel"
)

// handleGetChainTips implements the getChainTips command.
func handleGetChainTips(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	chainTips := s.blockTree.ChainTips()
	results := make([]rpcmodel.GetChainTipsResult, 0, len(chainTips))
	for _, tip := range chainTips {
		results = append(results, rpcmodel.GetChainTipsResult{
			Height:    tip.Height,
			Hash:      tip.Hash.String(),
			BranchLen: tip.BranchLen,
			Status:    chainTipStatus(tip),
		})
	}
	return results, nil
}

// chainTipStatus renders a tip's status the way getchaintips traditionally
// reports it: the selected tip is "active", an invalid ancestor makes the
// whole branch "invalid", and a fully valid losing branch is a "valid-fork".
func chainTipStatus(tip blocktree.ChainTip) string {
	if tip.IsActive {
		return "active"
	}
	switch tip.Status {
	case blocktree.StatusValid:
		return "valid-fork"
	case blocktree.StatusInvalid, blocktree.StatusInvalidAncestor:
		return "invalid"
	}
	return tip.Status.String()
}
