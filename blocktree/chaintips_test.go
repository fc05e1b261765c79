// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"testing"

	"github.com/emberchain/emberd/util/chainhash"
)

func TestChainTips(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestChainTips", 0)
	defer teardown()

	// A fresh tree has a single active tip: genesis.
	tips := harness.tree.ChainTips()
	if len(tips) != 1 {
		t.Fatalf("unexpected number of chain tips: got %d, want 1", len(tips))
	}
	if !tips[0].IsActive || *tips[0].Hash != *harness.params.GenesisHash {
		t.Fatalf("genesis is not reported as the active tip")
	}

	mainChain := harness.addChain(harness.params.GenesisHash, 3)
	sideChain := harness.addChain(mainChain[0], 1)
	headerOnly := harness.buildHeader(mainChain[2])
	err := harness.tree.ProcessHeader(headerOnly)
	if err != nil {
		t.Fatalf("ProcessHeader unexpectedly failed: %s", err)
	}
	headerOnlyHash := headerOnly.BlockHash()
	badBlock := harness.buildBlock(sideChain[0], rejectedPayload)
	checkRuleError(t, harness.tree.ProcessBlock(badBlock), ErrConsensusReject)
	badHash := badBlock.BlockHash()

	// The tree now has three leaves, plus the selected tip which is an
	// inner node because of the headers-only leaf above it.
	tipByHash := make(map[chainhash.Hash]ChainTip)
	for _, tip := range harness.tree.ChainTips() {
		tipByHash[*tip.Hash] = tip
	}
	if len(tipByHash) != 3 {
		t.Fatalf("unexpected number of chain tips: got %d, want 3",
			len(tipByHash))
	}

	active, ok := tipByHash[*mainChain[2]]
	if !ok || !active.IsActive {
		t.Fatalf("the selected tip is not reported as active")
	}
	if active.BranchLen != 0 {
		t.Fatalf("active tip branch length: got %d, want 0", active.BranchLen)
	}

	headerTip, ok := tipByHash[headerOnlyHash]
	if !ok || headerTip.Status != StatusHeadersOnly {
		t.Fatalf("headers-only tip is missing or has the wrong status")
	}
	if headerTip.BranchLen != 1 {
		t.Fatalf("headers-only tip branch length: got %d, want 1",
			headerTip.BranchLen)
	}

	badTip, ok := tipByHash[badHash]
	if !ok || badTip.Status != StatusInvalid {
		t.Fatalf("invalid tip is missing or has the wrong status")
	}
	if badTip.BranchLen != 2 {
		t.Fatalf("invalid tip branch length: got %d, want 2", badTip.BranchLen)
	}

	// Tips are ordered by height descending.
	tips = harness.tree.ChainTips()
	for i := 1; i < len(tips); i++ {
		if tips[i].Height > tips[i-1].Height {
			t.Fatalf("chain tips are not ordered by height")
		}
	}
}
