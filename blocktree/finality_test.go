// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"testing"

	"github.com/emberchain/emberd/util/chainhash"
)

func TestFinalityAutoAdvance(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestFinalityAutoAdvance", 3)
	defer teardown()

	// While the tip is within FinalizationDepth of genesis the finality
	// point stays put.
	chain := harness.addChain(harness.params.GenesisHash, 3)
	harness.checkFinalityPoint(harness.params.GenesisHash)

	// Every block beyond that drags the finality point along, always
	// FinalizationDepth blocks behind the tip.
	chain = append(chain, harness.addBlock(chain[len(chain)-1]))
	harness.checkFinalityPoint(chain[0])
	chain = append(chain, harness.addBlock(chain[len(chain)-1]))
	harness.checkFinalityPoint(chain[1])
}

func TestForkPriorFinalized(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestForkPriorFinalized", 3)
	defer teardown()

	chain := harness.addChain(harness.params.GenesisHash, 5)
	harness.checkFinalityPoint(chain[1])

	// A block at the finality point's own height is still acceptable: its
	// parent is an ancestor of the finality point, so it does not fork
	// the chain below it. It can never win the fork choice though.
	forkBlock := harness.buildBlock(chain[0], nil)
	err := harness.tree.ProcessBlock(forkBlock)
	if err != nil {
		t.Fatalf("ProcessBlock unexpectedly failed: %s", err)
	}
	forkHash := forkBlock.BlockHash()
	harness.checkStatus(&forkHash, StatusValid)
	harness.checkSelectedTip(chain[4])

	// Its child forks the chain below the finality point. The child is
	// kept, marked invalid, so that the offending branch is visible in
	// the tree.
	forkChild := harness.buildBlock(&forkHash, nil)
	err = harness.tree.ProcessBlock(forkChild)
	checkRuleError(t, err, ErrForkPriorFinalized)
	forkChildHash := forkChild.BlockHash()
	harness.checkStatus(&forkChildHash, StatusInvalid)

	// Anything building further on the branch is rejected outright.
	grandChild := harness.buildHeader(&forkChildHash)
	err = harness.tree.ProcessHeader(grandChild)
	checkRuleError(t, err, ErrInvalidAncestorBlock)
	grandChildHash := grandChild.BlockHash()
	if harness.tree.HaveBlock(&grandChildHash) {
		t.Fatalf("a block forking below the finality point was " +
			"unexpectedly stored")
	}
}

func TestFinalizeBlock(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestFinalizeBlock", 0)
	defer teardown()

	chain := harness.addChain(harness.params.GenesisHash, 5)
	harness.checkFinalityPoint(harness.params.GenesisHash)

	// Finalizing an unknown block fails.
	unknown := chainhash.Hash{0xff}
	err := harness.tree.FinalizeBlock(&unknown)
	checkRuleError(t, err, ErrBlockNotFound)

	// Finalizing a block on the selected chain moves the finality point
	// without touching the tip.
	err = harness.tree.FinalizeBlock(chain[2])
	if err != nil {
		t.Fatalf("FinalizeBlock unexpectedly failed: %s", err)
	}
	harness.checkFinalityPoint(chain[2])
	harness.checkSelectedTip(chain[4])

	// Finalizing an ancestor of the finality point is a no-op: it is
	// already finalized.
	err = harness.tree.FinalizeBlock(chain[0])
	if err != nil {
		t.Fatalf("FinalizeBlock of an already finalized block "+
			"unexpectedly failed: %s", err)
	}
	harness.checkFinalityPoint(chain[2])

	// Headers-only blocks cannot be finalized.
	header := harness.buildHeader(chain[4])
	err = harness.tree.ProcessHeader(header)
	if err != nil {
		t.Fatalf("ProcessHeader unexpectedly failed: %s", err)
	}
	headerHash := header.BlockHash()
	err = harness.tree.FinalizeBlock(&headerHash)
	checkRuleError(t, err, ErrFinalizeInvalidBlock)

	// Invalid blocks cannot be finalized.
	badBlock := harness.buildBlock(chain[4], rejectedPayload)
	checkRuleError(t, harness.tree.ProcessBlock(badBlock), ErrConsensusReject)
	badHash := badBlock.BlockHash()
	err = harness.tree.FinalizeBlock(&badHash)
	checkRuleError(t, err, ErrFinalizeInvalidBlock)
}

func TestFinalizeBlockForcesReorg(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestFinalizeBlockForcesReorg", 0)
	defer teardown()

	chain := harness.addChain(harness.params.GenesisHash, 5)
	err := harness.tree.FinalizeBlock(chain[2])
	if err != nil {
		t.Fatalf("FinalizeBlock unexpectedly failed: %s", err)
	}

	// A competing branch above the finality point. Equal work, so the
	// original chain keeps the tip.
	sideChain := harness.addChain(chain[2], 2)
	sideTip := sideChain[len(sideChain)-1]
	harness.checkSelectedTip(chain[4])

	// Finalizing the side branch invalidates the competing blocks and
	// forces the chain onto it.
	err = harness.tree.FinalizeBlock(sideTip)
	if err != nil {
		t.Fatalf("FinalizeBlock unexpectedly failed: %s", err)
	}
	harness.checkFinalityPoint(sideTip)
	harness.checkSelectedTip(sideTip)
	harness.checkStatus(chain[3], StatusInvalid)
	harness.checkStatus(chain[4], StatusInvalidAncestor)

	extension := harness.buildBlock(chain[4], nil)
	err = harness.tree.ProcessBlock(extension)
	checkRuleError(t, err, ErrInvalidAncestorBlock)
}

func TestFinalizeConflictingBlock(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestFinalizeConflictingBlock", 0)
	defer teardown()

	mainChain := harness.addChain(harness.params.GenesisHash, 4)
	sideChain := harness.addChain(mainChain[0], 2)
	sideTip := sideChain[len(sideChain)-1]

	err := harness.tree.FinalizeBlock(mainChain[2])
	if err != nil {
		t.Fatalf("FinalizeBlock unexpectedly failed: %s", err)
	}

	// The side branch forked below the finality point. Its blocks are
	// valid but can never be finalized.
	err = harness.tree.FinalizeBlock(sideTip)
	checkRuleError(t, err, ErrForkPriorFinalized)
	harness.checkFinalityPoint(mainChain[2])
	harness.checkSelectedTip(mainChain[3])
}
