// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestTreeStateSurvivesRestart(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestTreeStateSurvivesRestart", 3)
	defer teardown()

	mainChain := harness.addChain(harness.params.GenesisHash, 5)
	sideChain := harness.addChain(mainChain[1], 1)
	badBlock := harness.buildBlock(mainChain[4], rejectedPayload)
	checkRuleError(t, harness.tree.ProcessBlock(badBlock), ErrConsensusReject)
	badHash := badBlock.BlockHash()
	headerOnly := harness.buildHeader(mainChain[4])
	err := harness.tree.ProcessHeader(headerOnly)
	if err != nil {
		t.Fatalf("ProcessHeader unexpectedly failed: %s", err)
	}
	headerOnlyHash := headerOnly.BlockHash()

	tipBefore := harness.tree.SelectedTipHash()
	finalityBefore := harness.tree.FinalityPointHash()
	countBefore := harness.tree.BlockCount()

	harness.reopen()

	if *harness.tree.SelectedTipHash() != *tipBefore {
		t.Fatalf("selected tip changed across restart: got %s, want %s",
			harness.tree.SelectedTipHash(), tipBefore)
	}
	if *harness.tree.FinalityPointHash() != *finalityBefore {
		t.Fatalf("finality point changed across restart: got %s, want %s",
			harness.tree.FinalityPointHash(), finalityBefore)
	}
	if harness.tree.BlockCount() != countBefore {
		t.Fatalf("block count changed across restart: got %d, want %d",
			harness.tree.BlockCount(), countBefore)
	}
	harness.checkStatus(mainChain[4], StatusValid)
	harness.checkStatus(sideChain[0], StatusValid)
	harness.checkStatus(&badHash, StatusInvalid)
	harness.checkStatus(&headerOnlyHash, StatusHeadersOnly)

	// The restored tree keeps enforcing finality and keeps extending.
	forkBlock := harness.addBlock(harness.params.GenesisHash)
	forkChild := harness.buildBlock(forkBlock, nil)
	checkRuleError(t, harness.tree.ProcessBlock(forkChild), ErrForkPriorFinalized)
	newTip := harness.addBlock(mainChain[4])
	harness.checkSelectedTip(newTip)
}

func TestBlockNodeSerialization(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestBlockNodeSerialization", 0)
	defer teardown()

	header := harness.buildHeader(harness.params.GenesisHash)
	node := newBlockNode(header, harness.tree.genesis, 42)
	node.status = statusDataStored | statusValid

	serialized, err := serializeBlockNode(node)
	if err != nil {
		t.Fatalf("serializeBlockNode unexpectedly failed: %s", err)
	}
	gotHeader, gotStatus, gotSequence, err := deserializeBlockNodeRow(serialized)
	if err != nil {
		t.Fatalf("deserializeBlockNodeRow unexpectedly failed: %s", err)
	}

	if gotHeader.BlockHash() != header.BlockHash() {
		t.Fatalf("header mismatch after round trip: got %s, want %s",
			spew.Sdump(gotHeader), spew.Sdump(header))
	}
	if gotStatus != node.status {
		t.Fatalf("status mismatch after round trip: got %b, want %b",
			gotStatus, node.status)
	}
	if gotSequence != 42 {
		t.Fatalf("sequence number mismatch after round trip: got %d, want 42",
			gotSequence)
	}
}
