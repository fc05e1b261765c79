// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"testing"

	"github.com/emberchain/emberd/util/chainhash"
)

func TestProcessHeader(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestProcessHeader", 0)
	defer teardown()

	// Processing the genesis header again is a duplicate.
	err := harness.tree.ProcessHeader(&harness.params.GenesisBlock.Header)
	checkRuleError(t, err, ErrDuplicateBlock)

	// A header whose parent was never seen is rejected and not stored.
	unknownParent := chainhash.Hash{0xff}
	orphan := harness.buildHeader(&unknownParent)
	err = harness.tree.ProcessHeader(orphan)
	checkRuleError(t, err, ErrPreviousBlockUnknown)
	orphanBlockHash := orphan.BlockHash()
	if harness.tree.HaveBlock(&orphanBlockHash) {
		t.Fatalf("an orphan header was unexpectedly stored")
	}

	// A header on top of genesis is accepted in headers-only status and
	// does not move the selected tip.
	header := harness.buildHeader(harness.params.GenesisHash)
	err = harness.tree.ProcessHeader(header)
	if err != nil {
		t.Fatalf("ProcessHeader unexpectedly failed: %s", err)
	}
	headerHash := header.BlockHash()
	harness.checkStatus(&headerHash, StatusHeadersOnly)
	harness.checkSelectedTip(harness.params.GenesisHash)

	// Processing the same header again is a duplicate.
	err = harness.tree.ProcessHeader(header)
	checkRuleError(t, err, ErrDuplicateBlock)
}

func TestProcessBlockOutOfOrderPromotion(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestProcessBlockOutOfOrderPromotion", 0)
	defer teardown()

	parentBlock := harness.buildBlock(harness.params.GenesisHash, nil)
	parentHash := parentBlock.BlockHash()
	childBlock := harness.buildBlock(&parentHash, nil)
	childHash := childBlock.BlockHash()

	// The parent arrives as a header only.
	err := harness.tree.ProcessHeader(&parentBlock.Header)
	if err != nil {
		t.Fatalf("ProcessHeader unexpectedly failed: %s", err)
	}

	// The child's full block arrives before the parent's payload. The
	// child passes validation but cannot become fully valid yet.
	err = harness.tree.ProcessBlock(childBlock)
	if err != nil {
		t.Fatalf("ProcessBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(&childHash, StatusValidHeaders)
	harness.checkSelectedTip(harness.params.GenesisHash)

	// Once the parent's payload arrives both blocks become fully valid
	// and the chain extends to the child.
	err = harness.tree.ProcessBlock(parentBlock)
	if err != nil {
		t.Fatalf("ProcessBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(&parentHash, StatusValid)
	harness.checkStatus(&childHash, StatusValid)
	harness.checkSelectedTip(&childHash)
}

func TestProcessBlockConsensusReject(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestProcessBlockConsensusReject", 0)
	defer teardown()

	badBlock := harness.buildBlock(harness.params.GenesisHash, rejectedPayload)
	badHash := badBlock.BlockHash()
	err := harness.tree.ProcessBlock(badBlock)
	checkRuleError(t, err, ErrConsensusReject)
	harness.checkStatus(&badHash, StatusInvalid)
	harness.checkSelectedTip(harness.params.GenesisHash)

	// Submitting the same bad block again reports its known invalidity.
	err = harness.tree.ProcessBlock(badBlock)
	checkRuleError(t, err, ErrConsensusReject)

	// Children of a known-invalid block are rejected outright and never
	// stored, neither as headers nor as blocks.
	childHeader := harness.buildHeader(&badHash)
	err = harness.tree.ProcessHeader(childHeader)
	checkRuleError(t, err, ErrInvalidAncestorBlock)
	childHash := childHeader.BlockHash()
	if harness.tree.HaveBlock(&childHash) {
		t.Fatalf("a descendant of an invalid block was unexpectedly stored")
	}

	childBlock := harness.buildBlock(&badHash, nil)
	err = harness.tree.ProcessBlock(childBlock)
	checkRuleError(t, err, ErrInvalidAncestorBlock)
	childBlockHash := childBlock.BlockHash()
	if harness.tree.HaveBlock(&childBlockHash) {
		t.Fatalf("a descendant of an invalid block was unexpectedly stored")
	}
}

func TestProcessBlockDuplicate(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestProcessBlockDuplicate", 0)
	defer teardown()

	block := harness.buildBlock(harness.params.GenesisHash, nil)
	err := harness.tree.ProcessBlock(block)
	if err != nil {
		t.Fatalf("ProcessBlock unexpectedly failed: %s", err)
	}

	err = harness.tree.ProcessBlock(block)
	checkRuleError(t, err, ErrDuplicateBlock)
}
