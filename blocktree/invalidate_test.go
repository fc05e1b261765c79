// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

func TestInvalidateBlock(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestInvalidateBlock", 0)
	defer teardown()

	mainChain := harness.addChain(harness.params.GenesisHash, 3)
	sideChain := harness.addChain(harness.params.GenesisHash, 2)
	harness.checkSelectedTip(mainChain[2])

	// Unknown blocks and genesis cannot be invalidated.
	unknown := chainhash.Hash{0xff}
	err := harness.tree.InvalidateBlock(&unknown)
	checkRuleError(t, err, ErrBlockNotFound)
	err = harness.tree.InvalidateBlock(harness.params.GenesisHash)
	checkRuleError(t, err, ErrInvalidateGenesis)

	// Invalidating a block in the middle of the selected chain taints its
	// descendants and moves the chain to the best remaining branch.
	err = harness.tree.InvalidateBlock(mainChain[1])
	if err != nil {
		t.Fatalf("InvalidateBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(mainChain[1], StatusInvalid)
	harness.checkStatus(mainChain[2], StatusInvalidAncestor)
	harness.checkStatus(mainChain[0], StatusValid)
	harness.checkSelectedTip(sideChain[1])

	// Reconsidering restores the branch and the chain returns to it.
	err = harness.tree.ReconsiderBlock(mainChain[1])
	if err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(mainChain[1], StatusValid)
	harness.checkStatus(mainChain[2], StatusValid)
	harness.checkSelectedTip(mainChain[2])
}

func TestReconsiderClearsAncestorInvalidations(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestReconsiderClearsAncestorInvalidations", 0)
	defer teardown()

	chain := harness.addChain(harness.params.GenesisHash, 3)

	// Invalidate two blocks of the chain separately.
	err := harness.tree.InvalidateBlock(chain[1])
	if err != nil {
		t.Fatalf("InvalidateBlock unexpectedly failed: %s", err)
	}
	harness.checkSelectedTip(chain[0])
	err = harness.tree.InvalidateBlock(chain[0])
	if err != nil {
		t.Fatalf("InvalidateBlock unexpectedly failed: %s", err)
	}
	harness.checkSelectedTip(harness.params.GenesisHash)
	harness.checkStatus(chain[0], StatusInvalid)
	harness.checkStatus(chain[1], StatusInvalid)
	harness.checkStatus(chain[2], StatusInvalidAncestor)

	// Reconsidering the higher block clears the invalidity of its
	// ancestors as well, so the whole chain comes back in one call.
	err = harness.tree.ReconsiderBlock(chain[1])
	if err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(chain[0], StatusValid)
	harness.checkStatus(chain[1], StatusValid)
	harness.checkStatus(chain[2], StatusValid)
	harness.checkSelectedTip(chain[2])
}

func TestReconsiderRevalidatesPayloads(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestReconsiderRevalidatesPayloads", 0)
	defer teardown()

	goodTip := harness.addBlock(harness.params.GenesisHash)

	badBlock := harness.buildBlock(harness.params.GenesisHash, rejectedPayload)
	checkRuleError(t, harness.tree.ProcessBlock(badBlock), ErrConsensusReject)
	badHash := badBlock.BlockHash()

	// Reconsidering a block whose payload genuinely fails validation runs
	// the payload through the validator again, and it fails again.
	err := harness.tree.ReconsiderBlock(&badHash)
	if err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(&badHash, StatusInvalid)
	harness.checkSelectedTip(goodTip)
}

func TestInvalidateRetreatsFinalityPoint(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestInvalidateRetreatsFinalityPoint", 3)
	defer teardown()

	chain := harness.addChain(harness.params.GenesisHash, 6)
	harness.checkFinalityPoint(chain[2])

	// Invalidating the finality point retreats it to the nearest valid
	// ancestor, and the chain retreats with it.
	err := harness.tree.InvalidateBlock(chain[2])
	if err != nil {
		t.Fatalf("InvalidateBlock unexpectedly failed: %s", err)
	}
	harness.checkFinalityPoint(chain[1])
	harness.checkSelectedTip(chain[1])
	harness.checkStatus(chain[3], StatusInvalidAncestor)

	// Reconsidering brings the chain back and finality resumes advancing
	// behind the tip.
	err = harness.tree.ReconsiderBlock(chain[2])
	if err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkSelectedTip(chain[5])
	harness.checkFinalityPoint(chain[2])
}

func TestReconsiderConflictingBranchRetreatsFinalityPoint(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestReconsiderConflictingBranchRetreatsFinalityPoint", 0)
	defer teardown()

	mainChain := harness.addChain(harness.params.GenesisHash, 5)
	sideChain := harness.addChain(mainChain[0], 2)
	sideTip := sideChain[len(sideChain)-1]

	err := harness.tree.FinalizeBlock(mainChain[2])
	if err != nil {
		t.Fatalf("FinalizeBlock unexpectedly failed: %s", err)
	}

	// The side branch is valid but conflicts with the finality point.
	// Reconsidering it retreats the finality point to the fork block so
	// that the branch may compete for the chain again.
	err = harness.tree.ReconsiderBlock(sideTip)
	if err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkFinalityPoint(mainChain[0])
	harness.checkSelectedTip(mainChain[4])
}

func TestReconsiderStaleBranchKeepsFinalityRetreat(t *testing.T) {
	harness, teardown := newTestHarness(t, "TestReconsiderStaleBranchKeepsFinalityRetreat", 2)
	defer teardown()

	sideChain := harness.addChain(harness.params.GenesisHash, 2)
	mainChain := harness.addChain(harness.params.GenesisHash, 7)
	harness.checkSelectedTip(mainChain[6])
	harness.checkFinalityPoint(mainChain[4])

	// Invalidating the stale branch leaves the selected chain and the
	// finality point alone.
	err := harness.tree.InvalidateBlock(sideChain[0])
	if err != nil {
		t.Fatalf("InvalidateBlock unexpectedly failed: %s", err)
	}
	harness.checkSelectedTip(mainChain[6])
	harness.checkFinalityPoint(mainChain[4])

	// Reconsidering it retreats the finality point to the fork block. The
	// branch loses fork choice, so the selected tip stands still, and the
	// retreat must hold for as long as the tip does.
	err = harness.tree.ReconsiderBlock(sideChain[1])
	if err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkSelectedTip(mainChain[6])
	harness.checkFinalityPoint(harness.params.GenesisHash)

	// Only a new selected tip resumes the automatic advance.
	newTip := harness.addBlock(mainChain[6])
	harness.checkSelectedTip(newTip)
	harness.checkFinalityPoint(mainChain[5])
}

func TestBlockStatusDuringReconsider(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var gateOn uint32
	validator := func(block *domainmessage.MsgBlock) error {
		if !bytes.Equal(block.Payload, rejectedPayload) {
			return nil
		}
		if atomic.LoadUint32(&gateOn) != 0 {
			entered <- struct{}{}
			<-release
		}
		return errors.New("payload is on the naughty list")
	}
	harness, teardown := newTestHarnessWithValidator(t,
		"TestBlockStatusDuringReconsider", 0, validator)
	defer teardown()

	goodTip := harness.addBlock(harness.params.GenesisHash)
	badBlock := harness.buildBlock(harness.params.GenesisHash, rejectedPayload)
	checkRuleError(t, harness.tree.ProcessBlock(badBlock), ErrConsensusReject)
	badHash := badBlock.BlockHash()

	// Hold the reconsidered payload inside the validator and look at the
	// tree from the outside. Until ReconsiderBlock returns, readers must
	// keep seeing the block as invalid; a state with the failure flags
	// cleared but the verdict still pending must never leak.
	atomic.StoreUint32(&gateOn, 1)
	done := make(chan error)
	go func() {
		done <- harness.tree.ReconsiderBlock(&badHash)
	}()

	<-entered
	harness.checkStatus(&badHash, StatusInvalid)
	harness.checkSelectedTip(goodTip)
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("ReconsiderBlock unexpectedly failed: %s", err)
	}
	harness.checkStatus(&badHash, StatusInvalid)
	harness.checkSelectedTip(goodTip)
}
