// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"testing"
	"time"

	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

// buildNodeChain creates a chain of the given length with the given node as
// its root, bypassing the tree machinery.
func buildNodeChain(t *testing.T, root *blockNode, length int) []*blockNode {
	t.Helper()

	nodes := make([]*blockNode, 0, length)
	parent := root
	for i := 0; i < length; i++ {
		header := &domainmessage.BlockHeader{
			Version:    1,
			ParentHash: parent.hash,
			Timestamp:  time.Unix(0x5ed36f30, 0),
			Bits:       0x207fffff,
			Nonce:      uint64(i) + 1,
		}
		node := newBlockNode(header, parent, uint64(i))
		node.updateParentChildren()
		nodes = append(nodes, node)
		parent = node
	}
	return nodes
}

func newGenesisNode(t *testing.T) *blockNode {
	t.Helper()

	header := &domainmessage.BlockHeader{
		Version:    1,
		ParentHash: chainhash.ZeroHash,
		Timestamp:  time.Unix(0x5ed36f30, 0),
		Bits:       0x207fffff,
	}
	return newBlockNode(header, nil, 0)
}

func TestAncestor(t *testing.T) {
	genesis := newGenesisNode(t)
	chain := buildNodeChain(t, genesis, 5)
	tip := chain[4]

	if tip.Ancestor(6) != nil {
		t.Fatalf("Ancestor above the node's height should be nil")
	}
	if tip.Ancestor(5) != tip {
		t.Fatalf("Ancestor at the node's own height should be the node")
	}
	if tip.Ancestor(2) != chain[1] {
		t.Fatalf("Ancestor(2): got %s, want %s", tip.Ancestor(2), chain[1])
	}
	if tip.Ancestor(0) != genesis {
		t.Fatalf("Ancestor(0) should be genesis")
	}
	if tip.RelativeAncestor(1) != chain[3] {
		t.Fatalf("RelativeAncestor(1): got %s, want %s",
			tip.RelativeAncestor(1), chain[3])
	}
	if tip.RelativeAncestor(6) != nil {
		t.Fatalf("RelativeAncestor past genesis should be nil")
	}
}

func TestForkRelations(t *testing.T) {
	genesis := newGenesisNode(t)
	mainChain := buildNodeChain(t, genesis, 4)
	sideChain := buildNodeChain(t, mainChain[0], 2)

	if !genesis.IsAncestorOf(mainChain[3]) {
		t.Fatalf("genesis should be an ancestor of every node")
	}
	if !mainChain[0].IsAncestorOf(sideChain[1]) {
		t.Fatalf("the fork block should be an ancestor of the side chain")
	}
	if mainChain[1].IsAncestorOf(sideChain[1]) {
		t.Fatalf("a post-fork main chain block should not be an ancestor " +
			"of the side chain")
	}

	if !AreOnTheSameFork(mainChain[1], mainChain[3]) {
		t.Fatalf("blocks of one chain should be on the same fork")
	}
	if AreOnTheSameFork(mainChain[1], sideChain[0]) {
		t.Fatalf("blocks of competing branches should not be on the same fork")
	}

	if lca := LastCommonAncestor(mainChain[3], sideChain[1]); lca != mainChain[0] {
		t.Fatalf("LastCommonAncestor: got %s, want %s", lca, mainChain[0])
	}
	if lca := LastCommonAncestor(mainChain[3], mainChain[1]); lca != mainChain[1] {
		t.Fatalf("LastCommonAncestor of a node and its ancestor should be "+
			"the ancestor, got %s", lca)
	}
}

func TestViewStatus(t *testing.T) {
	tests := []struct {
		name   string
		status blockStatus
		want   Status
	}{
		{"no flags", statusNone, StatusHeadersOnly},
		{"stored", statusDataStored, StatusValidHeaders},
		{"stored and valid", statusDataStored | statusValid, StatusValid},
		{"failed", statusValidateFailed, StatusInvalid},
		{"stored and failed", statusDataStored | statusValidateFailed, StatusInvalid},
		{"invalid ancestor", statusDataStored | statusInvalidAncestor, StatusInvalidAncestor},
	}

	genesis := newGenesisNode(t)
	for _, test := range tests {
		genesis.status = test.status
		if got := genesis.viewStatus(); got != test.want {
			t.Errorf("%s: viewStatus: got %s, want %s", test.name, got, test.want)
		}
	}
}
