package rpc

import (
	"sort"
	"strings"

	"github.com/emberchain/emberd/rpcmodel"
)

// helpUsages maps each supported command to a one-line usage synopsis.
var helpUsages = map[string]string{
	"submitHeader":          `submitHeader "hexHeader" -- Submit a serialized block header to the tree.`,
	"submitBlock":           `submitBlock "hexBlock" -- Submit a serialized block to the tree.`,
	"finalizeBlock":         `finalizeBlock "hash" -- Mark the block as finalized; the chain may no longer reorganize below it.`,
	"getFinalizedBlockHash": `getFinalizedBlockHash -- Return the hash of the last finalized block.`,
	"invalidateBlock":       `invalidateBlock "hash" -- Mark the block as invalid, as if it had failed validation.`,
	"reconsiderBlock":       `reconsiderBlock "hash" -- Remove invalidity marks from the block, its ancestors and its descendants.`,
	"getBestBlockHash":      `getBestBlockHash -- Return the hash of the selected tip.`,
	"getChainTips":          `getChainTips -- Return information about every tip of the block tree.`,
	"getBlockHeader":        `getBlockHeader "hash" (verbose=true) -- Return the header of the block, as JSON or hex.`,
	"getBlockCount":         `getBlockCount -- Return the number of blocks in the tree.`,
	"debugLevel":            `debugLevel "levelSpec" -- Change the logging level; "show" lists the subsystems.`,
	"help":                  `help ("command") -- List commands, or get the usage of a single command.`,
	"stop":                  `stop -- Shut down the node.`,
	"version":               `version -- Return the server's JSON-RPC API version.`,
}

// handleHelp implements the help command.
func handleHelp(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.HelpCmd)

	if c.Command != nil && *c.Command != "" {
		usage, ok := helpUsages[*c.Command]
		if !ok {
			return nil, rpcmodel.NewRPCError(
				rpcmodel.ErrRPCInvalidParameter,
				"Unknown command: "+*c.Command)
		}
		return usage, nil
	}

	// With no argument, list the usage of every command.
	usages := make([]string, 0, len(helpUsages))
	for _, usage := range helpUsages {
		usages = append(usages, usage)
	}
	sort.Strings(usages)
	return strings.Join(usages, "\n"), nil
}
