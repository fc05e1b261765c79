package rpc

// handleGetFinalizedBlockHash implements the getFinalizedBlockHash command.
func handleGetFinalizedBlockHash(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.blockTree.FinalityPointHash().String(), nil
}
