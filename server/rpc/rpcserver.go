// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/emberchain/emberd/blocktree"
	"github.com/emberchain/emberd/config"
	"github.com/emberchain/emberd/rpcmodel"
)

const (
	// rpcReadTimeout is the maximum duration for reading an entire RPC
	// request, including the body.
	rpcReadTimeout = time.Second * 10

	// maxRequestSize is the maximum number of bytes an RPC request body
	// may have.
	maxRequestSize = 1024 * 1024 * 64
)

// commandHandler describes a callback function used to handle a specific
// command.
type commandHandler func(*Server, interface{}, <-chan struct{}) (interface{}, error)

// rpcHandlers maps RPC command strings to the appropriate handler functions.
var rpcHandlers = map[string]commandHandler{
	"submitHeader":          handleSubmitHeader,
	"submitBlock":           handleSubmitBlock,
	"finalizeBlock":         handleFinalizeBlock,
	"getFinalizedBlockHash": handleGetFinalizedBlockHash,
	"invalidateBlock":       handleInvalidateBlock,
	"reconsiderBlock":       handleReconsiderBlock,
	"getBestBlockHash":      handleGetBestBlockHash,
	"getChainTips":          handleGetChainTips,
	"getBlockHeader":        handleGetBlockHeader,
	"getBlockCount":         handleGetBlockCount,
	"debugLevel":            handleDebugLevel,
	"help":                  handleHelp,
	"stop":                  handleStop,
	"version":               handleVersion,
}

// Server provides a concurrent safe RPC server to a block tree node.
type Server struct {
	started     int32
	shutdown    int32
	numClients  int32
	startupTime int64

	cfg                    *config.Config
	blockTree              *blocktree.BlockTree
	listeners              []net.Listener
	requestProcessShutdown chan struct{}
	quit                   chan int
	wg                     sync.WaitGroup
}

// NewServer returns a new instance of the Server struct, listening on the
// RPC listen addresses of the given config.
func NewServer(cfg *config.Config, blockTree *blocktree.BlockTree) (*Server, error) {
	listeners, err := setupRPCListeners(cfg)
	if err != nil {
		return nil, err
	}
	if len(listeners) == 0 {
		return nil, errors.New("RPCS: No valid listen address")
	}

	return &Server{
		cfg:                    cfg,
		blockTree:              blockTree,
		listeners:              listeners,
		startupTime:            time.Now().Unix(),
		requestProcessShutdown: make(chan struct{}),
		quit:                   make(chan int),
	}, nil
}

// setupRPCListeners returns a slice of listeners that are configured for use
// with the RPC server.
func setupRPCListeners(cfg *config.Config) ([]net.Listener, error) {
	netAddrs, err := parseListeners(cfg.RPCListeners)
	if err != nil {
		return nil, err
	}

	listeners := make([]net.Listener, 0, len(netAddrs))
	for _, addr := range netAddrs {
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			log.Warnf("Can't listen on %s: %s", addr, err)
			continue
		}
		listeners = append(listeners, listener)
	}
	return listeners, nil
}

// parseListeners normalizes the given addresses. Plain ports become
// all-interface addresses.
func parseListeners(addrs []string) ([]string, error) {
	parsed := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		_, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, errors.Wrapf(err, "RPC listen address %s is "+
				"invalid", addr)
		}
		parsed = append(parsed, addr)
	}
	return parsed, nil
}

// Start is used by emberd.go to start the rpc listener.
func (s *Server) Start() {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	log.Trace("Starting RPC server")
	rpcServeMux := http.NewServeMux()
	httpServer := &http.Server{
		Handler:     rpcServeMux,
		ReadTimeout: rpcReadTimeout,
	}
	rpcServeMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		w.Header().Set("Content-Type", "application/json")
		r.Close = true

		// Limit the number of connections to max allowed.
		if s.limitConnections(w, r.RemoteAddr) {
			return
		}

		// Keep track of the number of connected clients.
		s.incrementClients()
		defer s.decrementClients()

		// Read and respond to the request.
		s.jsonRPCRead(w, r)
	})

	for _, listener := range s.listeners {
		s.wg.Add(1)
		listener := listener
		spawn(func() {
			log.Infof("RPC server listening on %s", listener.Addr())
			httpServer.Serve(listener)
			log.Tracef("RPC listener done for %s", listener.Addr())
			s.wg.Done()
		})
	}
}

// Stop is used by emberd.go to stop the rpc listener.
func (s *Server) Stop() error {
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		log.Infof("RPC server is already in the process of shutting down")
		return nil
	}
	log.Warnf("RPC server shutting down")
	for _, listener := range s.listeners {
		err := listener.Close()
		if err != nil {
			log.Errorf("Problem shutting down rpc: %s", err)
			return err
		}
	}
	close(s.quit)
	s.wg.Wait()
	log.Infof("RPC server shutdown complete")
	return nil
}

// RequestedProcessShutdown returns a channel that is sent to when an
// authorized RPC client requests the process to shut down. If the request can
// not be read immediately, it is dropped.
func (s *Server) RequestedProcessShutdown() <-chan struct{} {
	return s.requestProcessShutdown
}

// limitConnections responds with a 503 service unavailable and returns true
// if adding another client would exceed the maximum allowed RPC clients.
//
// This function is safe for concurrent access.
func (s *Server) limitConnections(w http.ResponseWriter, remoteAddr string) bool {
	if int(atomic.LoadInt32(&s.numClients)+1) > s.cfg.RPCMaxClients {
		log.Infof("Max RPC clients exceeded [%d] - "+
			"disconnecting client %s", s.cfg.RPCMaxClients,
			remoteAddr)
		http.Error(w, "503 Too busy. Try again later.",
			http.StatusServiceUnavailable)
		return true
	}
	return false
}

// incrementClients adds one to the number of connected RPC clients. Note this
// only applies to standard clients.
//
// This function is safe for concurrent access.
func (s *Server) incrementClients() {
	atomic.AddInt32(&s.numClients, 1)
}

// decrementClients subtracts one from the number of connected RPC clients.
// Note this only applies to standard clients.
//
// This function is safe for concurrent access.
func (s *Server) decrementClients() {
	atomic.AddInt32(&s.numClients, -1)
}

// jsonRPCRead handles reading and responding to RPC messages.
func (s *Server) jsonRPCRead(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.shutdown) != 0 {
		return
	}

	if r.Method != http.MethodPost {
		errCode := http.StatusMethodNotAllowed
		http.Error(w, fmt.Sprintf("%d Method not allowed", errCode), errCode)
		return
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	r.Body.Close()
	if err != nil {
		errCode := http.StatusBadRequest
		http.Error(w, fmt.Sprintf("%d error reading JSON message: %s",
			errCode, err), errCode)
		return
	}

	var responseID interface{}
	var jsonErr error
	var result interface{}
	var request rpcmodel.Request
	if err := json.Unmarshal(body, &request); err != nil {
		jsonErr = &rpcmodel.RPCError{
			Code:    rpcmodel.ErrRPCParse.Code,
			Message: "Failed to parse request: " + err.Error(),
		}
	}

	if jsonErr == nil {
		// The JSON-RPC 1.0 spec defines that notifications must have
		// their "id" set to null and states that notifications do not
		// have a response.
		if request.ID == nil {
			return
		}
		responseID = request.ID

		// Attempt to parse the JSON-RPC request into a known concrete
		// command.
		parsedCmd, parseErr := rpcmodel.UnmarshalCommand(&request)
		if parseErr != nil {
			var rpcErr *rpcmodel.RPCError
			if errors.As(parseErr, &rpcErr) {
				jsonErr = rpcErr
			} else {
				jsonErr = &rpcmodel.RPCError{
					Code:    rpcmodel.ErrRPCInvalidParams.Code,
					Message: parseErr.Error(),
				}
			}
		} else {
			result, jsonErr = s.standardCmdResult(
				request.Method, parsedCmd, nil)
		}
	}

	// Marshal the response.
	msg, err := createMarshalledReply(responseID, result, jsonErr)
	if err != nil {
		log.Errorf("Failed to marshal reply: %s", err)
		return
	}

	// Write the response.
	_, err = w.Write(msg)
	if err != nil {
		log.Errorf("Failed to write marshalled reply: %s", err)
	}
}

// standardCmdResult checks that a parsed command is a standard JSON-RPC
// command and runs the appropriate handler to reply to the command.
func (s *Server) standardCmdResult(method string, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	handler, ok := rpcHandlers[method]
	if !ok {
		return nil, rpcmodel.ErrRPCMethodNotFound
	}
	return handler(s, cmd, closeChan)
}

// createMarshalledReply returns a new marshalled JSON-RPC response given the
// passed parameters. It will automatically convert errors that are not of
// the type *rpcmodel.RPCError to the appropriate type as needed.
func createMarshalledReply(id interface{}, result interface{}, replyErr error) ([]byte, error) {
	var jsonErr *rpcmodel.RPCError
	if replyErr != nil {
		if !errors.As(replyErr, &jsonErr) {
			jsonErr = internalRPCError(replyErr.Error(), "")
		}
	}
	return rpcmodel.MarshalResponse(id, result, jsonErr)
}
