// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/emberchain/emberd/blocktree"
	"github.com/emberchain/emberd/config"
	"github.com/emberchain/emberd/dbaccess"
	"github.com/emberchain/emberd/server/rpc"
	"github.com/emberchain/emberd/signal"
	"github.com/emberchain/emberd/util/panics"
	"github.com/emberchain/emberd/version"
)

const blockDBSubDir = "db"

// emberd is a wrapper for all the emberd services
type emberd struct {
	rpcServer *rpc.Server

	started, shutdown int32
}

// start launches all the emberd services.
func (e *emberd) start() {
	// Already started?
	if atomic.AddInt32(&e.started, 1) != 1 {
		return
	}

	log.Trace("Starting emberd")

	cfg := config.ActiveConfig()

	if !cfg.DisableRPC {
		e.rpcServer.Start()
	}
}

// stop gracefully shuts down all the emberd services.
func (e *emberd) stop() error {
	// Make sure this only happens once.
	if atomic.AddInt32(&e.shutdown, 1) != 1 {
		log.Infof("Emberd is already in the process of shutting down")
		return nil
	}

	log.Warnf("Emberd shutting down")

	// Shutdown the RPC server if it's not disabled.
	if !config.ActiveConfig().DisableRPC {
		err := e.rpcServer.Stop()
		if err != nil {
			log.Errorf("Error stopping rpcServer: %+v", err)
		}
	}

	return nil
}

// newEmberd returns a new emberd instance. Use start to begin serving
// requests.
func newEmberd(databaseContext *dbaccess.DatabaseContext) (*emberd, error) {
	cfg := config.ActiveConfig()

	tree, err := setupBlockTree(cfg, databaseContext)
	if err != nil {
		return nil, err
	}

	rpcServer, err := setupRPC(cfg, tree)
	if err != nil {
		return nil, err
	}

	return &emberd{
		rpcServer: rpcServer,
	}, nil
}

func setupBlockTree(cfg *config.Config, databaseContext *dbaccess.DatabaseContext) (*blocktree.BlockTree, error) {
	// The finality depth may be overridden from the command line, so the
	// tree gets its own copy of the network parameters.
	params := *cfg.NetParams()
	params.FinalizationDepth = *cfg.FinalizationDepth

	tree, err := blocktree.New(&blocktree.Config{
		DatabaseContext: databaseContext,
		ChainParams:     &params,
	})
	if err != nil {
		return nil, err
	}

	tree.Subscribe(logTreeNotifications)
	return tree, nil
}

func logTreeNotifications(notification *blocktree.Notification) {
	switch data := notification.Data.(type) {
	case *blocktree.BlockAddedNotificationData:
		log.Debugf("Accepted block %s (height %d, status %s)",
			data.Hash, data.Height, data.Status)
	case *blocktree.ChainChangedNotificationData:
		log.Infof("Selected tip changed from %s to %s",
			data.OldSelectedTip, data.NewSelectedTip)
	case *blocktree.FinalityPointChangedNotificationData:
		log.Infof("Finality point moved from %s to %s",
			data.OldFinalityPoint, data.NewFinalityPoint)
	}
}

func setupRPC(cfg *config.Config, tree *blocktree.BlockTree) (*rpc.Server, error) {
	if cfg.DisableRPC {
		return nil, nil
	}

	rpcServer, err := rpc.NewServer(cfg, tree)
	if err != nil {
		return nil, err
	}

	// Signal process shutdown when the RPC server requests it.
	spawn(func() {
		<-rpcServer.RequestedProcessShutdown()
		signal.ShutdownRequestChannel <- struct{}{}
	})

	return rpcServer, nil
}

// emberdMain is the real main function for emberd. It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func emberdMain() error {
	// Up front so that shutdown requests arriving during setup are not
	// lost.
	interrupt := signal.InterruptListener()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer panics.HandlePanic(log, nil)

	log.Infof("Version %s", version.Version())

	databaseContext, err := dbaccess.New(filepath.Join(cfg.DataDir, blockDBSubDir))
	if err != nil {
		log.Errorf("Error opening database: %+v", err)
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := databaseContext.Close()
		if err != nil {
			log.Errorf("Error closing the database: %+v", err)
		}
	}()

	if signal.InterruptRequested(interrupt) {
		return nil
	}

	node, err := newEmberd(databaseContext)
	if err != nil {
		log.Errorf("Unable to start emberd: %+v", err)
		return err
	}
	defer func() {
		err := node.stop()
		if err != nil {
			log.Errorf("Error stopping emberd: %+v", err)
		}
		log.Infof("Shutdown complete")
	}()
	node.start()

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems such as the RPC
	// server.
	<-interrupt
	return nil
}

func main() {
	if err := emberdMain(); err != nil {
		os.Exit(1)
	}
}
