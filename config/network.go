package config

import (
	"github.com/emberchain/emberd/chainparams"
)

// NetworkFlags holds the network configuration, that is which network is
// selected.
type NetworkFlags struct {
	Simnet          bool `long:"simnet" description:"Use the simulation test network"`
	ActiveNetParams *chainparams.Params
}

// ResolveNetwork parses the network command line arguments and sets
// ActiveNetParams accordingly. The default network is mainnet.
func (networkFlags *NetworkFlags) ResolveNetwork() {
	networkFlags.ActiveNetParams = &chainparams.MainnetParams
	if networkFlags.Simnet {
		networkFlags.ActiveNetParams = &chainparams.SimnetParams
	}
}

// NetParams returns the currently active network parameters.
func (networkFlags *NetworkFlags) NetParams() *chainparams.Params {
	return networkFlags.ActiveNetParams
}
