// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/emberchain/emberd/logger"
	"github.com/emberchain/emberd/util"
	"github.com/emberchain/emberd/util/network"
	"github.com/emberchain/emberd/version"
)

const (
	defaultConfigFilename = "emberd.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "emberd.log"
	defaultErrLogFilename = "emberd_err.log"
	defaultMaxRPCClients  = 10
)

var (
	// DefaultHomeDir is the default home directory for emberd.
	DefaultHomeDir = util.AppDataDir("emberd", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

var activeConfig *Config

// Flags defines the configuration options for emberd.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion       bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile        string   `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir           string   `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir            string   `long:"logdir" description:"Directory to log output."`
	DebugLevel        string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	RPCListeners      []string `long:"rpclisten" description:"Add an interface/port to listen for RPC connections (default port: 9432, simnet: 9532)"`
	RPCMaxClients     int      `long:"rpcmaxclients" description:"Max number of RPC clients for standard connections"`
	DisableRPC        bool     `long:"norpc" description:"Disable built-in RPC server"`
	FinalizationDepth *uint64  `long:"finalizationdepth" description:"Number of blocks behind the selected tip at which blocks are automatically finalized -- Set to 0 to disable automatic finalization (default: the active network's depth)"`
	NetworkFlags
}

// Config defines the configuration options for emberd.
type Config struct {
	*Flags
}

// ActiveConfig returns the active configuration struct.
func ActiveConfig() *Config {
	return activeConfig
}

// defaultFlags returns a Flags struct populated with the default values.
func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:    defaultConfigFile,
		DataDir:       defaultDataDir,
		LogDir:        defaultLogDir,
		DebugLevel:    defaultLogLevel,
		RPCMaxClients: defaultMaxRPCClients,
	}
}

// LoadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in emberd functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options. Command line options always take precedence.
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, err
	}

	appName := filepath.Base(os.Args[0])
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	parser := flags.NewParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			return nil, err
		}
		// A missing config file at the default location is fine, a
		// missing explicitly given one is not.
		if preCfg.ConfigFile != defaultConfigFile {
			return nil, errors.Wrapf(err, "could not read config "+
				"file %s", preCfg.ConfigFile)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		return nil, err
	}

	activeConfig = &Config{Flags: cfgFlags}
	activeConfig.ResolveNetwork()
	netParams := activeConfig.NetParams()

	// The automatic finalization depth defaults to the active network's
	// depth unless overridden.
	if activeConfig.FinalizationDepth == nil {
		depth := netParams.FinalizationDepth
		activeConfig.FinalizationDepth = &depth
	}

	// Append the network type to the data and log directories so they are
	// network specific.
	activeConfig.DataDir = cleanAndExpandPath(activeConfig.DataDir)
	activeConfig.DataDir = filepath.Join(activeConfig.DataDir, netParams.Name)
	activeConfig.LogDir = cleanAndExpandPath(activeConfig.LogDir)
	activeConfig.LogDir = filepath.Join(activeConfig.LogDir, netParams.Name)

	// Initialize log rotation. After the log rotation has been initialized,
	// the logger variables may be used.
	logger.InitLog(filepath.Join(activeConfig.LogDir, defaultLogFilename),
		filepath.Join(activeConfig.LogDir, defaultErrLogFilename))

	// Parse, validate and set debug log level(s).
	if activeConfig.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}
	err = logger.ParseAndSetDebugLevels(activeConfig.DebugLevel)
	if err != nil {
		err = errors.Wrapf(err, "%s: %s", appName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}

	// Default RPC to listen on localhost only.
	if !activeConfig.DisableRPC && len(activeConfig.RPCListeners) == 0 {
		activeConfig.RPCListeners = []string{
			net.JoinHostPort("localhost", netParams.DefaultRPCPort),
		}
	}
	activeConfig.RPCListeners, err = network.NormalizeAddresses(
		activeConfig.RPCListeners, netParams.DefaultRPCPort)
	if err != nil {
		return nil, err
	}

	return activeConfig, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the passed
// path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = filepath.Join(homeDir, path[1:])
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
