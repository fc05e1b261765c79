/*
Copyright (c) 2013-2018 The btcsuite developers
Copyright (c) 2015-2016 The Decred developers
Use of this source code is governed by an ISC
license that can be found in the LICENSE file.

Emberd is a block-tree consensus node written in Go. It accepts block headers
and block payloads in any topological order, tracks the validation status of
every block, selects the chain with the most accumulated work among the valid
candidates and maintains a finality point below which the chain may no longer
be reorganized. Finalization, invalidation and reconsideration of blocks are
driven over a JSON-RPC interface.

The default options are sane for most users. This means emberd will work 'out
of the box' for most users. However, there are also a wide variety of flags
that can be used to control it.

Usage:

	emberd [OPTIONS]

For an up-to-date help message:

	emberd --help

The long form of all option flags (except -C) can be specified in a
configuration file that is automatically parsed when emberd starts up. By
default, the configuration file is located at ~/.emberd/emberd.conf on
POSIX-style operating systems and %LOCALAPPDATA%\emberd\emberd.conf on
Windows. The -C (--configfile) flag can be used to override this location.
*/
package main
