// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/internal/version"
	"github.com/cashsuite/bchscript/txscript"
	"github.com/cashsuite/bchscript/wire"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultDbType       = "leveldb"
	defaultLogLevel     = "info"
	defaultLogFilename  = "scriptcheck.log"
	defaultScriptFlags  = "STANDARD"
	defaultSigCacheSize = 100000
)

var (
	appHomeDir     = appDataDir("scriptcheck", "Scriptcheck")
	defaultDataDir = filepath.Join(appHomeDir, "data")
	defaultLogDir  = filepath.Join(appHomeDir, "logs")
	knownDbTypes   = []string{"leveldb", "pebble"}
)

// config defines the configuration options for scriptcheck.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion  bool     `short:"V" long:"version" description:"Display version information and exit"`
	DataDir      string   `short:"b" long:"datadir" description:"Location of the coin database"`
	DbType       string   `long:"dbtype" description:"Database backend to use for the coins {leveldb, pebble}"`
	LogDir       string   `long:"logdir" description:"Directory to log output"`
	DebugLevel   string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Tx           string   `short:"t" long:"tx" description:"Hex encoded transaction whose input scripts are validated"`
	Coins        []string `short:"c" long:"coin" description:"Add a coin to the database before validating, as txid:vout:hex encoded output -- May be repeated"`
	Apply        bool     `long:"apply" description:"Spend the coins of a valid transaction and add its outputs to the database"`
	ListCoins    bool     `long:"listcoins" description:"List the coins stored in the database"`
	ScriptFlags  string   `long:"flags" description:"Comma separated script verification flags, or STANDARD / MANDATORY"`
	BigIntSize   int      `long:"bigintsize" description:"Maximum width in bytes of the script numbers when big integers are enabled"`
	SigCacheSize uint     `long:"sigcachesize" description:"The maximum number of entries in the signature verification cache"`

	tx    *wire.MsgTx
	coins map[wire.OutPoint]*wire.TxOut
	flags txscript.ScriptFlags
}

// appDataDir returns an OS appropriate home directory for the application.
// The title cased name is used on Windows.
func appDataDir(appName, titleName string) string {
	// Search for Windows LOCALAPPDATA first.  This won't exist on POSIX
	// OSes.
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, titleName)
		}
	}

	// Fall back to standard HOME directory that works for most POSIX OSes.
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, "."+appName)
	}

	// In the worst case, use the current directory.
	return "."
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// parseCoin parses a coin given as txid:vout:hex where hex is the serialized
// transaction output, token payload included.
func parseCoin(s string) (wire.OutPoint, *wire.TxOut, error) {
	var op wire.OutPoint
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return op, nil, fmt.Errorf("coin %q is not txid:vout:hex", s)
	}

	hash, err := chainhash.NewHashFromStr(fields[0])
	if err != nil {
		return op, nil, fmt.Errorf("coin %q has an invalid txid: %w", s,
			err)
	}
	index, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return op, nil, fmt.Errorf("coin %q has an invalid output "+
			"index: %w", s, err)
	}
	serialized, err := hex.DecodeString(fields[2])
	if err != nil {
		return op, nil, fmt.Errorf("coin %q has an invalid output: %w",
			s, err)
	}

	r := bytes.NewReader(serialized)
	var txOut wire.TxOut
	if err := wire.ReadTxOut(r, &txOut); err != nil {
		return op, nil, fmt.Errorf("coin %q has an invalid output: %w",
			s, err)
	}
	if r.Len() != 0 {
		return op, nil, fmt.Errorf("coin %q has %d trailing bytes", s,
			r.Len())
	}

	op.Hash = *hash
	op.Index = uint32(index)
	return op, &txOut, nil
}

// parseTx decodes a hex encoded transaction.
func parseTx(s string) (*wire.MsgTx, error) {
	serialized, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}
	var tx wire.MsgTx
	if err := tx.FromBytes(serialized); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	return &tx, nil
}

// loadConfig initializes and parses the config using command line options.
func loadConfig(args []string) (*config, error) {
	// Default config.
	cfg := config{
		DataDir:      defaultDataDir,
		DbType:       defaultDbType,
		LogDir:       defaultLogDir,
		DebugLevel:   defaultLogLevel,
		ScriptFlags:  defaultScriptFlags,
		BigIntSize:   txscript.DefaultBigIntScriptNumLen,
		SigCacheSize: defaultSigCacheSize,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Printf("scriptcheck version %s (Go version %s %s/%s)\n",
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		os.Exit(0)
	}

	funcName := "loadConfig"
	usageErr := func(err error) (*config, error) {
		err = fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}

	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "the specified database type [%v] is invalid -- " +
			"supported types %v"
		return usageErr(fmt.Errorf(str, cfg.DbType, knownDbTypes))
	}

	cfg.flags, err = txscript.ParseScriptFlags(cfg.ScriptFlags)
	if err != nil {
		return usageErr(err)
	}

	if cfg.BigIntSize < txscript.MaxScriptNumLen64Bit ||
		cfg.BigIntSize > txscript.MaxScriptElementSize {

		str := "the big integer size [%d] must be between %d and %d"
		return usageErr(fmt.Errorf(str, cfg.BigIntSize,
			txscript.MaxScriptNumLen64Bit,
			txscript.MaxScriptElementSize))
	}

	cfg.coins = make(map[wire.OutPoint]*wire.TxOut, len(cfg.Coins))
	for _, s := range cfg.Coins {
		op, txOut, err := parseCoin(s)
		if err != nil {
			return usageErr(err)
		}
		cfg.coins[op] = txOut
	}

	if cfg.Tx != "" {
		cfg.tx, err = parseTx(cfg.Tx)
		if err != nil {
			return usageErr(err)
		}
	}
	if cfg.Apply && cfg.tx == nil {
		return usageErr(fmt.Errorf("--apply requires --tx"))
	}
	if cfg.tx == nil && len(cfg.coins) == 0 && !cfg.ListCoins {
		return usageErr(fmt.Errorf("nothing to do -- specify --tx, " +
			"--coin or --listcoins"))
	}

	cfg.DataDir = filepath.Join(cfg.DataDir, cfg.DbType)
	return &cfg, nil
}
