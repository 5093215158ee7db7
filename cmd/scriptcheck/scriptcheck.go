// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/cashsuite/bchscript/blockchain"
	"github.com/cashsuite/bchscript/coindb"
	"github.com/cashsuite/bchscript/coindb/leveldb"
	"github.com/cashsuite/bchscript/coindb/pebbledb"
	"github.com/cashsuite/bchscript/internal/log"
	"github.com/cashsuite/bchscript/txscript"
	"github.com/cashsuite/bchscript/wire"
)

var mainLog = log.MainLog

// loadCoinDB opens the coin database, creating it when it does not exist.
func loadCoinDB(cfg *config) (coindb.Engine, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.DataDir, "coins")
	mainLog.Infof("Loading coin database from '%s'", dbPath)
	switch cfg.DbType {
	case "pebble":
		return pebbledb.NewDB(dbPath, false, 0, 0)
	default:
		return leveldb.NewDB(dbPath, false)
	}
}

// listCoins writes every stored coin to stdout.
func listCoins(store *coindb.CoinStore) error {
	var n int
	err := store.ForEachCoin(func(op wire.OutPoint, coin *wire.TxOut) error {
		n++
		if coin.TokenData != nil {
			fmt.Printf("%v value=%d script=%x token=%v\n", op,
				coin.Value, coin.PkScript, coin.TokenData)
			return nil
		}
		fmt.Printf("%v value=%d script=%x\n", op, coin.Value,
			coin.PkScript)
		return nil
	})
	if err != nil {
		return err
	}
	mainLog.Infof("Listed %d coins", n)
	return nil
}

// rejectReason returns the reason a transaction was rejected for: the stable
// script error label when a script failed, the rule otherwise.
func rejectReason(err error) string {
	var serr txscript.Error
	if errors.As(err, &serr) {
		return serr.ErrorCode.String()
	}
	var rerr blockchain.RuleError
	if errors.As(err, &rerr) {
		return rerr.ErrorCode.String()
	}
	return "ERROR"
}

// checkTx validates the input scripts of the configured transaction against
// the coins found in the store.
func checkTx(ctx context.Context, cfg *config, store *coindb.CoinStore) error {
	tx := cfg.tx
	txHash := tx.TxHash()

	coins, err := store.FetchInputCoins(tx)
	if err != nil {
		mainLog.Errorf("Unable to load the coins spent by %v: %v",
			txHash, err)
		return err
	}
	view := make(blockchain.CoinMap, len(coins))
	for i, txIn := range tx.TxIn {
		view[txIn.PreviousOutPoint] = coins[i]
	}

	sigCache := txscript.NewSigCache(cfg.SigCacheSize)
	sigChecks, err := blockchain.ValidateTransactionScripts(ctx, tx, view,
		cfg.flags, sigCache, nil, txscript.WithBigIntSize(cfg.BigIntSize))
	if err != nil {
		fmt.Printf("%v: rejected (%s)\n", txHash, rejectReason(err))
		mainLog.Debugf("%v", err)
		return err
	}
	fmt.Printf("%v: valid, %d inputs, %d sigchecks\n", txHash,
		len(tx.TxIn), sigChecks)

	if !cfg.Apply {
		return nil
	}
	spent := make([]wire.OutPoint, 0, len(tx.TxIn))
	for _, txIn := range tx.TxIn {
		spent = append(spent, txIn.PreviousOutPoint)
	}
	if err := store.SpendCoins(spent); err != nil {
		return err
	}
	if err := store.AddTxOuts(tx); err != nil {
		return err
	}
	mainLog.Infof("Applied %v to the coin database", txHash)
	return nil
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Load configuration and parse command line.
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	// Setup logging.
	logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
	if err := log.InitLogRotator(logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.LogRotator.Close()
	if err := log.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := loadCoinDB(cfg)
	if err != nil {
		mainLog.Errorf("Failed to load database: %v", err)
		return err
	}
	defer db.Close()
	store := coindb.NewCoinStore(db)

	if len(cfg.coins) > 0 {
		if err := store.PutCoins(cfg.coins); err != nil {
			mainLog.Errorf("Failed to store coins: %v", err)
			return err
		}
		mainLog.Infof("Added %d coins", len(cfg.coins))
	}

	if cfg.ListCoins {
		if err := listCoins(store); err != nil {
			mainLog.Errorf("Failed to list coins: %v", err)
			return err
		}
	}

	if cfg.tx != nil {
		return checkTx(ctx, cfg, store)
	}
	return nil
}

func main() {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
