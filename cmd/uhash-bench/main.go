// uhash-bench: benchmark and mining driver for UniversalHash v4
// Copyright (C) 2026  Cyberia
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyberia-to/uhash/internal/config"
	"github.com/cyberia-to/uhash/internal/miner"
	"github.com/cyberia-to/uhash/pkg/hashing"
	"github.com/cyberia-to/uhash/pkg/hashing/core"
	"github.com/cyberia-to/uhash/pkg/hashing/factory"
	"github.com/cyberia-to/uhash/pkg/hashing/hardware"
)

func main() {
	mode := flag.String("mode", "bench", "bench | mine | params")
	numHashes := flag.Int("num-hashes", 256, "number of hashes to run in bench mode")
	seedHex := flag.String("seed", "", "hex-encoded 32-byte seed (defaults to config/random)")
	address := flag.String("address", "", "miner address (defaults to config)")
	difficulty := flag.Int("difficulty", 0, "required leading-zero bits (defaults to config)")
	httpAddr := flag.String("http", "", "if set, serve /healthz and /stats on this address while mining")
	tui := flag.Bool("tui", false, "show a live hashrate TUI while mining")
	flag.Parse()

	caps := hardware.Detect()
	log.Print(caps.Summary())

	pf, err := factory.New(nil, caps)
	if err != nil {
		log.Fatalf("primitive factory: %v", err)
	}

	switch *mode {
	case "params":
		printParams(pf)
	case "bench":
		runBench(pf, *numHashes)
	case "mine":
		runMine(pf, caps, *seedHex, *address, *difficulty, *httpAddr, *tui)
	default:
		log.Fatalf("unknown -mode %q", *mode)
	}
}

func printParams(pf *factory.PrimitiveFactory) {
	fmt.Printf("chains=%d scratchpad_kb=%d total_mb=%d rounds=%d\n",
		core.Chains, core.ScratchpadBytes/1024,
		core.Chains*core.ScratchpadBytes/(1024*1024), core.Rounds)
	for _, m := range pf.Report() {
		fmt.Printf("  primitive=%-8s hw_accel=%-5t %s\n", m.Name, m.HWAccel, m.Description)
	}
}

func runBench(pf *factory.PrimitiveFactory, numHashes int) {
	h, err := hashing.New(pf, hashing.Parallel)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}

	input := make([]byte, 48)
	if _, err := rand.Read(input); err != nil {
		log.Fatalf("rand: %v", err)
	}

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < numHashes; i++ {
		binaryIncrement(input)
		if _, err := h.Hash(ctx, input); err != nil {
			log.Fatalf("hash: %v", err)
		}
	}
	elapsed := time.Since(start).Seconds()

	hashrate := float64(numHashes) / elapsed
	fmt.Printf("ran %d hashes in %.3fs: %.2f hashes/sec\n", numHashes, elapsed, hashrate)
}

func binaryIncrement(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}

func runMine(pf *factory.PrimitiveFactory, caps *hardware.Capabilities, seedHex, address string, difficultyBits int, httpAddr string, showTUI bool) {
	cfg, err := config.LoadMinerConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if seedHex == "" {
		seedHex = cfg.SeedHex
	}
	if address == "" {
		address = cfg.MinerAddress
	}
	if difficultyBits == 0 {
		difficultyBits = cfg.DifficultyBits
	}

	var seed [32]byte
	if seedHex != "" {
		raw, err := hex.DecodeString(seedHex)
		if err != nil || len(raw) != 32 {
			log.Fatalf("seed must be 64 hex characters (32 bytes)")
		}
		copy(seed[:], raw)
	} else {
		if _, err := rand.Read(seed[:]); err != nil {
			log.Fatalf("rand: %v", err)
		}
	}

	h, err := hashing.New(pf, hashing.Parallel)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}

	m, err := miner.New(miner.Config{
		Seed:           seed,
		MinerAddress:   address,
		DifficultyBits: difficultyBits,
		Workers:        cfg.Workers,
		BatchSize:      cfg.BatchSize,
	}, h, caps)
	if err != nil {
		log.Fatalf("miner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	if httpAddr != "" {
		go serveStats(httpAddr, m)
	}
	if showTUI {
		runHashrateTUI(m)
		return
	}

	for {
		proof, err := m.Proofs().Pop(ctx)
		if err != nil {
			return
		}
		fmt.Printf("proof: nonce=%d hash=%x\n", proof.Nonce, proof.Hash)
	}
}

func serveStats(addr string, m *miner.Miner) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"hashrate_hz": m.HashRate(),
			"chains":      core.Chains,
			"rounds":      core.Rounds,
			"mining":      m.Stats(),
		})
	})
	if err := r.Run(addr); err != nil {
		log.Printf("stats server: %v", err)
	}
}
