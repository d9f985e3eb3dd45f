// Package config loads miner runtime configuration: seed material, the
// miner's reward address, target difficulty and worker pool sizing. It
// keeps the teacher's LoadDeviceConfig shape (plain .env file in the
// project root, overridden by environment variables, no config framework)
// but loads mining parameters instead of ASIC SSH credentials.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type MinerConfig struct {
	// SeedHex is the hex-encoded 32-byte seed used to build canonical
	// mining inputs.
	SeedHex string

	// MinerAddress is the UTF-8 address embedded in the canonical mining
	// input.
	MinerAddress string

	// DifficultyBits is the number of required leading zero bits.
	DifficultyBits int

	// Workers is the number of mining goroutines to run; 0 means "default
	// to one per logical CPU".
	Workers int

	// BatchSize is the number of nonces each worker attempts between
	// cancellation checks.
	BatchSize int
}

var (
	minerConfig  *MinerConfig
	configLoaded bool
)

func defaults() *MinerConfig {
	return &MinerConfig{
		DifficultyBits: 20,
		Workers:        0,
		BatchSize:      1024,
	}
}

func LoadMinerConfig() (*MinerConfig, error) {
	if minerConfig != nil && configLoaded {
		return minerConfig, nil
	}

	cfg := defaults()

	projectRoot := findProjectRoot()
	envPath := filepath.Join(projectRoot, ".env")

	data, err := os.ReadFile(envPath)
	if err == nil {
		parseEnvFile(string(data), cfg)
	}

	if v := os.Getenv("UHASH_SEED"); v != "" {
		cfg.SeedHex = v
	}
	if v := os.Getenv("UHASH_MINER_ADDRESS"); v != "" {
		cfg.MinerAddress = v
	}
	if v := os.Getenv("UHASH_DIFFICULTY_BITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DifficultyBits = n
		}
	}
	if v := os.Getenv("UHASH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("UHASH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = n
		}
	}

	minerConfig = cfg
	configLoaded = true
	return cfg, nil
}

func parseEnvFile(content string, cfg *MinerConfig) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "UHASH_SEED":
			cfg.SeedHex = value
		case "UHASH_MINER_ADDRESS":
			cfg.MinerAddress = value
		case "UHASH_DIFFICULTY_BITS":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.DifficultyBits = n
			}
		case "UHASH_WORKERS":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.Workers = n
			}
		case "UHASH_BATCH_SIZE":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.BatchSize = n
			}
		}
	}
}

func findProjectRoot() string {
	cwd, _ := os.Getwd()
	// First check CWD for .env file
	if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
		return cwd
	}
	// Then walk up looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return cwd
		}
		cwd = parent
	}
}

func GetMinerAddress() string {
	cfg, err := LoadMinerConfig()
	if err != nil {
		return ""
	}
	return cfg.MinerAddress
}

func MustGetMinerConfig() MinerConfig {
	cfg, err := LoadMinerConfig()
	if err != nil {
		panic("failed to load miner configuration")
	}
	if cfg.SeedHex == "" || cfg.MinerAddress == "" {
		panic("UHASH_SEED and UHASH_MINER_ADDRESS must be set in .env file or environment")
	}
	return *cfg
}
