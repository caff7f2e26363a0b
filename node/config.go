// Package node wires the consensus packages (chainstate, chainblock,
// chaintx, chainutxo, drengine, reputation, radon, primitives) and storekv
// into the long-running process §5 describes: one single-writer chain
// component. It does not wire wire, superblock or snapshot, and it has no
// epoch timer: rollover happens when a caller invokes RolloverEpoch.
package node

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// Config is the node's JSON-configurable surface, extended from the
// teacher's plain bind/peers/log-level shape with the consensus
// constants genesis needs.
type Config struct {
	Network  string   `json:"network"`
	DataDir  string   `json:"data_dir"`
	BindAddr string   `json:"bind_addr"`
	LogLevel string   `json:"log_level"`
	Peers    []string `json:"peers"`
	MaxPeers int      `json:"max_peers"`

	Consensus ConsensusParams `json:"consensus"`
}

// ConsensusParams are the protocol constants leaves as "a
// configured genesis timestamp", "a configured period", "activity
// window", etc. without pinning concrete values; a network's identity is
// this struct plus the genesis block.
type ConsensusParams struct {
	GenesisTimestamp   int64  `json:"genesis_timestamp"`
	EpochPeriodSeconds uint32 `json:"epoch_period_seconds"`
	ActivityPeriod     uint32 `json:"activity_period_epochs"`
	SuperblockPeriod   uint32 `json:"superblock_period_epochs"`
	MiningDifficulty   uint64 `json:"mining_min_difficulty"`
	CollateralMinimum  uint64 `json:"collateral_minimum_nanowits"`
	CommitteeSize      int    `json:"bootstrapping_committee_size"`
	ExtraCommitRounds  uint32 `json:"extra_commit_rounds"`
	RevealWindowEpochs uint32 `json:"reveal_window_epochs"`
	ConsensusCPercent  int    `json:"consensus_c_percent"`
	MaxBlocksPerSync   int    `json:"max_blocks_sync"`
}

func defaultConsensusParams() ConsensusParams {
	return ConsensusParams{
		GenesisTimestamp:   1602666000,
		EpochPeriodSeconds: 45,
		ActivityPeriod:     2000,
		SuperblockPeriod:   10,
		MiningDifficulty:   2000,
		CollateralMinimum:  1_000_000_000,
		CommitteeSize:      50,
		ExtraCommitRounds:  3,
		RevealWindowEpochs: 2,
		ConsensusCPercent:  51,
		MaxBlocksPerSync:   500,
	}
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rubin"
	}
	return filepath.Join(home, ".rubin")
}

func DefaultConfig() Config {
	return Config{
		Network:   "devnet",
		DataDir:   DefaultDataDir(),
		BindAddr:  "0.0.0.0:19111",
		Peers:     nil,
		LogLevel:  "info",
		MaxPeers:  64,
		Consensus: defaultConsensusParams(),
	}
}

func NormalizePeers(raw ...string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, token := range raw {
		for _, p := range strings.Split(token, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Network) == "" {
		return errors.New("network is required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if err := validateAddr(cfg.BindAddr); err != nil {
		return fmt.Errorf("invalid bind_addr: %w", err)
	}
	for _, peer := range cfg.Peers {
		if err := validatePeerAddr(peer); err != nil {
			return fmt.Errorf("invalid peer %q: %w", peer, err)
		}
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if cfg.MaxPeers <= 0 {
		return errors.New("max_peers must be > 0")
	}
	if cfg.MaxPeers > 4096 {
		return errors.New("max_peers must be <= 4096")
	}
	if cfg.Consensus.EpochPeriodSeconds == 0 {
		return errors.New("consensus.epoch_period_seconds must be > 0")
	}
	if cfg.Consensus.SuperblockPeriod == 0 {
		return errors.New("consensus.superblock_period_epochs must be > 0")
	}
	return nil
}

func validateAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("empty address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(port) == "" {
		return errors.New("missing port")
	}
	if strings.Contains(host, " ") {
		return errors.New("invalid host")
	}
	return nil
}

func validatePeerAddr(addr string) error {
	if err := validateAddr(addr); err != nil {
		return err
	}
	host, _, _ := net.SplitHostPort(addr)
	if strings.TrimSpace(host) == "" {
		return errors.New("missing host")
	}
	return nil
}
