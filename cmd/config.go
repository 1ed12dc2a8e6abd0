package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host           string        `env:"HOST,required=true"`
	Port           int           `env:"PORT,required=true"`
	LogLevel       string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string        `env:"BLUGE_FILEPATH,required=true"`
	RPCEndpoints   string        `env:"RPC_ENDPOINTS,required=true"`
	RPCTimeout     time.Duration `env:"RPC_TIMEOUT,required=true"`

	TokenMint          string        `env:"TOKEN_MINT,required=true"`
	TokenDecimals      int           `env:"TOKEN_DECIMALS,required=true"`
	AdminWallet        string        `env:"ADMIN_WALLET,required=true"`
	RewardWalletSecret string        `env:"REWARD_WALLET_SECRET,required=true"`
	RewardRate         float64       `env:"REWARD_RATE,required=true"`
	ClaimCooldown      time.Duration `env:"CLAIM_COOLDOWN,required=true"`

	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,required=true"`

	PublishRate          float64       `env:"PUBLISH_RATE,required=true"`
	PublishBurst         int           `env:"PUBLISH_BURST,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
}

// Endpoints splits the comma separated RPC endpoint list, order preserved.
// The first endpoint is the primary, the rest are failover targets.
func (c Config) Endpoints() []string {
	parts := strings.Split(c.RPCEndpoints, ",")
	endpoints := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			endpoints = append(endpoints, trimmed)
		}
	}
	return endpoints
}

// Words splits the comma separated censored words list.
func (c Config) Words() []string {
	if c.CensoredWords == "" {
		return nil
	}
	parts := strings.Split(c.CensoredWords, ",")
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	return words
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
