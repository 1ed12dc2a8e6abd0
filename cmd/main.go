package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"tokenlounge/domain"
	"tokenlounge/httpapi"
	"tokenlounge/hub"
	"tokenlounge/identity"
	"tokenlounge/ledger"
	"tokenlounge/moderation"
	"tokenlounge/observability"
	"tokenlounge/repositories"
	"tokenlounge/rewards"
	"tokenlounge/runtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer executes before the process
// exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	mint, err := domain.ParseWallet(config.TokenMint)
	if err != nil {
		return fmt.Errorf("TOKEN_MINT: %w", err)
	}
	admin, err := domain.ParseWallet(config.AdminWallet)
	if err != nil {
		return fmt.Errorf("ADMIN_WALLET: %w", err)
	}
	replacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Stores (BadgerDB & Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	// 3. Ledger gateway
	stats := observability.NewStats()
	client, err := ledger.NewClient(config.Endpoints(), config.RPCTimeout, log, stats)
	if err != nil {
		return fmt.Errorf("ledger client: %w", err)
	}
	gateway, err := ledger.NewGateway(client, config.RewardWalletSecret)
	if err != nil {
		return fmt.Errorf("ledger gateway: %w", err)
	}

	// 4. Hub & reward engine
	censor, err := moderation.NewCensor(config.Words(), replacement)
	if err != nil {
		return fmt.Errorf("censor: %w", err)
	}
	messages := repositories.NewMessageRepository(db, log)
	searchIndex := repositories.NewSearchIndex(writer, log)
	lounge := hub.NewHub(messages, searchIndex, censor, moderation.NewAuthority(admin), stats, log)

	engine := rewards.NewEngine(gateway, repositories.NewClaimRepository(db, log), rewards.EngineConfig{
		Mint:         mint,
		RewardWallet: gateway.AuthorityWallet(),
		Decimals:     uint8(config.TokenDecimals),
		YearlyRate:   config.RewardRate,
		Cooldown:     config.ClaimCooldown,
	}, stats, log)

	// 5. HTTP surface
	wsHandler := httpapi.NewWSHandler(
		lounge, gateway, identity.NewVerifier(),
		httpapi.NewPublishLimiter(config.PublishRate, config.PublishBurst),
		mint, config.ConnectionBufferSize, config.DeliveryTimeout, log,
	)
	router := httpapi.NewRouter(
		wsHandler,
		httpapi.NewRewardsHandler(engine, log),
		httpapi.NewSearchHandler(searchIndex, messages, log),
		stats,
	)
	server := httpapi.NewServer(fmt.Sprintf("%s:%d", config.Host, config.Port), router, log)

	// 6. Supervision
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := runtime.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		lounge,
		server,
		observability.NewReporter(log, stats, config.MetricInterval),
	)
	sup.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}
