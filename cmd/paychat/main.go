package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"payments-chat-backend/internal/common/cache"
	"payments-chat-backend/internal/common/config"
	"payments-chat-backend/internal/common/logger"
	"payments-chat-backend/internal/common/validation"
	directoryRepo "payments-chat-backend/internal/features/directory/repository"
	ledgerRepo "payments-chat-backend/internal/features/ledger/repository/redis"
	ledgerService "payments-chat-backend/internal/features/ledger/service"
	receiptService "payments-chat-backend/internal/features/receipt/service"
	transferService "payments-chat-backend/internal/features/transfer/service"
	"payments-chat-backend/internal/platform/paymentsapi"
	"payments-chat-backend/internal/platform/redis"
	"payments-chat-backend/internal/workers"
)

const serviceName = "paychat"

var Version = "dev"

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:     "paychat",
		Short:   "Terminal client for the payments chat",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitCLI(serviceName, debug)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Verbose logging to stderr")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(balanceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps is the subset of the server wiring a terminal session needs.
type deps struct {
	redis      *redis.Client
	api        *paymentsapi.Client
	ledger     *ledgerService.Ledger
	resolver   *transferService.Resolver
	dispatcher *transferService.Dispatcher
	receipts   *receiptService.Generator
	worker     *workers.BalanceSyncWorker
}

func openDeps(ctx context.Context) (*deps, error) {
	cfg := config.Load()

	rc, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	store := ledgerRepo.NewStore(rc.Client)
	ledger := ledgerService.NewLedger(store, store, logger.Component("ledger"))
	api := paymentsapi.NewClient(cfg.PaymentsAPI.BaseURL, cfg.PaymentsAPI.Timeout, logger.Component("payments_api"))

	d := &deps{redis: rc, api: api, ledger: ledger}

	// history and balance do not need the transfer side; a missing directory
	// only matters to chat.
	directory, err := directoryRepo.Load(cfg.Directory.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Directory.Path).Msg("user directory unavailable, using an empty one")
		directory = directoryRepo.New(nil)
	}

	queue := workers.NewBalanceSyncQueue(rc.Client, cfg.Workers.BalanceSyncStream)
	d.resolver = transferService.NewResolver(directory, api, logger.Component("resolver"))
	d.dispatcher = transferService.NewDispatcher(api, ledger, queue, cfg.PaymentsAPI.StoreName, logger.Component("dispatcher"))
	d.receipts = receiptService.NewGenerator(api, logger.Component("receipts"),
		receiptService.WithUserCache(cache.NewCacheService(rc.Client), cfg.Receipt.UserCacheTTL),
	)
	d.worker = workers.NewBalanceSyncWorker(rc.Client, api,
		cfg.Workers.BalanceSyncStream, cfg.Workers.BalanceSyncGroup, logger.Component("balance_sync"))

	return d, nil
}

func (d *deps) Close() {
	d.dispatcher.Wait()
	_ = d.redis.Close()
}

func userFlag(cmd *cobra.Command) (int64, error) {
	id, err := cmd.Flags().GetInt64("user")
	if err != nil {
		return 0, err
	}
	if err := validation.ValidatePositiveInt(id, "user"); err != nil {
		return 0, err
	}
	return id, nil
}
