package main

import (
	"context"
	"fmt"
	"time"

	"github.com/paycrest/bridge-wallet/config"
	"github.com/paycrest/bridge-wallet/controllers"
	"github.com/paycrest/bridge-wallet/routers"
	"github.com/paycrest/bridge-wallet/services/wallet"
	"github.com/paycrest/bridge-wallet/services/widget"
	"github.com/paycrest/bridge-wallet/storage"
	"github.com/paycrest/bridge-wallet/tasks"
	"github.com/paycrest/bridge-wallet/utils/logger"
)

func main() {
	// Set timezone
	conf := config.ServerConfig()
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		logger.Fatalf("invalid timezone %q: %v", conf.Timezone, err)
	}
	time.Local = loc

	// Initialize Redis
	if err := storage.InitializeRedis(); err != nil {
		logger.Fatalf("Redis initialization: %v", err)
	}
	defer storage.CloseRedis()

	walletConf := config.WalletConfig()
	if walletConf.BackendURL == "" {
		logger.Fatalf("WALLET_BACKEND_URL is required")
	}

	cache := widget.NewLinkCache(storage.RedisClient, walletConf.KycLinkTTL)
	session := widget.NewSession(wallet.NewClient(walletConf), cache, walletConf)
	defer session.Close()

	// Initial load
	ctx, cancel := context.WithTimeout(context.Background(), walletConf.RequestTimeout)
	if err := session.RefreshAll(ctx); err != nil {
		logger.Warnf("Initial refresh: %v", err)
	}
	cancel()

	// Start status polling
	scheduler, err := tasks.StartPolling(session, walletConf.PollInterval, walletConf.RequestTimeout)
	if err != nil {
		logger.Fatalf("Status polling: %v", err)
	}
	defer scheduler.Stop()

	// Run the server
	router := routers.Routes(controllers.NewController(session))

	appServer := fmt.Sprintf("%s:%s", conf.Host, conf.Port)
	logger.Infof("Server Running at :%v", appServer)

	logger.Fatalf("%v", router.Run(appServer))
}
