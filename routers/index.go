package routers

import (
	"github.com/gin-gonic/gin"
	"github.com/paycrest/bridge-wallet/config"
	"github.com/paycrest/bridge-wallet/controllers"
	"github.com/paycrest/bridge-wallet/routers/middleware"
	"github.com/paycrest/bridge-wallet/utils/logger"
)

var serverConf = config.ServerConfig()
var walletConf = config.WalletConfig()

// Routes builds the engine serving the widget API
func Routes(ctrl *controllers.Controller) *gin.Engine {
	if !serverConf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if serverConf.Debug {
		router.Use(gin.Logger())
	}

	if err := router.SetTrustedProxies(serverConf.TrustedProxies); err != nil {
		logger.Errorf("Invalid trusted proxies: %v", err)
	}

	router.Use(middleware.CORSMiddleware(walletConf.AppOrigin))
	router.Use(middleware.RateLimitMiddleware(serverConf.RateLimitUnauthenticated))

	RegisterRoutes(router, ctrl)

	return router
}

// RegisterRoutes mounts the widget endpoints on route
func RegisterRoutes(route *gin.Engine, ctrl *controllers.Controller) {
	v1 := route.Group("/v1/widget")

	v1.GET("state", ctrl.GetState)
	v1.POST("refresh", ctrl.Refresh)
	v1.POST("initialize", ctrl.Initialize)
	v1.POST("messages", ctrl.HandleMessage)

	v1.PUT("drafts/kyc", ctrl.UpdateKycDraft)
	v1.PUT("drafts/control-person", ctrl.UpdateControlPersonDraft)
	v1.PUT("drafts/business-documents", ctrl.UpdateBusinessDocumentsDraft)

	v1.POST("kyc", ctrl.SubmitKyc)
	v1.POST("kyb/control-person", ctrl.SubmitControlPerson)
	v1.POST("kyb/business-documents", ctrl.SubmitBusinessDocuments)

	v1.POST("wallet", ctrl.CreateWallet)
	v1.GET("tos-link", ctrl.GetTosLink)
	v1.GET("activity/more", ctrl.LoadMoreActivity)
	v1.GET("recipients", ctrl.SearchRecipients)

	v1.GET("external-accounts", ctrl.GetExternalAccounts)
	v1.POST("external-accounts", ctrl.AddExternalAccount)
	v1.POST("transfers/external", ctrl.TransferFromExternal)
	v1.GET("deposit-instructions", ctrl.GetDepositInstructions)
	v1.POST("send", ctrl.Send)
	v1.POST("deposit", ctrl.Deposit)
}
