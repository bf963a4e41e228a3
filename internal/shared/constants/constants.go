package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	// HeaderXUserID carries the caller identity set by the trusted gateway.
	HeaderXUserID = "X-User-ID"

	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableSavingSubscriptions    = "saving_subscriptions"
	TableSavingPaymentHistories = "saving_payment_histories"
	TableSavingProducts         = "saving_products"
	TableSavingProductOptions   = "saving_product_options"
	TableSavingOptionRates      = "saving_option_rates"
	TableWallets                = "wallets"
	TableWalletTransactions     = "wallet_transactions"
)
