package saving

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsim/internal/application/saving/usecases"
	"finsim/internal/interfaces/http/middleware"
	"finsim/internal/shared/logger"
	"finsim/internal/shared/utils"
)

type Handler struct {
	openUC       usecases.OpenSubscriptionExecutor
	cancelUC     usecases.CancelSubscriptionExecutor
	depositUC    usecases.DepositNextExecutor
	settleUC     usecases.SettleMaturityExecutor
	getUC        usecases.GetSubscriptionExecutor
	maturitiesUC usecases.ListPendingMaturitiesExecutor
	quoteUC      usecases.PreviewInterestExecutor
	autoDebit    usecases.AutoDebitRunner
	logger       logger.Interface
}

type Deps struct {
	Open       usecases.OpenSubscriptionExecutor
	Cancel     usecases.CancelSubscriptionExecutor
	Deposit    usecases.DepositNextExecutor
	Settle     usecases.SettleMaturityExecutor
	Get        usecases.GetSubscriptionExecutor
	Maturities usecases.ListPendingMaturitiesExecutor
	Quote      usecases.PreviewInterestExecutor
	AutoDebit  usecases.AutoDebitRunner
}

func NewHandler(deps Deps, log logger.Interface) *Handler {
	return &Handler{
		openUC:       deps.Open,
		cancelUC:     deps.Cancel,
		depositUC:    deps.Deposit,
		settleUC:     deps.Settle,
		getUC:        deps.Get,
		maturitiesUC: deps.Maturities,
		quoteUC:      deps.Quote,
		autoDebit:    deps.AutoDebit,
		logger:       log.Named("saving-handler"),
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	utils.ErrorResponseWithError(c, toAppError(err))
}

// OpenSubscription handles POST /subscriptions
func (h *Handler) OpenSubscription(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req OpenSubscriptionRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	result, err := h.openUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription opened")
}

// GetSubscription handles GET /subscriptions/:id
func (h *Handler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	subscriptionID, err := parseIDParam(c, "id", "subscription")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetSubscriptionQuery{
		UserID:         userID,
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CancelSubscription handles POST /subscriptions/:id/cancel
func (h *Handler) CancelSubscription(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	subscriptionID, err := parseIDParam(c, "id", "subscription")
	if err != nil {
		h.fail(c, err)
		return
	}

	err = h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		UserID:         userID,
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription canceled", nil)
}

// Deposit handles POST /subscriptions/:id/deposits
func (h *Handler) Deposit(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	subscriptionID, err := parseIDParam(c, "id", "subscription")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req DepositRequest
	if c.Request.ContentLength != 0 && !utils.BindJSON(c, &req) {
		return
	}

	result, err := h.depositUC.Execute(c.Request.Context(), usecases.DepositNextCommand{
		UserID:         userID,
		SubscriptionID: subscriptionID,
		Amount:         req.Amount,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Deposit recorded")
}

// Settle handles POST /subscriptions/:id/settlement
func (h *Handler) Settle(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	subscriptionID, err := parseIDParam(c, "id", "subscription")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.settleUC.Execute(c.Request.Context(), usecases.SettleMaturityCommand{
		UserID:         userID,
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription settled", result)
}

// ListPendingMaturities handles GET /maturities
func (h *Handler) ListPendingMaturities(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	result, err := h.maturitiesUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Quote handles GET /quotes
func (h *Handler) Quote(c *gin.Context) {
	query, err := parseQuoteQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.quoteUC.Execute(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RunAutoDebit handles POST /internal/autodebit/users/:user_id. Per
// subscription failures are part of the outcome list, never an error status.
func (h *Handler) RunAutoDebit(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id", "user")
	if err != nil {
		h.fail(c, err)
		return
	}

	outcomes := h.autoDebit.RunForUser(c.Request.Context(), userID)
	h.logger.Infow("auto-debit triggered over HTTP", "user_id", userID, "subscriptions", len(outcomes))

	utils.SuccessResponse(c, http.StatusOK, "", outcomes)
}
