package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"app/internal/config"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済ゲートウェイからのwebhook。
// Bearer認証の代わりにHMAC署名ヘッダで呼び出し元を検証する。
type PaymentHandler struct {
	uc  *usecase.PaymentUsecase
	cfg config.Config
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase, cfg config.Config) *PaymentHandler {
	return &PaymentHandler{uc: uc, cfg: cfg}
}

type PaymentWebhookRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/webhook", h.webhook)
}

func (h *PaymentHandler) webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//X-Webhook-Signature: hex(hmac-sha256(body, secret))
	sig := c.Request().Header.Get("X-Webhook-Signature")
	if !h.verifySignature(body, sig) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid signature"})
	}

	var req PaymentWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.RecordResult(c.Request().Context(), usecase.PaymentResultInput{
		TransactionID: req.TransactionID,
		Status:        req.Status,
		Notes:         req.Notes,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

func (h *PaymentHandler) verifySignature(body []byte, sig string) bool {
	if sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.cfg.PaymentWebhookSecret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(sig))
}
