package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContractHandler_CreateContract_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ContractHandler{}
	r.POST("/contracts", handler.CreateContract)

	req, _ := http.NewRequest("POST", "/contracts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContractHandler_CreateContract_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &ContractHandler{}
	r.POST("/contracts", handler.CreateContract)

	req, _ := http.NewRequest("POST", "/contracts", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContractHandler_GetContract_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &ContractHandler{}
	r.GET("/contracts/:id", handler.GetContract)

	req, _ := http.NewRequest("GET", "/contracts/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContractHandler_GetBreakdown_InvalidMilestoneQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &ContractHandler{}
	r.GET("/contracts/:id/breakdown", handler.GetBreakdown)

	contractID := uuid.New()
	req, _ := http.NewRequest("GET", "/contracts/"+contractID.String()+"/breakdown?milestone_id=bogus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_InitiatePayment_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{}
	r.POST("/contracts/:id/payments", handler.InitiatePayment)

	contractID := uuid.New()
	req, _ := http.NewRequest("POST", "/contracts/"+contractID.String()+"/payments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_InitiatePayment_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &PaymentHandler{}
	r.POST("/contracts/:id/payments", handler.InitiatePayment)

	contractID := uuid.New()
	req, _ := http.NewRequest("POST", "/contracts/"+contractID.String()+"/payments", strings.NewReader(`{"milestone_id": 42}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_RejectsUnsignedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewWebhookHandler(nil, nil, nil, nil, "whsec_test")
	r.POST("/webhooks/gateway", handler.HandleGatewayWebhook)

	req, _ := http.NewRequest("POST", "/webhooks/gateway", strings.NewReader(`{"type":"payment_intent.succeeded"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
