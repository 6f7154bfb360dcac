package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
)

func newMappedErrorTestContext(t *testing.T, locale string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/orders/checkout/", nil)
	if locale != "" {
		c.Request.Header.Set("Accept-Language", locale)
	}
	return c, recorder
}

func decodeErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return body
}

func TestRespondWithMappedErrorRendersStockProductName(t *testing.T) {
	c, recorder := newMappedErrorTestContext(t, "")

	respondWithMappedError(c, service.NewInsufficientStockError("Blue Widget"), checkoutErrorRules,
		response.CodeInternal, "error.internal")

	body := decodeErrorResponse(t, recorder)
	if body.StatusCode != response.CodeConflict {
		t.Fatalf("expected conflict code %d, got %d", response.CodeConflict, body.StatusCode)
	}
	if body.Msg != "Insufficient stock for Blue Widget" {
		t.Fatalf("expected product name in message, got %q", body.Msg)
	}
}

func TestRespondWithMappedErrorStockMessageLocalized(t *testing.T) {
	c, recorder := newMappedErrorTestContext(t, "fr-FR")

	respondWithMappedError(c, service.NewInsufficientStockError("Panier Bleu"), checkoutErrorRules,
		response.CodeInternal, "error.internal")

	body := decodeErrorResponse(t, recorder)
	if body.Msg != "Stock insuffisant pour Panier Bleu" {
		t.Fatalf("expected localized message with product name, got %q", body.Msg)
	}
}

func TestRespondWithMappedErrorPlainRule(t *testing.T) {
	c, recorder := newMappedErrorTestContext(t, "")

	respondWithMappedError(c, service.ErrEmptyCart, checkoutErrorRules,
		response.CodeInternal, "error.internal")

	body := decodeErrorResponse(t, recorder)
	if body.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected bad request code %d, got %d", response.CodeBadRequest, body.StatusCode)
	}
	if body.Msg != "Cart is empty" {
		t.Fatalf("expected cart empty message, got %q", body.Msg)
	}
}
