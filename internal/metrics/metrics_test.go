package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTransitionLabelsLegacyTrips(t *testing.T) {
	before := testutil.ToFloat64(TransitionsTotal.WithLabelValues("none", "pending_review"))
	RecordTransition("", "pending_review")
	after := testutil.ToFloat64(TransitionsTotal.WithLabelValues("none", "pending_review"))
	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestRecordCreditUsesAbsoluteAmount(t *testing.T) {
	before := testutil.ToFloat64(CreditCentsTotal.WithLabelValues("booking_used"))
	RecordCredit("booking_used", -1500)
	after := testutil.ToFloat64(CreditCentsTotal.WithLabelValues("booking_used"))
	if after-before != 1500 {
		t.Errorf("expected 1500 cents recorded, got %v", after-before)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "trips_club_http_request_duration_seconds") {
		t.Error("expected request histogram in output")
	}
}
