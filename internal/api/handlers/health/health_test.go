package health

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	rr := httptest.NewRecorder()
	Handler(pinger{}, logger).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("healthy status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Handler(pinger{err: errors.New("down")}, logger).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d", rr.Code)
	}
}
