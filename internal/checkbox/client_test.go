package checkbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkbox-fiscalizer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		CheckboxAPIURL: srv.URL,
		LicenseKey:     "test-license",
		Timeout:        5 * time.Second,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestSignIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cashier/signinPinCode", r.URL.Path)
		assert.Equal(t, "test-license", r.Header.Get("X-License-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1234", body["pin_code"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1"}`))
	})

	session, err := client.SignIn(context.Background(), "1234")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.False(t, session.IssuedAt.IsZero())
}

func TestSignInEmptyPIN(t *testing.T) {
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.SignIn(context.Background(), "  ")

	assert.ErrorIs(t, err, ErrMissingPIN)
}

func TestSignInUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"cashier.wrong_pin","message":"wrong pin"}`))
	})

	_, err := client.SignIn(context.Background(), "0000")

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.True(t, IsCode(err, "cashier.wrong_pin"))
}

func TestCurrentShiftAbsent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cashier/shift", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "test-license", r.Header.Get("X-License-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`null`))
	})

	shift, err := client.CurrentShift(context.Background(), Session{Token: "tok-1"})

	require.NoError(t, err)
	assert.Nil(t, shift)
}

func TestCurrentShiftOpen(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"shift-1","status":"OPENED"}`))
	})

	shift, err := client.CurrentShift(context.Background(), Session{Token: "tok-1"})

	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.Equal(t, "shift-1", shift.ID)
	assert.Equal(t, ShiftStatusOpened, shift.Status)
}

func TestOpenShift(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shifts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"shift-2","status":"CREATED"}`))
	})

	shift, err := client.OpenShift(context.Background(), Session{Token: "tok-1"})

	require.NoError(t, err)
	assert.Equal(t, "shift-2", shift.ID)
}

func TestCloseShiftErrorCodeDecoded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shifts/close", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"shift.not_opened","message":"Зміну не відкрито"}`))
	})

	err := client.CloseShift(context.Background(), Session{Token: "tok-1"})

	require.Error(t, err)
	assert.True(t, IsCode(err, CodeShiftNotOpened))
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestCloseShiftNonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	err := client.CloseShift(context.Background(), Session{Token: "tok-1"})

	require.Error(t, err)
	assert.False(t, IsCode(err, CodeShiftNotOpened))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestCreateReceiptEndpoints(t *testing.T) {
	tests := []struct {
		kind     ReceiptKind
		wantPath string
	}{
		{ReceiptKindSell, "/receipts/sell"},
		{ReceiptKindReturn, "/receipts/return"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var gotPath string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path

				var payload ReceiptPayload
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"receipt-1"}`))
			})

			payload := ReceiptPayload{
				Goods:    []ReceiptGood{{Good: Good{Code: "SKU-1", Name: "Tea", Price: 1999}, Quantity: 2000}},
				Payments: []Payment{{Type: "CASHLESS", Value: 3998}},
			}
			rcpt, err := client.CreateReceipt(context.Background(), Session{Token: "tok-1"}, payload, tt.kind)

			require.NoError(t, err)
			assert.Equal(t, "receipt-1", rcpt.ID)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestStatusOfNonAPIError(t *testing.T) {
	assert.Zero(t, StatusOf(context.DeadlineExceeded))
	assert.False(t, IsCode(context.DeadlineExceeded, CodeShiftNotOpened))
}
