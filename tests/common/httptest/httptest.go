//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"storefront/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Identity carries the edge-proxy headers a request is performed with. A nil
// Identity produces an anonymous request.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

func Customer(userID uuid.UUID) *Identity {
	return &Identity{UserID: userID, Role: middleware.RoleCustomer}
}

func Admin(userID uuid.UUID) *Identity {
	return &Identity{UserID: userID, Role: middleware.RoleAdmin}
}

// executes HTTP request with optional identity headers
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, identity *Identity) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if identity != nil {
		req.Header.Set(middleware.HeaderUserID, identity.UserID.String())
		req.Header.Set(middleware.HeaderUserRole, identity.Role)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodes JSON response body into target struct
func DecodeResponseBody(t *testing.T, body *bytes.Buffer, target any) error {
	t.Helper()

	err := json.NewDecoder(body).Decode(target)
	require.NoError(t, err, "Failed to decode response body")

	return err
}
