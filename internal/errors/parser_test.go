package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		context string
		code    string
	}{
		{name: "nil", err: nil, code: InternalServerError},
		{name: "record not found", err: fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound), context: "get business", code: ResourceNotFound},
		{name: "postgres duplicate slug", err: stderrors.New(`ERROR: duplicate key value violates unique constraint "idx_businesses_slug" (SQLSTATE 23505)`), code: BusinessSlugExists},
		{name: "sqlite duplicate", err: stderrors.New("UNIQUE constraint failed: businesses.id"), code: ResourceAlreadyExists},
		{name: "not null", err: stderrors.New(`null value in column "phone" violates not-null constraint`), code: ValidationRequired},
		{name: "foreign key", err: stderrors.New("violates foreign key constraint"), code: ResourceConflict},
		{name: "connection", err: stderrors.New("dial tcp: connection refused"), code: InternalDatabase},
		{name: "unknown", err: stderrors.New("boom"), context: "create business", code: InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_ContextMessages(t *testing.T) {
	assert.Equal(t, "Registration not found", ParseError(gorm.ErrRecordNotFound, "get registration").Message)
	assert.Equal(t, "Business not found", ParseError(gorm.ErrRecordNotFound, "get business").Message)
	assert.Equal(t, "Failed to submit registration. Please try again.", ParseError(stderrors.New("x"), "submit registration").Message)
}

func TestParseAndRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ParseAndRespond(c, gorm.ErrRecordNotFound, "get business")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ResourceNotFound, body.Error)
}
