package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+91 98765 43210", true},
		{"+91-98765-43210", true},
		{"+919876543210", true},
		{"+1 2025551234", false},
		{"+91 58765 43210", false},
		{"+91 98765 4321", false},
		{"9876543210", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidPhone(tc.phone), tc.phone)
	}
}

func TestValidPersonName(t *testing.T) {
	assert.True(t, ValidPersonName("Mary-Jane O'Neil"))
	assert.False(t, ValidPersonName("R2 D2"))
	assert.False(t, ValidPersonName("Jane_Doe"))
	assert.False(t, ValidPersonName(""))
}

func bindSubmit(t *testing.T, body string) (model.SubmitMessageRequest, map[string]string) {
	t.Helper()
	Setup()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.SubmitMessageRequest
	fields := Bind(c, &req)
	return req, fields
}

func TestBindSubmitMessageLengths(t *testing.T) {
	_, fields := bindSubmit(t, `{"name":"Asha Rao","email":"asha@example.com","subject":"Hello","message":"Hi"}`)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "message")

	req, fields := bindSubmit(t, `{"name":"Asha Rao","email":"asha@example.com","subject":"Hello","message":"0123456789"}`)
	assert.Nil(t, fields)
	assert.Equal(t, "0123456789", req.Message)
}

func TestBindSubmitNormalizes(t *testing.T) {
	req, fields := bindSubmit(t, `{"name":"  Asha Rao ","email":" Asha@Example.COM ","subject":"  Hello  ","message":"   long enough body   ","phone":"   "}`)
	require.Nil(t, fields)
	assert.Equal(t, "Asha Rao", req.Name)
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, "Hello", req.Subject)
	assert.Equal(t, "long enough body", req.Message)
	assert.Nil(t, req.Phone)
}

func TestBindSubmitCanonicalizesPhone(t *testing.T) {
	req, fields := bindSubmit(t, `{"name":"Asha Rao","email":"asha@example.com","subject":"Hello","message":"long enough body","phone":"+91`+strings.Repeat(" ", 40)+`98765-43210"}`)
	require.Nil(t, fields)
	require.NotNil(t, req.Phone)
	assert.Equal(t, "+919876543210", *req.Phone)
}

func TestValidPasswordLength(t *testing.T) {
	assert.True(t, ValidPasswordLength(strings.Repeat("a", MaxPasswordBytes)))
	assert.False(t, ValidPasswordLength(strings.Repeat("a", MaxPasswordBytes+1)))
	// 25 three-byte runes are 75 bytes.
	assert.False(t, ValidPasswordLength(strings.Repeat("€", 25)))
	assert.NoError(t, Var("secret123", "bcryptlen"))
	assert.Error(t, Var(strings.Repeat("x", 80), "bcryptlen"))
}

func TestBindSubmitRejectsBadFields(t *testing.T) {
	_, fields := bindSubmit(t, `{"name":"Agent 47","email":"nope","subject":"Hi","message":"long enough body","phone":"+1 2025551234"}`)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "subject")
	assert.Equal(t, "Please enter a valid Indian phone number (e.g., +91 98765 43210)", fields["phone"])
}

func TestBindMalformedJSON(t *testing.T) {
	_, fields := bindSubmit(t, `{"name":`)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}

func TestBindOptionalAcceptsEmptyBody(t *testing.T) {
	Setup()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/messages/x/read", nil)

	var req model.UpdateReadStatusRequest
	assert.Nil(t, BindOptional(c, &req))
	assert.Nil(t, req.IsRead)
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("admin@example.com", "required,email"))
	assert.Error(t, Var("admin@", "required,email"))
}
