package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/billix/billix-be/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUserDB struct {
	users map[string]*model.User
	err   error
}

func (f *fakeUserDB) CreateUser(_ context.Context, user *model.User) error {
	f.users[user.Id] = user
	return nil
}

func (f *fakeUserDB) GetUser(_ context.Context, id string) (*model.User, error) {
	return f.users[id], f.err
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func newAuthRouter(userDB *fakeUserDB, config *AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(userDB, NewJWTVerifier(testSecret, ""), config), func(c *gin.Context) {
		uid := ""
		if identity := GetIdentity(c); identity != nil {
			uid = identity.UID
		}
		name := ""
		if user := GetUser(c); user != nil {
			name = user.DisplayName
		}
		c.JSON(http.StatusOK, gin.H{"uid": uid, "name": name})
	})
	return r
}

func doRequest(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	userDB := &fakeUserDB{users: map[string]*model.User{
		"u1": {Id: "u1", DisplayName: "Dana"},
	}}

	tests := []struct {
		name          string
		config        *AuthConfig
		authorization string
		wantStatus    int
		wantBody      string
	}{
		{"missing header", nil, "", http.StatusUnauthorized, "no authorization header"},
		{"bad scheme", nil, "Basic abc", http.StatusUnauthorized, "incorrectly formatted"},
		{"bad token", nil, "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"no profile", nil, "Bearer " + signToken(t, validClaims("u2")), http.StatusForbidden, "must have a user profile"},
		{"profile", nil, "Bearer " + signToken(t, validClaims("u1")), http.StatusOK, `"name":"Dana"`},
		{"anonymous allowed", &AuthConfig{SessionNotRequired: true}, "", http.StatusOK, `"uid":""`},
		{"no profile allowed", &AuthConfig{AppAccountNotRequired: true}, "Bearer " + signToken(t, validClaims("u2")), http.StatusOK, `"uid":"u2"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(newAuthRouter(userDB, tt.config), tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthDatabaseError(t *testing.T) {
	userDB := &fakeUserDB{users: map[string]*model.User{}, err: errors.New("down")}
	w := doRequest(newAuthRouter(userDB, nil), "Bearer "+signToken(t, validClaims("u1")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier(testSecret, "billix")
	ctx := context.Background()

	claims := validClaims("u1")
	claims["iss"] = "billix"
	identity, err := verifier.Verify(ctx, signToken(t, claims))
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UID)

	_, err = verifier.Verify(ctx, signToken(t, validClaims("u1")))
	assert.Error(t, err, "issuer is required")

	expired := jwt.MapClaims{"sub": "u1", "iss": "billix", "exp": time.Now().Add(-time.Minute).Unix()}
	_, err = verifier.Verify(ctx, signToken(t, expired))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noExpiry := jwt.MapClaims{"sub": "u1", "iss": "billix"}
	_, err = verifier.Verify(ctx, signToken(t, noExpiry))
	assert.Error(t, err)

	noSubject := jwt.MapClaims{"iss": "billix", "exp": time.Now().Add(time.Hour).Unix()}
	_, err = verifier.Verify(ctx, signToken(t, noSubject))
	assert.ErrorIs(t, err, errMissingSubject)

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = verifier.Verify(ctx, otherSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, isAdmin := range []bool{true, false} {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			c.Set(USER_KEY, &model.User{Id: "u1", IsAdmin: isAdmin})
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if isAdmin {
			assert.Equal(t, http.StatusNoContent, w.Code)
		} else {
			assert.Equal(t, http.StatusForbidden, w.Code)
		}
	}
}
