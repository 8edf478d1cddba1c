package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	TOKEN_KEY = "authToken"
	USER_KEY  = "user"
)

// Identity is the verified bearer of a request. UID is the identity provider's user id.
type Identity struct {
	UID    string
	Claims map[string]interface{}
}

type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (fv *FirebaseVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	token, err := fv.client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return &Identity{UID: token.UID, Claims: token.Claims}, nil
}

type AuthConfig struct {
	// SessionNotRequired lets anonymous requests through without an identity
	SessionNotRequired bool
	// AppAccountNotRequired lets verified identities without a profile through
	AppAccountNotRequired bool
}

func abortWith(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

func Auth(userDB db.UserDatabase, verifier IdentityVerifier, config *AuthConfig) gin.HandlerFunc {
	if config == nil {
		config = &AuthConfig{}
	}
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader("Authorization")
		if authorizationHeader == "" {
			if config.SessionNotRequired {
				return
			}
			abortWith(c, http.StatusUnauthorized, "no authorization header")
			return
		}
		if strings.Index(authorizationHeader, "Bearer ") != 0 || len(authorizationHeader) < 8 {
			abortWith(c, http.StatusUnauthorized, "incorrectly formatted authorization header")
			return
		}

		identity, err := verifier.Verify(c, authorizationHeader[7:])
		if err != nil {
			if config.SessionNotRequired {
				return
			}
			abortWith(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(TOKEN_KEY, identity)

		user, err := userDB.GetUser(c, identity.UID)
		if err != nil {
			logrus.WithError(err).WithField("uid", identity.UID).Error("failed to load user profile")
			abortWith(c, http.StatusInternalServerError, "database error")
			return
		}
		if user == nil {
			if config.AppAccountNotRequired {
				return
			}
			abortWith(c, http.StatusForbidden, "must have a user profile")
			return
		}
		c.Set(USER_KEY, user)
	}
}

// RequireAdmin must run after Auth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || !user.IsAdmin {
			abortWith(c, http.StatusForbidden, "admin only")
			return
		}
	}
}

// GetIdentity returns nil for anonymous requests
func GetIdentity(c *gin.Context) *Identity {
	identity, ok := c.Get(TOKEN_KEY)
	if !ok {
		return nil
	}
	return identity.(*Identity)
}

// GetUser returns nil when the request has no profile
func GetUser(c *gin.Context) *model.User {
	user, ok := c.Get(USER_KEY)
	if !ok {
		return nil
	}
	return user.(*model.User)
}

type UserWithIdentity struct {
	*Identity
	*model.User
}

func GetUserWithIdentity(c *gin.Context) *UserWithIdentity {
	return &UserWithIdentity{
		Identity: GetIdentity(c),
		User:     GetUser(c),
	}
}

// MustGetUser panics when Auth did not store a profile on the context
func MustGetUser(c *gin.Context) *model.User {
	return c.MustGet(USER_KEY).(*model.User)
}
