package routes

import (
	"net/http"

	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

const MaxDisplayNameLen = 50

type userRoutes struct {
	db db.UserDatabase
}

func AddUserRoutes(group *gin.RouterGroup, userDB db.UserDatabase, verifier middleware.IdentityVerifier) {
	routes := userRoutes{userDB}
	users := group.Group("/users")
	users.POST("",
		middleware.Auth(userDB, verifier, &middleware.AuthConfig{AppAccountNotRequired: true}),
		util.HandlerWrapper(routes.createUser, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	users.GET("/me",
		middleware.Auth(userDB, verifier, &middleware.AuthConfig{}),
		util.HandlerWrapper(routes.getMe, &util.HandlerOpts{}))
}

type createUserReq struct {
	DisplayName string `json:"displayName"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	if middleware.GetUser(c) != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusConflict,
			Message: "profile already exists",
		}
	}
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	req.DisplayName = util.SanitizeText(req.DisplayName)
	if len(req.DisplayName) == 0 || len(req.DisplayName) > MaxDisplayNameLen {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "display name must be between 1 and 50 characters",
		}
	}

	uid := middleware.GetIdentity(c).UID
	user := &model.User{
		Id:          uid,
		DisplayName: req.DisplayName,
		Avatar:      util.Avatar(uid),
	}
	if err := ur.db.CreateUser(c, user); err != nil {
		if db.IsDupKeyErr(err) {
			return nil, &util.HTTPError{
				Status:  http.StatusConflict,
				Message: "profile already exists",
			}
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return user, nil
}

func (ur *userRoutes) getMe(c *gin.Context) (interface{}, *util.HTTPError) {
	user := middleware.MustGetUser(c)
	return user.MakeDisplayableFor(user), nil
}
