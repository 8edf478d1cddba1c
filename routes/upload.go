package routes

import (
	"net/http"

	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/services"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type uploadRoutes struct {
	blobs services.BlobStore
}

func AddUploadRoutes(
	group *gin.RouterGroup,
	db db.UserDatabase,
	blobs services.BlobStore,
	verifier middleware.IdentityVerifier,
	limiter gin.HandlerFunc,
) {
	routes := uploadRoutes{blobs}
	uploads := group.Group("/uploads", middleware.Auth(db, verifier, &middleware.AuthConfig{}))
	uploads.POST("", limiter, util.HandlerWrapper(routes.upload, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

type uploadRes struct {
	BlobName string `json:"blobName"`
	URL      string `json:"url"`
}

// upload expects a multipart form with the file under "file"
func (ur *uploadRoutes) upload(c *gin.Context) (interface{}, *util.HTTPError) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "expected a multipart file named file",
		}
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "could not read uploaded file",
		}
	}
	defer file.Close()

	contentType, err := services.SniffContentType(file)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	blobName, err := ur.blobs.Upload(c, middleware.MustGetUser(c).Id, contentType, fileHeader.Size, file)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	return &uploadRes{
		BlobName: blobName,
		URL:      ur.blobs.PublicURL(blobName),
	}, nil
}
