package app

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qiniu/x/xlog"
)

const RequestIDHeader = "X-Request-Id"

// SetUpRequest attaches a request scoped logger named after the request id.
func SetUpRequest(c *gin.Context) {
	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		c.Request.Header.Set(RequestIDHeader, requestID)
	}
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(XLogKey, xl)
	c.Header(RequestIDHeader, requestID)
}
