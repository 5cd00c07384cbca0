package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/component"
)

// Readiness returns a handler for readiness probes. The gateway is ready
// only once startup has completed (registry resolved, monitors running) and
// no component reports unhealthy.
func Readiness(serviceName string, ready func() bool, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK

		if ready != nil && !ready() {
			status = "starting"
			httpStatus = http.StatusServiceUnavailable
		} else if checker != nil {
			for _, ch := range checker(c.Request.Context()) {
				if ch.Status == component.StatusUnhealthy {
					status = "not_ready"
					httpStatus = http.StatusServiceUnavailable
					break
				}
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
