package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

// bindStrictJSON decodes a request body rejecting unknown fields, matching
// the strict payload contract of the legacy admin clients.
func bindStrictJSON(c *gin.Context, dest interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	return nil
}
