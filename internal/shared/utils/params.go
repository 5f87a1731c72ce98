package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"adpilot/internal/shared/errors"
)

// ParseUintParam parses a positive numeric path parameter.
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}
	id, err := ParseID(raw)
	if err != nil {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return id, nil
}

// ParseOptionalUintQuery parses an optional numeric query parameter. A
// missing parameter yields nil.
func ParseOptionalUintQuery(c *gin.Context, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, errors.NewValidationError("invalid " + key)
	}
	return &id, nil
}

// ParseID parses a positive decimal identifier.
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, strconv.ErrRange
	}
	return uint(n), nil
}
