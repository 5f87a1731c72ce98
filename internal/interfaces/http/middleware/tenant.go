package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/utils"
)

// maxTenantProbeBody bounds how much of a request body is buffered while
// looking for a tenantId field.
const maxTenantProbeBody = 1 << 20

// TenantTarget is the tenant a request acts on.
type TenantTarget struct {
	// TenantID is nil when neither the request nor the user names a tenant.
	TenantID *uint
	// Explicit is true when the request itself named the tenant rather than
	// falling back to the user's home tenant.
	Explicit bool
}

// ResolveTenant picks the first tenantId found in the path, the JSON body,
// then the query string, falling back to the user's home tenant. The body
// is restored for the handler.
func ResolveTenant(c *gin.Context) (TenantTarget, error) {
	if raw := c.Param(constants.ParamTenantID); raw != "" {
		return explicitTenant(raw)
	}

	fromBody, err := tenantFromBody(c)
	if err != nil {
		return TenantTarget{}, err
	}
	if fromBody != "" {
		return explicitTenant(fromBody)
	}

	if raw := c.Query(constants.ParamTenantID); raw != "" {
		return explicitTenant(raw)
	}

	return TenantTarget{TenantID: GetHomeTenant(c)}, nil
}

func explicitTenant(raw string) (TenantTarget, error) {
	id, err := utils.ParseID(raw)
	if err != nil {
		return TenantTarget{}, errors.NewBadRequestError("invalid tenantId", raw)
	}
	return TenantTarget{TenantID: &id, Explicit: true}, nil
}

// tenantFromBody returns the tenantId field of a JSON body as text, or ""
// when the body is absent, not JSON, or has no such field.
func tenantFromBody(c *gin.Context) (string, error) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return "", nil
	}
	if !strings.HasPrefix(c.ContentType(), constants.ContentTypeJSON) {
		return "", nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTenantProbeBody))
	if err != nil {
		return "", errors.NewBadRequestError("failed to read request body")
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), c.Request.Body))

	var probe struct {
		TenantID json.RawMessage `json:"tenantId"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || len(probe.TenantID) == 0 {
		return "", nil
	}

	raw := strings.TrimSpace(string(probe.TenantID))
	if raw == "null" {
		return "", nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	if raw == "" {
		return "", nil
	}
	return raw, nil
}
