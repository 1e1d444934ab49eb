package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/response"
	appValidator "github.com/deskward/deskward/pkg/validator"
)

const (
	defaultPage    = 1
	defaultPerPage = 50
)

// bindAndValidate decodes the JSON body into dest and applies its validate tags. On failure
// it writes a BAD_REQUEST naming the offending fields and returns false.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(describeBindError(err)))
		return false
	}
	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(describeBindError(err)))
		return false
	}
	return true
}

func describeBindError(err error) string {
	var (
		failures appValidator.ValidationErrors
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &failures) && len(failures) > 0:
		return failures.Error()
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind())
	default:
		return "invalid JSON payload"
	}
}

// queryInt reads a positive integer query parameter; anything else yields fallback.
func queryInt(c *gin.Context, key string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

// pageParams reads page and per_page; the service layer clamps per_page.
func pageParams(c *gin.Context) (page, perPage int) {
	return queryInt(c, "page", defaultPage), queryInt(c, "per_page", defaultPerPage)
}
