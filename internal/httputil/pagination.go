package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/codepool/internal/validation"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 50
	// MaxPageLimit caps every page of plans, masked codes and ledger entries.
	MaxPageLimit = 100
)

// Page is one offset/limit window over a listing.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Validate checks the window bounds.
func (p Page) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Offset, validation.Min(0)),
		validation.Field(&p.Limit, validation.Required, validation.Min(1), validation.Max(MaxPageLimit)),
	)
}

// ParsePage reads offset and limit from the query string. Failures wrap ErrInvalidInput.
func ParsePage(c *gin.Context) (Page, error) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return Page{}, err
	}
	limit, err := queryInt(c, "limit", DefaultPageLimit)
	if err != nil {
		return Page{}, err
	}

	page := Page{Offset: offset, Limit: limit}
	if err := page.Validate(); err != nil {
		return Page{}, customValidation.WrapValidationError(err)
	}
	return page, nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, customValidation.WrapValidationError(
			validation.Errors{name: validation.NewError("validation_is_int", "must be an integer")},
		)
	}
	return n, nil
}
