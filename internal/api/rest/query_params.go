package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store"
)

const MAX_PAGE_SIZE = 100

// Legit filter values of GET /journal
const (
	legitAny     = ""
	legitTrue    = "true"
	legitFalse   = "false"
	legitPending = "pending"
)

// ListJournalQueryParams holds query parameters for GET /journal
type ListJournalQueryParams struct {
	// After is an exclusive "{height}#{index}" anchor
	After string `form:"after"`
	Legit string `form:"legit" binding:"omitempty,oneof=true false pending"`
	Limit int    `form:"limit,default=20" binding:"min=1"`
}

// ListRejectedQueryParams holds query parameters for GET /rejected
type ListRejectedQueryParams struct {
	Limit int `form:"limit,default=20" binding:"min=1"`
}

// ParseListJournalQuery parses query parameters for GET /journal
func ParseListJournalQuery(c *gin.Context) (*ListJournalQueryParams, error) {
	var params ListJournalQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	if params.After != "" {
		if _, err := domain.ParseBlockStamp(params.After); err != nil {
			return nil, err
		}
	}

	return &params, nil
}

// Filter converts the parameters into a store journal filter
func (p *ListJournalQueryParams) Filter() (store.JournalFilter, error) {
	filter := store.JournalFilter{Limit: p.Limit}
	if p.After != "" {
		after, err := domain.ParseBlockStamp(p.After)
		if err != nil {
			return store.JournalFilter{}, err
		}
		filter.After = after
	}

	switch p.Legit {
	case legitAny:
	case legitPending:
		filter.Pending = true
	case legitTrue, legitFalse:
		legit := p.Legit == legitTrue
		filter.Legit = &legit
	default:
		return store.JournalFilter{}, fmt.Errorf("unknown legit filter %q", p.Legit)
	}

	return filter, nil
}

// ParseListRejectedQuery parses query parameters for GET /rejected
func ParseListRejectedQuery(c *gin.Context) (*ListRejectedQueryParams, error) {
	var params ListRejectedQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	return &params, nil
}
