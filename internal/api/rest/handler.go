package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/api/rest/dto"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/ingest"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/peers"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/syncer"
	"github.com/feral-file/slp-indexer/internal/webhook"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// ReceiveBlock accepts a block.applied webhook delivery from a peer
	// POST /blocks
	ReceiveBlock(c *gin.Context)

	// HealthCheck returns the health status of the node
	// GET /health
	HealthCheck(c *gin.Context)

	// ListPeers returns the active chain peers
	// GET /api/v1/peers
	ListPeers(c *gin.Context)

	// GetContract retrieves a token contract
	// GET /api/v1/contracts/:token_id
	GetContract(c *gin.Context)

	// GetHolder retrieves the balance or metadata of an address for a token
	// GET /api/v1/contracts/:token_id/holders/:address
	GetHolder(c *gin.Context)

	// ListJournal pages through the journal in blockstamp order
	// GET /api/v1/journal?after=<height#index>&legit=<true|false|pending>&limit=<limit>
	ListJournal(c *gin.Context)

	// ListRejected returns the most recent refused operations
	// GET /api/v1/rejected?limit=<limit>
	ListRejected(c *gin.Context)

	// ListUnvalidated returns the candidates of a family that failed field validation
	// GET /api/v1/unvalidated/:slp_type
	ListUnvalidated(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store       store.Store
	unvalidated store.UnvalidatedStore
	guard       webhook.Guard
	pool        peers.Pool
	pipeline    ingest.Pipeline
	driver      syncer.Driver
}

// NewHandler creates a new REST API handler
func NewHandler(
	st store.Store,
	unvalidated store.UnvalidatedStore,
	guard webhook.Guard,
	pool peers.Pool,
	pipeline ingest.Pipeline,
	driver syncer.Driver,
) Handler {
	return &handler{
		store:       st,
		unvalidated: unvalidated,
		guard:       guard,
		pool:        pool,
		pipeline:    pipeline,
		driver:      driver,
	}
}

// ReceiveBlock accepts a block.applied webhook delivery from a peer
func (h *handler) ReceiveBlock(c *gin.Context) {
	authorization := c.GetHeader("Authorization")
	if authorization == "" {
		respondUnauthorized(c, "Authorization header is required")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "Failed to read request body", err.Error())
		return
	}

	accepted, err := h.guard.ManageBlock(c.Request.Context(), authorization, body)
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrUnauthorized):
			logger.WarnCtx(c.Request.Context(), "Webhook delivery refused", zap.String("client_ip", c.ClientIP()))
			respondForbidden(c, "Authorization refused")
		case errors.Is(err, domain.ErrDecode):
			respondBadRequest(c, "Invalid block delivery", err.Error())
		default:
			respondInternalError(c, err, "Failed to accept block")
		}
		return
	}

	c.JSON(http.StatusOK, dto.BlockAcceptedResponse{Accepted: accepted})
}

// HealthCheck returns the health status of the node
func (h *handler) HealthCheck(c *gin.Context) {
	var resp dto.HealthResponse
	resp.Status = "ok"
	resp.Pipeline.Running = h.pipeline.Running()
	resp.Pipeline.Pending = h.pipeline.Pending()
	resp.Sync.Running = h.driver.Running()
	resp.Peers = len(h.pool.Peers())

	c.JSON(http.StatusOK, resp)
}

// ListPeers returns the active chain peers
func (h *handler) ListPeers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.pool.Peers()})
}

// GetContract retrieves a token contract
func (h *handler) GetContract(c *gin.Context) {
	tokenID := c.Param("token_id")
	if tokenID == "" {
		respondBadRequest(c, "Token ID is required")
		return
	}

	contract, err := h.store.GetContract(c.Request.Context(), tokenID)
	if err != nil {
		respondDatabaseError(c, err, zap.String("tokenID", tokenID))
		return
	}
	if contract == nil {
		respondNotFound(c, "Contract not found")
		return
	}

	resp, err := dto.NewContractResponse(contract)
	if err != nil {
		respondInternalError(c, err, "Failed to render contract", zap.String("tokenID", tokenID))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetHolder retrieves the balance or metadata of an address for a token
func (h *handler) GetHolder(c *gin.Context) {
	tokenID := c.Param("token_id")
	address := c.Param("address")
	if tokenID == "" || address == "" {
		respondBadRequest(c, "Token ID and address are required")
		return
	}

	ctx := c.Request.Context()
	contract, err := h.store.GetContract(ctx, tokenID)
	if err != nil {
		respondDatabaseError(c, err, zap.String("tokenID", tokenID))
		return
	}
	if contract == nil {
		respondNotFound(c, "Contract not found")
		return
	}

	holder, err := h.store.GetHolder(ctx, address, tokenID)
	if err != nil {
		respondDatabaseError(c, err, zap.String("tokenID", tokenID), zap.String("address", address))
		return
	}
	if holder == nil {
		respondNotFound(c, "Holder not found")
		return
	}

	resp, err := dto.NewHolderResponse(holder, contract)
	if err != nil {
		respondInternalError(c, err, "Failed to render holder", zap.String("tokenID", tokenID))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListJournal pages through the journal in blockstamp order
func (h *handler) ListJournal(c *gin.Context) {
	queryParams, err := ParseListJournalQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	filter, err := queryParams.Filter()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	records, err := h.store.ListJournal(c.Request.Context(), filter)
	if err != nil {
		respondDatabaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedJournal(records, filter.Limit))
}

// ListRejected returns the most recent refused operations
func (h *handler) ListRejected(c *gin.Context) {
	queryParams, err := ParseListRejectedQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, err := h.store.ListRejected(c.Request.Context(), queryParams.Limit)
	if err != nil {
		respondDatabaseError(c, err)
		return
	}

	items := make([]dto.RejectedResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewRejectedResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListUnvalidated returns the candidates of a family that failed field validation
func (h *handler) ListUnvalidated(c *gin.Context) {
	slpType := domain.SlpType(c.Param("slp_type"))
	if !domain.IsValidSlpType(slpType) {
		respondBadRequest(c, "Unknown token family")
		return
	}

	entries, err := h.unvalidated.List(slpType)
	if err != nil {
		respondInternalError(c, err, "Failed to read unvalidated operations", zap.String("slpType", string(slpType)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}
