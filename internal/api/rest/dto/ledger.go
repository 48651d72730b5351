package dto

import (
	"encoding/json"
	"time"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

// ContractResponse represents a token contract with its quantities rendered at the token precision
type ContractResponse struct {
	TokenID      string    `json:"token_id"`
	SlpType      string    `json:"slp_type"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Owner        string    `json:"owner"`
	Decimals     int16     `json:"decimals"`
	Supply       string    `json:"supply"`
	Minted       string    `json:"minted"`
	Burned       string    `json:"burned"`
	Exited       string    `json:"exited"`
	Circulating  string    `json:"circulating"`
	DocumentURI  string    `json:"document_uri,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Pausable     bool      `json:"pausable"`
	Mintable     bool      `json:"mintable"`
	Paused       bool      `json:"paused"`
	GenesisStamp string    `json:"genesis_stamp"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HolderResponse represents the balance or metadata of one address for one token
type HolderResponse struct {
	Address    string            `json:"address"`
	TokenID    string            `json:"token_id"`
	Balance    string            `json:"balance"`
	Owner      bool              `json:"owner"`
	Frozen     bool              `json:"frozen"`
	BlockStamp string            `json:"block_stamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// JournalEntryResponse is a journal record keyed by its blockstamp
type JournalEntryResponse struct {
	Stamp string `json:"stamp"`
	*domain.Record
}

// PaginatedJournal represents one page of the journal, Next anchors the following page
type PaginatedJournal struct {
	Items []JournalEntryResponse `json:"items"`
	Next  *string                `json:"next"`
}

// RejectedResponse represents an audit copy of a refused operation
type RejectedResponse struct {
	Stamp     string          `json:"stamp"`
	TxID      string          `json:"txid"`
	SlpType   string          `json:"slp_type"`
	Op        string          `json:"tp"`
	TokenID   string          `json:"token_id,omitempty"`
	Reason    string          `json:"reason"`
	Record    json.RawMessage `json:"record"`
	CreatedAt time.Time       `json:"created_at"`
}

// BlockAcceptedResponse answers a webhook delivery
type BlockAcceptedResponse struct {
	Accepted bool `json:"accepted"`
}

// HealthResponse reports the liveness of the ingestion workers
type HealthResponse struct {
	Status   string `json:"status"`
	Pipeline struct {
		Running bool `json:"running"`
		Pending int  `json:"pending"`
	} `json:"pipeline"`
	Sync struct {
		Running bool `json:"running"`
	} `json:"sync"`
	Peers int `json:"peers"`
}

// NewContractResponse renders a contract row
func NewContractResponse(c *schema.Contract) (*ContractResponse, error) {
	render := func(scaled int64) (string, error) {
		q, err := c.Quantity(scaled)
		if err != nil {
			return "", err
		}
		return q.String(), nil
	}

	supply, err := render(c.Supply)
	if err != nil {
		return nil, err
	}
	minted, err := render(c.Minted)
	if err != nil {
		return nil, err
	}
	burned, err := render(c.Burned)
	if err != nil {
		return nil, err
	}
	exited, err := render(c.Exited)
	if err != nil {
		return nil, err
	}
	circulating, err := c.Circulating()
	if err != nil {
		return nil, err
	}

	return &ContractResponse{
		TokenID:      c.TokenID,
		SlpType:      c.SlpType,
		Symbol:       c.Symbol,
		Name:         c.Name,
		Owner:        c.Owner,
		Decimals:     c.Decimals,
		Supply:       supply,
		Minted:       minted,
		Burned:       burned,
		Exited:       exited,
		Circulating:  circulating.String(),
		DocumentURI:  c.DocumentURI,
		Notes:        c.Notes,
		Pausable:     c.Pausable,
		Mintable:     c.Mintable,
		Paused:       c.Paused,
		GenesisStamp: c.GenesisStamp,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}, nil
}

// NewHolderResponse renders a holder row at the precision of its contract
func NewHolderResponse(h *schema.Holder, c *schema.Contract) (*HolderResponse, error) {
	balance, err := c.Quantity(h.Balance)
	if err != nil {
		return nil, err
	}

	resp := &HolderResponse{
		Address:    h.Address,
		TokenID:    h.TokenID,
		Balance:    balance.String(),
		Owner:      h.Owner,
		Frozen:     h.Frozen,
		BlockStamp: h.BlockStamp,
		UpdatedAt:  h.UpdatedAt,
	}

	if len(h.Metadata) > 0 {
		metadata, err := h.MetadataMap()
		if err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			resp.Metadata = metadata
		}
	}

	return resp, nil
}

// NewPaginatedJournal renders a journal page, Next is set when the page is full
func NewPaginatedJournal(records []*domain.Record, limit int) PaginatedJournal {
	page := PaginatedJournal{Items: make([]JournalEntryResponse, 0, len(records))}
	for _, r := range records {
		page.Items = append(page.Items, JournalEntryResponse{Stamp: r.Stamp().String(), Record: r})
	}
	if limit > 0 && len(records) == limit {
		next := records[len(records)-1].Stamp().String()
		page.Next = &next
	}
	return page
}

// NewRejectedResponse renders a rejected row
func NewRejectedResponse(r *schema.Rejected) RejectedResponse {
	return RejectedResponse{
		Stamp:     domain.BlockStamp{Height: r.Height, Index: r.TxIndex}.String(),
		TxID:      r.TxID,
		SlpType:   r.SlpType,
		Op:        r.Op,
		TokenID:   r.TokenID,
		Reason:    r.Reason,
		Record:    json.RawMessage(r.Record),
		CreatedAt: r.CreatedAt,
	}
}
