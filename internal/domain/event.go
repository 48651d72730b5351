package domain

import "time"

// LedgerEvent is the notification emitted for every applied operation
type LedgerEvent struct {
	EventID   string    `json:"event_id"`
	NodeID    string    `json:"node_id"`
	SlpType   SlpType   `json:"slp_type"`
	Op        OpType    `json:"tp"`
	TokenID   string    `json:"token_id"`
	Stamp     string    `json:"blockstamp"`
	TxID      string    `json:"txid"`
	Emitter   string    `json:"emitter"`
	Receiver  string    `json:"receiver"`
	Quantity  string    `json:"qt,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent describes an applied record, the publisher assigns the ids
func NewLedgerEvent(r *Record, at time.Time) *LedgerEvent {
	e := &LedgerEvent{
		SlpType:   r.SlpType,
		Op:        r.Op,
		TokenID:   r.TokenID,
		Stamp:     r.Stamp().String(),
		TxID:      r.TxID,
		Emitter:   r.Emitter,
		Receiver:  r.Receiver,
		Timestamp: at.UTC(),
	}
	if r.Quantity != nil {
		e.Quantity = r.Quantity.String()
	}
	return e
}
