package domain

import (
	"crypto/md5" //nolint:gosec,G501
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SlpType identifies a token family together with its protocol version
type SlpType string

const (
	SlpTypeFungible SlpType = "aslp1"
	SlpTypeNFT      SlpType = "aslp2"
)

// IsValidSlpType checks if a token family is known
func IsValidSlpType(t SlpType) bool {
	return t == SlpTypeFungible || t == SlpTypeNFT
}

// OpType represents a smartbridge operation
type OpType string

const (
	OpGenesis    OpType = "GENESIS"
	OpBurn       OpType = "BURN"
	OpMint       OpType = "MINT"
	OpSend       OpType = "SEND"
	OpPause      OpType = "PAUSE"
	OpResume     OpType = "RESUME"
	OpNewOwner   OpType = "NEWOWNER"
	OpFreeze     OpType = "FREEZE"
	OpUnfreeze   OpType = "UNFREEZE"
	OpAuthMeta   OpType = "AUTHMETA"
	OpAddMeta    OpType = "ADDMETA"
	OpRevokeMeta OpType = "REVOKEMETA"
	OpVoidMeta   OpType = "VOIDMETA"
	OpClone      OpType = "CLONE"
)

// opcodes maps every operation to its wire byte
var opcodes = map[OpType]byte{
	OpGenesis:    0x00,
	OpBurn:       0x01,
	OpMint:       0x02,
	OpSend:       0x03,
	OpPause:      0x04,
	OpResume:     0x05,
	OpNewOwner:   0x06,
	OpFreeze:     0x07,
	OpUnfreeze:   0x08,
	OpAuthMeta:   0x09,
	OpAddMeta:    0x10,
	OpRevokeMeta: 0x11,
	OpVoidMeta:   0x12,
	OpClone:      0x13,
}

var opsByCode = func() map[byte]OpType {
	m := make(map[byte]OpType, len(opcodes))
	for op, code := range opcodes {
		m[code] = op
	}
	return m
}()

// familyOps lists the operations each family accepts
var familyOps = map[SlpType][]OpType{
	SlpTypeFungible: {OpGenesis, OpBurn, OpMint, OpSend, OpPause, OpResume, OpNewOwner, OpFreeze, OpUnfreeze},
	SlpTypeNFT:      {OpGenesis, OpPause, OpResume, OpNewOwner, OpAuthMeta, OpAddMeta, OpRevokeMeta, OpVoidMeta, OpClone},
}

// Opcode returns the wire byte of the operation
func (o OpType) Opcode() (byte, bool) {
	code, ok := opcodes[o]
	return code, ok
}

// OpTypeFromOpcode resolves a wire byte within a family
func OpTypeFromOpcode(t SlpType, code byte) (OpType, bool) {
	op, ok := opsByCode[code]
	if !ok || !t.Supports(op) {
		return "", false
	}
	return op, true
}

// Supports reports whether the family accepts the operation
func (t SlpType) Supports(op OpType) bool {
	for _, o := range familyOps[t] {
		if o == op {
			return true
		}
	}
	return false
}

// BlockStamp is the "{height}#{index}" position of an operation on chain
type BlockStamp struct {
	Height uint64
	Index  uint32
}

// String renders the blockstamp as "{height}#{index}"
func (b BlockStamp) String() string {
	return fmt.Sprintf("%d#%d", b.Height, b.Index)
}

// ParseBlockStamp parses a "{height}#{index}" string
func ParseBlockStamp(s string) (BlockStamp, error) {
	h, i, ok := strings.Cut(s, "#")
	if !ok {
		return BlockStamp{}, fmt.Errorf("invalid blockstamp %q", s)
	}
	height, err := strconv.ParseUint(h, 10, 64)
	if err != nil {
		return BlockStamp{}, fmt.Errorf("invalid blockstamp height %q: %w", s, err)
	}
	index, err := strconv.ParseUint(i, 10, 32)
	if err != nil {
		return BlockStamp{}, fmt.Errorf("invalid blockstamp index %q: %w", s, err)
	}
	return BlockStamp{Height: height, Index: uint32(index)}, nil
}

// Compare orders blockstamps by height then index
func (b BlockStamp) Compare(o BlockStamp) int {
	switch {
	case b.Height < o.Height:
		return -1
	case b.Height > o.Height:
		return 1
	case b.Index < o.Index:
		return -1
	case b.Index > o.Index:
		return 1
	}
	return 0
}

// AtLeast reports whether b >= o
func (b BlockStamp) AtLeast(o BlockStamp) bool {
	return b.Compare(o) >= 0
}

// After reports whether b > o
func (b BlockStamp) After(o BlockStamp) bool {
	return b.Compare(o) > 0
}

// NewTokenID derives the token id fixed at GENESIS
func NewTokenID(t SlpType, symbol string, height uint64, txID string) string {
	raw := fmt.Sprintf("%s.%s.%d.%s", strings.ToUpper(string(t)), symbol, height, txID)
	sum := md5.Sum([]byte(raw)) //nolint:gosec,G401
	return hex.EncodeToString(sum[:])
}

// Operation holds the decoded fields of one smartbridge
type Operation struct {
	SlpType     SlpType           `json:"slp_type"`
	Op          OpType            `json:"tp"`
	TokenID     string            `json:"id,omitempty"`
	Decimals    *uint8            `json:"de,omitempty"`
	Quantity    *decimal.Decimal  `json:"qt,omitempty"`
	Symbol      string            `json:"sy,omitempty"`
	Name        string            `json:"na,omitempty"`
	DocumentURI string            `json:"du,omitempty"`
	Notes       string            `json:"no,omitempty"`
	Pausable    *bool             `json:"pa,omitempty"`
	Mintable    *bool             `json:"mi,omitempty"`
	Chunk       *uint8            `json:"ch,omitempty"`
	Data        map[string]string `json:"dt,omitempty"`
	VoidTx      string            `json:"tx,omitempty"`
}

// Fields returns the present fields keyed by their field code
func (o *Operation) Fields() map[string]any {
	fields := map[string]any{"tp": string(o.Op)}
	if o.TokenID != "" {
		fields["id"] = o.TokenID
	}
	if o.Decimals != nil {
		fields["de"] = int(*o.Decimals)
	}
	if o.Quantity != nil {
		fields["qt"] = o.Quantity.String()
	}
	if o.Symbol != "" {
		fields["sy"] = o.Symbol
	}
	if o.Name != "" {
		fields["na"] = o.Name
	}
	if o.DocumentURI != "" {
		fields["du"] = o.DocumentURI
	}
	if o.Notes != "" {
		fields["no"] = o.Notes
	}
	if o.Pausable != nil {
		fields["pa"] = *o.Pausable
	}
	if o.Mintable != nil {
		fields["mi"] = *o.Mintable
	}
	if o.Chunk != nil {
		fields["ch"] = int(*o.Chunk)
	}
	if len(o.Data) > 0 {
		fields["dt"] = o.Data
	}
	if o.VoidTx != "" {
		fields["tx"] = o.VoidTx
	}
	return fields
}

// IsPausable reports the declared pausable flag
func (o *Operation) IsPausable() bool {
	return o.Pausable != nil && *o.Pausable
}

// IsMintable reports the declared mintable flag
func (o *Operation) IsMintable() bool {
	return o.Mintable != nil && *o.Mintable
}

// DataKeys returns metadata keys in a stable order
func (o *Operation) DataKeys() []string {
	keys := make([]string, 0, len(o.Data))
	for k := range o.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record is one journaled smartbridge operation together with its chain context
type Record struct {
	Operation
	Height   uint64 `json:"height"`
	Index    uint32 `json:"index"`
	TxID     string `json:"txid"`
	Emitter  string `json:"emitter"`
	Receiver string `json:"receiver"`
	Cost     uint64 `json:"cost"`
	// Legit is nil while pending, then true (applied) or false (rejected)
	Legit *bool `json:"legit"`
}

// Stamp returns the record blockstamp
func (r *Record) Stamp() BlockStamp {
	return BlockStamp{Height: r.Height, Index: r.Index}
}

// BlockHeader is the block summary delivered by sync or webhook
type BlockHeader struct {
	ID           string `json:"id"`
	Height       uint64 `json:"height"`
	Transactions int    `json:"transactions"`
}

// Transaction is a host chain transaction as listed by a peer
type Transaction struct {
	ID          string `json:"id"`
	Type        int    `json:"type"`
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Amount      uint64 `json:"amount"`
	VendorField string `json:"vendorField"`
}
