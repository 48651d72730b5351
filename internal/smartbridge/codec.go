package smartbridge

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feral-file/slp-indexer/internal/domain"
)

var (
	// ErrNotSmartbridge is returned when a memo carries no smartbridge at all
	ErrNotSmartbridge = fmt.Errorf("%w: not a smartbridge", domain.ErrDecode)

	// ErrTooLarge is returned when an encoded record exceeds the size ceiling
	ErrTooLarge = fmt.Errorf("%w: smartbridge too large", domain.ErrDecode)

	// ErrUnknownOpcode is returned for an opcode byte the family does not accept
	ErrUnknownOpcode = fmt.Errorf("%w: unknown opcode", domain.ErrDecode)

	// ErrMalformedPayload is returned when parsing runs past the buffer end
	ErrMalformedPayload = fmt.Errorf("%w: malformed payload", domain.ErrDecode)

	// ErrInvalidField is returned when an operation cannot be encoded
	ErrInvalidField = errors.New("invalid smartbridge field")
)

const (
	schemeSeparator = "://"
	tokenIDSize     = 16
	voidTxSize      = 32
)

// layout describes the fixed header and the variable fields of one opcode
type layout struct {
	// fixed lists the header fields after the opcode byte, in wire order
	fixed []fixedField
	// varia lists the variable-length fields, in wire order
	varia []string
	// meta marks records followed by key/value pairs up to the buffer end
	meta bool
}

type fixedField struct {
	code string
	size int
}

var (
	fieldDecimals = fixedField{code: "de", size: 1}
	fieldQuantity = fixedField{code: "qt", size: 8}
	fieldPausable = fixedField{code: "pa", size: 1}
	fieldMintable = fixedField{code: "mi", size: 1}
	fieldTokenID  = fixedField{code: "id", size: tokenIDSize}
	fieldChunk    = fixedField{code: "ch", size: 1}
	fieldVoidTx   = fixedField{code: "tx", size: voidTxSize}
)

var (
	aslp1Genesis = layout{
		fixed: []fixedField{fieldDecimals, fieldQuantity, fieldPausable, fieldMintable},
		varia: []string{"sy", "na", "du", "no"},
	}
	aslp1Fungible = layout{
		fixed: []fixedField{fieldTokenID, fieldQuantity},
		varia: []string{"no"},
	}
	aslp1NonFungible = layout{
		fixed: []fixedField{fieldTokenID},
		varia: []string{"no"},
	}
	aslp2Genesis = layout{
		fixed: []fixedField{fieldPausable},
		varia: []string{"sy", "na", "du", "no"},
	}
	aslp2NonFungible = layout{
		fixed: []fixedField{fieldTokenID},
		varia: []string{"no"},
	}
	aslp2AddMeta = layout{
		fixed: []fixedField{fieldTokenID, fieldChunk},
		meta:  true,
	}
	aslp2VoidMeta = layout{
		fixed: []fixedField{fieldTokenID, fieldVoidTx},
	}
)

// layouts resolves the wire layout of every operation each family accepts
var layouts = map[domain.SlpType]map[domain.OpType]layout{
	domain.SlpTypeFungible: {
		domain.OpGenesis:  aslp1Genesis,
		domain.OpBurn:     aslp1Fungible,
		domain.OpMint:     aslp1Fungible,
		domain.OpSend:     aslp1Fungible,
		domain.OpPause:    aslp1NonFungible,
		domain.OpResume:   aslp1NonFungible,
		domain.OpNewOwner: aslp1NonFungible,
		domain.OpFreeze:   aslp1NonFungible,
		domain.OpUnfreeze: aslp1NonFungible,
	},
	domain.SlpTypeNFT: {
		domain.OpGenesis:    aslp2Genesis,
		domain.OpPause:      aslp2NonFungible,
		domain.OpResume:     aslp2NonFungible,
		domain.OpNewOwner:   aslp2NonFungible,
		domain.OpAuthMeta:   aslp2NonFungible,
		domain.OpAddMeta:    aslp2AddMeta,
		domain.OpRevokeMeta: aslp2NonFungible,
		domain.OpVoidMeta:   aslp2VoidMeta,
		domain.OpClone:      aslp2NonFungible,
	},
}

func lookupLayout(t domain.SlpType, op domain.OpType) (layout, bool) {
	ops, ok := layouts[t]
	if !ok {
		return layout{}, false
	}
	l, ok := ops[op]
	return l, ok
}

// fixedSize returns the header size in bytes including the opcode byte
func (l layout) fixedSize() int {
	n := 1
	for _, f := range l.fixed {
		n += f.size
	}
	return n
}

// Encode renders an operation as a single smartbridge record
func Encode(op *domain.Operation) (string, error) {
	l, ok := lookupLayout(op.SlpType, op.Op)
	if !ok {
		return "", fmt.Errorf("%w: %s does not accept %s", ErrInvalidField, op.SlpType, op.Op)
	}

	header, err := encodeHeader(op, l)
	if err != nil {
		return "", err
	}

	var varia []byte
	if l.meta {
		varia, err = packMeta(sortedItems(op.Data))
	} else {
		varia, err = packVaria(variaValues(op, l.varia)...)
	}
	if err != nil {
		return "", err
	}

	record := string(op.SlpType) + schemeSeparator + hex.EncodeToString(header) + string(varia)
	if len(record) > domain.SMARTBRIDGE_MAX_LENGTH {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(record))
	}

	return record, nil
}

func encodeHeader(op *domain.Operation, l layout) ([]byte, error) {
	code, _ := op.Op.Opcode()
	header := make([]byte, 0, l.fixedSize())
	header = append(header, code)

	for _, f := range l.fixed {
		switch f.code {
		case "de":
			if op.Decimals == nil {
				return nil, fmt.Errorf("%w: missing decimals", ErrInvalidField)
			}
			header = append(header, *op.Decimals)
		case "qt":
			qt, err := wireQuantity(op.Quantity)
			if err != nil {
				return nil, err
			}
			header = binary.LittleEndian.AppendUint64(header, qt)
		case "pa":
			header = append(header, boolByte(op.IsPausable()))
		case "mi":
			header = append(header, boolByte(op.IsMintable()))
		case "id":
			id, err := decodeHexField(op.TokenID, tokenIDSize, "token id")
			if err != nil {
				return nil, err
			}
			header = append(header, id...)
		case "ch":
			chunk := uint8(1)
			if op.Chunk != nil {
				chunk = *op.Chunk
			}
			header = append(header, chunk)
		case "tx":
			tx, err := decodeHexField(op.VoidTx, voidTxSize, "transaction id")
			if err != nil {
				return nil, err
			}
			header = append(header, tx...)
		}
	}

	return header, nil
}

func wireQuantity(qt *decimal.Decimal) (uint64, error) {
	if qt == nil {
		return 0, fmt.Errorf("%w: missing quantity", ErrInvalidField)
	}
	if !qt.IsInteger() || qt.Sign() < 0 {
		return 0, fmt.Errorf("%w: quantity %s is not a whole unsigned number", ErrInvalidField, qt.String())
	}
	v := qt.BigInt()
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: quantity %s exceeds 64 bits", ErrInvalidField, qt.String())
	}
	return v.Uint64(), nil
}

func decodeHexField(s string, size int, name string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != size {
		return nil, fmt.Errorf("%w: %s must be %d hex bytes", ErrInvalidField, name, size)
	}
	return b, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func variaValues(op *domain.Operation, codes []string) []string {
	values := make([]string, 0, len(codes))
	for _, code := range codes {
		switch code {
		case "sy":
			values = append(values, op.Symbol)
		case "na":
			values = append(values, op.Name)
		case "du":
			values = append(values, op.DocumentURI)
		case "no":
			values = append(values, op.Notes)
		}
	}
	return values
}

// packVaria packs each value as a (1-byte length, raw bytes) tuple
func packVaria(values ...string) ([]byte, error) {
	var out []byte
	for _, v := range values {
		if len(v) > 255 {
			return nil, fmt.Errorf("%w: variable field of %d bytes", ErrTooLarge, len(v))
		}
		out = append(out, byte(len(v)))
		out = append(out, v...)
	}
	return out, nil
}

type metaItem struct {
	key   string
	value string
}

func (m metaItem) size() int {
	return 2 + len(m.key) + len(m.value)
}

// sortedItems orders metadata by packed length, then by key
func sortedItems(data map[string]string) []metaItem {
	items := make([]metaItem, 0, len(data))
	for k, v := range data {
		items = append(items, metaItem{key: k, value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		li, lj := len(items[i].key)+len(items[i].value), len(items[j].key)+len(items[j].value)
		if li != lj {
			return li < lj
		}
		return items[i].key < items[j].key
	})
	return items
}

func packMeta(items []metaItem) ([]byte, error) {
	var out []byte
	for _, item := range items {
		ser, err := packVaria(item.key, item.value)
		if err != nil {
			return nil, err
		}
		out = append(out, ser...)
	}
	return out, nil
}

// EncodeMetadata splits metadata into ordered ADDMETA records tagged with a 1-based chunk index
func EncodeMetadata(tokenID string, data map[string]string) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no metadata to encode", ErrInvalidField)
	}

	prefixLen := len(domain.SlpTypeNFT) + len(schemeSeparator) + 2*aslp2AddMeta.fixedSize()
	space := domain.SMARTBRIDGE_MAX_LENGTH - prefixLen

	var chunks [][]metaItem
	var current []metaItem
	remaining := space
	for _, item := range sortedItems(data) {
		if item.size() > space {
			return nil, fmt.Errorf("%w: metadata %q needs %d bytes, %d available", ErrTooLarge, item.key, item.size(), space)
		}
		if item.size() > remaining {
			chunks = append(chunks, current)
			current = nil
			remaining = space
		}
		current = append(current, item)
		remaining -= item.size()
	}
	chunks = append(chunks, current)

	if len(chunks) > 255 {
		return nil, fmt.Errorf("%w: %d chunks", ErrTooLarge, len(chunks))
	}

	records := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		ch := uint8(i + 1)
		part := make(map[string]string, len(chunk))
		for _, item := range chunk {
			part[item.key] = item.value
		}
		record, err := Encode(&domain.Operation{
			SlpType: domain.SlpTypeNFT,
			Op:      domain.OpAddMeta,
			TokenID: tokenID,
			Chunk:   &ch,
			Data:    part,
		})
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Decode parses a binary smartbridge record
func Decode(s string) (*domain.Operation, error) {
	scheme, body, ok := strings.Cut(s, schemeSeparator)
	if !ok {
		return nil, ErrNotSmartbridge
	}
	slpType := domain.SlpType(scheme)
	if !domain.IsValidSlpType(slpType) {
		return nil, fmt.Errorf("%w: unknown family %q", ErrNotSmartbridge, scheme)
	}
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: missing opcode", ErrMalformedPayload)
	}

	code, err := hex.DecodeString(body[:2])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid opcode %q", ErrMalformedPayload, body[:2])
	}
	opType, ok := domain.OpTypeFromOpcode(slpType, code[0])
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x in %s", ErrUnknownOpcode, code[0], slpType)
	}
	l, _ := lookupLayout(slpType, opType)

	n := 2 * l.fixedSize()
	if len(body) < n {
		return nil, fmt.Errorf("%w: header needs %d hex characters, got %d", ErrMalformedPayload, n, len(body))
	}
	header, err := hex.DecodeString(body[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid header hex", ErrMalformedPayload)
	}

	op := &domain.Operation{SlpType: slpType, Op: opType}
	if err := decodeHeader(op, l, header[1:]); err != nil {
		return nil, err
	}

	varia := []byte(body[n:])
	if l.meta {
		data, err := unpackMeta(varia)
		if err != nil {
			return nil, err
		}
		op.Data = data
		return op, nil
	}

	values, err := unpackVaria(varia, len(l.varia))
	if err != nil {
		return nil, err
	}
	for i, code := range l.varia {
		switch code {
		case "sy":
			op.Symbol = values[i]
		case "na":
			op.Name = values[i]
		case "du":
			op.DocumentURI = values[i]
		case "no":
			op.Notes = values[i]
		}
	}

	return op, nil
}

func decodeHeader(op *domain.Operation, l layout, header []byte) error {
	pos := 0
	for _, f := range l.fixed {
		raw := header[pos : pos+f.size]
		pos += f.size

		switch f.code {
		case "de":
			de := raw[0]
			op.Decimals = &de
		case "qt":
			qt := decimal.NewFromBigInt(new(big.Int).SetUint64(binary.LittleEndian.Uint64(raw)), 0)
			op.Quantity = &qt
		case "pa", "mi":
			if raw[0] > 1 {
				return fmt.Errorf("%w: flag %s has value %d", ErrMalformedPayload, f.code, raw[0])
			}
			flag := raw[0] == 1
			if f.code == "pa" {
				op.Pausable = &flag
			} else {
				op.Mintable = &flag
			}
		case "id":
			op.TokenID = hex.EncodeToString(raw)
		case "ch":
			ch := raw[0]
			op.Chunk = &ch
		case "tx":
			op.VoidTx = hex.EncodeToString(raw)
		}
	}
	return nil
}

// unpackVaria reads exactly count (length, bytes) tuples spanning the whole buffer
func unpackVaria(data []byte, count int) ([]string, error) {
	values := make([]string, 0, count)
	pos := 0
	for range count {
		if pos >= len(data) {
			return nil, fmt.Errorf("%w: missing variable field %d", ErrMalformedPayload, len(values)+1)
		}
		size := int(data[pos])
		pos++
		if pos+size > len(data) {
			return nil, fmt.Errorf("%w: variable field %d overruns buffer", ErrMalformedPayload, len(values)+1)
		}
		values = append(values, string(data[pos:pos+size]))
		pos += size
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPayload, len(data)-pos)
	}
	return values, nil
}

// unpackMeta reads (key, value) tuple pairs up to the buffer end
func unpackMeta(data []byte) (map[string]string, error) {
	result := make(map[string]string)
	pos := 0
	for pos < len(data) {
		pair := make([]string, 0, 2)
		for range 2 {
			if pos >= len(data) {
				return nil, fmt.Errorf("%w: metadata key without value", ErrMalformedPayload)
			}
			size := int(data[pos])
			pos++
			if pos+size > len(data) {
				return nil, fmt.Errorf("%w: metadata overruns buffer", ErrMalformedPayload)
			}
			pair = append(pair, string(data[pos:pos+size]))
			pos += size
		}
		result[pair[0]] = pair[1]
	}
	return result, nil
}

// MergeMetadata reassembles the chunks of one ADDMETA stream into a single mapping
func MergeMetadata(ops []*domain.Operation) (map[string]string, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no chunks", ErrInvalidField)
	}

	chunks := make([]*domain.Operation, len(ops))
	copy(chunks, ops)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunkIndex(chunks[i]) < chunkIndex(chunks[j])
	})

	tokenID := chunks[0].TokenID
	result := make(map[string]string)
	for i, op := range chunks {
		if op.Op != domain.OpAddMeta {
			return nil, fmt.Errorf("%w: %s is not a metadata chunk", ErrInvalidField, op.Op)
		}
		if op.TokenID != tokenID {
			return nil, fmt.Errorf("%w: chunk for token %s in stream of %s", ErrInvalidField, op.TokenID, tokenID)
		}
		if chunkIndex(op) != i+1 {
			return nil, fmt.Errorf("%w: expected chunk %d, got %d", ErrInvalidField, i+1, chunkIndex(op))
		}
		for k, v := range op.Data {
			result[k] = v
		}
	}

	return result, nil
}

func chunkIndex(op *domain.Operation) int {
	if op.Chunk == nil {
		return 0
	}
	return int(*op.Chunk)
}
