package smartbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/feral-file/slp-indexer/internal/domain"
)

// Payload is a memo recognized as a smartbridge, before field validation
type Payload struct {
	SlpType domain.SlpType
	// Fields holds the operation fields keyed by field code
	Fields map[string]any

	op *domain.Operation
}

// Parse recognizes a smartbridge either in its binary form or in its JSON form {"aslp1": {...}}
func Parse(memo string) (*Payload, error) {
	memo = strings.TrimSpace(memo)
	if strings.HasPrefix(memo, "{") {
		return parseJSON(memo)
	}

	op, err := Decode(memo)
	if err != nil {
		return nil, err
	}

	return &Payload{SlpType: op.SlpType, Fields: op.Fields(), op: op}, nil
}

func parseJSON(memo string) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(memo)))
	dec.UseNumber()

	var doc map[string]map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSmartbridge, err)
	}
	if len(doc) != 1 {
		return nil, fmt.Errorf("%w: expected a single family key", ErrNotSmartbridge)
	}

	for family, fields := range doc {
		slpType := domain.SlpType(family)
		if !domain.IsValidSlpType(slpType) {
			return nil, fmt.Errorf("%w: unknown family %q", ErrNotSmartbridge, family)
		}
		tp, ok := fields["tp"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: missing operation type", ErrMalformedPayload)
		}
		if !slpType.Supports(domain.OpType(tp)) {
			return nil, fmt.Errorf("%w: %s in %s", ErrUnknownOpcode, tp, slpType)
		}
		return &Payload{SlpType: slpType, Fields: fields}, nil
	}

	return nil, ErrNotSmartbridge
}

// Operation coerces the payload fields into a typed operation
func (p *Payload) Operation() (*domain.Operation, error) {
	if p.op != nil {
		return p.op, nil
	}

	op := &domain.Operation{SlpType: p.SlpType}
	for code, raw := range p.Fields {
		if err := assignField(op, code, raw); err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrMalformedPayload, code, err)
		}
	}
	p.op = op

	return op, nil
}

func assignField(op *domain.Operation, code string, raw any) error {
	if n, ok := raw.(json.Number); ok {
		raw = n.String()
	}

	switch code {
	case "tp":
		s, err := cast.ToStringE(raw)
		if err != nil {
			return err
		}
		op.Op = domain.OpType(s)
	case "id":
		s, err := cast.ToStringE(raw)
		if err != nil {
			return err
		}
		op.TokenID = s
	case "de":
		de, err := cast.ToUint8E(raw)
		if err != nil {
			return err
		}
		op.Decimals = &de
	case "qt":
		qt, err := toDecimal(raw)
		if err != nil {
			return err
		}
		op.Quantity = &qt
	case "sy", "na", "du", "no", "tx":
		s, err := cast.ToStringE(raw)
		if err != nil {
			return err
		}
		switch code {
		case "sy":
			op.Symbol = s
		case "na":
			op.Name = s
		case "du":
			op.DocumentURI = s
		case "no":
			op.Notes = s
		case "tx":
			op.VoidTx = s
		}
	case "pa", "mi":
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		if code == "pa" {
			op.Pausable = &b
		} else {
			op.Mintable = &b
		}
	case "ch":
		ch, err := cast.ToUint8E(raw)
		if err != nil {
			return err
		}
		op.Chunk = &ch
	case "dt":
		dt, err := cast.ToStringMapStringE(raw)
		if err != nil {
			return err
		}
		op.Data = dt
	}
	return nil
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case decimal.Decimal:
		return v, nil
	}
	i, err := cast.ToInt64E(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromInt(i), nil
}
