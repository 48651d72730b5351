package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/smartbridge"
)

// metaFlag collects repeated -meta key=value pairs
type metaFlag map[string]string

func (m metaFlag) String() string {
	pairs := make([]string, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (m metaFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	m[k] = v
	return nil
}

var (
	family   = flag.String("family", string(domain.SlpTypeFungible), "Token family (aslp1, aslp2)")
	op       = flag.String("op", "", "Operation (GENESIS, SEND, ADDMETA, ...)")
	tokenID  = flag.String("id", "", "Token id")
	decimals = flag.Int("de", -1, "Decimals of a GENESIS")
	qt       = flag.String("qt", "", "Quantity")
	symbol   = flag.String("sy", "", "Symbol of a GENESIS")
	name     = flag.String("na", "", "Name of a GENESIS")
	document = flag.String("du", "", "Document URI of a GENESIS")
	notes    = flag.String("no", "", "Notes")
	pausable = flag.Bool("pa", false, "GENESIS is pausable")
	mintable = flag.Bool("mi", false, "GENESIS is mintable")
	voidTx   = flag.String("tx", "", "Transaction id voided by VOIDMETA")
	decode   = flag.String("decode", "", "Decode a smartbridge memo instead of encoding")
	meta     = metaFlag{}
)

func main() {
	flag.Var(meta, "meta", "ADDMETA key=value pair, repeatable")
	flag.Parse()

	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute() error {
	if *decode != "" {
		payload, err := smartbridge.Parse(*decode)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(map[string]any{string(payload.SlpType): payload.Fields}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	operation, err := buildOperation()
	if err != nil {
		return err
	}

	if operation.Op == domain.OpAddMeta {
		records, err := smartbridge.EncodeMetadata(operation.TokenID, meta)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Println(r)
		}
		return nil
	}

	record, err := smartbridge.Encode(operation)
	if err != nil {
		return err
	}
	fmt.Println(record)
	return nil
}

func buildOperation() (*domain.Operation, error) {
	slpType := domain.SlpType(strings.ToLower(*family))
	if !domain.IsValidSlpType(slpType) {
		return nil, fmt.Errorf("unknown token family %q", *family)
	}
	if *op == "" {
		return nil, fmt.Errorf("-op is required")
	}

	operation := &domain.Operation{
		SlpType:     slpType,
		Op:          domain.OpType(strings.ToUpper(*op)),
		TokenID:     *tokenID,
		Symbol:      *symbol,
		Name:        *name,
		DocumentURI: *document,
		Notes:       *notes,
		VoidTx:      *voidTx,
	}

	if *decimals >= 0 {
		if *decimals > 255 {
			return nil, fmt.Errorf("-de out of range")
		}
		de := uint8(*decimals) //nolint:gosec,G115
		operation.Decimals = &de
	}
	if *qt != "" {
		q, err := decimal.NewFromString(*qt)
		if err != nil {
			return nil, fmt.Errorf("invalid -qt: %w", err)
		}
		operation.Quantity = &q
	}

	// flags only set when given on the command line
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pa":
			operation.Pausable = pausable
		case "mi":
			operation.Mintable = mintable
		}
	})

	return operation, nil
}
