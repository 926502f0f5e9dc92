package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// amount decodes a JSON number or a formatted numeric string. Currency
// symbols, thousands separators and other non-numeric characters are
// dropped; null and empty strings decode to zero.
type amount float64

var nonNumeric = regexp.MustCompile(`[^\d.-]`)

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := parseAmount(s)
		if err != nil {
			return err
		}
		*a = amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = amount(f)
	return nil
}

func parseAmount(s string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.InexactFloat64(), nil
}
