package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The remote API is loose about scalar types: ids and prices arrive as JSON
// numbers on some endpoints and as strings on others. These wrappers accept
// either form and always marshal to the canonical type.

// FlexString decodes a JSON string or number into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexInt decodes a JSON number or numeric string into an int64.
// Empty strings and null decode to zero.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil {
		return fmt.Errorf("flex int: %w", err)
	}
	if raw == "" {
		*f = 0
		return nil
	}
	if i, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
		*f = FlexInt(i)
		return nil
	}
	// Tolerate "12.0" style values.
	fl, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return fmt.Errorf("flex int: parse %q: %w", raw, perr)
	}
	*f = FlexInt(int64(fl))
	return nil
}

// Int64 returns the underlying value.
func (f FlexInt) Int64() int64 { return int64(f) }

func (f FlexInt) String() string { return strconv.FormatInt(int64(f), 10) }

// FlexFloat decodes a JSON number or numeric string into a float64.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil {
		return fmt.Errorf("flex float: %w", err)
	}
	if raw == "" {
		*f = 0
		return nil
	}
	fl, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return fmt.Errorf("flex float: parse %q: %w", raw, perr)
	}
	*f = FlexFloat(fl)
	return nil
}

// Float64 returns the underlying value.
func (f FlexFloat) Float64() float64 { return float64(f) }

func scalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
