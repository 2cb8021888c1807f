// Package wire encodes and decodes the JSON documents exchanged between the
// storefront and the REST backend.
//
// Money is written as a bare JSON number with the exact decimal digits and
// read from either a number or a numeric string.
package wire

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// DecodeError wraps any failure to parse a request or response body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "malformed body: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

func malformed(err error, what string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Err: errors.Wrap(err, what)}
}

// Encode runs fn against a fresh encoder and returns the bytes.
func Encode(fn func(e *jx.Encoder)) []byte {
	var e jx.Encoder
	fn(&e)
	return e.Bytes()
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	case jx.Null:
		return decimal.Zero, d.Null()
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n.String())
	}
}

func decodeInt(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}
	v, err := decodeDecimal(d)
	if err != nil {
		return 0, err
	}
	if !v.IsInteger() {
		return 0, errors.Errorf("expected integer, got %s", v)
	}
	return int(v.IntPart()), nil
}

func decodeString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.Null:
		return "", d.Null()
	case jx.Number:
		n, err := d.Num()
		return n.String(), err
	default:
		return d.Str()
	}
}

func decodeBool(d *jx.Decoder) (bool, error) {
	switch d.Next() {
	case jx.Null:
		return false, d.Null()
	case jx.String:
		s, err := d.Str()
		return s == "true", err
	default:
		return d.Bool()
	}
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := decodeString(d)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}

func decodeStrings(d *jx.Decoder) ([]string, error) {
	var out []string
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := decodeString(d)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339))
}

func strField(e *jx.Encoder, name, value string) {
	e.FieldStart(name)
	e.Str(value)
}

func optStrField(e *jx.Encoder, name, value string) {
	if value != "" {
		strField(e, name, value)
	}
}

// EncodeMessage writes {"message": msg}, the error body of every endpoint.
func EncodeMessage(e *jx.Encoder, msg string) {
	e.ObjStart()
	strField(e, "message", msg)
	e.ObjEnd()
}

// DecodeMessage reads the "message" field of an error body. Bodies that are
// not JSON objects yield "".
func DecodeMessage(data []byte) string {
	var msg string
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return ""
	}
	_ = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "message" {
			s, err := decodeString(d)
			msg = s
			return err
		}
		return d.Skip()
	})
	return msg
}
