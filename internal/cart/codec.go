package cart

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Encode writes items as [{id, name, price, image, quantity}, ...].
func Encode(items []Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(it.ProductID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("price")
		e.Num(jx.Num(it.UnitPrice.String()))
		e.FieldStart("image")
		e.Str(it.ImageURL)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// Decode parses a persisted cart. Lines with a non-positive quantity or price
// are dropped and repeated product IDs are merged.
func Decode(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	raw, err := jx.DecodeBytes(data).Raw()
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	if len(raw) != len(data) {
		return nil, errors.New("decode cart: trailing data after cart array")
	}

	var items []Item
	err = jx.DecodeBytes(raw).Arr(func(d *jx.Decoder) error {
		var it Item
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				s, err := d.Str()
				it.ProductID = s
				return err
			case "name":
				s, err := d.Str()
				it.Name = s
				return err
			case "image":
				if d.Next() == jx.Null {
					return d.Null()
				}
				s, err := d.Str()
				it.ImageURL = s
				return err
			case "price":
				n, err := d.Num()
				if err != nil {
					return err
				}
				it.UnitPrice, err = decimal.NewFromString(n.String())
				return err
			case "quantity":
				n, err := d.Int()
				it.Quantity = n
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		if it.ProductID == "" || it.Quantity < 1 || !it.UnitPrice.IsPositive() {
			return nil
		}
		if i := index(items, it.ProductID); i >= 0 {
			items[i].Quantity += it.Quantity
			return nil
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}
