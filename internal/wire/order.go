package wire

import (
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
)

func encodeItems(e *jx.Encoder, items []order.LineItem) {
	e.ArrStart()
	for _, li := range items {
		e.ObjStart()
		strField(e, "productId", li.ProductID)
		e.FieldStart("quantity")
		e.Int(li.Quantity)
		e.FieldStart("price")
		encodeDecimal(e, li.UnitPrice)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// EncodeLineItems returns the JSON array of order lines.
func EncodeLineItems(items []order.LineItem) []byte {
	return Encode(func(e *jx.Encoder) { encodeItems(e, items) })
}

// DecodeLineItems parses a JSON array of order lines.
func DecodeLineItems(data []byte) ([]order.LineItem, error) {
	items, err := decodeItems(jx.DecodeBytes(data))
	return items, malformed(err, "decode items")
}

func encodeCustomer(e *jx.Encoder, c order.Customer) {
	e.ObjStart()
	strField(e, "name", c.Name)
	strField(e, "email", c.Email)
	strField(e, "phone", c.Phone)
	e.FieldStart("shippingAddress")
	e.ObjStart()
	strField(e, "address", c.Address)
	strField(e, "city", c.City)
	e.ObjEnd()
	e.ObjEnd()
}

// EncodeOrderRequest writes the checkout payload.
func EncodeOrderRequest(e *jx.Encoder, r order.Request) {
	e.ObjStart()
	e.FieldStart("items")
	encodeItems(e, r.Items)
	e.FieldStart("customer_info")
	encodeCustomer(e, r.Customer)
	e.FieldStart("total_amount")
	encodeDecimal(e, r.TotalAmount)
	strField(e, "payment_method", string(r.PaymentMethod))
	e.ObjEnd()
}

func decodeItems(d *jx.Decoder) ([]order.LineItem, error) {
	var out []order.LineItem
	err := d.Arr(func(d *jx.Decoder) error {
		var li order.LineItem
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "productId", "product_id":
				li.ProductID, err = decodeString(d)
			case "quantity":
				li.Quantity, err = decodeInt(d)
			case "price", "unit_price":
				li.UnitPrice, err = decodeDecimal(d)
			default:
				err = d.Skip()
			}
			return err
		})
		out = append(out, li)
		return err
	})
	return out, err
}

func decodeCustomer(d *jx.Decoder) (order.Customer, error) {
	var c order.Customer
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			c.Name, err = decodeString(d)
		case "email":
			c.Email, err = decodeString(d)
		case "phone":
			c.Phone, err = decodeString(d)
		case "shippingAddress":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "address":
					c.Address, err = decodeString(d)
				case "city":
					c.City, err = decodeString(d)
				default:
					err = d.Skip()
				}
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return c, err
}

// DecodeOrderRequest reads the checkout payload. The payment method is kept
// verbatim; validation happens in the order service.
func DecodeOrderRequest(data []byte) (order.Request, error) {
	var r order.Request
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "items":
			r.Items, err = decodeItems(d)
		case "customer_info":
			r.Customer, err = decodeCustomer(d)
		case "total_amount":
			r.TotalAmount, err = decodeDecimal(d)
		case "payment_method":
			var s string
			s, err = decodeString(d)
			r.PaymentMethod = order.PaymentMethod(s)
		default:
			err = d.Skip()
		}
		return err
	})
	return r, malformed(err, "decode order request")
}

// EncodeAck writes an acknowledgement. orderId is omitted when empty.
func EncodeAck(e *jx.Encoder, a order.Ack) {
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(a.Success)
	optStrField(e, "orderId", a.OrderID)
	strField(e, "message", a.Message)
	e.ObjEnd()
}

// DecodeAck reads an acknowledgement. A body without "success" counts as
// successful, matching older backends that only sent message and orderId.
func DecodeAck(data []byte) (order.Ack, error) {
	a := order.Ack{Success: true}
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "success":
			a.Success, err = decodeBool(d)
		case "orderId", "order_id":
			a.OrderID, err = decodeString(d)
		case "message":
			a.Message, err = decodeString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return a, malformed(err, "decode ack")
}

// EncodeOrders writes orders for the admin listing.
func EncodeOrders(e *jx.Encoder, orders []order.Order) {
	e.ArrStart()
	for _, o := range orders {
		e.ObjStart()
		strField(e, "id", o.ID)
		e.FieldStart("items")
		encodeItems(e, o.Items)
		e.FieldStart("customer_info")
		encodeCustomer(e, o.Customer)
		e.FieldStart("total_amount")
		encodeDecimal(e, o.TotalAmount)
		strField(e, "payment_method", string(o.PaymentMethod))
		strField(e, "status", string(o.Status))
		e.FieldStart("timestamp")
		encodeTime(e, o.CreatedAt)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// EncodeForm writes a public form body.
func EncodeForm(e *jx.Encoder, f inquiry.Form) {
	e.ObjStart()
	optStrField(e, "name", f.Name)
	optStrField(e, "email", f.Email)
	optStrField(e, "phone", f.Phone)
	optStrField(e, "company", f.Company)
	optStrField(e, "skills", f.Skills)
	optStrField(e, "availability", f.Availability)
	optStrField(e, "location", f.Location)
	optStrField(e, "message", f.Message)
	e.ObjEnd()
}

// DecodeForm reads a public form body.
func DecodeForm(data []byte) (inquiry.Form, error) {
	var f inquiry.Form
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var (
			dst *string
			err error
		)
		switch key {
		case "name":
			dst = &f.Name
		case "email":
			dst = &f.Email
		case "phone":
			dst = &f.Phone
		case "company":
			dst = &f.Company
		case "skills":
			dst = &f.Skills
		case "availability":
			dst = &f.Availability
		case "location":
			dst = &f.Location
		case "message":
			dst = &f.Message
		default:
			return d.Skip()
		}
		*dst, err = decodeString(d)
		return err
	})
	return f, malformed(err, "decode form")
}

// DecodeDonation reads a donation request.
func DecodeDonation(data []byte) (inquiry.Donation, error) {
	var dn inquiry.Donation
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "amount":
			dn.Amount, err = decodeDecimal(d)
		case "donor_name":
			dn.DonorName, err = decodeString(d)
		case "email":
			dn.Email, err = decodeString(d)
		case "type":
			var s string
			s, err = decodeString(d)
			dn.Type = inquiry.DonationType(s)
		case "currency":
			dn.Currency, err = decodeString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return dn, malformed(err, "decode donation")
}

// EncodeDonations writes donations for the admin listing.
func EncodeDonations(e *jx.Encoder, ds []inquiry.Donation) {
	e.ArrStart()
	for _, dn := range ds {
		e.ObjStart()
		strField(e, "id", dn.ID)
		optStrField(e, "donor_name", dn.DonorName)
		strField(e, "email", dn.Email)
		e.FieldStart("amount")
		encodeDecimal(e, dn.Amount)
		strField(e, "currency", dn.Currency)
		strField(e, "type", string(dn.Type))
		strField(e, "payment_method", dn.PaymentMethod)
		e.FieldStart("timestamp")
		encodeTime(e, dn.CreatedAt)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// Credentials is the admin login body.
type Credentials struct {
	Username string
	Password string
}

// DecodeCredentials reads the admin login body.
func DecodeCredentials(data []byte) (Credentials, error) {
	var c Credentials
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "username":
			c.Username, err = decodeString(d)
		case "password":
			c.Password, err = decodeString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return c, malformed(err, "decode credentials")
}

// EncodeToken writes the admin login response.
func EncodeToken(e *jx.Encoder, token string, expiresAt time.Time) {
	e.ObjStart()
	strField(e, "token", token)
	e.FieldStart("expires_at")
	encodeTime(e, expiresAt)
	strField(e, "message", "Login successful")
	e.ObjEnd()
}
