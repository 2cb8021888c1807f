package storefront

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/db"
	"github.com/xenking/handmade-storefront/internal/cart"
	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/facade"
	"github.com/xenking/handmade-storefront/internal/i18n"
	"github.com/xenking/handmade-storefront/internal/orderclient"
)

type recordingUI struct {
	shown  []string
	infos  []string
	warns  []string
	errors []string
}

func (r *recordingUI) Show(lines ...string) { r.shown = append(r.shown, lines...) }
func (r *recordingUI) Info(msg string)      { r.infos = append(r.infos, msg) }
func (r *recordingUI) Warn(msg string)      { r.warns = append(r.warns, msg) }
func (r *recordingUI) Error(msg string)     { r.errors = append(r.errors, msg) }

func (r *recordingUI) lastError() string {
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[len(r.errors)-1]
}

type fixture struct {
	ctl  *Controller
	ui   *recordingUI
	cart *cart.Store
	shop *facade.Static
	lang *i18n.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, func(s *facade.Static) facade.Facade { return s })
}

// newFixtureWith lets wrap decorate the static catalog the controller talks to.
func newFixtureWith(t *testing.T, wrap func(*facade.Static) facade.Facade) *fixture {
	t.Helper()
	ctx := context.Background()

	static, err := facade.NewStatic(db.Catalog)
	require.NoError(t, err)
	shop := wrap(static)
	store := cart.NewStore(ctx, cart.NewMemoryStorage())
	client := orderclient.New(store, shop, zap.NewNop())
	machine := checkout.NewMachine(store, client)
	lang := i18n.NewManager(i18n.English)
	ui := &recordingUI{}

	return &fixture{
		ctl:  NewController(store, machine, shop, lang, ui, zap.NewNop()),
		ui:   ui,
		cart: store,
		shop: static,
		lang: lang,
	}
}

func (f *fixture) dispatch(t *testing.T, line string) {
	t.Helper()
	cmd, err := Parse(line)
	require.NoError(t, err, line)
	require.NoError(t, f.ctl.Dispatch(context.Background(), cmd))
}

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		line string
		want Command
	}{
		{"products", ListProducts{}},
		{"products featured", ListProducts{Filter: product.Filter{FeaturedOnly: true}}},
		{"products Home Décor", ListProducts{Filter: product.Filter{Category: "Home Décor"}}},
		{"add tote-bag", AddItem{ProductID: "tote-bag", Quantity: 1}},
		{"add tote-bag 3", AddItem{ProductID: "tote-bag", Quantity: 3}},
		{"qty tote-bag 0", UpdateQuantity{ProductID: "tote-bag", Quantity: 0}},
		{"lang ar", SetLanguage{Lang: i18n.Arabic}},
		{"pay fawry", SelectPayment{Payment: checkout.Payment{Method: order.PaymentCashVoucher}}},
		{"pay card", SelectPayment{Payment: checkout.Payment{Method: order.PaymentCard}}},
		{
			"ship Mona | mona@example.com | 0100 | Cairo | 5 Nile St",
			SubmitShipping{Info: checkout.ShippingInfo{
				Name: "Mona", Email: "mona@example.com", Phone: "0100", City: "Cairo", Address: "5 Nile St",
			}},
		},
		{"subscribe a@b.co", SubmitForm{Kind: inquiry.KindNewsletter, Form: inquiry.Form{Email: "a@b.co"}}},
		{"quit", Quit{}},
	} {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	cmd, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, cmd)

	for _, bad := range []string{"add", "add x y", "qty x", "lang fr", "pay cash-on-delivery", "dance"} {
		_, err := Parse(bad)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, bad)
	}

	cmd, err = Parse("pay card 4242 4242 4242 4242 | 12/29 | 123 | Mona")
	require.NoError(t, err)
	p := cmd.(SelectPayment).Payment
	require.NotNil(t, p.Card)
	assert.Equal(t, "12/29", p.Card.Expiry)
}

func TestController_CartCommands(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, "add tote-bag 2")
	f.dispatch(t, "add table-runner")
	assert.Equal(t, 3, f.cart.ItemCount())
	assert.Equal(t, "980", f.cart.Total().String())
	assert.Equal(t, []string{i18n.MsgAddedToCart.EN, i18n.MsgAddedToCart.EN}, f.ui.infos)

	f.dispatch(t, "qty tote-bag 1")
	assert.Equal(t, "630", f.cart.Total().String())

	f.dispatch(t, "qty tote-bag 0")
	assert.Equal(t, 1, f.cart.ItemCount())
	assert.Equal(t, i18n.MsgRemoved.EN, f.ui.infos[len(f.ui.infos)-1])

	f.dispatch(t, "cart")
	assert.Contains(t, f.ui.shown[len(f.ui.shown)-1], "280.00 EGP")

	f.dispatch(t, "add tote-bag 0")
	assert.Equal(t, i18n.MsgInvalidQty.EN, f.ui.lastError())

	f.dispatch(t, "add no-such-thing")
	assert.Equal(t, i18n.MsgNotFound.EN, f.ui.lastError())
	assert.Empty(t, f.ui.warns)
}

func TestController_LowStockWarning(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, "add wall-hanging")
	require.Len(t, f.ui.warns, 1)
	assert.Equal(t, "Only 5 left in stock", f.ui.warns[0])
	assert.Equal(t, 1, f.cart.ItemCount())
}

func TestController_Language(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, "lang ar")
	assert.Equal(t, i18n.Arabic, f.lang.Current())
	assert.Equal(t, i18n.MsgLangChanged.AR, f.ui.infos[0])

	f.dispatch(t, "checkout")
	assert.Equal(t, i18n.MsgCartEmpty.AR, f.ui.lastError())
}

func TestController_Checkout(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, "place")
	assert.Equal(t, i18n.MsgNoCheckout.EN, f.ui.lastError())

	f.dispatch(t, "add tote-bag 2")
	f.dispatch(t, "checkout")

	f.dispatch(t, "ship Mona | not-an-email | 0100 | Cairo | 5 Nile St")
	assert.Equal(t, "Email Address: "+i18n.MsgInvalidEmail.EN, f.ui.lastError())

	f.dispatch(t, "ship Mona |  | 0100 | Cairo | 5 Nile St")
	assert.Equal(t, "Email Address: "+i18n.MsgFieldRequired.EN, f.ui.lastError())

	f.dispatch(t, "place")
	assert.Equal(t, i18n.StepShipping.EN, f.ui.lastError())

	f.dispatch(t, "ship Mona | mona@example.com | 0100 | Cairo | 5 Nile St")
	f.dispatch(t, "pay card 4242424242424242 | 12/29 | 123 | Mona")
	assert.Contains(t, strings.Join(f.ui.shown, "\n"), "••••••••••••4242")

	errs := len(f.ui.errors)
	f.dispatch(t, "place")
	assert.Len(t, f.ui.errors, errs)
	assert.Contains(t, f.ui.infos, i18n.MsgOrderPlaced.EN)
	assert.True(t, f.cart.IsEmpty())

	submitted := f.shop.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "700", submitted[0].TotalAmount.String())
	assert.Equal(t, order.PaymentCard, submitted[0].PaymentMethod)
	assert.Equal(t, "Cairo", submitted[0].Customer.City)
}

// lostAckOrders accepts the first order but loses the response, then answers
// every repeated idempotency key with the order it already stored.
type lostAckOrders struct {
	*facade.Static
	acks map[string]*order.Ack
}

func (l *lostAckOrders) SubmitOrder(ctx context.Context, req order.Request, key string) (*order.Ack, error) {
	if ack, ok := l.acks[key]; ok {
		return ack, nil
	}
	ack, err := l.Static.SubmitOrder(ctx, req, key)
	if err != nil {
		return nil, err
	}
	l.acks[key] = ack
	if len(l.acks) == 1 {
		return nil, &facade.NetworkError{Op: "submit order", Err: errors.New("connection reset")}
	}
	return ack, nil
}

func TestController_CartChangeAfterFailedSubmitPlacesNewOrder(t *testing.T) {
	f := newFixtureWith(t, func(s *facade.Static) facade.Facade {
		return &lostAckOrders{Static: s, acks: map[string]*order.Ack{}}
	})

	f.dispatch(t, "add tote-bag 1")
	f.dispatch(t, "checkout")
	f.dispatch(t, "ship Mona | mona@example.com | 0100 | Cairo | 5 Nile St")
	f.dispatch(t, "pay fawry")
	f.dispatch(t, "place")
	assert.Equal(t, i18n.MsgGenericError.EN, f.ui.lastError())
	assert.False(t, f.cart.IsEmpty())

	f.dispatch(t, "qty tote-bag 5")
	f.dispatch(t, "place")

	submitted := f.shop.Submitted()
	require.Len(t, submitted, 2)
	require.Len(t, submitted[1].Items, 1)
	assert.Equal(t, 5, submitted[1].Items[0].Quantity)
	assert.Contains(t, f.ui.infos, i18n.MsgOrderPlaced.EN)
	assert.True(t, f.cart.IsEmpty())
}

func TestController_RetryWithUnchangedCartKeepsOrder(t *testing.T) {
	f := newFixtureWith(t, func(s *facade.Static) facade.Facade {
		return &lostAckOrders{Static: s, acks: map[string]*order.Ack{}}
	})

	f.dispatch(t, "add tote-bag 1")
	f.dispatch(t, "checkout")
	f.dispatch(t, "ship Mona | mona@example.com | 0100 | Cairo | 5 Nile St")
	f.dispatch(t, "pay fawry")
	f.dispatch(t, "place")
	f.dispatch(t, "place")

	assert.Len(t, f.shop.Submitted(), 1)
	assert.Contains(t, f.ui.infos, i18n.MsgOrderPlaced.EN)
	assert.True(t, f.cart.IsEmpty())
}

type brokenOrders struct {
	*facade.Static
	err error
}

func (b brokenOrders) SubmitOrder(context.Context, order.Request, string) (*order.Ack, error) {
	return nil, b.err
}

func TestController_SubmitFailureIsLocalized(t *testing.T) {
	for _, err := range []error{
		&facade.ServerError{Status: 500, Message: "Internal server error"},
		&facade.ServerError{Status: 400, Message: "Invalid order data"},
	} {
		f := newFixtureWith(t, func(s *facade.Static) facade.Facade {
			return brokenOrders{Static: s, err: err}
		})

		f.dispatch(t, "lang ar")
		f.dispatch(t, "add tote-bag 1")
		f.dispatch(t, "checkout")
		f.dispatch(t, "ship Mona | mona@example.com | 0100 | Cairo | 5 Nile St")
		f.dispatch(t, "pay fawry")
		f.dispatch(t, "place")

		assert.Equal(t, i18n.MsgGenericError.AR, f.ui.lastError(), err.Error())
		assert.False(t, f.cart.IsEmpty())
	}
}

type rejectingOrders struct{ *facade.Static }

func (rejectingOrders) SubmitOrder(context.Context, order.Request, string) (*order.Ack, error) {
	return &order.Ack{Success: false, Message: "Payment declined"}, nil
}

func TestController_RejectionIsLocalized(t *testing.T) {
	f := newFixtureWith(t, func(s *facade.Static) facade.Facade { return rejectingOrders{s} })

	f.dispatch(t, "lang ar")
	f.dispatch(t, "add tote-bag 1")
	f.dispatch(t, "checkout")
	f.dispatch(t, "ship Mona | mona@example.com | 0100 | Cairo | 5 Nile St")
	f.dispatch(t, "pay fawry")
	f.dispatch(t, "place")

	assert.Equal(t, i18n.MsgGenericError.AR, f.ui.lastError())
	assert.NotContains(t, f.ui.errors, "Payment declined")
}

func TestController_CancelKeepsCart(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, "add tote-bag")
	f.dispatch(t, "checkout")
	f.dispatch(t, "cancel")
	assert.Contains(t, f.ui.infos, i18n.MsgCancelled.EN)
	assert.Equal(t, 1, f.cart.ItemCount())

	f.dispatch(t, "cancel")
	assert.Equal(t, i18n.MsgNoCheckout.EN, f.ui.lastError())
}

func TestController_Forms(t *testing.T) {
	f := newFixture(t)

	f.dispatch(t, "subscribe reader@example.com")
	assert.Equal(t, []string{i18n.MsgFormSent.EN}, f.ui.infos)

	require.NoError(t, f.ctl.Dispatch(context.Background(), SubmitForm{Kind: inquiry.KindContact}))
	assert.NotEmpty(t, f.ui.lastError())
}

func TestController_Quit(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctl.Dispatch(context.Background(), Quit{}), ErrQuit)
}

func TestRun(t *testing.T) {
	f := newFixture(t)

	input := strings.Join([]string{
		"add tote-bag 2",
		"",
		"frobnicate",
		"cart",
		"quit",
		"add tote-bag",
	}, "\n")
	require.NoError(t, Run(context.Background(), strings.NewReader(input), f.ctl))

	assert.Equal(t, 2, f.cart.ItemCount())
	assert.Equal(t, []string{i18n.MsgUnknownInput.EN}, f.ui.errors)
}

func TestTextUI(t *testing.T) {
	var sb strings.Builder
	ui := NewTextUI(&sb)
	ui.Prompt("> ")
	ui.Info("ok")
	ui.Error("bad")
	assert.Equal(t, "> ✓ ok\n✗ bad\n", sb.String())
}
