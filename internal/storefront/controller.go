package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/handmade-storefront/internal/cart"
	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/facade"
	"github.com/xenking/handmade-storefront/internal/i18n"
	"github.com/xenking/handmade-storefront/internal/orderclient"
)

// ErrQuit is returned by Dispatch for the Quit command.
var ErrQuit = errors.New("quit")

// lowStock is the stock level at or below which adding a product shows a warning.
const lowStock = 5

// Controller executes commands against the cart, the checkout machine and
// the catalog facade. It is the only place that touches the UI.
type Controller struct {
	cart    *cart.Store
	machine *checkout.Machine
	shop    facade.Facade
	lang    *i18n.Manager
	ui      UI
	lg      *zap.Logger
}

// NewController wires a Controller.
func NewController(c *cart.Store, m *checkout.Machine, shop facade.Facade, lang *i18n.Manager, ui UI, lg *zap.Logger) *Controller {
	return &Controller{cart: c, machine: m, shop: shop, lang: lang, ui: ui, lg: lg}
}

func (c *Controller) tr(t i18n.Text) string { return t.In(c.lang.Current()) }

func (c *Controller) money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + c.tr(i18n.LabelCurrency)
}

// Dispatch runs cmd. Failures are reported through the UI; the only error
// returned is ErrQuit.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	if _, ok := cmd.(Quit); ok {
		return ErrQuit
	}
	if err := c.run(ctx, cmd); err != nil {
		c.report(err)
	}
	return nil
}

func (c *Controller) run(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case ListProducts:
		return c.listProducts(ctx, cmd.Filter)
	case ShowProduct:
		return c.showProduct(ctx, cmd.ID)
	case AddItem:
		if err := c.machine.RenewIdempotencyKey(); err != nil {
			return err
		}
		return c.addItem(ctx, cmd)
	case RemoveItem:
		if err := c.machine.RenewIdempotencyKey(); err != nil {
			return err
		}
		c.cart.RemoveItem(ctx, cmd.ProductID)
		c.ui.Info(c.tr(i18n.MsgRemoved))
		return nil
	case UpdateQuantity:
		if err := c.machine.RenewIdempotencyKey(); err != nil {
			return err
		}
		c.cart.UpdateQuantity(ctx, cmd.ProductID, cmd.Quantity)
		if cmd.Quantity <= 0 {
			c.ui.Info(c.tr(i18n.MsgRemoved))
		} else {
			c.ui.Info(c.tr(i18n.MsgCartUpdated))
		}
		return nil
	case ShowCart:
		c.showCart()
		return nil
	case ListArtisans:
		return c.listArtisans(ctx)
	case ListBlogPosts:
		return c.listBlog(ctx)
	case ListCollection:
		return c.listPoints(ctx)
	case ShowImpact:
		return c.showImpact(ctx)
	case SetLanguage:
		c.lang.Set(cmd.Lang)
		c.ui.Info(c.tr(i18n.MsgLangChanged))
		return nil
	case StartCheckout:
		s, err := c.machine.Start()
		if err != nil {
			return err
		}
		c.showSession(s)
		return nil
	case SubmitShipping:
		s, err := c.machine.SubmitShipping(cmd.Info)
		if err != nil {
			return err
		}
		c.showSession(s)
		return nil
	case SelectPayment:
		s, err := c.machine.SelectPayment(cmd.Payment)
		if err != nil {
			return err
		}
		c.showSession(s)
		return nil
	case Back:
		s, err := c.machine.Back()
		if err != nil {
			return err
		}
		c.showSession(s)
		return nil
	case SubmitOrder:
		return c.submitOrder(ctx)
	case CancelCheckout:
		if _, ok := c.machine.Session(); !ok {
			return checkout.ErrNoSession
		}
		c.machine.Cancel()
		c.ui.Info(c.tr(i18n.MsgCancelled))
		return nil
	case SubmitForm:
		return c.submitForm(ctx, cmd)
	case Help:
		c.ui.Show(helpText...)
		return nil
	default:
		return errors.Errorf("unhandled command %T", cmd)
	}
}

func (c *Controller) addItem(ctx context.Context, cmd AddItem) error {
	if cmd.Quantity < 1 {
		return cart.ErrInvalidQuantity
	}
	p, err := c.shop.Product(ctx, cmd.ProductID)
	if err != nil {
		return err
	}
	if err := c.cart.AddItem(ctx, cart.Product{
		ID:     p.ID,
		Name:   c.tr(p.Name),
		Price:  p.Price,
		Images: p.Images,
	}, cmd.Quantity); err != nil {
		return err
	}
	c.ui.Info(c.tr(i18n.MsgAddedToCart))
	if p.Stock <= lowStock {
		c.ui.Warn(fmt.Sprintf(c.tr(i18n.MsgLowStock), max(p.Stock, 0)))
	}
	return nil
}

func (c *Controller) submitOrder(ctx context.Context) error {
	s, err := c.machine.Submit(ctx)
	if errors.Is(err, checkout.ErrSessionClosed) {
		if err == checkout.ErrSessionClosed {
			c.lg.Info("Order completed after checkout was closed")
		} else {
			c.lg.Warn("Order failed after checkout was closed", zap.Error(err))
		}
		return nil
	}
	if err != nil {
		return err
	}
	c.ui.Info(c.tr(i18n.MsgOrderPlaced))
	if s.Ack != nil && s.Ack.OrderID != "" {
		c.ui.Show(fmt.Sprintf(c.tr(i18n.MsgOrderNumber), s.Ack.OrderID))
	}
	return nil
}

func (c *Controller) submitForm(ctx context.Context, cmd SubmitForm) error {
	if err := inquiry.Validate(cmd.Kind, cmd.Form); err != nil {
		return err
	}
	ack, err := c.shop.SubmitForm(ctx, cmd.Kind, cmd.Form)
	if err != nil {
		return err
	}
	if !ack.Success {
		return &orderclient.RejectedError{Message: ack.Message}
	}
	c.ui.Info(c.tr(i18n.MsgFormSent))
	return nil
}

// report translates err into a localized message.
func (c *Controller) report(err error) {
	var (
		validation *checkout.ValidationError
		missing    *inquiry.MissingFieldError
		server     *facade.ServerError
		rejected   *orderclient.RejectedError
		network    *facade.NetworkError
		parse      *ParseError
	)
	switch {
	case errors.As(err, &validation):
		switch {
		case validation.Field == checkout.FieldPaymentMethod:
			c.ui.Error(c.tr(i18n.MsgSelectPayment))
		case validation.Reason == checkout.ReasonInvalidEmail:
			c.ui.Error(c.fieldLabel(validation.Field) + ": " + c.tr(i18n.MsgInvalidEmail))
		default:
			c.ui.Error(c.fieldLabel(validation.Field) + ": " + c.tr(i18n.MsgFieldRequired))
		}
	case errors.As(err, &missing):
		c.ui.Error(c.fieldLabel(missing.Field) + ": " + c.tr(i18n.MsgFieldRequired))
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.ui.Error(c.tr(i18n.MsgInvalidQty))
	case errors.Is(err, facade.ErrNotFound), errors.Is(err, product.ErrNotFound):
		c.ui.Error(c.tr(i18n.MsgNotFound))
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, orderclient.ErrEmptyCart):
		c.ui.Error(c.tr(i18n.MsgCartEmpty))
	case errors.Is(err, checkout.ErrNoSession):
		c.ui.Error(c.tr(i18n.MsgNoCheckout))
	case errors.Is(err, checkout.ErrWrongStep):
		if s, ok := c.machine.Session(); ok {
			c.ui.Error(c.tr(stepLabel(s.Step)))
		} else {
			c.ui.Error(c.tr(i18n.MsgNoCheckout))
		}
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.ui.Warn(c.tr(i18n.MsgSubmitPending))
	case errors.As(err, &rejected):
		c.lg.Warn("Submission rejected", zap.String("message", rejected.Message))
		c.ui.Error(c.tr(i18n.MsgGenericError))
	case errors.As(err, &server):
		c.lg.Warn("Storefront server error",
			zap.Int("status", server.Status),
			zap.String("message", server.Message),
		)
		c.ui.Error(c.tr(i18n.MsgGenericError))
	case errors.As(err, &parse):
		if parse.Usage != "" {
			c.ui.Error(parse.Error())
		} else {
			c.ui.Error(c.tr(i18n.MsgUnknownInput))
		}
	case errors.As(err, &network):
		c.lg.Warn("Storefront request failed", zap.Error(err))
		c.ui.Error(c.tr(i18n.MsgGenericError))
	default:
		c.lg.Error("Command failed", zap.Error(err))
		c.ui.Error(c.tr(i18n.MsgGenericError))
	}
}

func (c *Controller) fieldLabel(field string) string {
	switch field {
	case checkout.FieldName:
		return c.tr(i18n.LabelFullName)
	case checkout.FieldEmail:
		return c.tr(i18n.LabelEmail)
	case checkout.FieldPhone:
		return c.tr(i18n.LabelPhone)
	case checkout.FieldCity:
		return c.tr(i18n.LabelCity)
	case checkout.FieldAddress:
		return c.tr(i18n.LabelAddress)
	default:
		return field
	}
}

func stepLabel(s checkout.Step) i18n.Text {
	switch s {
	case checkout.StepPayment:
		return i18n.StepPayment
	case checkout.StepReview:
		return i18n.StepReview
	default:
		return i18n.StepShipping
	}
}

func (c *Controller) paymentLabel(m order.PaymentMethod) string {
	if m == order.PaymentCashVoucher {
		return c.tr(i18n.LabelFawry)
	}
	return c.tr(i18n.LabelCard)
}

func (c *Controller) showCart() {
	items := c.cart.Items()
	if len(items) == 0 {
		c.ui.Info(c.tr(i18n.MsgCartEmpty))
		return
	}
	lines := make([]string, 0, len(items)+1)
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s  %s  %s: %d  %s",
			it.ProductID, it.Name, c.tr(i18n.LabelQuantity), it.Quantity, c.money(it.Subtotal())))
	}
	lines = append(lines, fmt.Sprintf("%s (%d): %s",
		c.tr(i18n.LabelTotal), c.cart.ItemCount(), c.money(c.cart.Total())))
	c.ui.Show(lines...)
}

func (c *Controller) showSession(s *checkout.Session) {
	c.ui.Show("[" + c.tr(stepLabel(s.Step)) + "]")
	switch s.Step {
	case checkout.StepShipping:
		c.ui.Show("ship " + strings.Join([]string{
			c.tr(i18n.LabelFullName),
			c.tr(i18n.LabelEmail),
			c.tr(i18n.LabelPhone),
			c.tr(i18n.LabelCity),
			c.tr(i18n.LabelAddress),
		}, " | "))
	case checkout.StepPayment:
		c.ui.Show("pay card | pay fawry")
	case checkout.StepReview:
		c.ui.Show(c.tr(i18n.LabelReviewOrder))
		c.showCart()
		sh := s.Shipping
		c.ui.Show(
			fmt.Sprintf("%s: %s, %s, %s, %s, %s", c.tr(i18n.LabelShipTo), sh.Name, sh.Email, sh.Phone, sh.Address, sh.City),
			fmt.Sprintf("%s: %s", c.tr(i18n.LabelPayment), c.paymentLabel(s.Payment.Method)),
		)
		if s.Payment.Card != nil {
			c.ui.Show(s.Payment.Card.Masked())
		}
	}
}

func (c *Controller) listProducts(ctx context.Context, f product.Filter) error {
	ps, err := c.shop.Products(ctx, f)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		mark := " "
		if p.Featured {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %-28s %s", mark, p.ID, c.tr(p.Name), c.money(p.Price)))
	}
	c.ui.Show(lines...)
	return nil
}

func (c *Controller) showProduct(ctx context.Context, id string) error {
	p, err := c.shop.Product(ctx, id)
	if err != nil {
		return err
	}
	lines := []string{
		c.tr(p.Name) + "  " + c.money(p.Price),
		c.tr(p.Description),
		c.tr(i18n.LabelMaterials) + ": " + c.tr(p.Materials),
		c.tr(i18n.LabelCare) + ": " + c.tr(p.Care),
		fmt.Sprintf("%s: %d", c.tr(i18n.LabelStock), p.Stock),
	}
	if p.Artisan != nil {
		lines = append(lines, c.tr(i18n.LabelArtisan)+": "+c.tr(p.Artisan.Name))
	}
	c.ui.Show(lines...)
	return nil
}

func (c *Controller) listArtisans(ctx context.Context) error {
	as, err := c.shop.Artisans(ctx)
	if err != nil {
		return err
	}
	for _, a := range as {
		c.ui.Show(a.ID+"  "+c.tr(a.Name), "  "+c.tr(a.Bio))
	}
	return nil
}

func (c *Controller) listBlog(ctx context.Context) error {
	posts, err := c.shop.BlogPosts(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		c.ui.Show(fmt.Sprintf("%s  %s  (%s)", p.Date.Format("2006-01-02"), c.tr(p.Title), p.Author))
	}
	return nil
}

func (c *Controller) listPoints(ctx context.Context) error {
	points, err := c.shop.CollectionPoints(ctx)
	if err != nil {
		return err
	}
	for _, p := range points {
		c.ui.Show(
			c.tr(p.Name),
			"  "+c.tr(p.Address),
			"  "+c.tr(p.Hours)+"  "+p.ContactPhone,
		)
	}
	return nil
}

func (c *Controller) showImpact(ctx context.Context) error {
	m, err := c.shop.Impact(ctx)
	if err != nil {
		return err
	}
	c.ui.Show(
		fmt.Sprintf("%s: %d", c.tr(i18n.LabelTextiles), m.TextilesDivertedKg),
		fmt.Sprintf("%s: %d", c.tr(i18n.LabelWomen), m.WomenTrained),
		fmt.Sprintf("%s: %s", c.tr(i18n.LabelIncome), c.money(m.IncomeDisbursed)),
		fmt.Sprintf("%s: %s / %s", c.tr(i18n.LabelCampaign), c.money(m.CampaignRaised), c.money(m.CampaignGoal)),
	)
	return nil
}

var helpText = []string{
	"products [featured] [category]   list products",
	"show <id>                        product details",
	"add <id> [qty]                   add to cart",
	"remove <id>                      remove from cart",
	"qty <id> <n>                     set quantity (0 removes)",
	"cart                             show cart",
	"artisans | blog | points | impact",
	"lang en|ar                       switch language",
	"checkout                         start checkout",
	"ship name | email | phone | city | address",
	"pay card [number | expiry | cvc | holder] | pay fawry",
	"back | place | cancel",
	"subscribe <email>",
	"contact name | email | message",
	"quit",
}
