// Package storefront is the terminal shop front: it turns input lines into
// typed commands and dispatches them to the cart and checkout machine.
package storefront

import (
	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/i18n"
)

// Command is a user intent produced by the parser.
type Command interface {
	command()
}

type (
	ListProducts struct{ Filter product.Filter }
	ShowProduct  struct{ ID string }
	AddItem      struct {
		ProductID string
		Quantity  int
	}
	RemoveItem     struct{ ProductID string }
	UpdateQuantity struct {
		ProductID string
		Quantity  int
	}
	ShowCart         struct{}
	ListArtisans     struct{}
	ListBlogPosts    struct{}
	ListCollection   struct{}
	ShowImpact       struct{}
	SetLanguage      struct{ Lang i18n.Lang }
	StartCheckout    struct{}
	SubmitShipping   struct{ Info checkout.ShippingInfo }
	SelectPayment    struct{ Payment checkout.Payment }
	Back             struct{}
	SubmitOrder      struct{}
	CancelCheckout   struct{}
	SubmitForm       struct {
		Kind inquiry.Kind
		Form inquiry.Form
	}
	Help struct{}
	Quit struct{}
)

func (ListProducts) command()   {}
func (ShowProduct) command()    {}
func (AddItem) command()        {}
func (RemoveItem) command()     {}
func (UpdateQuantity) command() {}
func (ShowCart) command()       {}
func (ListArtisans) command()   {}
func (ListBlogPosts) command()  {}
func (ListCollection) command() {}
func (ShowImpact) command()     {}
func (SetLanguage) command()    {}
func (StartCheckout) command()  {}
func (SubmitShipping) command() {}
func (SelectPayment) command()  {}
func (Back) command()           {}
func (SubmitOrder) command()    {}
func (CancelCheckout) command() {}
func (SubmitForm) command()     {}
func (Help) command()           {}
func (Quit) command()           {}
