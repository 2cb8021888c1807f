package storefront

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/i18n"
)

// ParseError reports an input line that is not a valid command.
type ParseError struct {
	Input string
	Usage string
}

func (e *ParseError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("unknown command %q", e.Input)
	}
	return "usage: " + e.Usage
}

// Parse turns one input line into a Command. Empty lines yield (nil, nil).
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(verb) {
	case "products", "ls":
		var f product.Filter
		if len(args) > 0 && args[0] == "featured" {
			f.FeaturedOnly = true
			rest = strings.TrimSpace(strings.TrimPrefix(rest, "featured"))
		}
		f.Category = rest
		return ListProducts{Filter: f}, nil
	case "show":
		if len(args) != 1 {
			return nil, &ParseError{Input: line, Usage: "show <id>"}
		}
		return ShowProduct{ID: args[0]}, nil
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return nil, &ParseError{Input: line, Usage: "add <id> [qty]"}
		}
		qty := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, &ParseError{Input: line, Usage: "add <id> [qty]"}
			}
			qty = n
		}
		return AddItem{ProductID: args[0], Quantity: qty}, nil
	case "remove", "rm":
		if len(args) != 1 {
			return nil, &ParseError{Input: line, Usage: "remove <id>"}
		}
		return RemoveItem{ProductID: args[0]}, nil
	case "qty":
		if len(args) != 2 {
			return nil, &ParseError{Input: line, Usage: "qty <id> <n>"}
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, &ParseError{Input: line, Usage: "qty <id> <n>"}
		}
		return UpdateQuantity{ProductID: args[0], Quantity: n}, nil
	case "cart":
		return ShowCart{}, nil
	case "artisans":
		return ListArtisans{}, nil
	case "blog":
		return ListBlogPosts{}, nil
	case "points":
		return ListCollection{}, nil
	case "impact":
		return ShowImpact{}, nil
	case "lang":
		l, err := i18n.ParseLang(rest)
		if err != nil {
			return nil, &ParseError{Input: line, Usage: "lang en|ar"}
		}
		return SetLanguage{Lang: l}, nil
	case "checkout":
		return StartCheckout{}, nil
	case "ship":
		parts := splitPipe(rest)
		if len(parts) != 5 {
			return nil, &ParseError{Input: line, Usage: "ship name | email | phone | city | address"}
		}
		return SubmitShipping{Info: checkout.ShippingInfo{
			Name:    parts[0],
			Email:   parts[1],
			Phone:   parts[2],
			City:    parts[3],
			Address: parts[4],
		}}, nil
	case "pay":
		return parsePay(line, rest)
	case "back":
		return Back{}, nil
	case "place":
		return SubmitOrder{}, nil
	case "cancel":
		return CancelCheckout{}, nil
	case "subscribe":
		if len(args) != 1 {
			return nil, &ParseError{Input: line, Usage: "subscribe <email>"}
		}
		return SubmitForm{Kind: inquiry.KindNewsletter, Form: inquiry.Form{Email: args[0]}}, nil
	case "contact":
		parts := splitPipe(rest)
		if len(parts) != 3 {
			return nil, &ParseError{Input: line, Usage: "contact name | email | message"}
		}
		return SubmitForm{Kind: inquiry.KindContact, Form: inquiry.Form{
			Name: parts[0], Email: parts[1], Message: parts[2],
		}}, nil
	case "help", "?":
		return Help{}, nil
	case "quit", "exit":
		return Quit{}, nil
	default:
		return nil, &ParseError{Input: line}
	}
}

func parsePay(line, rest string) (Command, error) {
	const usage = "pay card [number | expiry | cvc | holder] | pay fawry"
	method, details, _ := strings.Cut(rest, " ")
	m, err := order.ParsePaymentMethod(method)
	if err != nil {
		return nil, &ParseError{Input: line, Usage: usage}
	}
	p := checkout.Payment{Method: m}
	if m == order.PaymentCard && strings.TrimSpace(details) != "" {
		parts := splitPipe(details)
		if len(parts) != 4 {
			return nil, &ParseError{Input: line, Usage: usage}
		}
		p.Card = &checkout.CardDetails{Number: parts[0], Expiry: parts[1], CVC: parts[2], Holder: parts[3]}
	}
	return SelectPayment{Payment: p}, nil
}

func splitPipe(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
