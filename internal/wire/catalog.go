package wire

import (
	"github.com/go-faster/jx"

	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/i18n"
)

func textFields(e *jx.Encoder, prefix string, t i18n.Text) {
	strField(e, prefix+"_en", t.EN)
	strField(e, prefix+"_ar", t.AR)
}

// setText assigns the _en/_ar half of a bilingual field named by key.
// It reports false when key is not prefix_en or prefix_ar.
func setText(d *jx.Decoder, key, prefix string, t *i18n.Text) (bool, error) {
	var dst *string
	switch key {
	case prefix + "_en":
		dst = &t.EN
	case prefix + "_ar":
		dst = &t.AR
	default:
		return false, nil
	}
	s, err := decodeString(d)
	*dst = s
	return true, err
}

// EncodeArtisan writes a single artisan.
func EncodeArtisan(e *jx.Encoder, a product.Artisan) {
	e.ObjStart()
	strField(e, "id", a.ID)
	textFields(e, "name", a.Name)
	textFields(e, "bio", a.Bio)
	strField(e, "image_url", a.ImageURL)
	e.ObjEnd()
}

// EncodeArtisans writes an array of artisans.
func EncodeArtisans(e *jx.Encoder, as []product.Artisan) {
	e.ArrStart()
	for _, a := range as {
		EncodeArtisan(e, a)
	}
	e.ArrEnd()
}

// DecodeArtisan reads a single artisan.
func DecodeArtisan(d *jx.Decoder) (product.Artisan, error) {
	var a product.Artisan
	err := d.Obj(func(d *jx.Decoder, key string) error {
		for prefix, t := range map[string]*i18n.Text{"name": &a.Name, "bio": &a.Bio} {
			if ok, err := setText(d, key, prefix, t); ok {
				return err
			}
		}
		var err error
		switch key {
		case "id", "_id":
			a.ID, err = decodeString(d)
		case "image_url":
			a.ImageURL, err = decodeString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return a, malformed(err, "decode artisan")
}

// DecodeArtisans reads an array of artisans.
func DecodeArtisans(d *jx.Decoder) ([]product.Artisan, error) {
	var out []product.Artisan
	err := d.Arr(func(d *jx.Decoder) error {
		a, err := DecodeArtisan(d)
		out = append(out, a)
		return err
	})
	return out, malformed(err, "decode artisans")
}

// EncodeProduct writes a product. A populated Artisan is embedded under "artisan".
func EncodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	strField(e, "id", p.ID)
	textFields(e, "name", p.Name)
	textFields(e, "description", p.Description)
	e.FieldStart("price")
	encodeDecimal(e, p.Price)
	strField(e, "category", p.Category)
	e.FieldStart("images")
	e.ArrStart()
	for _, img := range p.Images {
		e.Str(img)
	}
	e.ArrEnd()
	strField(e, "artisan_id", p.ArtisanID)
	if p.Artisan != nil {
		e.FieldStart("artisan")
		EncodeArtisan(e, *p.Artisan)
	}
	textFields(e, "materials", p.Materials)
	textFields(e, "care", p.Care)
	e.FieldStart("stock")
	e.Int(p.Stock)
	e.FieldStart("featured")
	e.Bool(p.Featured)
	e.ObjEnd()
}

// EncodeProducts writes an array of products.
func EncodeProducts(e *jx.Encoder, ps []product.Product) {
	e.ArrStart()
	for _, p := range ps {
		EncodeProduct(e, p)
	}
	e.ArrEnd()
}

// DecodeProduct reads a product. "artisan_id" may hold either the artisan ID
// or the populated artisan object.
func DecodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		for prefix, t := range map[string]*i18n.Text{
			"name":        &p.Name,
			"description": &p.Description,
			"materials":   &p.Materials,
			"care":        &p.Care,
		} {
			if ok, err := setText(d, key, prefix, t); ok {
				return err
			}
		}
		var err error
		switch key {
		case "id", "_id":
			p.ID, err = decodeString(d)
		case "price":
			p.Price, err = decodeDecimal(d)
		case "category":
			p.Category, err = decodeString(d)
		case "images":
			p.Images, err = decodeStrings(d)
		case "artisan_id", "artisan":
			if d.Next() != jx.Object {
				var id string
				id, err = decodeString(d)
				if id != "" {
					p.ArtisanID = id
				}
				return err
			}
			var a product.Artisan
			a, err = DecodeArtisan(d)
			p.Artisan = &a
			if a.ID != "" {
				p.ArtisanID = a.ID
			}
		case "stock":
			p.Stock, err = decodeInt(d)
		case "featured":
			p.Featured, err = decodeBool(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, malformed(err, "decode product")
}

// DecodeProducts reads an array of products.
func DecodeProducts(d *jx.Decoder) ([]product.Product, error) {
	var out []product.Product
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := DecodeProduct(d)
		out = append(out, p)
		return err
	})
	return out, malformed(err, "decode products")
}

// EncodeImpact writes the impact dashboard.
func EncodeImpact(e *jx.Encoder, m content.ImpactMetrics) {
	e.ObjStart()
	e.FieldStart("textiles_diverted_kg")
	e.Int(m.TextilesDivertedKg)
	e.FieldStart("women_trained")
	e.Int(m.WomenTrained)
	e.FieldStart("income_disbursed_egp")
	encodeDecimal(e, m.IncomeDisbursed)
	e.FieldStart("current_campaign_goal_egp")
	encodeDecimal(e, m.CampaignGoal)
	e.FieldStart("current_campaign_raised_egp")
	encodeDecimal(e, m.CampaignRaised)
	e.ObjEnd()
}

// DecodeImpact reads the impact dashboard. Missing fields keep DefaultImpact values.
func DecodeImpact(d *jx.Decoder) (content.ImpactMetrics, error) {
	m := content.DefaultImpact()
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "textiles_diverted_kg":
			m.TextilesDivertedKg, err = decodeInt(d)
		case "women_trained":
			m.WomenTrained, err = decodeInt(d)
		case "income_disbursed_egp":
			m.IncomeDisbursed, err = decodeDecimal(d)
		case "current_campaign_goal_egp":
			m.CampaignGoal, err = decodeDecimal(d)
		case "current_campaign_raised_egp":
			m.CampaignRaised, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return m, malformed(err, "decode impact")
}

// EncodeBlogPost writes a blog post.
func EncodeBlogPost(e *jx.Encoder, p content.BlogPost) {
	e.ObjStart()
	strField(e, "id", p.ID)
	textFields(e, "title", p.Title)
	textFields(e, "content", p.Content)
	strField(e, "author", p.Author)
	e.FieldStart("date")
	encodeTime(e, p.Date)
	strField(e, "image_url", p.ImageURL)
	e.ObjEnd()
}

// EncodeBlogPosts writes an array of blog posts.
func EncodeBlogPosts(e *jx.Encoder, ps []content.BlogPost) {
	e.ArrStart()
	for _, p := range ps {
		EncodeBlogPost(e, p)
	}
	e.ArrEnd()
}

// DecodeBlogPost reads a blog post.
func DecodeBlogPost(d *jx.Decoder) (content.BlogPost, error) {
	var p content.BlogPost
	err := d.Obj(func(d *jx.Decoder, key string) error {
		for prefix, t := range map[string]*i18n.Text{"title": &p.Title, "content": &p.Content} {
			if ok, err := setText(d, key, prefix, t); ok {
				return err
			}
		}
		var err error
		switch key {
		case "id", "_id":
			p.ID, err = decodeString(d)
		case "author":
			p.Author, err = decodeString(d)
		case "date":
			p.Date, err = decodeTime(d)
		case "image_url":
			p.ImageURL, err = decodeString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, malformed(err, "decode blog post")
}

// DecodeBlogPosts reads an array of blog posts.
func DecodeBlogPosts(d *jx.Decoder) ([]content.BlogPost, error) {
	var out []content.BlogPost
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := DecodeBlogPost(d)
		out = append(out, p)
		return err
	})
	return out, malformed(err, "decode blog posts")
}

// EncodeCollectionPoints writes an array of collection points.
func EncodeCollectionPoints(e *jx.Encoder, ps []content.CollectionPoint) {
	e.ArrStart()
	for _, p := range ps {
		e.ObjStart()
		strField(e, "id", p.ID)
		textFields(e, "name", p.Name)
		textFields(e, "address", p.Address)
		e.FieldStart("latitude")
		e.Float64(p.Latitude)
		e.FieldStart("longitude")
		e.Float64(p.Longitude)
		textFields(e, "hours", p.Hours)
		strField(e, "contact_phone", p.ContactPhone)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// DecodeCollectionPoints reads an array of collection points.
func DecodeCollectionPoints(d *jx.Decoder) ([]content.CollectionPoint, error) {
	var out []content.CollectionPoint
	err := d.Arr(func(d *jx.Decoder) error {
		var p content.CollectionPoint
		err := d.Obj(func(d *jx.Decoder, key string) error {
			for prefix, t := range map[string]*i18n.Text{
				"name":    &p.Name,
				"address": &p.Address,
				"hours":   &p.Hours,
			} {
				if ok, err := setText(d, key, prefix, t); ok {
					return err
				}
			}
			var err error
			switch key {
			case "id", "_id":
				p.ID, err = decodeString(d)
			case "latitude":
				p.Latitude, err = d.Float64()
			case "longitude":
				p.Longitude, err = d.Float64()
			case "contact_phone":
				p.ContactPhone, err = decodeString(d)
			default:
				err = d.Skip()
			}
			return err
		})
		out = append(out, p)
		return err
	})
	return out, malformed(err, "decode collection points")
}

// Catalog is the full browseable dataset, as stored in db/seed/catalog.json.
type Catalog struct {
	Artisans         []product.Artisan
	Products         []product.Product
	Impact           content.ImpactMetrics
	BlogPosts        []content.BlogPost
	CollectionPoints []content.CollectionPoint
}

// DecodeCatalog parses a catalog document.
func DecodeCatalog(data []byte) (*Catalog, error) {
	c := &Catalog{Impact: content.DefaultImpact()}
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "artisans":
			c.Artisans, err = DecodeArtisans(d)
		case "products":
			c.Products, err = DecodeProducts(d)
		case "impact":
			c.Impact, err = DecodeImpact(d)
		case "blog_posts":
			c.BlogPosts, err = DecodeBlogPosts(d)
		case "collection_points":
			c.CollectionPoints, err = DecodeCollectionPoints(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, malformed(err, "decode catalog")
	}
	return c, nil
}
