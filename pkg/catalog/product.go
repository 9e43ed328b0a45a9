// Package catalog defines the wire model shared by the catalog server and its
// clients, together with the field validation rules applied to submitted
// payloads.
package catalog

// Rating is the aggregate customer rating attached to a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog record. The ID is assigned by the server on creation
// and is immutable afterwards.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Rating      Rating  `json:"rating"`
}

// RatingPayload is the submitted form of Rating. Nil fields are absent.
type RatingPayload struct {
	Rate  *float64 `json:"rate,omitempty"`
	Count *int     `json:"count,omitempty"`
}

// ProductPayload is a submitted product: creation bodies and partial update
// bodies both decode into it. Nil fields are absent. An ID carried in the
// payload is never honored by the server.
type ProductPayload struct {
	ID          *int64         `json:"id,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Image       *string        `json:"image,omitempty"`
	Price       *float64       `json:"price,omitempty"`
	Rating      *RatingPayload `json:"rating,omitempty"`
}

// PayloadFrom converts a product back into payload form, dropping the ID.
// Used when re-submitting an existing record, e.g. restoring a deleted one.
func PayloadFrom(p Product) ProductPayload {
	title, description, image := p.Title, p.Description, p.Image
	price := p.Price
	rate, count := p.Rating.Rate, p.Rating.Count
	return ProductPayload{
		Title:       &title,
		Description: &description,
		Image:       &image,
		Price:       &price,
		Rating:      &RatingPayload{Rate: &rate, Count: &count},
	}
}
