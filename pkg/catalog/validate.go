package catalog

// Field paths reported by Validate.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldPrice       = "price"
	FieldRatingRate  = "rating.rate"
	FieldRatingCount = "rating.count"
)

// FieldErrors maps a field path to the message for its violated rule.
type FieldErrors map[string]string

// Valid reports whether the payload passed every rule.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// Validate checks a submitted payload against the catalog field rules and
// returns one entry per violated rule. All rules are evaluated independently,
// so re-running after fixing a single field removes exactly that entry.
// Validate is pure and never mutates the payload.
func Validate(p ProductPayload) FieldErrors {
	errs := FieldErrors{}

	if p.Title == nil || *p.Title == "" {
		errs[FieldTitle] = "Title is required"
	}
	if p.Description == nil || *p.Description == "" {
		errs[FieldDescription] = "Description is required"
	}
	if p.Image == nil || *p.Image == "" {
		errs[FieldImage] = "Image URL is required"
	}
	if p.Price == nil || *p.Price <= 0 {
		errs[FieldPrice] = "Valid price is required"
	}

	if p.Rating == nil {
		errs[FieldRatingRate] = "Rating (0-5) is required"
		errs[FieldRatingCount] = "Count must be zero or positive"
		return errs
	}
	if p.Rating.Rate == nil || *p.Rating.Rate < 0 || *p.Rating.Rate > 5 {
		errs[FieldRatingRate] = "Rating (0-5) is required"
	}
	if p.Rating.Count == nil || *p.Rating.Count < 0 {
		errs[FieldRatingCount] = "Count must be zero or positive"
	}
	return errs
}
