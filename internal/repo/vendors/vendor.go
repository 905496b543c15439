package vendors

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Type identifies a print-on-demand vendor.
type Type string

const (
	TypePrintful Type = "printful"
	TypePrintify Type = "printify"
	TypeProdigi  Type = "prodigi"
	TypeTeemill  Type = "teemill"
)

// Product is a normalized design record from any vendor. Store-product
// vendors fill ProductID, order vendors fill OrderID; both carry the
// owner reference in ExternalID.
type Product struct {
	ExternalID   string          `json:"external_id"`
	ProductID    string          `json:"product_id,omitempty"`
	OrderID      string          `json:"order_id,omitempty"`
	Name         string          `json:"name"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	ProductURL   string          `json:"product_url,omitempty"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	Currency     string          `json:"currency,omitempty"`
	Status       string          `json:"status,omitempty"`
	VariantCount int             `json:"variant_count,omitempty"`
	Visible      bool            `json:"visible,omitempty"`
}

// Stats summarizes every design the vendor currently holds.
type Stats struct {
	TotalDesigns   int      `json:"total_designs"`
	UniqueUsers    int      `json:"unique_users"`
	DesignsPerUser float64  `json:"designs_per_user"`
	LatestDesign   *Product `json:"latest_design,omitempty"`
}

// CreateRequest carries everything a vendor needs to create one product.
// ImageData is either a public URL or a base64 data URI; vendors that
// cannot ingest one of the two convert or upload as needed.
type CreateRequest struct {
	Name        string `json:"name"`
	ImageData   string `json:"image_data"`
	UserID      string `json:"user_id"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Cursor addresses one page of a vendor listing. Each vendor reads only
// the fields its pagination idiom uses: Offset/Limit, PageNum/Limit, or
// an opaque continuation Token.
type Cursor struct {
	Offset  int    `json:"offset"`
	PageNum int    `json:"page"`
	Limit   int    `json:"limit"`
	Token   string `json:"token,omitempty"`
}

// Page is one page of a listing sweep. HasMore reports whether the vendor
// signalled a further page; Next is only meaningful when HasMore is true.
type Page struct {
	Items   []Product `json:"items"`
	Next    Cursor    `json:"next"`
	HasMore bool      `json:"has_more"`
}

// Client is the contract every print-on-demand vendor implements.
//
// ListProducts never returns an error: transport failures, non-2xx
// statuses and undecodable bodies all yield an empty page. Callers must
// treat an empty result as a possible degraded state, and the aggregate
// operations terminate their sweep on it.
type Client interface {
	Type() Type
	Name() string

	// Initialize acquires or verifies the vendor session. It is
	// idempotent and doubles as the health probe.
	Initialize(ctx context.Context) error
	// Cleanup releases the session. It is always safe to call and its
	// outcome never fails the caller.
	Cleanup(ctx context.Context) error

	CreateProduct(ctx context.Context, req CreateRequest) (*Product, error)
	ListProducts(ctx context.Context, cur Cursor) Page
	SearchProductsByUser(ctx context.Context, userID string) ([]Product, error)
	GetAllDesigns(ctx context.Context) ([]Product, error)
	GetDesignStats(ctx context.Context) (*Stats, error)
	DeleteProduct(ctx context.Context, productID string) (bool, error)
	GetProductInfo(ctx context.Context, productID string) (map[string]any, error)
}

var (
	ErrVendorNotFound  = errors.New("vendor not registered")
	ErrDuplicateVendor = errors.New("vendor already registered")
	ErrNoActiveVendor  = errors.New("no active vendor configured")
)

// Error carries vendor context for a failed operation.
type Error struct {
	Vendor  Type   `json:"vendor"`
	Op      string `json:"op"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a vendor error for the given operation.
func NewError(vendor Type, op, message string, cause error) *Error {
	return &Error{
		Vendor:  vendor,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}
