package teemill

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/tuannha-ct/merch-bot/internal/repo/vendors"
	"github.com/tuannha-ct/merch-bot/pkg/util"
)

const (
	defaultBaseURL = "https://api.teemill.com/v1"

	// Organic cotton tee, the standard Teemill blank.
	productCode = "OTC01"

	defaultPrice = 25.0

	requestTimeout = 30 * time.Second
	createTimeout  = 60 * time.Second
)

// Config holds the Teemill API credentials.
type Config struct {
	APIKey  string
	BaseURL string
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("teemill API key is required")
	}
	return nil
}

// Client is the Teemill order vendor. Inline design data is uploaded to
// the file endpoint first; URLs go onto the order as-is.
type Client struct {
	cfg  Config
	http *resty.Client
}

var _ vendors.Client = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	httpClient := util.NewVendorRestyClient(requestTimeout).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)

	return &Client{cfg: cfg, http: httpClient}, nil
}

func (c *Client) Type() vendors.Type { return vendors.TypeTeemill }
func (c *Client) Name() string       { return "Teemill" }

func (c *Client) Initialize(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get("/orders")
	if err != nil {
		return fmt.Errorf("teemill session probe: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("teemill API returned status %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) Cleanup(ctx context.Context) error {
	log.Debugw(ctx, "Teemill session released")
	return nil
}

type fileUploadResponse struct {
	URL     string `json:"url"`
	FileURL string `json:"file_url"`
}

type printAreaSpec struct {
	ImageURL string `json:"image_url"`
	Position string `json:"position"`
}

type orderProduct struct {
	ProductCode string                   `json:"product_code"`
	Size        string                   `json:"size"`
	Color       string                   `json:"color"`
	Quantity    int                      `json:"quantity"`
	PrintAreas  map[string]printAreaSpec `json:"print_areas"`
}

type createOrderRequest struct {
	Products  []orderProduct    `json:"products"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata"`
}

type listedOrder struct {
	OrderID   string  `json:"order_id"`
	ID        string  `json:"id"`
	Reference string  `json:"reference"`
	URL       string  `json:"url"`
	Status    string  `json:"status"`
	Price     float64 `json:"price"`
	Metadata  struct {
		ProductName string `json:"product_name"`
	} `json:"metadata"`
}

type listOrdersResponse struct {
	Orders []listedOrder `json:"orders"`
	Total  int           `json:"total"`
}

// CreateProduct places a one-off tee order carrying the owner tag in the
// free-text reference field.
func (c *Client) CreateProduct(ctx context.Context, req vendors.CreateRequest) (*vendors.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	imageURL, err := c.resolveImageURL(ctx, req.ImageData)
	if err != nil {
		return nil, vendors.NewError(vendors.TypeTeemill, "CreateProduct", "upload design file", err)
	}

	color := req.Color
	if color == "" {
		color = "white"
	}
	tag := vendors.OwnerTag(req.UserID, req.Name)

	body := createOrderRequest{
		Products: []orderProduct{{
			ProductCode: productCode,
			Size:        "M",
			Color:       color,
			Quantity:    1,
			PrintAreas: map[string]printAreaSpec{
				"front": {ImageURL: imageURL, Position: "center"},
			},
		}},
		Reference: tag,
		Metadata: map[string]string{
			"product_name": req.Name,
			"created_by":   "discord_bot",
		},
	}

	var out listedOrder
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/orders")
	if err != nil {
		return nil, vendors.NewError(vendors.TypeTeemill, "CreateProduct", "create order", err)
	}
	if resp.IsError() {
		return nil, vendors.NewError(vendors.TypeTeemill, "CreateProduct",
			fmt.Sprintf("teemill API returned status %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	orderID := out.OrderID
	if orderID == "" {
		orderID = out.ID
	}

	product := &vendors.Product{
		ExternalID:  tag,
		OrderID:     orderID,
		Name:        req.Name,
		ProductURL:  out.URL,
		RetailPrice: decimal.NewFromFloat(defaultPrice),
		Currency:    "GBP",
		Status:      out.Status,
	}
	if product.ProductURL == "" && orderID != "" {
		product.ProductURL = "https://teemill.com/order/" + orderID
	}

	log.Infow(ctx, "Teemill order placed",
		"order_id", product.OrderID,
		"external_id", product.ExternalID)
	return product, nil
}

// resolveImageURL uploads inline data and passes URLs straight through.
func (c *Client) resolveImageURL(ctx context.Context, imageData string) (string, error) {
	if strings.HasPrefix(imageData, "http") {
		return imageData, nil
	}

	var out fileUploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"file": imageData, "type": "design"}).
		SetResult(&out).
		Post("/files")
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("teemill API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	if out.URL != "" {
		return out.URL, nil
	}
	if out.FileURL != "" {
		return out.FileURL, nil
	}
	return "", fmt.Errorf("upload response missing file url")
}

// ListProducts fetches one page of orders. Teemill reports the total, so
// the sweep ends when offset+limit reaches it.
func (c *Client) ListProducts(ctx context.Context, cur vendors.Cursor) vendors.Page {
	var out listOrdersResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":  strconv.Itoa(cur.Limit),
			"offset": strconv.Itoa(cur.Offset),
		}).
		SetResult(&out).
		Get("/orders")
	if err != nil || resp.IsError() {
		logListFailure(ctx, resp, err)
		return vendors.Page{}
	}

	items := util.ConvertList(out.Orders, c.toProduct)
	return vendors.Page{
		Items:   items,
		Next:    vendors.Cursor{Offset: cur.Offset + cur.Limit, Limit: cur.Limit},
		HasMore: cur.Offset+cur.Limit < out.Total,
	}
}

func (c *Client) toProduct(o listedOrder) vendors.Product {
	orderID := o.OrderID
	if orderID == "" {
		orderID = o.ID
	}

	product := vendors.Product{
		ExternalID:  o.Reference,
		OrderID:     orderID,
		Name:        o.Metadata.ProductName,
		ProductURL:  o.URL,
		RetailPrice: decimal.NewFromFloat(defaultPrice),
		Currency:    "GBP",
		Status:      o.Status,
	}
	if o.Price > 0 {
		product.RetailPrice = decimal.NewFromFloat(o.Price)
	}
	if product.ProductURL == "" && orderID != "" {
		product.ProductURL = "https://teemill.com/order/" + orderID
	}
	return product
}

func (c *Client) SearchProductsByUser(ctx context.Context, userID string) ([]vendors.Product, error) {
	all := vendors.Sweep(ctx, vendors.DefaultPageSize, c.ListProducts)
	return vendors.FilterByOwner(all, userID), nil
}

func (c *Client) GetAllDesigns(ctx context.Context) ([]vendors.Product, error) {
	return vendors.Sweep(ctx, vendors.DefaultPageSize, c.ListProducts), nil
}

func (c *Client) GetDesignStats(ctx context.Context) (*vendors.Stats, error) {
	return vendors.ComputeStats(vendors.Sweep(ctx, vendors.DefaultPageSize, c.ListProducts)), nil
}

func (c *Client) DeleteProduct(ctx context.Context, orderID string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/orders/" + orderID)
	if err != nil {
		return false, fmt.Errorf("delete order %s: %w", orderID, err)
	}
	return resp.IsSuccess(), nil
}

func (c *Client) GetProductInfo(ctx context.Context, orderID string) (map[string]any, error) {
	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("teemill API returned status %d", resp.StatusCode())
	}
	return out, nil
}

func logListFailure(ctx context.Context, resp *resty.Response, err error) {
	fields := []any{"vendor", vendors.TypeTeemill, "op", "ListProducts"}
	if err != nil {
		fields = append(fields, "error", err)
	}
	if resp != nil && resp.IsError() {
		fields = append(fields, "status", resp.StatusCode())
	}
	log.Errorw(ctx, "Vendor listing failed, returning empty page", fields...)
}
