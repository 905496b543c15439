package prodigi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/tuannha-ct/merch-bot/internal/repo/vendors"
	"github.com/tuannha-ct/merch-bot/pkg/util"
)

const (
	defaultBaseURL = "https://api.prodigi.com/v4.0"

	// Classic mens tee, medium, white.
	tshirtSKU = "GLOBAL-TSHU-CLAS-MENS-MEDI-WHIT"

	defaultCostAmount = "15.00"

	requestTimeout = 30 * time.Second
	createTimeout  = 60 * time.Second
)

// Config holds the Prodigi print API credentials.
type Config struct {
	APIKey  string
	BaseURL string
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("prodigi API key is required")
	}
	return nil
}

// Client is the Prodigi order vendor. Every design becomes a fulfillment
// order straight away; Prodigi pulls the design asset itself, so image
// data passes through untouched.
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
		SetHeader("X-API-Key", cfg.APIKey)

	return &Client{cfg: cfg, http: httpClient}, nil
}

func (c *Client) Type() vendors.Type { return vendors.TypeProdigi }
func (c *Client) Name() string       { return "Prodigi" }

func (c *Client) Initialize(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("top", "1").
		Get("/Orders")
	if err != nil {
		return fmt.Errorf("prodigi session probe: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("prodigi API returned status %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) Cleanup(ctx context.Context) error {
	log.Debugw(ctx, "Prodigi session released")
	return nil
}

type address struct {
	Line1           string `json:"line1"`
	Line2           string `json:"line2"`
	PostalOrZipCode string `json:"postalOrZipCode"`
	CountryCode     string `json:"countryCode"`
	TownOrCity      string `json:"townOrCity"`
}

type recipient struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address address `json:"address"`
}

type orderAsset struct {
	PrintArea string  `json:"printArea"`
	URL       string  `json:"url"`
	MD5Hash   *string `json:"md5Hash"`
}

type orderItemRequest struct {
	MerchantReference string            `json:"merchantReference"`
	SKU               string            `json:"sku"`
	Copies            int               `json:"copies"`
	Sizing            string            `json:"sizing"`
	Attributes        map[string]string `json:"attributes"`
	Assets            []orderAsset      `json:"assets"`
}

type createOrderRequest struct {
	MerchantReference string             `json:"merchantReference"`
	ShippingMethod    string             `json:"shippingMethod"`
	IdempotencyKey    string             `json:"idempotencyKey"`
	Recipient         recipient          `json:"recipient"`
	Items             []orderItemRequest `json:"items"`
	Metadata          map[string]string  `json:"metadata"`
}

type orderCost struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type orderItem struct {
	ID   string     `json:"id"`
	SKU  string     `json:"sku"`
	Cost *orderCost `json:"cost"`
}

type order struct {
	ID                string `json:"id"`
	MerchantReference string `json:"merchantReference"`
	Status            struct {
		Stage string `json:"stage"`
	} `json:"status"`
	Items    []orderItem       `json:"items"`
	Metadata map[string]string `json:"metadata"`
}

type orderEnvelope struct {
	Outcome string `json:"outcome"`
	Order   order  `json:"order"`
	// Some responses come back flat without the order wrapper.
	ID string `json:"id"`
}

type listOrdersResponse struct {
	Orders []order `json:"orders"`
}

// CreateProduct places a fulfillment order for one tee. The owner tag
// rides in merchantReference and doubles as the idempotency key, so a
// retried create cannot double-order.
func (c *Client) CreateProduct(ctx context.Context, req vendors.CreateRequest) (*vendors.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	tag := vendors.OwnerTag(req.UserID, req.Name)
	body := createOrderRequest{
		MerchantReference: tag,
		ShippingMethod:    "Budget",
		IdempotencyKey:    tag,
		Recipient: recipient{
			Name:  "Print on Demand",
			Email: "noreply@example.com",
			Address: address{
				Line1:           "14 Tottenham Court Road",
				Line2:           "",
				PostalOrZipCode: "W1T 1JY",
				CountryCode:     "GB",
				TownOrCity:      "London",
			},
		},
		Items: []orderItemRequest{{
			MerchantReference: tag,
			SKU:               tshirtSKU,
			Copies:            1,
			Sizing:            "fillPrintArea",
			Attributes:        map[string]string{"color": "White"},
			Assets:            []orderAsset{{PrintArea: "front", URL: req.ImageData}},
		}},
		Metadata: map[string]string{
			"product_name": req.Name,
			"created_by":   "discord_bot",
		},
	}

	var out orderEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/Orders")
	if err != nil {
		return nil, vendors.NewError(vendors.TypeProdigi, "CreateProduct", "create order", err)
	}
	if resp.IsError() {
		return nil, vendors.NewError(vendors.TypeProdigi, "CreateProduct",
			fmt.Sprintf("prodigi API returned status %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	created := out.Order
	if created.ID == "" {
		created.ID = out.ID
	}
	if created.ID == "" {
		return nil, vendors.NewError(vendors.TypeProdigi, "CreateProduct", "order response missing id", nil)
	}

	product := c.toProduct(created)
	product.ExternalID = tag
	product.Name = req.Name

	log.Infow(ctx, "Prodigi order placed",
		"order_id", product.OrderID,
		"stage", product.Status,
		"external_id", product.ExternalID)
	return &product, nil
}

// ListProducts fetches one page of orders with OData-style top/skip
// parameters. Prodigi reports no total, so a short page is the only
// exhaustion signal.
func (c *Client) ListProducts(ctx context.Context, cur vendors.Cursor) vendors.Page {
	var out listOrdersResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"top":  strconv.Itoa(cur.Limit),
			"skip": strconv.Itoa(cur.Offset),
		}).
		SetResult(&out).
		Get("/Orders")
	if err != nil || resp.IsError() {
		logListFailure(ctx, resp, err)
		return vendors.Page{}
	}

	items := util.ConvertList(out.Orders, c.toProduct)
	return vendors.Page{
		Items:   items,
		Next:    vendors.Cursor{Offset: cur.Offset + cur.Limit, Limit: cur.Limit},
		HasMore: len(items) == cur.Limit,
	}
}

func (c *Client) toProduct(o order) vendors.Product {
	product := vendors.Product{
		ExternalID:  o.MerchantReference,
		OrderID:     o.ID,
		Name:        o.Metadata["product_name"],
		ProductURL:  "https://dashboard.prodigi.com/orders/" + o.ID,
		RetailPrice: parseAmount(defaultCostAmount),
		Currency:    "USD",
		Status:      o.Status.Stage,
	}
	if len(o.Items) > 0 {
		item := o.Items[0]
		if product.Name == "" {
			product.Name = item.SKU
		}
		if item.Cost != nil {
			if item.Cost.Amount != "" {
				product.RetailPrice = parseAmount(item.Cost.Amount)
			}
			if item.Cost.Currency != "" {
				product.Currency = item.Cost.Currency
			}
		}
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

// DeleteProduct cancels the order. Prodigi never deletes orders, and a
// cancel is only honored before fulfillment starts.
func (c *Client) DeleteProduct(ctx context.Context, orderID string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/Orders/%s/actions/cancel", orderID))
	if err != nil {
		return false, fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return resp.IsSuccess(), nil
}

func (c *Client) GetProductInfo(ctx context.Context, orderID string) (map[string]any, error) {
	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/Orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("prodigi API returned status %d", resp.StatusCode())
	}
	if wrapped, ok := out["order"].(map[string]any); ok {
		return wrapped, nil
	}
	return out, nil
}

// OrderStatus reports the fulfillment stage of an order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (string, error) {
	var out orderEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/Orders/" + orderID)
	if err != nil {
		return "", fmt.Errorf("get order %s: %w", orderID, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("prodigi API returned status %d", resp.StatusCode())
	}
	return out.Order.Status.Stage, nil
}

func parseAmount(s string) decimal.Decimal {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func logListFailure(ctx context.Context, resp *resty.Response, err error) {
	fields := []any{"vendor", vendors.TypeProdigi, "op", "ListProducts"}
	if err != nil {
		fields = append(fields, "error", err)
	}
	if resp != nil && resp.IsError() {
		fields = append(fields, "status", resp.StatusCode())
	}
	log.Errorw(ctx, "Vendor listing failed, returning empty page", fields...)
}
