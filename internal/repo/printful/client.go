package printful

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
	defaultBaseURL = "https://api.printful.com"

	// Catalog product 71 is the Bella+Canvas 3001 unisex tee; variant
	// 4012 is white / M.
	catalogVariantID   = 4012
	defaultRetailPrice = "29.99"

	requestTimeout = 30 * time.Second
	createTimeout  = 60 * time.Second
)

// Config holds the Printful store credentials.
type Config struct {
	APIKey  string
	BaseURL string
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("printful API key is required")
	}
	return nil
}

// Client is the Printful store-product vendor. Designs become sync
// products in the connected store; nothing is ordered until a buyer
// checks out on the storefront.
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

func (c *Client) Type() vendors.Type { return vendors.TypePrintful }
func (c *Client) Name() string       { return "Printful" }

// Initialize probes the store listing with the smallest possible page to
// verify the API key.
func (c *Client) Initialize(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get("/store/products")
	if err != nil {
		return fmt.Errorf("printful session probe: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("printful API returned status %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) Cleanup(ctx context.Context) error {
	log.Debugw(ctx, "Printful session released")
	return nil
}

type fileUploadRequest struct {
	URL  string `json:"url,omitempty"`
	File string `json:"file,omitempty"`
	Type string `json:"type"`
}

type fileUploadResponse struct {
	Result struct {
		ID int64 `json:"id"`
	} `json:"result"`
}

type syncProductInfo struct {
	Name       string `json:"name"`
	ExternalID string `json:"external_id,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}

type syncVariantFile struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type syncVariant struct {
	VariantID   int               `json:"variant_id"`
	RetailPrice string            `json:"retail_price"`
	Files       []syncVariantFile `json:"files"`
}

type createProductRequest struct {
	SyncProduct  syncProductInfo `json:"sync_product"`
	SyncVariants []syncVariant   `json:"sync_variants"`
}

type createProductResponse struct {
	Result struct {
		SyncProduct  listedProduct `json:"sync_product"`
		SyncVariants []struct {
			ID          int64  `json:"id"`
			RetailPrice string `json:"retail_price"`
			Currency    string `json:"currency"`
		} `json:"sync_variants"`
	} `json:"result"`
}

type listedProduct struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Variants     int    `json:"variants"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type listResponse struct {
	Code   int             `json:"code"`
	Result []listedProduct `json:"result"`
	Paging struct {
		Total  int `json:"total"`
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"paging"`
}

// CreateProduct uploads the design file, then creates a sync product
// carrying the owner tag in its external id.
func (c *Client) CreateProduct(ctx context.Context, req vendors.CreateRequest) (*vendors.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	fileID, err := c.uploadDesign(ctx, req.ImageData)
	if err != nil {
		return nil, vendors.NewError(vendors.TypePrintful, "CreateProduct", "upload design file", err)
	}

	tag := vendors.OwnerTag(req.UserID, req.Name)
	body := createProductRequest{
		SyncProduct: syncProductInfo{
			Name:       req.Name,
			ExternalID: tag,
			Thumbnail:  fmt.Sprintf("%s/files/%d/preview", c.cfg.BaseURL, fileID),
		},
		SyncVariants: []syncVariant{{
			VariantID:   catalogVariantID,
			RetailPrice: defaultRetailPrice,
			Files:       []syncVariantFile{{ID: fileID, Type: "default"}},
		}},
	}

	var out createProductResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/store/products")
	if err != nil {
		return nil, vendors.NewError(vendors.TypePrintful, "CreateProduct", "create sync product", err)
	}
	if resp.IsError() {
		return nil, vendors.NewError(vendors.TypePrintful, "CreateProduct",
			fmt.Sprintf("printful API returned status %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	created := out.Result.SyncProduct
	product := &vendors.Product{
		ExternalID:   tag,
		ProductID:    strconv.FormatInt(created.ID, 10),
		Name:         req.Name,
		ThumbnailURL: created.ThumbnailURL,
		ProductURL:   fmt.Sprintf("https://www.printful.com/dashboard/store/products/%d", created.ID),
		RetailPrice:  parsePrice(defaultRetailPrice),
		Currency:     "USD",
		VariantCount: len(out.Result.SyncVariants),
	}
	if created.ExternalID != "" {
		product.ExternalID = created.ExternalID
	}
	if len(out.Result.SyncVariants) > 0 {
		v := out.Result.SyncVariants[0]
		if v.RetailPrice != "" {
			product.RetailPrice = parsePrice(v.RetailPrice)
		}
		if v.Currency != "" {
			product.Currency = v.Currency
		}
	}

	log.Infow(ctx, "Printful product created",
		"product_id", product.ProductID,
		"external_id", product.ExternalID)
	return product, nil
}

func (c *Client) uploadDesign(ctx context.Context, imageData string) (int64, error) {
	body := fileUploadRequest{Type: "default"}
	if strings.HasPrefix(imageData, "http") {
		body.URL = imageData
	} else {
		body.File = imageData
	}

	var out fileUploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/files")
	if err != nil {
		return 0, fmt.Errorf("upload file: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("printful API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Result.ID == 0 {
		return 0, fmt.Errorf("upload response missing file id")
	}
	return out.Result.ID, nil
}

// ListProducts fetches one page of store sync products. Failures degrade
// to an empty page; exhaustion is offset+limit reaching the reported
// total.
func (c *Client) ListProducts(ctx context.Context, cur vendors.Cursor) vendors.Page {
	var out listResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset": strconv.Itoa(cur.Offset),
			"limit":  strconv.Itoa(cur.Limit),
		}).
		SetResult(&out).
		Get("/store/products")
	if err != nil || resp.IsError() {
		logListFailure(ctx, resp, err)
		return vendors.Page{}
	}

	items := util.ConvertList(out.Result, c.toProduct)
	return vendors.Page{
		Items:   items,
		Next:    vendors.Cursor{Offset: cur.Offset + cur.Limit, Limit: cur.Limit},
		HasMore: cur.Offset+cur.Limit < out.Paging.Total,
	}
}

func (c *Client) toProduct(item listedProduct) vendors.Product {
	return vendors.Product{
		ExternalID:   item.ExternalID,
		ProductID:    strconv.FormatInt(item.ID, 10),
		Name:         item.Name,
		ThumbnailURL: item.ThumbnailURL,
		ProductURL:   fmt.Sprintf("https://www.printful.com/dashboard/store/products/%d", item.ID),
		Currency:     "USD",
		VariantCount: item.Variants,
	}
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

func (c *Client) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/store/products/" + productID)
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", productID, err)
	}
	return resp.IsSuccess(), nil
}

func (c *Client) GetProductInfo(ctx context.Context, productID string) (map[string]any, error) {
	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/store/products/" + productID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("printful API returned status %d", resp.StatusCode())
	}
	if result, ok := out["result"].(map[string]any); ok {
		return result, nil
	}
	return out, nil
}

func parsePrice(s string) decimal.Decimal {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return price
}

func logListFailure(ctx context.Context, resp *resty.Response, err error) {
	fields := []any{"vendor", vendors.TypePrintful, "op", "ListProducts"}
	if err != nil {
		fields = append(fields, "error", err)
	}
	if resp != nil && resp.IsError() {
		fields = append(fields, "status", resp.StatusCode())
	}
	log.Errorw(ctx, "Vendor listing failed, returning empty page", fields...)
}
