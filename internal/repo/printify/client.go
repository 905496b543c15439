package printify

import (
	"context"
	"encoding/json"
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
	defaultBaseURL = "https://api.printify.com/v1"

	// Catalog blueprint 5 is the generic unisex tee.
	BlueprintUnisexTShirt = 5
	// Blueprint 6 is the Bella+Canvas 3001.
	BlueprintBellaCanvas = 6

	// Retail price in cents; Printify prices are integer cents.
	defaultPriceCents  = 2500
	maxEnabledVariants = 3

	requestTimeout = 30 * time.Second
	createTimeout  = 90 * time.Second
)

// Config holds the Printify merchant credentials. ShopID scopes every
// product call; the catalog endpoints are shop-independent.
type Config struct {
	APIKey      string
	ShopID      string
	BaseURL     string
	BlueprintID int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("printify API key is required")
	}
	if c.ShopID == "" {
		return fmt.Errorf("printify shop id is required")
	}
	return nil
}

// Client is the Printify catalog vendor. Product creation resolves a
// print provider from the blueprint catalog before the artwork upload
// starts.
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
	if cfg.BlueprintID == 0 {
		cfg.BlueprintID = BlueprintUnisexTShirt
	}

	httpClient := util.NewVendorRestyClient(requestTimeout).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)

	return &Client{cfg: cfg, http: httpClient}, nil
}

func (c *Client) Type() vendors.Type { return vendors.TypePrintify }
func (c *Client) Name() string       { return "Printify" }

type shop struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
}

// Initialize verifies the API key and that the configured shop exists.
func (c *Client) Initialize(ctx context.Context) error {
	var shops []shop
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&shops).
		Get("/shops.json")
	if err != nil {
		return fmt.Errorf("printify session probe: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("printify API returned status %d", resp.StatusCode())
	}

	for _, s := range shops {
		if s.ID.String() == c.cfg.ShopID {
			return nil
		}
	}
	return fmt.Errorf("shop %s not found in printify account", c.cfg.ShopID)
}

func (c *Client) Cleanup(ctx context.Context) error {
	log.Debugw(ctx, "Printify session released")
	return nil
}

type printProvider struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type blueprintVariant struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type variantsResponse struct {
	Variants []blueprintVariant `json:"variants"`
}

type uploadResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
}

type productVariant struct {
	ID        int  `json:"id"`
	Price     int  `json:"price"`
	IsEnabled bool `json:"is_enabled"`
}

type placedImage struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle int     `json:"angle"`
}

type placeholder struct {
	Position string        `json:"position"`
	Images   []placedImage `json:"images"`
}

type printArea struct {
	VariantIDs   []int         `json:"variant_ids"`
	Placeholders []placeholder `json:"placeholders"`
}

type externalRef struct {
	ID string `json:"id"`
}

type createProductRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	BlueprintID     int              `json:"blueprint_id"`
	PrintProviderID int              `json:"print_provider_id"`
	Variants        []productVariant `json:"variants"`
	PrintAreas      []printArea      `json:"print_areas"`
	External        *externalRef     `json:"external,omitempty"`
}

type listedProduct struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Visible  bool   `json:"visible"`
	External struct {
		ID string `json:"id"`
	} `json:"external"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
	Variants []productVariant `json:"variants"`
}

// CreateProduct resolves the print provider, uploads the design, picks
// the blueprint variants and creates the shop product. An unusable
// blueprint fails before any artwork is uploaded.
func (c *Client) CreateProduct(ctx context.Context, req vendors.CreateRequest) (*vendors.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	providerID, err := c.selectPrintProvider(ctx)
	if err != nil {
		return nil, vendors.NewError(vendors.TypePrintify, "CreateProduct", "select print provider", err)
	}

	imageID, err := c.uploadImage(ctx, req.Name, req.ImageData)
	if err != nil {
		return nil, vendors.NewError(vendors.TypePrintify, "CreateProduct", "upload design image", err)
	}

	variants, err := c.blueprintVariants(ctx, providerID)
	if err != nil {
		return nil, vendors.NewError(vendors.TypePrintify, "CreateProduct", "fetch blueprint variants", err)
	}

	enabled := variants
	if len(enabled) > maxEnabledVariants {
		enabled = enabled[:maxEnabledVariants]
	}
	variantIDs := util.ConvertList(enabled, func(v blueprintVariant) int { return v.ID })

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Custom design created by user %s", req.UserID)
	}
	tag := vendors.OwnerTag(req.UserID, req.Name)

	body := createProductRequest{
		Title:           req.Name,
		Description:     description,
		BlueprintID:     c.cfg.BlueprintID,
		PrintProviderID: providerID,
		Variants: util.ConvertList(enabled, func(v blueprintVariant) productVariant {
			return productVariant{ID: v.ID, Price: defaultPriceCents, IsEnabled: true}
		}),
		PrintAreas: []printArea{{
			VariantIDs: variantIDs,
			Placeholders: []placeholder{{
				Position: "front",
				Images:   []placedImage{{ID: imageID, X: 0.5, Y: 0.5, Scale: 1.0, Angle: 0}},
			}},
		}},
		External: &externalRef{ID: tag},
	}

	var created listedProduct
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&created).
		Post(fmt.Sprintf("/shops/%s/products.json", c.cfg.ShopID))
	if err != nil {
		return nil, vendors.NewError(vendors.TypePrintify, "CreateProduct", "create product", err)
	}
	if resp.IsError() {
		return nil, vendors.NewError(vendors.TypePrintify, "CreateProduct",
			fmt.Sprintf("printify API returned status %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	product := c.toProduct(created)
	product.ExternalID = tag
	product.Name = req.Name

	log.Infow(ctx, "Printify product created",
		"product_id", product.ProductID,
		"print_provider_id", providerID,
		"external_id", product.ExternalID)
	return &product, nil
}

// selectPrintProvider picks the first provider able to print the
// configured blueprint.
func (c *Client) selectPrintProvider(ctx context.Context) (int, error) {
	var providers []printProvider
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&providers).
		Get(fmt.Sprintf("/catalog/blueprints/%d/print_providers.json", c.cfg.BlueprintID))
	if err != nil {
		return 0, fmt.Errorf("fetch print providers: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("printify API returned status %d", resp.StatusCode())
	}
	if len(providers) == 0 {
		return 0, fmt.Errorf("no print providers available for blueprint %d", c.cfg.BlueprintID)
	}
	return providers[0].ID, nil
}

func (c *Client) uploadImage(ctx context.Context, name, imageData string) (string, error) {
	body := map[string]string{"file_name": name + ".png"}
	if strings.HasPrefix(imageData, "http") {
		body["url"] = imageData
	} else {
		contents := imageData
		if idx := strings.Index(contents, "base64,"); idx >= 0 {
			contents = contents[idx+len("base64,"):]
		}
		body["contents"] = contents
	}

	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/uploads/images.json")
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("printify API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.ID == "" {
		return "", fmt.Errorf("upload response missing image id")
	}
	return out.ID, nil
}

func (c *Client) blueprintVariants(ctx context.Context, providerID int) ([]blueprintVariant, error) {
	var out variantsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/catalog/blueprints/%d/print_providers/%d/variants.json", c.cfg.BlueprintID, providerID))
	if err != nil {
		return nil, fmt.Errorf("fetch variants: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("printify API returned status %d", resp.StatusCode())
	}
	if len(out.Variants) == 0 {
		return nil, fmt.Errorf("no variants available for blueprint %d", c.cfg.BlueprintID)
	}
	return out.Variants, nil
}

// ListProducts fetches one shop page. Printify paginates by page number
// and answers with either a bare array or a data wrapper depending on
// API growth stage; both are handled. A short page ends the sweep.
func (c *Client) ListProducts(ctx context.Context, cur vendors.Cursor) vendors.Page {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit": strconv.Itoa(cur.Limit),
			"page":  strconv.Itoa(cur.PageNum),
		}).
		Get(fmt.Sprintf("/shops/%s/products.json", c.cfg.ShopID))
	if err != nil || resp.IsError() {
		logListFailure(ctx, resp, err)
		return vendors.Page{}
	}

	raw, err := parseListBody(resp.Body())
	if err != nil {
		logListFailure(ctx, nil, err)
		return vendors.Page{}
	}

	items := util.ConvertList(raw, c.toProduct)
	return vendors.Page{
		Items:   items,
		Next:    vendors.Cursor{PageNum: cur.PageNum + 1, Limit: cur.Limit},
		HasMore: len(items) == cur.Limit,
	}
}

func parseListBody(body []byte) ([]listedProduct, error) {
	var direct []listedProduct
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Data []listedProduct `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode product listing: %w", err)
	}
	return wrapped.Data, nil
}

func (c *Client) toProduct(item listedProduct) vendors.Product {
	product := vendors.Product{
		ExternalID:   item.External.ID,
		ProductID:    item.ID,
		Name:         item.Title,
		ProductURL:   "https://printify.com/app/products/" + item.ID,
		RetailPrice:  decimal.New(defaultPriceCents, -2),
		Currency:     "USD",
		VariantCount: len(item.Variants),
		Visible:      item.Visible,
	}
	if len(item.Images) > 0 {
		product.ThumbnailURL = item.Images[0].Src
	}
	if len(item.Variants) > 0 && item.Variants[0].Price > 0 {
		product.RetailPrice = decimal.New(int64(item.Variants[0].Price), -2)
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

// PublishProduct pushes a draft product live on every sales channel
// surface Printify knows about.
func (c *Client) PublishProduct(ctx context.Context, productID string) (bool, error) {
	body := map[string]bool{
		"title":       true,
		"description": true,
		"images":      true,
		"variants":    true,
		"tags":        true,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/shops/%s/products/%s/publish.json", c.cfg.ShopID, productID))
	if err != nil {
		return false, fmt.Errorf("publish product %s: %w", productID, err)
	}
	return resp.IsSuccess(), nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/shops/%s/products/%s.json", c.cfg.ShopID, productID))
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
		Get(fmt.Sprintf("/shops/%s/products/%s.json", c.cfg.ShopID, productID))
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("printify API returned status %d", resp.StatusCode())
	}
	return out, nil
}

func logListFailure(ctx context.Context, resp *resty.Response, err error) {
	fields := []any{"vendor", vendors.TypePrintify, "op", "ListProducts"}
	if err != nil {
		fields = append(fields, "error", err)
	}
	if resp != nil && resp.IsError() {
		fields = append(fields, "status", resp.StatusCode())
	}
	log.Errorw(ctx, "Vendor listing failed, returning empty page", fields...)
}
