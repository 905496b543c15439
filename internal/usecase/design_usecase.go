package usecase

import (
	"context"
	"fmt"
	"math/rand"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/tuannha-ct/merch-bot/internal/design"
	"github.com/tuannha-ct/merch-bot/internal/models"
	"github.com/tuannha-ct/merch-bot/internal/repo/llm"
	"github.com/tuannha-ct/merch-bot/internal/repo/vendors"
	"github.com/tuannha-ct/merch-bot/pkg/util"
)

const (
	productNameSuffix = " - Custom Tee"
	maxNameRunes      = 50

	parseFailureText    = "Hmm, couldn't quite catch that..."
	parseFailureDetail  = "failed to parse message"
	internalFailureText = "Oof, something broke on our end!"
)

var celebrationPhrases = []string{
	"Got you fam! 🔥",
	"Say less, squad! 💪",
	"Bet! Your fit is ready! 👕",
	"No cap, this tee slaps! 🎯",
	"It's giving main character energy! ✨",
	"Chef's kiss on this one! 👨‍🍳💋",
	"Your drip has arrived! 💧",
	"Sheesh, this goes hard! 🔥",
	"We understood the assignment! 📝✅",
	"Straight bussin'! 💯",
}

// DesignUsecase orchestrates one design request end to end: intent,
// artwork, vendor product. ProcessRequest never returns an error; every
// outcome is a uniform result record the chat layer can render.
type DesignUsecase interface {
	ProcessRequest(ctx context.Context, message, userID, username string) *models.DesignResult
	GetUserDesigns(ctx context.Context, userID string) []vendors.Product
	GetDesignStats(ctx context.Context) *vendors.Stats
	GetAllDesigns(ctx context.Context) []vendors.Product
}

type designUsecase struct {
	parser    llm.Parser
	generator design.Generator
	registry  *vendors.Registry
}

func NewDesignUsecase(
	parser llm.Parser,
	generator design.Generator,
	registry *vendors.Registry,
) DesignUsecase {
	return &designUsecase{
		parser:    parser,
		generator: generator,
		registry:  registry,
	}
}

func (uc *designUsecase) ProcessRequest(ctx context.Context, message, userID, username string) *models.DesignResult {
	req, err := uc.parser.ParseRequest(ctx, message)
	if err != nil {
		log.Warnw(ctx, "Failed to parse design request", "error", err, "user_id", userID)
		return &models.DesignResult{
			Success:      false,
			ResponseText: parseFailureText,
			ErrorText:    parseFailureDetail,
		}
	}

	artifact, err := uc.generator.Render(ctx, req)
	if err != nil {
		log.Errorw(ctx, "Failed to render design", "error", err, "phrase", req.Phrase)
		return failureResult(err)
	}

	client, err := uc.registry.Active()
	if err != nil {
		log.Errorw(ctx, "No vendor available for design request", "error", err)
		return failureResult(err)
	}

	product, err := client.CreateProduct(ctx, vendors.CreateRequest{
		Name:        util.TruncateRunes(req.Phrase, maxNameRunes) + productNameSuffix,
		ImageData:   artifact.DataURI,
		UserID:      userID,
		Description: fmt.Sprintf("Custom tee for %s", username),
		Color:       util.Val(req.ColorPreference),
	})
	if err != nil {
		log.Errorw(ctx, "Vendor rejected design product",
			"error", err, "vendor", client.Name(), "user_id", userID)
		return failureResult(err)
	}

	log.Infow(ctx, "Design product created",
		"vendor", client.Name(),
		"product_id", product.ProductID,
		"order_id", product.OrderID,
		"user_id", userID)

	phrase := celebrationPhrases[rand.Intn(len(celebrationPhrases))]
	responseText := phrase
	if product.ProductURL != "" {
		responseText = fmt.Sprintf("%s\n🛒 Cop it here: %s", phrase, product.ProductURL)
	}

	return &models.DesignResult{
		Success:      true,
		ProductURL:   product.ProductURL,
		ResponseText: responseText,
		Phrase:       phrase,
	}
}

func (uc *designUsecase) GetUserDesigns(ctx context.Context, userID string) []vendors.Product {
	client, err := uc.registry.Active()
	if err != nil {
		log.Errorw(ctx, "No vendor available for user designs", "error", err)
		return []vendors.Product{}
	}

	products, err := client.SearchProductsByUser(ctx, userID)
	if err != nil {
		log.Errorw(ctx, "Failed to search user designs", "error", err, "user_id", userID)
		return []vendors.Product{}
	}
	return products
}

func (uc *designUsecase) GetDesignStats(ctx context.Context) *vendors.Stats {
	client, err := uc.registry.Active()
	if err != nil {
		log.Errorw(ctx, "No vendor available for design stats", "error", err)
		return &vendors.Stats{}
	}

	stats, err := client.GetDesignStats(ctx)
	if err != nil {
		log.Errorw(ctx, "Failed to compute design stats", "error", err)
		return &vendors.Stats{}
	}
	return stats
}

func (uc *designUsecase) GetAllDesigns(ctx context.Context) []vendors.Product {
	client, err := uc.registry.Active()
	if err != nil {
		log.Errorw(ctx, "No vendor available for design listing", "error", err)
		return []vendors.Product{}
	}

	products, err := client.GetAllDesigns(ctx)
	if err != nil {
		log.Errorw(ctx, "Failed to list designs", "error", err)
		return []vendors.Product{}
	}
	return products
}

func failureResult(err error) *models.DesignResult {
	return &models.DesignResult{
		Success:      false,
		ResponseText: internalFailureText,
		ErrorText:    err.Error(),
	}
}
