package server

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/tuannha-ct/merch-bot/internal/models"
	"github.com/tuannha-ct/merch-bot/internal/repo/vendors"
	pkgmdw "github.com/tuannha-ct/merch-bot/internal/server/middleware"
	"github.com/tuannha-ct/merch-bot/internal/usecase"
	"github.com/tuannha-ct/merch-bot/pkg/ctxval"
)

type Controller interface {
	Health(c echo.Context) error
	ProcessMessage(c echo.Context) error
	ListDesigns(c echo.Context) error
	DesignStats(c echo.Context) error
	UserDesigns(c echo.Context) error
	Vendors(c echo.Context) error
}

type controller struct {
	messageUsecase usecase.MessageUsecase
	designUsecase  usecase.DesignUsecase
	registry       *vendors.Registry
}

func NewHandler(
	messageUsecase usecase.MessageUsecase,
	designUsecase usecase.DesignUsecase,
	registry *vendors.Registry,
) Controller {
	return &controller{
		messageUsecase: messageUsecase,
		designUsecase:  designUsecase,
		registry:       registry,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "merch-bot",
	})
}

// ProcessMessage is the webhook twin of the Kafka consumer: same message
// shape, same pipeline, but the outcome travels back in the response.
func (h *controller) ProcessMessage(c echo.Context) error {
	var message models.IncomingMessage
	if err := pkgmdw.BindAndValidate(c, &message); err != nil {
		return err
	}

	ctx := c.Request().Context()
	ctxval.Set(ctx, logKeyChannelID, message.ChannelID)
	ctxval.Set(ctx, logKeySenderID, message.SenderID)

	result, err := h.messageUsecase.ProcessMessage(ctx, message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if result == nil {
		return c.JSON(http.StatusAccepted, map[string]string{"status": "ignored"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *controller) ListDesigns(c echo.Context) error {
	designs := h.designUsecase.GetAllDesigns(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{
		"designs": designs,
		"count":   len(designs),
	})
}

func (h *controller) DesignStats(c echo.Context) error {
	stats := h.designUsecase.GetDesignStats(c.Request().Context())
	return c.JSON(http.StatusOK, stats)
}

func (h *controller) UserDesigns(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing user_id")
	}

	designs := h.designUsecase.GetUserDesigns(c.Request().Context(), userID)
	return c.JSON(http.StatusOK, map[string]any{
		"user_id": userID,
		"designs": designs,
		"count":   len(designs),
	})
}

type vendorStatus struct {
	Vendor  string `json:"vendor"`
	Active  bool   `json:"active"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func (h *controller) Vendors(c echo.Context) error {
	ctx := c.Request().Context()
	health := h.registry.HealthCheck(ctx)

	var activeType vendors.Type
	if active, err := h.registry.Active(); err == nil {
		activeType = active.Type()
	}

	statuses := make([]vendorStatus, 0, len(health))
	for t, err := range health {
		status := vendorStatus{
			Vendor:  string(t),
			Active:  t == activeType,
			Healthy: err == nil,
		}
		if err != nil {
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Vendor < statuses[j].Vendor })

	return c.JSON(http.StatusOK, map[string]any{
		"active":  string(activeType),
		"vendors": statuses,
	})
}
