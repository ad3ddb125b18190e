package main

import (
	"errors"
	"net/http"

	"github.com/aqibjamil02172004-beep/marketplace/internal/config"
	"github.com/aqibjamil02172004-beep/marketplace/internal/middleware"
	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
	"github.com/aqibjamil02172004-beep/marketplace/internal/services"

	"github.com/labstack/echo/v4"
)

type checkoutRequest struct {
	Items []model.CartLine `json:"items"`
}

func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService, cfg *config.Config) {
	// Anonymous checkout is allowed; a valid bearer token just attaches the
	// user id to the session metadata.
	g.POST("/checkout", func(c echo.Context) error {
		var req checkoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}

		userID := ""
		if claims := middleware.TryGetClaims(c, []byte(cfg.JWTSecret)); claims != nil {
			userID = claims.UserID
		}

		redirectURL, err := cs.Initiate(
			c.Request().Context(),
			req.Items,
			userID,
			services.RequestOrigin{
				Origin: c.Request().Header.Get("Origin"),
				Host:   c.Request().Host,
			},
		)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, services.ErrValidation) {
				status = http.StatusBadRequest
			}
			return c.JSON(status, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]string{"redirect_url": redirectURL})
	})
}
