package main

import (
	"errors"
	"net/http"

	"github.com/aqibjamil02172004-beep/marketplace/internal/config"
	"github.com/aqibjamil02172004-beep/marketplace/internal/middleware"
	"github.com/aqibjamil02172004-beep/marketplace/internal/services"

	"github.com/labstack/echo/v4"
)

func registerOrderRoutes(g *echo.Group, os *services.OrderService, cfg *config.Config) {
	p := g.Group("/orders")

	// Post-redirect reconciliation read. Public: the buyer may have checked
	// out anonymously, and the opaque session id is the capability. Answers
	// {"processing": true} while the webhook hasn't landed yet.
	p.GET("/session/:sessionId", func(c echo.Context) error {
		result, err := os.AwaitOrder(c.Request().Context(), c.Param("sessionId"))
		if err != nil {
			if errors.Is(err, services.ErrSuperseded) {
				return c.NoContent(http.StatusConflict)
			}
			return c.NoContent(http.StatusRequestTimeout)
		}
		return c.JSON(http.StatusOK, result)
	})

	authed := p.Group("")
	authed.Use(middleware.JWT([]byte(cfg.JWTSecret)))

	// Buyer order history
	authed.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		views, err := os.ListOrdersForUser(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrSuperseded) {
				return c.NoContent(http.StatusConflict)
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, views)
	})

	// Seller sales view
	authed.GET("/sales", middleware.SellerOnly(func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		sales, err := os.ListItemsForSeller(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrSuperseded) {
				return c.NoContent(http.StatusConflict)
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, sales)
	}))
}
