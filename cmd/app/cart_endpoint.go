package main

import (
	"net/http"

	"github.com/aqibjamil02172004-beep/marketplace/internal/cart"
	"github.com/aqibjamil02172004-beep/marketplace/internal/config"
	"github.com/aqibjamil02172004-beep/marketplace/internal/middleware"
	"github.com/aqibjamil02172004-beep/marketplace/internal/model"

	"github.com/labstack/echo/v4"
)

func registerCartRoutes(g *echo.Group, storage cart.Storage, cfg *config.Config) {
	p := g.Group("/cart")
	p.Use(middleware.JWT([]byte(cfg.JWTSecret)))

	// GET cart
	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		s := cart.Open(c.Request().Context(), claims.UserID, storage)
		return c.JSON(http.StatusOK, model.CartResponse{
			Items:      s.Lines(),
			Count:      s.Count(),
			TotalMinor: s.TotalMinor(),
		})
	})

	// ADD item (merges by item_id)
	p.POST("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		var line model.CartLine
		if err := c.Bind(&line); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if line.ItemID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "item_id is required"})
		}
		s := cart.Open(c.Request().Context(), claims.UserID, storage)
		s.Add(c.Request().Context(), line)
		return c.JSON(http.StatusOK, model.CartResponse{
			Items:      s.Lines(),
			Count:      s.Count(),
			TotalMinor: s.TotalMinor(),
		})
	})

	// REMOVE item
	p.DELETE("/:itemId", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		s := cart.Open(c.Request().Context(), claims.UserID, storage)
		s.Remove(c.Request().Context(), c.Param("itemId"))
		return c.JSON(http.StatusOK, model.CartResponse{
			Items:      s.Lines(),
			Count:      s.Count(),
			TotalMinor: s.TotalMinor(),
		})
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		s := cart.Open(c.Request().Context(), claims.UserID, storage)
		s.Clear(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	})
}
