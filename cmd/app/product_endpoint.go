package main

import (
	"errors"
	"net/http"

	"github.com/aqibjamil02172004-beep/marketplace/internal/config"
	"github.com/aqibjamil02172004-beep/marketplace/internal/middleware"
	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
	"github.com/aqibjamil02172004-beep/marketplace/internal/repository"
	"github.com/aqibjamil02172004-beep/marketplace/internal/services"

	"github.com/labstack/echo/v4"
)

func registerProductRoutes(g *echo.Group, cs *services.CatalogService, cfg *config.Config) {
	p := g.Group("/products")

	// Public slug lookup
	p.GET("/:slug", func(c echo.Context) error {
		product, err := cs.BySlug(c.Request().Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, product)
	})

	authed := p.Group("")
	authed.Use(middleware.JWT([]byte(cfg.JWTSecret)))

	// Seller lists a new product
	authed.POST("", middleware.SellerOnly(func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		var req model.Product
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		product, err := cs.Create(c.Request().Context(), claims.UserID, req)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, product)
	}))

	// Seller's own catalog
	authed.GET("/mine", middleware.SellerOnly(func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		products, err := cs.ListBySeller(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, products)
	}))
}
