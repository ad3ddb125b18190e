package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/aqibjamil02172004-beep/marketplace/internal/services"

	"github.com/labstack/echo/v4"
)

func registerWebhookRoutes(g *echo.Group, ws *services.WebhookService) {
	p := g.Group("/payments")

	// ============================
	// PROVIDER CALLBACK
	// (NO JWT, must be public)
	// ============================
	p.POST("/webhook", func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable payload"})
		}

		err = ws.HandleEvent(
			c.Request().Context(),
			body,
			c.Request().Header.Get("Stripe-Signature"),
		)
		if err != nil {
			// Signature failure is the only rejection; it makes the
			// provider redeliver, which is what we want for a forged or
			// misconfigured event.
			if errors.Is(err, services.ErrBadSignature) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			// IMPORTANT:
			// anything else must be acknowledged or the provider will
			// retry indefinitely and never succeed.
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": err.Error(),
			})
		}

		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
