package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type TurnstileConfig struct {
	Enabled bool
	Secret  string

	// VerifyURL overrides the cloudflare endpoint
	VerifyURL string
}

type turnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// NewTurnstileMiddleware rejects requests whose TurnstileToken header
// cloudflare doesn't accept. It does nothing when disabled.
func NewTurnstileMiddleware(cfg TurnstileConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	if cfg.VerifyURL == "" {
		cfg.VerifyURL = turnstileVerifyURL
	}

	client := &http.Client{Timeout: 10 * time.Second}

	return func(c *gin.Context) {
		token := c.Request.Header.Get("TurnstileToken")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"statusCode": http.StatusBadRequest,
				"message":    "Missing or invalid turnstile token",
			})
			return
		}

		jsonBody, _ := json.Marshal(gin.H{
			"secret":   cfg.Secret,
			"response": token,
			"remoteip": c.ClientIP(),
		})

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, cfg.VerifyURL, bytes.NewReader(jsonBody))
		if err != nil {
			unauthorized(c)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			zap.L().Error("Failed to reach turnstile", zap.Error(err))
			unauthorized(c)
			return
		}
		defer resp.Body.Close()

		var res turnstileResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || !res.Success {
			zap.L().Debug("Turnstile rejected token", zap.Strings("error_codes", res.ErrorCodes))
			unauthorized(c)
			return
		}

		c.Next()
	}
}
