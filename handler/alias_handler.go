package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlachapelle/ocr-invoice-extraction/alias"
	"github.com/mlachapelle/ocr-invoice-extraction/dto"
)

// AliasHandler exposes alias resolution and hot reload of the alias
// configuration. Reload swaps in a fresh snapshot; parses already running
// keep the configuration they started with.
type AliasHandler struct {
	resolver   *alias.Resolver
	configPath string
}

func NewAliasHandler(resolver *alias.Resolver, configPath string) *AliasHandler {
	return &AliasHandler{
		resolver:   resolver,
		configPath: configPath,
	}
}

// Resolve handles POST /aliases/resolve
func (h *AliasHandler) Resolve(c *gin.Context) {
	var request dto.ResolveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "RESOLVE_FAILED",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	match, ok := h.resolver.Resolve(request.Text)
	if !ok {
		c.JSON(http.StatusOK, dto.ResolveResponse{Resolved: false})
		return
	}

	c.JSON(http.StatusOK, dto.ResolveResponse{
		Resolved: true,
		Match: &dto.CompanyMatch{
			OfficialName: match.OfficialName,
			MatchKind:    string(match.Kind),
			Confidence:   match.Confidence,
		},
	})
}

// Reload handles POST /aliases/reload
func (h *AliasHandler) Reload(c *gin.Context) {
	cfg := alias.LoadConfig(h.configPath)
	h.resolver.Reload(cfg)

	log.Printf("Alias configuration reloaded from %s (%d official names)", h.configPath, len(cfg.OfficialNames))

	c.JSON(http.StatusOK, dto.ReloadResponse{
		OfficialNames: len(cfg.OfficialNames),
		LoadedFrom:    h.configPath,
	})
}
