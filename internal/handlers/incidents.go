package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rvasily/incident-capture-service/internal/document"
	"github.com/rvasily/incident-capture-service/internal/incident"
	"github.com/rvasily/incident-capture-service/internal/models"
)

// RegisterIncidentRoutes registers the capture and lookup endpoints.
//
// POST /problems — capture a request snapshot, respond with its fingerprint
// POST /find     — key/value search across stored headers and bodies
// GET  /find2    — exact fingerprint lookup (?h=...)
func RegisterIncidentRoutes(r gin.IRoutes, svc *incident.Service) {
	r.POST("/problems", func(c *gin.Context) {
		headers := normalizeHeaders(c.Request.Header)
		body := parseBody(c)

		inc, err := svc.Record(c.Request.Context(), headers, body)
		if err != nil {
			if errors.Is(err, document.ErrUnencodable) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "encoding failed"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert failed"})
			return
		}

		c.JSON(http.StatusOK, models.RecordResponse{Hash: inc.Fingerprint})
	})

	r.POST("/find", func(c *gin.Context) {
		// Malformed or non-object payloads degrade to an empty term set,
		// which deliberately matches nothing.
		var terms map[string]document.Value
		if raw, err := c.GetRawData(); err == nil && len(raw) > 0 {
			if parsed, perr := document.Parse(raw); perr == nil {
				terms = parsed.Fields()
			}
		}

		results, err := svc.Search(c.Request.Context(), terms)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.SearchResponse{Results: results})
	})

	r.GET("/find2", func(c *gin.Context) {
		hash := c.Query("h")
		if hash == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Hash parameter is required"})
			return
		}

		results, err := svc.Lookup(c.Request.Context(), hash)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.SearchResponse{Results: results})
	})
}

// normalizeHeaders lowercases header names and folds repeated values into one
// comma-joined string, so stored keys are case-insensitive lookups.
func normalizeHeaders(h http.Header) document.Value {
	fields := make(map[string]document.Value, len(h))
	for name, values := range h {
		fields[strings.ToLower(name)] = document.StringValue(strings.Join(values, ", "))
	}
	return document.ObjectValue(fields)
}

// parseBody reads the request payload as a JSON document. Absent or
// unparseable bodies fall back to an empty object rather than failing the
// capture; a parseable non-object payload (e.g. a bare string) is kept as-is.
func parseBody(c *gin.Context) document.Value {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		return document.ObjectValue(nil)
	}

	parsed, err := document.Parse(raw)
	if err != nil {
		return document.ObjectValue(nil)
	}
	return parsed
}
