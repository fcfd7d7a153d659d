package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the dashboard API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Marketing Command Center - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Collection routes (/api/{collection} and /api/{collection}/{id}) exist for
// audiences, ad-accounts, campaigns, influencers, influencer-campaigns,
// creatives and channels.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "marketing-manager", "version": "v0.1.0" },
  "paths": {
    "/api/{collection}": {
      "parameters": [{ "name": "collection", "in": "path", "required": true, "schema": { "type": "string", "enum": ["audiences","ad-accounts","campaigns","influencers","influencer-campaigns","creatives","channels"] } }],
      "get": { "summary": "List documents in insertion order", "responses": { "200": { "description": "array of documents" } } },
      "post": { "summary": "Create a document (id and createdAt assigned by the server)", "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } }, "responses": { "200": { "description": "created document" } } }
    },
    "/api/{collection}/{id}": {
      "parameters": [
        { "name": "collection", "in": "path", "required": true, "schema": { "type": "string" } },
        { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } }
      ],
      "get": { "summary": "Get a document", "responses": { "200": { "description": "document" }, "404": { "description": "Not found" } } },
      "put": { "summary": "Shallow-merge fields into a document", "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } }, "responses": { "200": { "description": "merged document" }, "404": { "description": "Not found" } } },
      "delete": { "summary": "Delete a document (idempotent)", "responses": { "200": { "description": "{ok:true}" } } }
    },
    "/api/influencers/{id}/score": {
      "post": { "summary": "Score an influencer against the brand", "responses": { "200": { "description": "influencer with score and scoreBreakdown" }, "404": { "description": "Not found" } } }
    },
    "/api/influencers/search": {
      "post": { "summary": "Influencer search guidance", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"query":{"type":"string"},"platform":{"type":"string"},"category":{"type":"string"},"minFollowers":{"type":"number"},"maxFollowers":{"type":"number"}}}}}}, "responses": { "200": { "description": "criteria echo with suggestions" } } }
    },
    "/api/influencer-campaigns/{id}/approve": {
      "post": { "summary": "Approve an influencer campaign", "responses": { "200": { "description": "approved campaign" }, "404": { "description": "Not found" } } }
    },
    "/api/creatives/generate": {
      "post": { "summary": "Start an image or video generation job", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"prompt":{"type":"string"},"type":{"type":"string","enum":["image","video"]},"style":{"type":"string"},"dimensions":{"type":"string"},"platform":{"type":"string"}}}}}}, "responses": { "200": { "description": "{id,status:generating}" }, "400": { "description": "generation key not configured" } } }
    },
    "/api/creatives/{id}/status": {
      "get": { "summary": "Poll a generation job", "responses": { "200": { "description": "{id,status,url,error}" }, "404": { "description": "Not found" } } }
    },
    "/api/creatives/{id}/artifact": {
      "get": { "summary": "Redirect to the generated artifact", "responses": { "302": { "description": "redirect" }, "404": { "description": "Not found" } } }
    },
    "/api/brand": {
      "get": { "summary": "Brand profile (defaults when unset)", "responses": { "200": { "description": "brand" } } },
      "put": { "summary": "Replace the brand profile", "responses": { "200": { "description": "brand" } } }
    },
    "/api/budget": {
      "get": { "summary": "Budget", "responses": { "200": { "description": "budget" } } },
      "put": { "summary": "Replace the budget; remaining = total - spent", "responses": { "200": { "description": "budget" } } }
    },
    "/api/config": {
      "get": { "summary": "Settings with the generation key masked", "responses": { "200": { "description": "config" } } },
      "put": { "summary": "Merge settings", "responses": { "200": { "description": "{ok:true}" } } }
    },
    "/api/analytics": { "get": { "summary": "Dashboard aggregates", "responses": { "200": { "description": "report" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
