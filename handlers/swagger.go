package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the workflow service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
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
    <title>gogotex-workflow - Swagger</title>
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

// OpenAPI document for the workflow routes. Every /api/v1/workflow route answers 404
// to callers without a valid bearer token.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "gogotex-workflow", "version": "v0.2.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } },
    "schemas": {
      "Batch": { "type": "object", "properties": {
        "status": {"type":"string"},
        "success": {"type":"array","items":{"type":"string"}},
        "errors": {"type":"array","items":{"type":"object","properties":{"locale":{"type":"string"},"kind":{"type":"string"},"message":{"type":"string"}}}},
        "warnings": {"type":"array","items":{"type":"object"}}
      } },
      "Export": { "type": "object", "required": ["id","locales"], "properties": {"id":{"type":"string"},"locales":{"type":"array","items":{"type":"string"}},"widgetId":{"type":"string"}} }
    }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/api/v1/workflow/commit": {
      "post": { "summary": "Commit a draft to live", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"string"}}}}}}, "responses": { "200": { "description": "commit summary" }, "400": { "description": "not a draft" }, "404": { "description": "not found" } } }
    },
    "/api/v1/workflow/export": {
      "post": { "summary": "Propagate a commit to other locales", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Export"}}}}, "responses": { "200": { "description": "per-locale outcome", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Batch"}}} } } }
    },
    "/api/v1/workflow/force-export": {
      "post": { "summary": "Overwrite other locales with a document", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Export"}}}}, "responses": { "200": { "description": "per-locale outcome" } } }
    },
    "/api/v1/workflow/force-export-widget": {
      "post": { "summary": "Copy one widget to other locales", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Export"}}}}, "responses": { "200": { "description": "per-locale outcome" } } }
    },
    "/api/v1/workflow/live": {
      "get": { "summary": "Live copy of a document", "parameters": [ {"name":"guid","in":"query","required":true}, {"name":"locale","in":"query","required":true}, {"name":"resolveRelationshipsToDraft","in":"query"} ], "responses": { "200": { "description": "document" } } }
    },
    "/api/v1/workflow/submit": {
      "post": { "summary": "Submit drafts for review", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"ids":{"type":"array","items":{"type":"string"}}}}}}}, "responses": { "200": { "description": "submitted" } } }
    },
    "/api/v1/workflow/dismiss": {
      "post": { "summary": "Dismiss a submission", "responses": { "200": { "description": "dismissed" } } }
    },
    "/api/v1/workflow/diff": {
      "get": { "summary": "Pending or committed changes", "parameters": [ {"name":"id","in":"query"}, {"name":"commitId","in":"query"} ], "responses": { "200": { "description": "patch and modified fields" } } }
    },
    "/api/v1/workflow/history": {
      "get": { "summary": "Commits of a draft, newest first", "parameters": [ {"name":"id","in":"query","required":true} ], "responses": { "200": { "description": "commit summaries" } } }
    },
    "/api/v1/workflow/commits/{id}": {
      "get": { "summary": "Full commit", "parameters": [ {"name":"id","in":"path","required":true} ], "responses": { "200": { "description": "commit" }, "404": { "description": "not found" } } }
    },
    "/api/v1/workflow/related-unexported": {
      "post": { "summary": "Commits of related documents missing from the export locales", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Export"}}}}, "responses": { "200": { "description": "commit ids" } } }
    },
    "/api/v1/workflow/review": {
      "get": { "summary": "Human readable preview of a commit or draft", "parameters": [ {"name":"id","in":"query"}, {"name":"commitId","in":"query"} ], "responses": { "200": { "description": "preview text" } } }
    },
    "/api/v1/workflow/locales": {
      "get": { "summary": "Configured locales", "responses": { "200": { "description": "locale tree" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
