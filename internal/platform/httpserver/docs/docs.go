// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/credits/balance": {
            "get": {
                "description": "Returns the current credit balance of the workspace.",
                "produces": ["application/json"],
                "tags": ["credit-ledger"],
                "summary": "Get credit balance",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/v1/credits/transactions": {
            "get": {
                "description": "Returns the workspace transaction log, newest first.",
                "produces": ["application/json"],
                "tags": ["credit-ledger"],
                "summary": "List credit transactions",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Transaction type filter", "name": "type", "in": "query"},
                    {"type": "integer", "description": "Page number, starting at 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size, max 100", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/v1/credits/packages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["credit-ledger"],
                "summary": "List credit packages",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/variations/batches": {
            "post": {
                "description": "Debits the whole batch up front, runs each strategy in order and refunds failed units.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["variations"],
                "summary": "Generate a batch of variations",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Replay key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Batch request", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "402": {"description": "Payment Required"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/v1/variations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["variations"],
                "summary": "List variations",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Only variations of this saved ad", "name": "saved_ad_id", "in": "query"},
                    {"type": "integer", "description": "Maximum results, default 50", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/variations/{variation_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["variations"],
                "summary": "Get a variation",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Variation id", "name": "variation_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "description": "Spent credits are not returned.",
                "produces": ["application/json"],
                "tags": ["variations"],
                "summary": "Delete a variation",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"type": "string", "description": "Variation id", "name": "variation_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/insights": {
            "get": {
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Look up cached insights",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "External library ids", "name": "library_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "description": "Returns the cached analysis for library ads, otherwise bills and runs a new analysis.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "Analyze a saved ad",
                "parameters": [
                    {"type": "string", "description": "Workspace id", "name": "X-Workspace-Id", "in": "header", "required": true},
                    {"description": "Ad to analyze", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "402": {"description": "Payment Required"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Voltic API",
	Description:      "Credit-metered ad variation and insight service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
