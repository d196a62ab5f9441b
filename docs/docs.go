// Package docs holds the Swagger spec for the API. Regenerate with
// `swag init -g cmd/main.go` after changing controller annotations.
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
        "/api/assets/stream": {
            "get": {
                "description": "Server-Sent Events endpoint emitting a \"state\" event on every query transition",
                "produces": ["text/event-stream"],
                "tags": ["assets"],
                "summary": "Stream asset query states",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Only stream events for this asset id",
                        "name": "id",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "SSE stream",
                        "schema": {"type": "string"}
                    }
                }
            }
        },
        "/api/assets/{id}": {
            "get": {
                "description": "Fetch the CoinCap summary and last 30 days of history for an asset",
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Get asset detail",
                "parameters": [
                    {
                        "type": "string",
                        "description": "CoinCap asset id, e.g. bitcoin",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/view.LoadState"}
                    },
                    "202": {
                        "description": "still loading when the request ended",
                        "schema": {"$ref": "#/definitions/view.LoadState"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/controller.APIError"}
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {"$ref": "#/definitions/view.LoadState"}
                    }
                }
            }
        },
        "/api/assets/{id}/chart": {
            "get": {
                "description": "Chart points for the last 30 days, labels formatted for the request locale",
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Get asset price chart",
                "parameters": [
                    {
                        "type": "string",
                        "description": "CoinCap asset id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Locale for labels",
                        "name": "Accept-Language",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/view.Chart"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/controller.APIError"}
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {"$ref": "#/definitions/controller.APIError"}
                    },
                    "504": {
                        "description": "Gateway Timeout",
                        "schema": {"$ref": "#/definitions/controller.APIError"}
                    }
                }
            }
        },
        "/api/assets/{id}/query": {
            "delete": {
                "description": "Cancels any in-flight fetch for the asset; the next request fetches again",
                "tags": ["assets"],
                "summary": "Drop a cached asset query",
                "parameters": [
                    {
                        "type": "string",
                        "description": "CoinCap asset id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/controller.APIError"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/controller.APIError"}
                    }
                }
            }
        }
    },
    "definitions": {
        "assets.HistoryPoint": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "priceUsd": {"type": "string"},
                "time": {"type": "integer"}
            }
        },
        "assets.Summary": {
            "type": "object",
            "properties": {
                "changePercent24Hr": {"type": "string"},
                "id": {"type": "string"},
                "marketCapUsd": {"type": "string"},
                "maxSupply": {"type": "string"},
                "name": {"type": "string"},
                "priceUsd": {"type": "string"},
                "rank": {"type": "integer"},
                "supply": {"type": "string"},
                "symbol": {"type": "string"},
                "volumeUsd24Hr": {"type": "string"},
                "vwap24Hr": {"type": "string"}
            }
        },
        "controller.APIError": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "view.Chart": {
            "type": "object",
            "properties": {
                "points": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/view.ChartPoint"}
                },
                "series": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "view.ChartPoint": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "label": {"type": "string"},
                "priceUsd": {"type": "string"},
                "tooltip": {"type": "string"}
            }
        },
        "view.LoadState": {
            "type": "object",
            "properties": {
                "asset": {"$ref": "#/definitions/assets.Summary"},
                "error": {"type": "string"},
                "history": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/assets.HistoryPoint"}
                },
                "status": {
                    "type": "string",
                    "enum": ["loading", "loaded", "failed"]
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Asset Detail API",
	Description:      "CoinCap asset summary and 30 day price history",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
