// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/analytics/dashboard": {
            "get": {
                "summary": "Stock, sales, insights and KPIs of the tenant",
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/tenant"},
                    {"$ref": "#/parameters/days"},
                    {"$ref": "#/parameters/velocity_mode"},
                    {"$ref": "#/parameters/line_match"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid parameter"}, "500": {"description": "Source failure"}}
            }
        },
        "/analytics/stock": {
            "get": {
                "summary": "Per-product stock metrics",
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/tenant"},
                    {"$ref": "#/parameters/days"},
                    {"$ref": "#/parameters/velocity_mode"},
                    {"$ref": "#/parameters/line_match"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["healthy", "risk", "overstock"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/sales": {
            "get": {
                "summary": "Daily sales buckets and the last day-over-day trend",
                "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/tenant"}, {"$ref": "#/parameters/days"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/insights": {
            "get": {
                "summary": "Rule-based insights",
                "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/tenant"}, {"$ref": "#/parameters/days"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/export/stock.csv": {
            "get": {
                "summary": "Stock metrics as CSV",
                "produces": ["text/csv"],
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/export/sales.csv": {
            "get": {
                "summary": "Daily sales as CSV",
                "produces": ["text/csv"],
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/report.pdf": {
            "get": {
                "summary": "Executive PDF report",
                "produces": ["application/pdf", "application/json"],
                "parameters": [
                    {"$ref": "#/parameters/tenant"},
                    {"name": "store", "in": "query", "type": "boolean", "description": "Upload to object storage and return a presigned URL"}
                ],
                "responses": {"200": {"description": "PDF"}, "201": {"description": "Stored"}, "503": {"description": "Storage disabled"}}
            }
        },
        "/analytics/cache": {
            "delete": {
                "summary": "Drop the tenant's cached dashboards",
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/jobs": {
            "get": {
                "summary": "Registered background jobs",
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/{name}/run": {
            "post": {
                "summary": "Trigger a background job outside its interval",
                "parameters": [
                    {"$ref": "#/parameters/tenant"},
                    {"name": "name", "in": "path", "required": true, "type": "string", "enum": ["tenant-analytics-refresh", "stock-alerts"]}
                ],
                "responses": {"202": {"description": "Accepted"}, "404": {"description": "Unknown job"}, "503": {"description": "Scheduler disabled"}}
            }
        },
        "/jobs/analytics-refresh": {
            "post": {
                "summary": "Recompute the tenant's dashboard now",
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/alerts": {
            "get": {
                "summary": "Preview the tenant's stock and sales alerts",
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "summary": "Publish the tenant's stock and sales alerts",
                "parameters": [{"$ref": "#/parameters/tenant"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "parameters": {
        "tenant": {"name": "X-Tenant-ID", "in": "header", "required": true, "type": "string", "format": "uuid"},
        "days": {"name": "days", "in": "query", "type": "integer", "minimum": 1, "maximum": 366},
        "velocity_mode": {"name": "velocity_mode", "in": "query", "type": "string", "enum": ["legacy", "windowed"]},
        "line_match": {"name": "line_match", "in": "query", "type": "string", "enum": ["first", "sum"]}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "StockPulse API",
	Description:      "Stock health and sales trend analytics per tenant.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
