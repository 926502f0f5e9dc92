// Package docs holds the OpenAPI document served under /swagger. It follows
// the swag annotations on the handlers and in cmd/server; run
// `swag init -g cmd/server/main.go` after changing them.
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
        "/comparisons": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["comparisons"],
                "summary": "List comparison runs",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Purchase order number", "name": "po_document_id", "in": "query"},
                    {"enum": ["NONE", "MEDIUM", "HIGH", "CRITICAL"], "type": "string", "description": "Lowest highest-severity to include", "name": "min_severity", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.APIResponse"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/domain.ComparisonRun"}}}}
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comparisons"],
                "summary": "Reconcile a purchase order against a proforma invoice",
                "parameters": [
                    {"description": "Extracted documents and options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CompareRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.ComparisonRun"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid document or options", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/comparisons/batch": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comparisons"],
                "summary": "Reconcile several document pairs",
                "parameters": [
                    {"description": "Document pairs", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BatchCompareRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.APIResponse"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/domain.ComparisonRun"}}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid document or options", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "413": {"description": "Too many pairs", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/comparisons/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["comparisons"],
                "summary": "Get a comparison run with its full result",
                "parameters": [
                    {"type": "string", "description": "Comparison ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.ComparisonRun"}}}
                            ]
                        }
                    },
                    "404": {"description": "Comparison not found", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["comparisons"],
                "summary": "Delete a comparison run and its archived reports",
                "parameters": [
                    {"type": "string", "description": "Comparison ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "404": {"description": "Comparison not found", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/comparisons/{id}/report": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json", "text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["comparisons"],
                "summary": "Download a comparison report",
                "parameters": [
                    {"type": "string", "description": "Comparison ID", "name": "id", "in": "path", "required": true},
                    {"enum": ["json", "csv", "xlsx"], "type": "string", "default": "json", "description": "Report format", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "404": {"description": "Comparison not found", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/comparisons/{id}/archive": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["comparisons"],
                "summary": "Get a presigned download URL for an archived report",
                "parameters": [
                    {"type": "string", "description": "Comparison ID", "name": "id", "in": "path", "required": true},
                    {"enum": ["json", "csv", "xlsx"], "type": "string", "default": "json", "description": "Report format", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.APIResponse"},
                                {"type": "object", "properties": {"data": {"type": "object", "additionalProperties": {"type": "string"}}}}
                            ]
                        }
                    },
                    "404": {"description": "Comparison or archive not found", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "501": {"description": "Archive not configured", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Alert": {
            "type": "object",
            "properties": {
                "level": {"type": "string", "enum": ["CRITICAL", "ALERT", "WARNING", "RECOMMENDATION"]},
                "message": {"type": "string"},
                "rule": {"type": "string"},
                "sku": {"type": "string"}
            }
        },
        "domain.ComparisonRun": {
            "type": "object",
            "properties": {
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}},
                "archive_prefix": {"type": "string"},
                "comparison": {"$ref": "#/definitions/domain.DocumentComparison"},
                "created_at": {"type": "string"},
                "created_by": {"type": "string"},
                "discrepant_items": {"type": "integer"},
                "grand_total_difference": {"type": "number"},
                "highest_severity": {"type": "string", "enum": ["NONE", "MEDIUM", "HIGH", "CRITICAL"]},
                "id": {"type": "string"},
                "input_hash": {"type": "string"},
                "invoice_document_id": {"type": "string"},
                "key_strategy": {"type": "string"},
                "matching_items": {"type": "integer"},
                "po_document_id": {"type": "string"},
                "price_tolerance": {"type": "number"},
                "quantity_tolerance": {"type": "number"},
                "total_items_compared": {"type": "integer"}
            }
        },
        "domain.DocumentComparison": {
            "type": "object",
            "properties": {
                "discrepant_items": {"type": "integer"},
                "invoice_document_id": {"type": "string"},
                "item_level_comparison": {"type": "array", "items": {"$ref": "#/definitions/domain.ItemDiscrepancy"}},
                "key_strategy": {"type": "string"},
                "matching_items": {"type": "integer"},
                "po_document_id": {"type": "string"},
                "products_with_mismatches": {"type": "array", "items": {"$ref": "#/definitions/domain.MismatchedProduct"}},
                "summary_metrics": {"$ref": "#/definitions/domain.SummaryMetrics"},
                "summary_text": {"type": "string"},
                "total_items_compared": {"type": "integer"},
                "total_quantity_invoiced": {"type": "number"},
                "total_quantity_ordered": {"type": "number"},
                "total_value_invoiced": {"type": "number"},
                "total_value_ordered": {"type": "number"}
            }
        },
        "domain.ItemDiscrepancy": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "discount_diff": {"type": "number"},
                "discount_discrepancy": {"type": "boolean"},
                "invoice_discount_amount": {"type": "number"},
                "invoice_discount_pct": {"type": "number"},
                "invoice_line_total": {"type": "number"},
                "invoice_quantity": {"type": "number"},
                "invoice_unit_price": {"type": "number"},
                "item_no": {"type": "string"},
                "key": {"type": "string"},
                "po_discount_amount": {"type": "number"},
                "po_discount_pct": {"type": "number"},
                "po_line_total": {"type": "number"},
                "po_quantity": {"type": "number"},
                "po_unit_price": {"type": "number"},
                "price_diff": {"type": "number"},
                "price_discrepancy": {"type": "boolean"},
                "price_variance_pct": {"type": "number"},
                "quantity_diff": {"type": "number"},
                "quantity_discrepancy": {"type": "boolean"},
                "quantity_variance_pct": {"type": "number"},
                "reason": {"type": "string"},
                "severity": {"type": "string", "enum": ["NONE", "MEDIUM", "HIGH", "CRITICAL"]},
                "status": {"type": "string"},
                "total_diff": {"type": "number"},
                "total_discrepancy": {"type": "boolean"}
            }
        },
        "domain.MismatchedProduct": {
            "type": "object",
            "properties": {
                "Description": {"type": "string"},
                "Reason": {"type": "string"},
                "SKU": {"type": "string"}
            }
        },
        "domain.SummaryMetrics": {
            "type": "object",
            "properties": {
                "discounts_difference": {"type": "number"},
                "discounts_pi": {"type": "number"},
                "discounts_po": {"type": "number"},
                "grand_total_difference": {"type": "number"},
                "grand_total_pi": {"type": "number"},
                "grand_total_po": {"type": "number"},
                "subtotal_difference": {"type": "number"},
                "subtotal_pi": {"type": "number"},
                "subtotal_po": {"type": "number"},
                "tax_difference": {"type": "number"},
                "tax_pi": {"type": "number"},
                "tax_po": {"type": "number"},
                "taxable_amount_pi": {"type": "number"},
                "taxable_amount_po": {"type": "number"},
                "taxable_difference": {"type": "number"}
            }
        },
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.APIError"},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean"}
            }
        },
        "handler.BatchCompareRequest": {
            "type": "object",
            "required": ["pairs"],
            "properties": {
                "pairs": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/handler.CompareRequest"}}
            }
        },
        "handler.CompareRequest": {
            "type": "object",
            "required": ["invoice", "purchase_order"],
            "properties": {
                "invoice": {"type": "object", "description": "Extracted proforma invoice"},
                "key_strategy": {"type": "string", "enum": ["description", "sku"]},
                "purchase_order": {"type": "object", "description": "Extracted purchase order"},
                "tolerances": {"$ref": "#/definitions/reconcile.ToleranceOverrides"}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "reconcile.ToleranceOverrides": {
            "type": "object",
            "properties": {
                "price_tolerance": {"type": "number", "description": "Unit price tolerance in percent"},
                "quantity_tolerance": {"type": "number", "description": "Quantity tolerance in percent"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "docrecon API",
	Description:      "Reconciles purchase orders against proforma invoices and reports discrepancies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
