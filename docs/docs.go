// Package docs holds the OpenAPI description of the JSON API served at
// /swagger. Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/documents": {
            "get": {
                "description": "Returns every stored document, newest first",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List shipping documents",
                "operationId": "listShippingDocuments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handler.APIResponse-array_shipping_DocumentSummary"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/handler.ErrorResponse"}
                    }
                }
            },
            "post": {
                "description": "Stores a new transport document. Only document_number is required; unset fields get the form defaults.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Create a shipping document",
                "operationId": "createShippingDocument",
                "parameters": [
                    {
                        "description": "Document",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/shipping.DocumentInput"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/handler.APIResponse-shipping_DocumentResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/handler.ErrorResponse"}
                    }
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a shipping document",
                "operationId": "getShippingDocument",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Document ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handler.APIResponse-shipping_DocumentResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handler.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/handler.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "details": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/dto.ValidationDetail"}
                }
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "description": "Standard error response",
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"}
            }
        },
        "handler.APIResponse-array_shipping_DocumentSummary": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/shipping.DocumentSummary"}
                },
                "error": {"$ref": "#/definitions/dto.ErrorInfo"}
            }
        },
        "handler.APIResponse-shipping_DocumentResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/shipping.DocumentResponse"},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"}
            }
        },
        "shipping.CargoItemInput": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "quantity": {"type": "number", "minimum": 0},
                "weight": {"type": "number", "minimum": 0},
                "unit": {"type": "string"},
                "dimensions": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "shipping.DocumentInput": {
            "type": "object",
            "required": ["document_number"],
            "properties": {
                "document_number": {"type": "string"},
                "license_number": {"type": "string"},
                "status": {"type": "string"},
                "receipt_date": {"type": "string"},
                "exit_date": {"type": "string"},
                "departure_date": {"type": "string"},
                "is_negotiable": {"type": "boolean"},
                "cargo_document_number": {"type": "string"},
                "carrier_name": {"type": "string"},
                "carrier_phone": {"type": "string"},
                "carrier_notes": {"type": "string"},
                "carrier_email": {"type": "string"},
                "carrier_license": {"type": "string"},
                "driver_name": {"type": "string"},
                "driver_id_number": {"type": "string"},
                "driver_id_type": {"type": "string"},
                "driver_nationality": {"type": "string"},
                "driver_birth_date": {"type": "string"},
                "driver_phone": {"type": "string"},
                "driver_city": {"type": "string"},
                "truck_country": {"type": "string"},
                "truck_city": {"type": "string"},
                "truck_plate_number": {"type": "string"},
                "truck_plate_code": {"type": "string"},
                "truck_classification_code": {"type": "string"},
                "truck_color": {"type": "string"},
                "truck_type": {"type": "string"},
                "truck_axles": {"type": "integer", "minimum": 0},
                "truck_engine_power": {"type": "string"},
                "route_from_city": {"type": "string"},
                "route_from_country": {"type": "string"},
                "route_to_city": {"type": "string"},
                "route_to_country": {"type": "string"},
                "sender_name": {"type": "string"},
                "sender_address": {"type": "string"},
                "sender_city": {"type": "string"},
                "sender_country": {"type": "string"},
                "sender_phone": {"type": "string"},
                "sender_notes": {"type": "string"},
                "recipient_name": {"type": "string"},
                "recipient_address": {"type": "string"},
                "recipient_city": {"type": "string"},
                "recipient_country": {"type": "string"},
                "recipient_phone": {"type": "string"},
                "recipient_notes": {"type": "string"},
                "payment_by": {"type": "string"},
                "payment_method": {"type": "string"},
                "payment_instructions": {"type": "string"},
                "cargo_items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/shipping.CargoItemInput"}
                }
            }
        },
        "shipping.DocumentResponse": {
            "description": "Stored document in its flat record shape plus id, created_at and updated_at",
            "type": "object",
            "additionalProperties": true
        },
        "shipping.DocumentSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "document_number": {"type": "string"},
                "status": {"type": "string"},
                "receipt_date": {"type": "string"},
                "carrier_name": {"type": "string"},
                "driver_name": {"type": "string"},
                "route_from_city": {"type": "string"},
                "route_to_city": {"type": "string"},
                "cargo_item_count": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Shipping Documents API",
	Description:      "Transport manifest records: create, list and fetch shipping documents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
