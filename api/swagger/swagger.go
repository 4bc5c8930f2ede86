package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Spa Booking API",
        "description": "Aggregated spa availability, treatment menu and booking bridge over the Mindbody scheduling API",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Aggregated bookable slot feed"},
        {"name": "Catalog", "description": "Priced services, session types and the grouped treatment menu"},
        {"name": "Staff", "description": "Therapist roster and working days"},
        {"name": "Booking", "description": "Confirmed booking to cart bridge"},
        {"name": "Authentication", "description": "Admin login"},
        {"name": "Diagnostics", "description": "Admin-only upstream health views"}
    ],
    "paths": {
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Aggregated availability feed",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "description": "Start date YYYY-MM-DD, defaults to today"},
                    {"name": "end_date", "in": "query", "type": "string", "description": "End date YYYY-MM-DD, defaults to the start date"},
                    {"name": "category", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "therapist", "in": "query", "type": "string"},
                    {"name": "time", "in": "query", "type": "string", "description": "Preferred time, two hour tolerance"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filters"},
                    "502": {"description": "Upstream unavailable"},
                    "503": {"description": "Upstream not configured"}
                }
            }
        },
        "/services": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List priced services",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/services/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a single service",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown service"}
                }
            }
        },
        "/session-types": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List upstream session types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/locations": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List site locations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/treatments": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Grouped treatment menu",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "therapist", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/treatments/export": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Export the treatment menu as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv or pdf"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "therapist", "in": "query", "type": "string"}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "Attachment"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List therapists",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/details": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get a therapist by name",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown therapist"}
                }
            }
        },
        "/staff/working-days": {
            "get": {
                "tags": ["Staff"],
                "summary": "Weekday availability per therapist",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/confirm": {
            "post": {
                "tags": ["Booking"],
                "summary": "Confirm a booking into the cart",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfirmBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "503": {"description": "Booking disabled"}
                }
            }
        },
        "/bookings/cart/{key}": {
            "get": {
                "tags": ["Booking"],
                "summary": "List cart items",
                "parameters": [
                    {"name": "key", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate the admin user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current admin identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/admin/diagnostics/connection": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Probe the upstream scheduling API",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/admin/diagnostics/services": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Upstream catalog summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/admin/cache/invalidate": {
            "post": {
                "tags": ["Diagnostics"],
                "summary": "Invalidate cached catalog data",
                "parameters": [
                    {"name": "pattern", "in": "query", "type": "string", "description": "Key glob, e.g. availability:*"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token"},
                    "503": {"description": "Caching disabled"}
                }
            }
        }
    },
    "definitions": {
        "ConfirmBookingRequest": {
            "type": "object",
            "required": ["service_id", "service_name", "price"],
            "properties": {
                "service_id": {"type": "string"},
                "service_name": {"type": "string"},
                "price": {"type": "number"},
                "therapist": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "cart_key": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
