// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "List users",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "tags": ["users"],
                "summary": "Create a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.userRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.userRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "boolean"}}}
            }
        },
        "/api/appointments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "List upcoming appointments",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listAppointmentsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.validationErrorResponse"}}
                }
            }
        },
        "/api/appointments/calendar": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Calendar view",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query", "required": true},
                    {"type": "string", "name": "to", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.appointmentResponse"}}}
                }
            }
        },
        "/api/appointments/availability": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Check slot availability",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.availabilityRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.availabilityResponse"}}
                }
            }
        },
        "/api/appointments/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Get an appointment",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.appointmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Update an appointment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.appointmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.appointmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Delete an appointment",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "boolean"}}}
            }
        },
        "/api/appointments/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Appointment history",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.auditEventResponse"}}}
                }
            }
        },
        "/api/appointments/{userId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Create an appointment",
                "parameters": [
                    {"type": "string", "name": "userId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.appointmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.appointmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.validationErrorResponse": {"type": "object", "properties": {"errors": {"type": "array", "items": {"type": "string"}}}},
        "handler.loginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.loginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}},
        "handler.userRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
                "address": {"type": "string"}, "phone": {"type": "string"}, "dateOfBirth": {"type": "string"},
                "role": {"type": "string", "enum": ["USER", "ADMIN"]}, "password": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
                "address": {"type": "string"}, "phone": {"type": "string"}, "dateOfBirth": {"type": "string"},
                "role": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "handler.appointmentRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "type": {"type": "string"}, "notes": {"type": "string"},
                "startAt": {"type": "string"}, "endAt": {"type": "string"}, "userId": {"type": "string"}
            }
        },
        "handler.appointmentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "type": {"type": "string"}, "notes": {"type": "string"},
                "startAt": {"type": "string"}, "endAt": {"type": "string"}, "userId": {"type": "string"},
                "createdAt": {"type": "string"}, "updatedAt": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.userSummaryResponse"}
            }
        },
        "handler.userSummaryResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}}},
        "handler.listAppointmentsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.appointmentResponse"}},
                "hasMore": {"type": "boolean"}
            }
        },
        "handler.availabilityRequest": {"type": "object", "properties": {"startAt": {"type": "string"}, "endAt": {"type": "string"}, "excludeId": {"type": "string"}}},
        "handler.availabilityResponse": {"type": "object", "properties": {"available": {"type": "boolean"}}},
        "handler.auditEventResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "appointmentId": {"type": "string"}, "action": {"type": "string"},
                "actorId": {"type": "string"}, "actorRole": {"type": "string"},
                "startAt": {"type": "string"}, "endAt": {"type": "string"}, "occurredAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Appointment Scheduler API",
	Description:      "Users, appointments and slot availability.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
