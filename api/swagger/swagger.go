package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admission Analytics Admin API",
        "description": "Activity log, auth, user and school-visit administration",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Logs", "description": "Activity log listing and export"},
        {"name": "Auth", "description": "Session login and password management"},
        {"name": "Users", "description": "User profile administration"},
        {"name": "Visits", "description": "School visit records"}
    ],
    "paths": {
        "/logs": {
            "get": {
                "tags": ["Logs"],
                "summary": "List activity log entries",
                "parameters": [
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "performed_by", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LogPage"}},
                    "500": {"description": "Error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/logs/meta": {
            "get": {
                "tags": ["Logs"],
                "summary": "Distinct filter values",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LogMeta"}}
                }
            }
        },
        "/logs/export": {
            "get": {
                "tags": ["Logs"],
                "summary": "Download filtered entries as csv, xlsx or pdf",
                "parameters": [
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "performed_by_email", "in": "query", "type": "string"},
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string"},
                    {"name": "all", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session cookie set"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/signout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Terminate the current session",
                "responses": {
                    "200": {"description": "Session cookie cleared"}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "summary": "Update the caller's password",
                "responses": {
                    "200": {"description": "Password updated"},
                    "401": {"description": "Wrong current password", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Fetch a user profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update a user profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete a user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/visitas/list": {
            "post": {
                "tags": ["Visits"],
                "summary": "List school visits",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/visitas/{id}": {
            "get": {
                "tags": ["Visits"],
                "summary": "Fetch one school visit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "LogPage": {
            "type": "object",
            "properties": {
                "logs": {"type": "array", "items": {"type": "object"}},
                "totalPages": {"type": "integer"},
                "currentPage": {"type": "integer"},
                "totalLogs": {"type": "integer"}
            }
        },
        "LogMeta": {
            "type": "object",
            "properties": {
                "actions": {"type": "array", "items": {"type": "string"}},
                "users": {"type": "array", "items": {"type": "object"}}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
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
