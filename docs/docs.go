// Package docs holds the OpenAPI description served at /swagger/*. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}, "429": {"description": "Too Many Requests"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh access token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/forgot-password": {"post": {"tags": ["auth"], "summary": "Request a password reset link", "responses": {"200": {"description": "OK"}}}},
        "/auth/reset-password": {"post": {"tags": ["auth"], "summary": "Reset password with a reset token", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/users/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get the current user's profile", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update the current user's profile", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/users/{id}/role": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Assign a role to a user", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/articles": {
            "get": {"tags": ["articles"], "summary": "List articles", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Publish an article", "description": "The video link may be sent as video_url or videoUrl; responses use video_url.", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/articles/{id}": {
            "get": {"tags": ["articles"], "summary": "Get an article with its comments", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Update an article", "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Update an article", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Delete an article and its comments", "responses": {"200": {"description": "OK"}}}
        },
        "/articles/{articleId}/comments": {
            "get": {"tags": ["comments"], "summary": "List an article's comments, newest first", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["comments"], "summary": "Comment on an article", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}}
        },
        "/articles/{articleId}/comments/{id}": {
            "put": {"tags": ["comments"], "summary": "Edit a comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "patch": {"tags": ["comments"], "summary": "Edit a comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["comments"], "summary": "Delete a comment", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/newsletter": {"post": {"tags": ["newsletter"], "summary": "Subscribe to the newsletter", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/contact": {
            "post": {"tags": ["contact"], "summary": "Send a message to the editors", "responses": {"201": {"description": "Created"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["contact"], "summary": "List contact messages, newest first", "responses": {"200": {"description": "OK"}}}
        },
        "/contact/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["contact"], "summary": "Get a contact message", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["contact"], "summary": "Delete a contact message", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Eagle News API",
	Description:      "News and blog API with articles, comments, newsletter and contact form.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
