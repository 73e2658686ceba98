// Package docs holds the Swagger description of the like API, in the format
// generated by swaggo/swag.
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
        "/likes": {
            "get": {
                "description": "Reports whether the logged-in user likes the cafe.",
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Like status",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Cafe ID",
                        "name": "cafe_id",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.LikeStatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/like": {
            "post": {
                "description": "Likes a cafe. Liking an already liked cafe changes nothing.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Like a cafe",
                "parameters": [
                    {
                        "description": "Cafe to like",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.LikeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.LikedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/unlike": {
            "post": {
                "description": "Removes a like. Unliking a cafe that is not liked changes nothing.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Unlike a cafe",
                "parameters": [
                    {
                        "description": "Cafe to unlike",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.LikeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.UnlikedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "server.LikeRequest": {
            "type": "object",
            "properties": {"cafe_id": {"type": "integer"}}
        },
        "server.LikeStatusResponse": {
            "type": "object",
            "properties": {"likes": {"type": "boolean"}}
        },
        "server.LikedResponse": {
            "type": "object",
            "properties": {"liked": {"type": "integer"}}
        },
        "server.UnlikedResponse": {
            "type": "object",
            "properties": {"unliked": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Cafe Directory Like API",
	Description:      "Session-authenticated endpoints behind the like star on cafe pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
