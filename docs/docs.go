// Package docs registers the modelcheck OpenAPI document with swag.
//
// @title           modelcheck API
// @version         1.0
// @description     HTTP API for running the model inventory smoke test.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/formats": {
            "get": {
                "description": "Returns the configured save formats and every format the provider supports.",
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List formats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FormatsResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "description": "Returns the model registry used by runs, in run order.",
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/runs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List recorded runs",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "maximum runs to return", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RunsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Runs the size and save phases once and returns the report.",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Run the harness",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RunReport"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.RunReport"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/runs/{runID}/failures": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List the failures of a recorded run",
                "parameters": [
                    {"type": "string", "description": "run id", "name": "runID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.FailureReport"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 429},
                "error": {"type": "string", "example": "run already in progress"}
            }
        },
        "types.FailureReport": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "example": "xml"},
                "key": {"type": "string", "example": "[tree_9]"},
                "kind": {"type": "string", "example": "not_found"},
                "label": {"type": "string", "example": "Tree 9"},
                "message": {"type": "string", "example": "model not found: [tree_9]"},
                "path": {"type": "string", "example": "tree_9.xml"},
                "phase": {"type": "string", "example": "save"}
            }
        },
        "types.FormatsResponse": {
            "type": "object",
            "properties": {
                "formats": {"type": "array", "items": {"type": "string"}, "example": ["xml", "json"]},
                "supported": {"type": "array", "items": {"type": "string"}, "example": ["json", "toml", "xml", "yaml"]}
            }
        },
        "types.ModelRecord": {
            "type": "object",
            "properties": {
                "file_prefix": {"type": "string", "example": "model_1"},
                "key": {"type": "string", "example": "[1]"},
                "label": {"type": "string", "example": "Model 1"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelRecord"}}
            }
        },
        "types.PreflightReport": {
            "type": "object",
            "properties": {
                "dir_exists": {"type": "boolean"},
                "error": {"type": "string"},
                "free_bytes": {"type": "integer", "example": 53687091200},
                "output_dir": {"type": "string"}
            }
        },
        "types.RunReport": {
            "type": "object",
            "properties": {
                "failures": {"type": "array", "items": {"$ref": "#/definitions/types.FailureReport"}},
                "finished_at": {"type": "string"},
                "formats": {"type": "array", "items": {"type": "string"}},
                "models": {"type": "integer", "example": 7},
                "preflight": {"$ref": "#/definitions/types.PreflightReport"},
                "run_id": {"type": "string", "example": "5f0c8a9e-7f7b-4a53-9a43-2a3f7c1d9e10"},
                "saved": {"type": "array", "items": {"$ref": "#/definitions/types.SavedFile"}},
                "sizes": {"type": "array", "items": {"$ref": "#/definitions/types.SizeReport"}},
                "started_at": {"type": "string"},
                "status": {"type": "string", "example": "success"}
            }
        },
        "types.RunSummary": {
            "type": "object",
            "properties": {
                "failures": {"type": "integer"},
                "finished_at": {"type": "string"},
                "formats": {"type": "string", "example": "xml,json"},
                "models": {"type": "integer"},
                "run_id": {"type": "string"},
                "started_at": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "types.RunsResponse": {
            "type": "object",
            "properties": {
                "runs": {"type": "array", "items": {"$ref": "#/definitions/types.RunSummary"}}
            }
        },
        "types.SavedFile": {
            "type": "object",
            "properties": {
                "bytes": {"type": "integer", "example": 812},
                "format": {"type": "string", "example": "json"},
                "key": {"type": "string", "example": "[1]"},
                "path": {"type": "string", "example": "out/model_1.json"}
            }
        },
        "types.SizeReport": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "[1]"},
                "label": {"type": "string", "example": "Model 1"},
                "size": {"type": "integer", "example": 10}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "modelcheck API",
	Description:      "HTTP API for running the model inventory smoke test.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
