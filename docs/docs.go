// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g main.go
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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Component health",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthCheck"}}
                }
            }
        },
        "/health/liveness": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/readiness": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthCheck"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.HealthCheck"}}
                }
            }
        },
        "/v1/recommendations": {
            "post": {
                "description": "Runs the generation pipeline for a completed questionnaire and returns a full batch of destinations.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Generate vacation recommendations",
                "parameters": [
                    {"description": "Questionnaire answers", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/types.UserPreferences"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RecommendationsResponse"}},
                    "400": {"description": "Invalid preferences", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "429": {"description": "Too many generate requests", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "503": {"description": "Generation failed after all attempts, retry later", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/v1/geocode": {
            "post": {
                "description": "Resolves a destination to coordinates. Lookup failures return null coordinates, not an error.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Geocode a destination",
                "parameters": [
                    {"description": "Destination and country", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/types.GeocodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GeocodeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/v1/destinations/image": {
            "get": {
                "description": "Looks up a landscape photo for a record without an image. imageUrl is empty when none is available.",
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Destination image fallback",
                "parameters": [
                    {"type": "string", "description": "Search text, e.g. destination and country", "name": "query", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DestinationImageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/v1/runs/{runId}/attempts": {
            "get": {
                "description": "Returns the diagnostic attempt records of one generation run. Requires the attempt store.",
                "produces": ["application/json"],
                "tags": ["diagnostics"],
                "summary": "Generation attempt log",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "runId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.GenerationAttempt"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "message": {"type": "string"},
                "runId": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "types.Budget": {
            "type": "object",
            "properties": {
                "currency": {"type": "string"},
                "max": {"type": "number"},
                "min": {"type": "number"}
            }
        },
        "types.TripDuration": {
            "type": "object",
            "properties": {
                "days": {"type": "integer"},
                "flexibility": {"type": "string", "enum": ["exact", "flexible", "minimum"]}
            }
        },
        "types.UserPreferences": {
            "type": "object",
            "properties": {
                "budget": {"$ref": "#/definitions/types.Budget"},
                "duration": {"$ref": "#/definitions/types.TripDuration"},
                "tripType": {"type": "string", "enum": ["solo", "couple", "family", "friends", "business"]},
                "accommodationType": {"type": "string", "enum": ["hotel", "resort", "airbnb", "hostel", "camping", "luxury"]},
                "activities": {"type": "array", "items": {"type": "string"}},
                "interests": {"type": "array", "items": {"type": "string"}},
                "pace": {"type": "string", "enum": ["relaxed", "moderate", "fast-paced"]},
                "climate": {"type": "string", "enum": ["tropical", "temperate", "cold", "dry", "any"]},
                "transportation": {"type": "string", "enum": ["flight", "train", "car", "bus", "any"]},
                "dietary": {"type": "array", "items": {"type": "string"}},
                "accessibility": {"type": "array", "items": {"type": "string"}},
                "sustainability": {"type": "string", "enum": ["high", "medium", "low"]},
                "specialInstructions": {"type": "string"}
            }
        },
        "types.Coordinates": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "types.VacationRecommendation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "destination": {"type": "string"},
                "country": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/types.Coordinates"},
                "duration": {"type": "integer"},
                "estimatedCost": {"type": "object"},
                "description": {"type": "string"},
                "highlights": {"type": "array", "items": {"type": "string"}},
                "activities": {"type": "array", "items": {"type": "object"}},
                "accommodations": {"type": "array", "items": {"type": "object"}},
                "transportation": {"type": "array", "items": {"type": "object"}},
                "sustainabilityScore": {"type": "object"},
                "weather": {"type": "object"},
                "localCuisine": {"type": "array", "items": {"type": "string"}},
                "culturalTips": {"type": "array", "items": {"type": "string"}},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.RecommendationsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/types.VacationRecommendation"}},
                "runId": {"type": "string"}
            }
        },
        "types.GeocodeRequest": {
            "type": "object",
            "required": ["country", "destination"],
            "properties": {
                "country": {"type": "string"},
                "destination": {"type": "string"}
            }
        },
        "types.GeocodeResponse": {
            "type": "object",
            "properties": {
                "coordinates": {"$ref": "#/definitions/types.Coordinates"}
            }
        },
        "types.DestinationImageResponse": {
            "type": "object",
            "properties": {
                "imageUrl": {"type": "string"}
            }
        },
        "types.GenerationAttempt": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "attempt": {"type": "integer"},
                "outcome": {"type": "string"},
                "errorMessage": {"type": "string"},
                "violationCount": {"type": "integer"},
                "rawExcerpt": {"type": "string"},
                "sanitizedHead": {"type": "string"},
                "temperature": {"type": "number"},
                "latency": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "types.HealthCheck": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["UP", "DOWN", "DEGRADED"]},
                "components": {"type": "object"},
                "version": {"type": "string"},
                "timestamp": {"type": "string"},
                "uptime": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "dev",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vacation Recommender API",
	Description:      "Generates validated vacation recommendations from a travel questionnaire.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
