package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Section Scheduler API",
        "description": "Interactive weekly schedule building for academic sections",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Section schedule views and exports"},
        {"name": "Placements", "description": "Interactive placement sessions"},
        {"name": "Slots", "description": "Direct slot mutations"},
        {"name": "Professors", "description": "Professor availability overlays"},
        {"name": "Audit", "description": "Placement audit trail"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/sections/{id}/schedule": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Load a section's interactive schedule",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Registrar backend unreachable"}
                }
            }
        },
        "/api/v1/sections/{id}/schedule/summary": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Read-only hourly summary",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sections/{id}/schedule/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download the weekly timetable as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/api/v1/sections/{id}/placements": {
            "post": {
                "tags": ["Placements"],
                "summary": "Open a placement session",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/placements/{sid}": {
            "get": {
                "tags": ["Placements"],
                "summary": "Inspect a live session",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Placements"],
                "summary": "Cancel a session",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Cancelled"}
                }
            }
        },
        "/api/v1/placements/{sid}/arm": {
            "post": {
                "tags": ["Placements"],
                "summary": "Arm a pending subject",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ArmRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid placement state"}
                }
            }
        },
        "/api/v1/placements/{sid}/target": {
            "post": {
                "tags": ["Placements"],
                "summary": "Target a grid cell with the armed subject",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TargetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid placement state"}
                }
            }
        },
        "/api/v1/placements/{sid}/drop": {
            "post": {
                "tags": ["Placements"],
                "summary": "Drop a subject straight onto a grid cell",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DropRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/placements/{sid}/confirm": {
            "post": {
                "tags": ["Placements"],
                "summary": "Confirm soft conflict warnings and commit",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/placements/{sid}/decline": {
            "post": {
                "tags": ["Placements"],
                "summary": "Decline the pending override",
                "parameters": [
                    {"name": "sid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/slots/{id}": {
            "delete": {
                "tags": ["Slots"],
                "summary": "Remove a slot",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "section", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Slot not found"}
                }
            },
            "patch": {
                "tags": ["Slots"],
                "summary": "Edit a slot's day, time, professor or room",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict"}
                }
            }
        },
        "/api/v1/professors/{id}/overlay": {
            "get": {
                "tags": ["Professors"],
                "summary": "Busy cells for a professor in a semester",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/sections/{id}/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "Recent placement attempts for a section",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ArmRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"}
            },
            "required": ["subject_id"]
        },
        "TargetRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "room": {"type": "string"}
            },
            "required": ["day", "start_time"]
        },
        "DropRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "room": {"type": "string"}
            },
            "required": ["subject_id", "day", "start_time"]
        },
        "EditRequest": {
            "type": "object",
            "properties": {
                "section_id": {"type": "string"},
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "professor_id": {"type": "string"},
                "room": {"type": "string"},
                "acknowledge": {"type": "boolean"}
            },
            "required": ["section_id"]
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
