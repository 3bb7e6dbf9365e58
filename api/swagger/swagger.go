package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CDAMS API",
        "description": "College Digital Application Management System backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Applications", "description": "Application submission and routing workflow"},
        {"name": "Departments", "description": "Department reference data"},
        {"name": "Users", "description": "User reference data"},
        {"name": "Notifications", "description": "Stored notification records"},
        {"name": "Health", "description": "Liveness and store diagnostics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/health/db": {
            "get": {
                "tags": ["Health"],
                "summary": "Store connectivity and table enumeration",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/departments": {
            "get": {
                "tags": ["Departments"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Departments"],
                "summary": "Create department",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDepartmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "department_code", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Submit application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/applications/{id}/action": {
            "post": {
                "tags": ["Applications"],
                "summary": "Apply an action",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicationActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Application not found"},
                    "503": {"description": "Storage backend unavailable"}
                }
            }
        },
        "/api/v1/applications/{id}/timeline": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get application timeline",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/applications/{id}/export": {
            "get": {
                "tags": ["Applications"],
                "summary": "Export application with timeline",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Application not found"}
                }
            }
        },
        "/api/v1/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List notifications",
                "parameters": [
                    {"name": "user_email", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Notifications"],
                "summary": "Create notification record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateNotificationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateDepartmentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "type": {"type": "string", "enum": ["academic", "administrative"]},
                "is_active": {"type": "boolean"}
            },
            "required": ["name", "code"]
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "coordinator", "hod", "registrar", "admin", "superadmin"]},
                "department_code": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["full_name", "email", "role"]
        },
        "SubmitApplicationRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "student_email": {"type": "string"},
                "department_code": {"type": "string"},
                "category": {"type": "string", "enum": ["bonafide_certificate", "leave_request", "lab_access", "project_approval", "general"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "attachments": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["student_id", "student_name", "student_email", "department_code", "title", "description"]
        },
        "ApplicationActionRequest": {
            "type": "object",
            "properties": {
                "actor_role": {"type": "string", "enum": ["student", "coordinator", "hod", "registrar", "admin", "superadmin"]},
                "actor_name": {"type": "string"},
                "action": {"type": "string", "enum": ["submit", "review", "forward", "approve", "reject", "comment"]},
                "comments": {"type": "string"},
                "to_department": {"type": "string"}
            },
            "required": ["actor_role", "actor_name", "action"]
        },
        "CreateNotificationRequest": {
            "type": "object",
            "properties": {
                "user_email": {"type": "string"},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "read": {"type": "boolean"}
            },
            "required": ["user_email", "title", "message"]
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
