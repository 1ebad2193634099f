package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sales Dashboard API",
        "description": "Hierarchy scoped sample request and order dashboards",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Authentication",
            "description": "Passcode login and sessions"
        },
        {
            "name": "Dashboard",
            "description": "Scoped sample and order pages"
        },
        {
            "name": "Exports",
            "description": "Listing downloads"
        },
        {
            "name": "Filters",
            "description": "Hierarchy drill-down options"
        },
        {
            "name": "Cache",
            "description": "Result cache invalidation"
        },
        {
            "name": "Observability",
            "description": "Metrics"
        }
    ],
    "paths": {
        "/auth/otp": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Request a login code",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/OTPRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Unknown or inactive employee",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "429": {
                        "description": "Code recently sent",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Mail delivery failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/verify": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Verify a login code",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/VerifyOTPRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Invalid, expired or exhausted code",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Refresh access token",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RefreshTokenRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unknown, revoked or expired token",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Logout",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/session": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Current session",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/profile": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Viewer profile",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/options": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "Filter options",
                "parameters": [
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "changed",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "zm",
                            "rm",
                            "employee"
                        ]
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Dashboard summary",
                "parameters": [
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "refresh",
                        "in": "query",
                        "type": "boolean",
                        "description": "Bypass the result cache"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/samples": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Sample request page",
                "parameters": [
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": "Status label or ALL"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": "Submission id fragment"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page number"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size"
                    },
                    {
                        "name": "refresh",
                        "in": "query",
                        "type": "boolean",
                        "description": "Bypass the result cache"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/orders": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Order overview page",
                "parameters": [
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "selectedCustomer",
                        "in": "query",
                        "type": "string",
                        "description": "Customer name or ALL"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": "Status label or ALL"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": "Submission id fragment"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page number"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size"
                    },
                    {
                        "name": "refresh",
                        "in": "query",
                        "type": "boolean",
                        "description": "Bypass the result cache"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/orders/customers": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Customer-wise analysis",
                "parameters": [
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "selectedCustomer",
                        "in": "query",
                        "type": "string",
                        "description": "Customer name or ALL"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page number"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/samples/export": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export sample requests",
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "xlsx",
                            "csv",
                            "pdf"
                        ],
                        "description": "Export format, xlsx by default"
                    },
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": "Status label or ALL"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": "Submission id fragment"
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv",
                    "application/pdf"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File download",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/orders/export": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export orders",
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "xlsx",
                            "csv",
                            "pdf"
                        ],
                        "description": "Export format, xlsx by default"
                    },
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "selectedCustomer",
                        "in": "query",
                        "type": "string",
                        "description": "Customer name or ALL"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": "Status label or ALL"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": "Submission id fragment"
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv",
                    "application/pdf"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File download",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/orders/customers/export": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export customer-wise totals",
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "xlsx",
                            "csv",
                            "pdf"
                        ],
                        "description": "Export format, xlsx by default"
                    },
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    },
                    {
                        "name": "selectedZM",
                        "in": "query",
                        "type": "string",
                        "description": "Zonal manager email or ALL"
                    },
                    {
                        "name": "selectedRM",
                        "in": "query",
                        "type": "string",
                        "description": "Reporting manager email or ALL"
                    },
                    {
                        "name": "selectedEmployee",
                        "in": "query",
                        "type": "string",
                        "description": "Employee email or ALL"
                    },
                    {
                        "name": "selectedCustomer",
                        "in": "query",
                        "type": "string",
                        "description": "Customer name or ALL"
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv",
                    "application/pdf"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File download",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/cache/me": {
            "delete": {
                "tags": [
                    "Cache"
                ],
                "summary": "Clear my cached pages",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/cache": {
            "delete": {
                "tags": [
                    "Cache"
                ],
                "summary": "Clear every cached page",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Program team only",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Metrics summary",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Program team only",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "OTPRequest": {
            "type": "object",
            "required": [
                "email"
            ],
            "properties": {
                "email": {
                    "type": "string"
                }
            }
        },
        "VerifyOTPRequest": {
            "type": "object",
            "required": [
                "email",
                "code"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "required": [
                "refresh_token"
            ],
            "properties": {
                "refresh_token": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
