// Package docs registers the Swagger spec served under /swagger/.
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
        "/wallets/generate": {
            "post": {
                "description": "Generates a wallet from a fresh 12-word mnemonic. The record is returned, not saved.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Generate new wallet",
                "parameters": [
                    {"description": "Wallet name and description", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/recover": {
            "post": {
                "description": "Imports a wallet from a 12/24-word mnemonic, a 64-char hex private key or a base58 secret key",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Recover wallet",
                "parameters": [
                    {"description": "Secret and wallet details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RecoverRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/address": {
            "post": {
                "description": "Creates a watch-only wallet record for an address",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Add watch-only wallet",
                "parameters": [
                    {"description": "Address and wallet details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.AddressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets": {
            "get": {
                "description": "Lists saved wallets ordered by key",
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "List wallets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.StoredWallet"}}}
                }
            },
            "post": {
                "description": "Saves a record under a new creation-time key",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Save wallet",
                "parameters": [
                    {"description": "Record to save", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.WalletRecord"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.SaveWalletResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/{key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Get a saved wallet",
                "parameters": [
                    {"type": "string", "description": "Wallet key, e.g. wallet.2024-05-01-10-20-30", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["wallets"],
                "summary": "Delete a saved wallet",
                "parameters": [
                    {"type": "string", "description": "Wallet key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qr": {
            "get": {
                "description": "Returns the address as a base64-encoded PNG QR code",
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Address QR code",
                "parameters": [
                    {"type": "string", "description": "Wallet address", "name": "address", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QRResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/balance": {
            "get": {
                "description": "Gets SOL and token holdings with metadata on each network. A failing network yields an empty snapshot with errors.",
                "produces": ["application/json"],
                "tags": ["solana"],
                "summary": "Get wallet balance",
                "parameters": [
                    {"type": "string", "description": "Wallet address", "name": "address", "in": "query", "required": true},
                    {"type": "string", "description": "Cluster name or RPC URL, repeatable or comma-separated", "name": "network", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.BalanceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/transfer/sol": {
            "post": {
                "description": "Signs, submits and confirms a SOL transfer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["solana"],
                "summary": "Send SOL",
                "parameters": [
                    {"description": "Transfer data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SOLTransferRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TransferResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/transfer/token": {
            "post": {
                "description": "Signs, submits and confirms a checked token transfer, creating the recipient's associated account if needed",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["solana"],
                "summary": "Send tokens",
                "parameters": [
                    {"description": "Transfer data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.TokenTransferRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TransferResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/confirm": {
            "get": {
                "description": "Polls a signature until it reaches the commitment or the confirmation timeout elapses",
                "produces": ["application/json"],
                "tags": ["solana"],
                "summary": "Wait for confirmation",
                "parameters": [
                    {"type": "string", "description": "Transaction signature", "name": "signature", "in": "query", "required": true},
                    {"type": "string", "description": "Cluster name or RPC URL", "name": "network", "in": "query"},
                    {"type": "string", "description": "processed, confirmed or finalized", "name": "commitment", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SignatureStatus"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.AddressRequest": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "description": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.BalanceResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "currency": {"type": "string"},
                "price": {"type": "string"},
                "snapshots": {"type": "array", "items": {"$ref": "#/definitions/model.NetworkBalanceSnapshot"}}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "signature": {"type": "string"}
            }
        },
        "model.GenerateRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.NetworkBalanceSnapshot": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}},
                "lamports": {"type": "integer"},
                "network": {"type": "string"},
                "sol": {"type": "string"},
                "tokens": {"type": "array", "items": {"$ref": "#/definitions/model.TokenAccountInfo"}}
            }
        },
        "model.QRResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "qr": {"type": "string"}
            }
        },
        "model.RecoverRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "name": {"type": "string"},
                "secret": {"type": "string"}
            }
        },
        "model.SOLTransferRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "confirm_commitment": {"type": "string"},
                "from": {"type": "string"},
                "network": {"type": "string"},
                "private_key_hex": {"type": "string"},
                "secret": {"type": "string"},
                "to": {"type": "string"}
            }
        },
        "model.SaveWalletResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"}
            }
        },
        "model.SignatureStatus": {
            "type": "object",
            "properties": {
                "commitment": {"type": "string"},
                "confirmations": {"type": "integer"},
                "err": {},
                "signature": {"type": "string"},
                "slot": {"type": "integer"}
            }
        },
        "model.StoredWallet": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "record": {"$ref": "#/definitions/model.WalletRecord"}
            }
        },
        "model.TokenAccountInfo": {
            "type": "object",
            "properties": {
                "account": {"type": "string"},
                "amount": {"type": "integer"},
                "decimals": {"type": "integer"},
                "metadata_2022": {"$ref": "#/definitions/model.TokenMetadata"},
                "metadata_address": {"type": "string"},
                "metadata_metaplex": {"$ref": "#/definitions/model.TokenMetadata"},
                "mint": {"type": "string"},
                "owner": {"type": "string"},
                "program_id": {"type": "string"},
                "ui_amount": {"type": "string"}
            }
        },
        "model.TokenMetadata": {
            "type": "object",
            "properties": {
                "mint": {"type": "string"},
                "name": {"type": "string"},
                "symbol": {"type": "string"},
                "update_authority": {"type": "string"},
                "uri": {"type": "string"}
            }
        },
        "model.TokenTransferRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "confirm_commitment": {"type": "string"},
                "from": {"type": "string"},
                "mint": {"type": "string"},
                "network": {"type": "string"},
                "private_key_hex": {"type": "string"},
                "secret": {"type": "string"},
                "to": {"type": "string"}
            }
        },
        "model.TransferResult": {
            "type": "object",
            "properties": {
                "balance_after": {"type": "integer"},
                "balance_before": {"type": "integer"},
                "commitment": {"type": "string"},
                "fee": {"type": "integer"},
                "signature": {"type": "string"},
                "slot": {"type": "integer"}
            }
        },
        "model.WalletRecord": {
            "type": "object",
            "properties": {
                "address_base58": {"type": "string"},
                "created": {"type": "string"},
                "description": {"type": "string"},
                "name": {"type": "string"},
                "private_key_hex": {"type": "string"},
                "public_key_hex": {"type": "string"},
                "secret_key_base58": {"type": "string"},
                "words": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Solana Wallet API",
	Description:      "Non-custodial Solana wallet: key derivation, balances with token metadata, transfers and confirmation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
