package main

// General API documentation for swaggo. Regenerate with
// `swag init -g cmd/engined/main.go`.
//
// @title           engined API
// @version         1.0
// @description     HTTP API for llama.cpp engine lifecycle and model inference.
//
// @contact.name   engined maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
