package main

// General API documentation for swaggo. Run `swag init` to generate docs.
//
// @title           sentimentd API
// @version         1.0
// @description     HTTP API for single-model text-sentiment inference.
//
// @contact.name   sentimentd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
