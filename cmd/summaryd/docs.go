package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           summaryd API
// @version         1.0
// @description     HTTP API that translates Hebrew text to English, generates a bullet summary and streams every segment live.
//
// @contact.name   summaryd maintainers
// @contact.url    https://github.com/your-org/summaryd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
