package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Webcheck API
// @version 0.1
// @description Read stored check results, trigger runs and stream new results.
// @contact.name Webcheck Maintainers
// @contact.url https://github.com/raysh454/webcheck
// @BasePath /
