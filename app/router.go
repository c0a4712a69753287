package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodGet, "/api/users", app.getUsersHandler)
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/users/:userId", app.getUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/login", app.loginUserHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.getAllBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/api/blogs/:blogId", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/api/blogs/:blogId", app.updateBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:blogId", app.requireAuthUser(app.deleteBlogHandler))

	router.HandlerFunc(http.MethodGet, "/api/stats", app.blogStatsHandler)

	// comment service
	router.HandlerFunc(http.MethodGet, "/api/blogs/:blogId/comments", app.getCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs/:blogId/comments", app.requireAuthUser(app.createCommentHandler))

	return app.recoverPanic(app.logRequest(app.enableCORS(app.authenticate(router))))
}
