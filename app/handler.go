package main

import (
	"net/http"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/commentservice"
)

type registerUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input registerUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.CreateUser(r.Context(), input.Username, input.Name, input.Password)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.userService.GetUsers(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, users, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.userService.GetUserByID(r.Context(), app.readIDParam(r, "userId"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type loginUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	res, err := app.userService.LoginUser(r.Context(), input.Username, input.Password)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, res, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAllBlogsHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.blogService.GetBlogs(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, blogs, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreateBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.CreateBlog(r.Context(), user.ID, &input)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	blog, err := app.blogService.GetBlogByID(r.Context(), app.readIDParam(r, "blogId"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.UpdateBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.UpdateBlog(r.Context(), app.readIDParam(r, "blogId"), &input)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.blogService.DeleteBlog(r.Context(), user.ID, app.readIDParam(r, "blogId"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) blogStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.blogService.GetStats(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, stats, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.GetCommentsByBlog(r.Context(), app.readIDParam(r, "blogId"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, comments, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input commentservice.CreateCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.CreateComment(r.Context(), app.readIDParam(r, "blogId"), &input)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, comment, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
