package main

import (
	"net/http"
)

func (app *application) listBloggersHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	page, err := app.readPageParams(r)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	bloggers, md, err := app.subscriptionService.ListBloggers(r.Context(), user.ID, page)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"bloggers": bloggers, "metadata": md}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toggleSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	blogID, err := app.readIDParam(r, "blog_id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	state, err := app.subscriptionService.ToggleSubscription(r.Context(), user.ID, blogID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog_id": blogID, "state": state}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	blogIDs, err := app.subscriptionService.ListFollowedBlogs(r.Context(), user.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog_ids": blogIDs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toggleReadHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	postID, err := app.readIDParam(r, "post_id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	state, err := app.readService.ToggleRead(r.Context(), user.ID, postID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post_id": postID, "state": state}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listReadPostsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	postIDs, err := app.readService.ListReadPosts(r.Context(), user.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post_ids": postIDs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) newsFeedHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	page, err := app.readPageParams(r)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	items, md, err := app.feedService.BuildNewsFeed(r.Context(), user.ID, page)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": items, "metadata": md}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) personalBlogHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	page, err := app.readPageParams(r)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	blog, md, err := app.feedService.BuildPersonalBlog(r.Context(), user.ID, page)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog.Blog, "posts": blog.Posts, "metadata": md}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
