package controllers

import (
	"net/http"

	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/response"
)

type UserController struct {
	accounts *services.AccountService
}

func NewUserController(accounts *services.AccountService) *UserController {
	return &UserController{accounts: accounts}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required|min:1"`
}

// Join registers an account. The response carries the user record; the
// password is excluded by the model's json tag.
func (c *UserController) Join(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !bindJSON(w, r, &req) {
		return
	}

	user, err := c.accounts.Join(req.Email, req.Password)
	if err != nil {
		fail(w, err, "User not found")
		return
	}

	response.Created(w, user)
}

// Login verifies credentials, returning 401 on any mismatch.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !bindJSON(w, r, &req) {
		return
	}

	if _, err := c.accounts.Login(req.Email, req.Password); err != nil {
		fail(w, err, "User not found")
		return
	}

	response.Success(w, true)
}

// List returns accounts with skip/limit paging.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.accounts.List(paginate(r))
	if err != nil {
		fail(w, err, "User not found")
		return
	}
	response.Success(w, users)
}
