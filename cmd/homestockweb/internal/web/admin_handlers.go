package web

import (
	"fmt"
	"net/http"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
)

type usersView struct {
	Users []sdk.User
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.callContext(r)
	defer cancel()

	users, err := stateFrom(r).client.ListUsers(ctx)
	if err != nil {
		s.showFailure(w, r, "users", "Users", err)
		return
	}
	s.render(w, r, http.StatusOK, "users", page{Title: "Users", Data: usersView{Users: users}})
}

func (s *Server) handleUserRole(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteAdminUsers.Path
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	role := sdk.Role(r.PostFormValue("role"))

	ctx, cancel := s.callContext(r)
	defer cancel()
	if err := stateFrom(r).client.SetUserRole(ctx, id, role); err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, fmt.Sprintf("User %d is now %s.", id, role))
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, sdk.RouteAdminUsers.Path, "User", stateFrom(r).client.DeleteUser)
}
