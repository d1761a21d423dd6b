package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if errors.Cause(err) == user.ErrNotFound {
		usr, err = cli.usrRepo.GetUserByUsernameOrEmail(email)
	}
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		return cli.createUser(uname, email, pwd, isAdmin)
	}

	upd := user.User{
		ID:        usr.ID,
		UpdatedAt: time.Now().UTC(),
	}
	if isAdmin {
		upd.Roles = user.AllRoles
	}
	if err := upd.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	_, err = cli.usrRepo.UpdateUser(upd, &active)
	return err
}

func (cli *commandLine) createUser(uname, email, pwd string, isAdmin bool) error {
	now := time.Now().UTC()
	active := true
	usr := user.User{
		Username:  uname,
		Email:     email,
		IsActive:  &active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.usrRepo.CreateUser(usr)
	return err
}
