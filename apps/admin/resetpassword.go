package main

import (
	"time"

	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	upd := user.User{
		ID:        usr.ID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := upd.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(upd, nil)
	return err
}
